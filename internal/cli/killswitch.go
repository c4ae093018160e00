package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	ctrlexec "fieldsense/internal/control"
)

// KillSwitchCmd sends an emergency stop to registered equipment.
func KillSwitchCmd() *cobra.Command {
	var (
		snapshotPath string
		equipmentID  string
	)
	cmd := &cobra.Command{
		Use:   "killswitch",
		Short: "Emergency stop, bypassing validation and command serialization",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(snapshotPath)
			if err != nil {
				return err
			}

			equipment, ok := snap.EquipmentByID(equipmentID)
			if !ok {
				return fmt.Errorf("equipment not found in snapshot: %s", equipmentID)
			}

			executor := ctrlexec.NewExecutor(ctrlexec.Config{})
			resp, err := executor.EmergencyKillSwitch(cmd.Context(), equipment)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Path to the field snapshot file")
	cmd.Flags().StringVar(&equipmentID, "equipment", "", "Equipment ID from the snapshot registry")
	return cmd
}
