package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	ctrlexec "fieldsense/internal/control"
	"fieldsense/pkg/domain/control"
)

// ControlCmd executes one control command against registered equipment.
func ControlCmd() *cobra.Command {
	var (
		snapshotPath string
		equipmentID  string
		commandName  string
		modeName     string
		duration     int
		target       float64
	)
	cmd := &cobra.Command{
		Use:   "control",
		Short: "Execute a control command (DRY_RUN by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(snapshotPath)
			if err != nil {
				return err
			}

			equipment, ok := snap.EquipmentByID(equipmentID)
			if !ok {
				return fmt.Errorf("equipment not found in snapshot: %s", equipmentID)
			}

			command := control.Command(strings.ToUpper(commandName))
			if err := command.Validate(); err != nil {
				return err
			}
			mode := control.ExecutionMode(strings.ToUpper(modeName))
			if err := mode.Validate(); err != nil {
				return err
			}

			req := control.Request{
				Equipment: equipment,
				Command:   command,
				Mode:      mode,
			}
			if cmd.Flags().Changed("duration") {
				req.DurationMinutes = &duration
			}
			if cmd.Flags().Changed("target") {
				req.TargetValue = &target
			}

			executor := ctrlexec.NewExecutor(ctrlexec.Config{
				CommandTimeout: snap.CommandTimeout(),
			})
			resp, err := executor.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Command:    %s\n", resp.CommandID)
			fmt.Fprintf(out, "Protocol:   %s\n", resp.Protocol)
			fmt.Fprintf(out, "Mode:       %s\n", mode)
			fmt.Fprintf(out, "Result:     %s\n", resp.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Path to the field snapshot file")
	cmd.Flags().StringVar(&equipmentID, "equipment", "", "Equipment ID from the snapshot registry")
	cmd.Flags().StringVar(&commandName, "command", "", "Control command (START, STOP, ADJUST_SPEED, SET_DURATION)")
	cmd.Flags().StringVar(&modeName, "mode", string(control.DryRun), "Execution mode (DRY_RUN, SIMULATION, ACTUAL)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in minutes")
	cmd.Flags().Float64Var(&target, "target", 0, "Target value (flow-rate percent for ADJUST_SPEED)")
	return cmd
}
