// Package cli implements the fieldsense-cli command tree.
//
// Every command reads a field snapshot file (see internal/config) and
// runs one slice of the decision core over it: recommend for the domain
// engines, decide for the irrigation cascade, control and killswitch
// for the execution layer.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"fieldsense/internal/config"
)

// Execute runs the root command.
func Execute() error {
	return NewRoot().Execute()
}

// NewRoot builds the command tree.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "fieldsense-cli",
		Short:         "Farm decision support over a field snapshot",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		RecommendCmd(),
		DecideCmd(),
		ControlCmd(),
		KillSwitchCmd(),
	)
	return root
}

func loadSnapshot(path string) (*config.Snapshot, error) {
	if path == "" {
		return nil, fmt.Errorf("--snapshot is required")
	}
	return config.Load(path)
}
