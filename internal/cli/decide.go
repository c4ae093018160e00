package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fieldsense/internal/cascade"
)

// DecideCmd runs the irrigation decision cascade over a snapshot.
func DecideCmd() *cobra.Command {
	var snapshotPath string
	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Run the deterministic irrigation decision cascade",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(snapshotPath)
			if err != nil {
				return err
			}

			engine := cascade.NewEngine(nil, nil)
			result := engine.Decide(snap.DecisionInput())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Decision:   %s (confidence %.2f)\n", result.Recommendation, result.Confidence)
			fmt.Fprintf(out, "Reasoning:  %s\n", result.Reasoning)
			if result.RecommendedDurationMinutes > 0 {
				fmt.Fprintf(out, "Duration:   %d minutes at %d%% flow\n",
					result.RecommendedDurationMinutes, result.RecommendedFlowRatePercent)
			}

			assessment := result.ResolutionAssessment
			fmt.Fprintf(out, "Data:       confidence %.2f, safe for actuation: %t\n",
				assessment.OverallConfidence, assessment.IsSafeForActuation)
			if len(assessment.DataQualityIssues) > 0 {
				fmt.Fprintf(out, "Issues:     %s\n", strings.Join(assessment.DataQualityIssues, "; "))
			}

			fmt.Fprintln(out, "Rules:")
			for _, eval := range result.RuleEvaluations {
				marker := " "
				if eval.Triggered {
					marker = "*"
				}
				fmt.Fprintf(out, "  %s %s\n", marker, eval.Rule)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Path to the field snapshot file")
	return cmd
}
