package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"fieldsense/internal/domainengine"
	"fieldsense/internal/hardening"
	"fieldsense/internal/safetygate"
	"fieldsense/internal/scenario"
	"fieldsense/pkg/clock"
	"fieldsense/pkg/domain/recommendation"
)

// RecommendCmd runs the domain engines over a snapshot.
func RecommendCmd() *cobra.Command {
	var (
		snapshotPath string
		domainName   string
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Generate recommendations for all domains, or one with --domain",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(snapshotPath)
			if err != nil {
				return err
			}

			registry := domainengine.NewRegistry(coreServices(), nil)
			input := domainengine.Input{
				FieldID:         snap.Field.ID,
				Metrics:         snap.MetricSet(),
				Soil:            snap.SoilProfile(),
				ActiveEquipment: snap.EquipmentList(),
			}

			out := cmd.OutOrStdout()
			if domainName != "" {
				rec, err := registry.Generate(recommendation.Domain(strings.ToUpper(domainName)), input)
				if err != nil {
					return err
				}
				printRecommendation(out, rec)
				return nil
			}

			results := registry.GenerateAll(input)
			for _, d := range recommendation.AllDomains() {
				rec, ok := results[d]
				if !ok {
					fmt.Fprintf(out, "%-12s (unavailable)\n\n", d)
					continue
				}
				printRecommendation(out, rec)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Path to the field snapshot file")
	cmd.Flags().StringVar(&domainName, "domain", "", "Single domain to evaluate (e.g. IRRIGATION)")
	return cmd
}

func coreServices() domainengine.Services {
	clk := clock.NewReal()
	return domainengine.Services{
		Assembler: domainengine.NewAssembler(clk, nil),
		Hardening: hardening.NewEngine(nil),
		Safety:    safetygate.NewEngine(nil),
		Scenario:  scenario.NewEngine(nil),
	}
}

func printRecommendation(w io.Writer, rec *recommendation.Recommendation) {
	fmt.Fprintf(w, "%-12s %s  [%s/%s]  confidence %.2f\n",
		rec.Domain, rec.Base, rec.UrgencyLevel, rec.DisplayColor, rec.Confidence)

	if len(rec.ContextFlags) > 0 {
		flags := make([]string, len(rec.ContextFlags))
		for i, f := range rec.ContextFlags {
			flags[i] = string(f)
		}
		fmt.Fprintf(w, "  flags:      %s\n", strings.Join(flags, ", "))
	}
	if rec.RequiresHumanConfirmation {
		fmt.Fprintln(w, "  CONFIRMATION REQUIRED before acting")
	}
	for _, crossed := range rec.Explainability.ThresholdsCrossed {
		fmt.Fprintf(w, "  crossed:    %s\n", crossed)
	}
	for _, approaching := range rec.Explainability.ThresholdsApproaching {
		fmt.Fprintf(w, "  near:       %s\n", approaching)
	}
	if len(rec.KPIs) > 0 {
		names := make([]string, 0, len(rec.KPIs))
		for name := range rec.KPIs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "  kpi:        %s = %g\n", name, rec.KPIs[name])
		}
	}
	if rec.PredictedNext != nil {
		fmt.Fprintf(w, "  next:       %s\n", *rec.PredictedNext)
	}
	fmt.Fprintf(w, "  valid until %s\n\n", rec.ValidUntil.Format("2006-01-02 15:04 MST"))
}
