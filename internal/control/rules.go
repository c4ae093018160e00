package control

import (
	"fmt"

	"fieldsense/pkg/domain/control"
)

// ValidationRules returns the pre-execution validation chain. Rules are
// always evaluated in full so every violation is reported together.
func ValidationRules() []control.ValidationRule {
	return []control.ValidationRule{
		{
			Name:        "equipment_operational",
			Description: "Equipment must be in operational status",
			Validate: func(req control.Request) control.RuleResult {
				if req.Equipment.Status != control.StatusOperational {
					return control.RuleResult{
						Reason: fmt.Sprintf("Equipment status: %s", req.Equipment.Status),
					}
				}
				return control.RuleResult{Valid: true}
			},
		},
		{
			Name:        "valid_duration",
			Description: "Duration must be between 1 and 480 minutes",
			Validate: func(req control.Request) control.RuleResult {
				if req.DurationMinutes != nil && (*req.DurationMinutes < 1 || *req.DurationMinutes > 480) {
					return control.RuleResult{
						Reason: fmt.Sprintf("Invalid duration: %d minutes", *req.DurationMinutes),
					}
				}
				return control.RuleResult{Valid: true}
			},
		},
		{
			Name:        "valid_flow_rate",
			Description: "Flow rate must be between 0 and 100 percent",
			Validate: func(req control.Request) control.RuleResult {
				if req.TargetValue != nil && (*req.TargetValue < 0 || *req.TargetValue > 100) {
					return control.RuleResult{
						Reason: fmt.Sprintf("Invalid flow rate: %g%%", *req.TargetValue),
					}
				}
				return control.RuleResult{Valid: true}
			},
		},
		{
			Name:        "no_unattended_start",
			Description: "START in ACTUAL mode requires manual confirmation",
			Validate: func(req control.Request) control.RuleResult {
				if req.Mode == control.Actual && req.Command == control.Start {
					return control.RuleResult{
						Reason: "Manual confirmation required for actual irrigation start",
					}
				}
				return control.RuleResult{Valid: true}
			},
		},
	}
}

// Violations evaluates every rule against the request and collects the
// failure reasons in rule order.
func Violations(req control.Request) []string {
	var out []string
	for _, rule := range ValidationRules() {
		if result := rule.Validate(req); !result.Valid && result.Reason != "" {
			out = append(out, result.Reason)
		}
	}
	return out
}
