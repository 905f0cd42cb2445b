package metrics

import (
	"fmt"

	"github.com/leina-lyt/inference-dashboard/internal/config"
)

// Health is the checker's verdict over a snapshot.
type Health struct {
	Status   string   `json:"status"` // "ok" or "degraded"
	Problems []string `json:"problems,omitempty"`
}

// Evaluate applies the configured thresholds to a snapshot. A fleet with no
// datasets at all is degraded, since the dashboard has nothing to show.
func Evaluate(snap *Snapshot, cfg config.MonitorConfig) Health {
	var problems []string

	if len(snap.Countries) == 0 {
		problems = append(problems, "no country datasets available")
	}

	if cfg.MaxWarningDiagnostics > 0 && snap.Warnings > cfg.MaxWarningDiagnostics {
		problems = append(problems, fmt.Sprintf("%d warning diagnostics (threshold %d)", snap.Warnings, cfg.MaxWarningDiagnostics))
	}

	if cfg.MaxAvgInferenceSeconds > 0 {
		for _, c := range snap.Countries {
			if c.AvgInferenceSeconds > cfg.MaxAvgInferenceSeconds {
				problems = append(problems, fmt.Sprintf("%s: avg inference %.3fs exceeds %.3fs", c.Country, c.AvgInferenceSeconds, cfg.MaxAvgInferenceSeconds))
			}
		}
	}

	if len(problems) > 0 {
		return Health{Status: "degraded", Problems: problems}
	}
	return Health{Status: "ok"}
}
