// Package metrics aggregates correlated datasets into the summary figures the
// dashboard charts and health endpoint consume.
package metrics

import (
	"sort"
	"time"

	"github.com/leina-lyt/inference-dashboard/internal/model"
)

// CountrySummary holds chart-ready aggregates for one country's dataset.
type CountrySummary struct {
	Country             string    `json:"country"`
	Records             int       `json:"records"`
	AvgInferenceSeconds float64   `json:"avg_inference_seconds"`
	MinInferenceSeconds float64   `json:"min_inference_seconds"`
	MaxInferenceSeconds float64   `json:"max_inference_seconds"`
	TotalInputMB        float64   `json:"total_input_mb"`
	TotalOutputMB       float64   `json:"total_output_mb"`
	MissingArtifacts    int       `json:"missing_artifacts"`
	FirstTimestamp      time.Time `json:"first_timestamp"`
	LastTimestamp       time.Time `json:"last_timestamp"`
}

// Snapshot is a point-in-time view over every country dataset plus the
// diagnostics raised while building them.
type Snapshot struct {
	Countries   []CountrySummary `json:"countries"`
	TotalRows   int              `json:"total_rows"`
	Warnings    int              `json:"warnings"`
	Infos       int              `json:"infos"`
	CollectedAt time.Time        `json:"collected_at"`
}

// Collect aggregates datasets and diagnostics into a snapshot. Country
// summaries are sorted by name so output is stable regardless of map order.
func Collect(datasets map[string]*model.Dataset, diags []model.Diagnostic) *Snapshot {
	snap := &Snapshot{CollectedAt: time.Now().UTC()}

	for _, d := range diags {
		switch d.Severity {
		case model.SeverityWarning:
			snap.Warnings++
		case model.SeverityInfo:
			snap.Infos++
		}
	}

	names := make([]string, 0, len(datasets))
	for name := range datasets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		summary := summarize(name, datasets[name])
		snap.Countries = append(snap.Countries, summary)
		snap.TotalRows += summary.Records
	}

	return snap
}

func summarize(name string, ds *model.Dataset) CountrySummary {
	s := CountrySummary{Country: name, Records: len(ds.Rows)}
	if len(ds.Rows) == 0 {
		return s
	}

	var total float64
	s.MinInferenceSeconds = ds.Rows[0].InferenceTimeSeconds
	s.FirstTimestamp = ds.Rows[0].Timestamp
	s.LastTimestamp = ds.Rows[0].Timestamp

	for _, row := range ds.Rows {
		total += row.InferenceTimeSeconds
		if row.InferenceTimeSeconds < s.MinInferenceSeconds {
			s.MinInferenceSeconds = row.InferenceTimeSeconds
		}
		if row.InferenceTimeSeconds > s.MaxInferenceSeconds {
			s.MaxInferenceSeconds = row.InferenceTimeSeconds
		}
		if row.Timestamp.Before(s.FirstTimestamp) {
			s.FirstTimestamp = row.Timestamp
		}
		if row.Timestamp.After(s.LastTimestamp) {
			s.LastTimestamp = row.Timestamp
		}
		if row.InputFileSize != nil {
			s.TotalInputMB += *row.InputFileSize
		} else {
			s.MissingArtifacts++
		}
		if row.OutputFileSize != nil {
			s.TotalOutputMB += *row.OutputFileSize
		} else {
			s.MissingArtifacts++
		}
	}

	s.AvgInferenceSeconds = total / float64(len(ds.Rows))
	return s
}
