// Package insights turns a metrics snapshot into an operator-readable fleet
// health narrative via Claude.
package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leina-lyt/inference-dashboard/internal/metrics"
	"github.com/leina-lyt/inference-dashboard/internal/model"
	"github.com/leina-lyt/inference-dashboard/pkg/anthropic"
)

const systemPrompt = "You are an SRE assistant for a fleet of edge inference devices. " +
	"Given per-country inference metrics and pipeline diagnostics, write a short plain-text health summary: " +
	"overall state first, then notable anomalies (slow countries, missing artifacts, skipped countries), " +
	"then suggested follow-ups. Be concrete and brief."

// Summarizer produces natural-language summaries of pipeline snapshots.
type Summarizer struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// New creates a Summarizer.
func New(client anthropic.Client, model string, maxTokens int64) *Summarizer {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Summarizer{client: client, model: model, maxTokens: maxTokens}
}

// Summarize asks the model for a health narrative over the snapshot and its
// diagnostics.
func (s *Summarizer) Summarize(ctx context.Context, snap *metrics.Snapshot, diags []model.Diagnostic) (string, error) {
	resp, err := s.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		System:    systemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: BuildPrompt(snap, diags)},
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "insights: summarize")
	}

	zap.L().Debug("insights generated",
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
	)

	return resp.Text, nil
}

// BuildPrompt renders the snapshot and diagnostics as the plain-text table
// the model receives.
func BuildPrompt(snap *metrics.Snapshot, diags []model.Diagnostic) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Fleet snapshot at %s: %d countries, %d correlated rows.\n\n",
		snap.CollectedAt.Format("2006-01-02 15:04:05 MST"), len(snap.Countries), snap.TotalRows)

	b.WriteString("Per-country metrics:\n")
	for _, c := range snap.Countries {
		fmt.Fprintf(&b, "- %s: %d records, inference avg %.3fs (min %.3fs, max %.3fs), input %.3f MB, output %.3f MB, %d missing artifacts\n",
			c.Country, c.Records, c.AvgInferenceSeconds, c.MinInferenceSeconds, c.MaxInferenceSeconds,
			c.TotalInputMB, c.TotalOutputMB, c.MissingArtifacts)
	}

	if len(diags) == 0 {
		b.WriteString("\nNo diagnostics were raised.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "\nDiagnostics (%d):\n", len(diags))
	for _, d := range diags {
		fmt.Fprintf(&b, "- %s\n", d.String())
	}

	return b.String()
}
