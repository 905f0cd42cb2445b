package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/leina-lyt/inference-dashboard/internal/insights"
	"github.com/leina-lyt/inference-dashboard/internal/metrics"
	"github.com/leina-lyt/inference-dashboard/internal/pipeline"
	anthropicpkg "github.com/leina-lyt/inference-dashboard/pkg/anthropic"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Generate a natural-language fleet health summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Anthropic.Key == "" {
			return eris.New("anthropic.key is not configured")
		}

		pipe := pipeline.New(pipeline.Options{
			BaseDir:      cfg.Data.BaseDir,
			InputSubdir:  cfg.Data.InputSubdir,
			OutputSubdir: cfg.Data.OutputSubdir,
		})

		datasets, diags := pipe.Correlate()
		snap := metrics.Collect(datasets, diags)

		summarizer := insights.New(
			anthropicpkg.NewClient(cfg.Anthropic.Key),
			cfg.Anthropic.Model,
			cfg.Anthropic.MaxTokens,
		)

		summary, err := summarizer.Summarize(cmd.Context(), snap, diags)
		if err != nil {
			return err
		}

		fmt.Println(summary)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(insightsCmd)
}
