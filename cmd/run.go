package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leina-lyt/inference-dashboard/internal/country"
	"github.com/leina-lyt/inference-dashboard/internal/metrics"
	"github.com/leina-lyt/inference-dashboard/internal/pipeline"
)

var runSave bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the correlation pipeline once and print a summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pipe := pipeline.New(pipeline.Options{
			BaseDir:      cfg.Data.BaseDir,
			InputSubdir:  cfg.Data.InputSubdir,
			OutputSubdir: cfg.Data.OutputSubdir,
		})

		datasets, diags := pipe.Correlate()
		snap := metrics.Collect(datasets, diags)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "COUNTRY\tRECORDS\tAVG INF (s)\tINPUT (MB)\tOUTPUT (MB)\tMISSING")
		for _, c := range snap.Countries {
			fmt.Fprintf(w, "%s\t%d\t%.3f\t%.3f\t%.3f\t%d\n",
				country.DisplayName(c.Country), c.Records, c.AvgInferenceSeconds,
				c.TotalInputMB, c.TotalOutputMB, c.MissingArtifacts)
		}
		if err := w.Flush(); err != nil {
			return eris.Wrap(err, "flush summary")
		}

		if len(diags) > 0 {
			fmt.Printf("\n%d diagnostics:\n", len(diags))
			for _, d := range diags {
				fmt.Printf("  %s\n", d)
			}
		}

		if !runSave {
			return nil
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		rec, err := st.SaveSnapshot(ctx, snap, diags)
		if err != nil {
			return eris.Wrap(err, "save snapshot")
		}
		zap.L().Info("snapshot saved", zap.String("id", rec.ID), zap.Int("rows", rec.RowCount))
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runSave, "save", false, "persist the run snapshot to the store")
	rootCmd.AddCommand(runCmd)
}
