package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leina-lyt/inference-dashboard/internal/export"
	"github.com/leina-lyt/inference-dashboard/internal/pipeline"
)

var (
	exportOut    string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export correlated datasets to XLSX or a point shapefile",
	RunE: func(cmd *cobra.Command, args []string) error {
		pipe := pipeline.New(pipeline.Options{
			BaseDir:      cfg.Data.BaseDir,
			InputSubdir:  cfg.Data.InputSubdir,
			OutputSubdir: cfg.Data.OutputSubdir,
		})

		datasets, diags := pipe.Correlate()
		for _, d := range diags {
			zap.L().Warn("pipeline diagnostic", zap.String("diagnostic", d.String()))
		}

		switch exportFormat {
		case "xlsx":
			return export.WriteXLSX(exportOut, datasets)
		case "shp":
			return export.WriteShapefile(exportOut, datasets)
		default:
			return eris.Errorf("unknown export format %q (want xlsx or shp)", exportFormat)
		}
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "dashboard.xlsx", "output file path")
	exportCmd.Flags().StringVar(&exportFormat, "format", "xlsx", "output format: xlsx or shp")
	rootCmd.AddCommand(exportCmd)
}
