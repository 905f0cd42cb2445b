package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leina-lyt/inference-dashboard/internal/fetch"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Mirror device logs from the FTP drop into the local base directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Fetch.Addr == "" {
			return eris.New("fetch.addr is not configured")
		}

		mirror := fetch.NewMirror(fetch.Options{
			Addr:       cfg.Fetch.Addr,
			User:       cfg.Fetch.User,
			Password:   cfg.Fetch.Password,
			RemoteRoot: cfg.Fetch.RemoteRoot,
			Timeout:    time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		})

		n, err := mirror.Run(cmd.Context(), cfg.Data.BaseDir)
		if err != nil {
			return err
		}

		zap.L().Info("fetch complete", zap.Int("downloaded", n), zap.String("base_dir", cfg.Data.BaseDir))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
