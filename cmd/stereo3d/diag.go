package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stereo3d/internal/config"
	"stereo3d/internal/diag"
)

func newDiagCmd(flags *rootFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "diag",
		Short: "Bundle reports, logs and configuration into a ZIP for support",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer a.close()

			effective, err := a.cfg.Marshal()
			if err != nil {
				return err
			}

			dc := diag.NewConfig(version, a.paths.StateDir)
			dc.LogFile = a.cfg.Logging.File
			dc.EffectiveConfig = effective
			dc.SystemConfigPath = config.SystemConfigPath()
			if output != "" {
				dc.OutputPath = output
			}

			path, err := diag.NewPackager(dc, a.logger).CreatePackage()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Diagnostic package written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output ZIP path (default: stereo3d-diag-<timestamp>.zip)")
	return cmd
}
