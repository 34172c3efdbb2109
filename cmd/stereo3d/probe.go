package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"stereo3d/internal/driver"
	"stereo3d/internal/gpu"
	"stereo3d/internal/pipeline"
)

func newProbeCmd(flags *rootFlags) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Query the NVIDIA driver and report eligibility",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer a.close()

			result := newProber(a.logger).Probe()
			eligibility := driver.CheckEligibility(result.Present, result.Version)

			out := cmd.OutOrStdout()
			if !result.Present {
				fmt.Fprintf(out, "❌ NVIDIA driver: not detected\n")
				if result.ErrorMessage != "" {
					fmt.Fprintf(out, "   Error: %s\n", result.ErrorMessage)
				}
			} else {
				fmt.Fprintf(out, "✓ NVIDIA driver: %s (via %s)\n", result.RawVersion, result.Source)
				for _, g := range result.GPUs {
					fmt.Fprintf(out, "  GPU %d: %s\n", g.Index, g.Name)
				}
				if fv, err := result.Version.FileVersion(); err == nil {
					fmt.Fprintf(out, "  Component version: %s\n", fv)
				}
			}
			fmt.Fprintf(out, "Eligibility: %s (supported above %s)\n", eligibility, driver.SupportedFloor)

			if save && !flags.dryRun {
				path := filepath.Join(a.paths.StateDir, gpuReportFile)
				if err := gpu.SaveReport(a.logger, result, path); err != nil {
					return err
				}
				fmt.Fprintf(out, "Report saved to %s\n", path)
			}

			if eligibility != driver.Eligible {
				return &exitError{code: pipeline.ExitIneligible}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Write the probe result to the state directory")
	return cmd
}

const gpuReportFile = "gpu_report.json"
