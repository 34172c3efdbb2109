package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	workDir    string
	logLevel   string
	dryRun     bool
	noReport   bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "stereo3d",
		Short:         "Install and configure 3D Vision for the running NVIDIA driver",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, flags)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to configuration file")
	cmd.PersistentFlags().StringVar(&flags.workDir, "work-dir", "", "Root of the installer bundle (default: current directory)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, "Preview the run without launching tools or writing files")
	cmd.PersistentFlags().BoolVar(&flags.noReport, "no-report", false, "Do not write the run report")

	cmd.AddCommand(newInstallCmd(flags))
	cmd.AddCommand(newProbeCmd(flags))
	cmd.AddCommand(newConfigCmd(flags))
	cmd.AddCommand(newStatusCmd(flags))
	cmd.AddCommand(newDiagCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
