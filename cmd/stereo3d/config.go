package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stereo3d/internal/config"
)

func newConfigCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer a.close()

			data, err := a.cfg.Marshal()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# system config: %s\n", config.SystemConfigPath())
			fmt.Fprintf(out, "# work dir: %s\n", a.paths.WorkDir)
			_, err = out.Write(data)
			return err
		},
	}
}
