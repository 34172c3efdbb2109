package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stereo3d/internal/report"
)

func newStatusCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the report of the last run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer a.close()

			result, err := report.Load(report.Path(a.paths.StateDir))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, report.Render(result))
			fmt.Fprintf(out, "Run %s finished %s\n", result.RunID, result.FinishedAt.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}
}
