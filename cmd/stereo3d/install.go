package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stereo3d/internal/pipeline"
	"stereo3d/internal/report"
)

func newInstallCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Run the full installation pipeline (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, flags)
		},
	}
}

func runInstall(cmd *cobra.Command, flags *rootFlags) error {
	a, err := loadApp(flags)
	if err != nil {
		return err
	}
	defer a.close()

	orch, err := a.orchestrator(flags.dryRun)
	if err != nil {
		return err
	}
	result := orch.Run()

	fmt.Fprint(cmd.OutOrStdout(), report.Render(result))

	if result.Failure != nil && result.Failure.Kind == pipeline.KindLocked {
		// The holder writes its own report.
		return result.Failure
	}

	// Dry runs and ineligible machines are left untouched, report included.
	if !flags.noReport && !flags.dryRun && result.Outcome != pipeline.OutcomeIneligible {
		if err := report.Save(a.logger, result, report.Path(a.paths.StateDir)); err != nil {
			a.logger.Warn("report.save.failed", "Could not save run report", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	if code := result.ExitCode(); code != 0 {
		return &exitError{code: code}
	}
	return nil
}
