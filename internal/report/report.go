// Package report persists and renders the result of a pipeline run.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stereo3d/internal/fsutil"
	"stereo3d/internal/logging"
	"stereo3d/internal/pipeline"
)

// FileName is the report written into the state directory after each run.
const FileName = "last_run.json"

// Path returns the report location inside stateDir.
func Path(stateDir string) string {
	return filepath.Join(stateDir, FileName)
}

// Save writes the result as indented JSON, replacing any previous report.
func Save(logger *logging.Logger, result pipeline.Result, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}
	if err := fsutil.EnsureDirectory(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := fsutil.AtomicWriteFile(path, data, fsutil.DefaultFilePermissions, logger); err != nil {
		return fmt.Errorf("failed to write run report: %w", err)
	}

	logger.Info("report.saved", "Run report saved", map[string]interface{}{
		"filepath": path,
		"outcome":  string(result.Outcome),
	})
	return nil
}

// Load reads a report written by Save.
func Load(path string) (pipeline.Result, error) {
	var result pipeline.Result
	data, err := os.ReadFile(path) // #nosec G304 -- path is the configured state dir
	if err != nil {
		return result, fmt.Errorf("failed to read run report: %w", err)
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("failed to parse run report %s: %w", path, err)
	}
	return result, nil
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00d7ff"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#5fd75f"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f")).Bold(true)
	skipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")).PaddingLeft(4)
	outcomeStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
)

// stages lists the states shown in the summary, in pipeline order.
var stages = []pipeline.State{
	pipeline.StateProbing,
	pipeline.StateGated,
	pipeline.StateFixingUp,
	pipeline.StateExtracting,
	pipeline.StatePatching,
	pipeline.StateInstalling,
	pipeline.StateConfiguring,
	pipeline.StateEnabling,
}

// Render formats a short per-stage summary for the terminal.
func Render(result pipeline.Result) string {
	var b strings.Builder

	title := "3D Vision setup"
	if result.DryRun {
		title += " (dry run)"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	skipped := make(map[pipeline.State]bool, len(result.Skipped))
	for _, s := range result.Skipped {
		skipped[s] = true
	}

	for _, s := range stages {
		var line string
		switch {
		case result.FailedStage == s.String():
			line = failStyle.Render("✗ " + s.String())
		case s == pipeline.StateGated && result.Outcome == pipeline.OutcomeIneligible:
			line = failStyle.Render("✗ " + s.String() + " (" + result.Eligibility.String() + ")")
		case skipped[s]:
			line = skipStyle.Render("- " + s.String() + " (skipped)")
		case result.Reached(s):
			line = okStyle.Render("✓ " + s.String())
		default:
			line = skipStyle.Render("  " + s.String())
		}
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")

		if s == pipeline.StateProbing && result.Probe.RawVersion != "" {
			b.WriteString(detailStyle.Render("driver " + result.Probe.RawVersion))
			b.WriteString("\n")
		}
		if s == pipeline.StatePatching && result.FileVersion != "" && result.Reached(s) {
			b.WriteString(detailStyle.Render("component version " + result.FileVersion))
			b.WriteString("\n")
		}
	}

	b.WriteString(outcomeStyle.Render(result.String()))
	b.WriteString("\n")
	return b.String()
}
