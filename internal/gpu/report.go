package gpu

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"stereo3d/internal/fsutil"
	"stereo3d/internal/logging"
)

// SaveReport persists a probe result as JSON.
func SaveReport(logger *logging.Logger, result ProbeResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal probe report: %w", err)
	}

	if err := fsutil.EnsureDirectory(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := fsutil.AtomicWriteFile(path, data, fsutil.DefaultFilePermissions, logger); err != nil {
		return fmt.Errorf("failed to write probe report: %w", err)
	}

	logger.Info("gpu.report.saved", "GPU probe report saved", map[string]interface{}{
		"filepath": path,
	})
	return nil
}
