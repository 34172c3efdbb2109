// Package extract unpacks the 3D Vision driver package with 7-Zip so its
// files can be patched individually.
package extract

import (
	"fmt"

	"stereo3d/internal/logging"
	"stereo3d/internal/procexec"
)

// Extractor drives the external 7-Zip command line tool.
type Extractor struct {
	launcher procexec.Launcher
	tool     string
	logger   *logging.Logger
}

// New creates an Extractor using the 7za binary at tool.
func New(launcher procexec.Launcher, tool string, logger *logging.Logger) *Extractor {
	return &Extractor{launcher: launcher, tool: tool, logger: logger}
}

// Args builds the 7-Zip argument list: x <archive> -o<dest> -y
func Args(archive, destDir string) []string {
	return []string{"x", archive, "-o" + destDir, "-y"}
}

// Extract unpacks archive into destDir, overwriting existing files.
func (e *Extractor) Extract(archive, destDir string) error {
	e.logger.Info("extract.start", "Extracting driver package", map[string]interface{}{
		"archive": archive,
		"dest":    destDir,
	})

	if err := procexec.Run(e.launcher, e.tool, Args(archive, destDir)...); err != nil {
		return fmt.Errorf("extract %s: %w", archive, err)
	}

	e.logger.Info("extract.done", "Driver package extracted", map[string]interface{}{
		"dest": destDir,
	})
	return nil
}
