// Package patcher rewrites the version resources of the 3D Vision component
// files so the vendor installer accepts them for the running driver.
package patcher

import (
	"fmt"
	"strings"

	"stereo3d/internal/driver"
	"stereo3d/internal/logging"
	"stereo3d/internal/procexec"
)

const (
	flagProductVersion = "--set-product-version"
	flagFileVersion    = "--set-file-version"
)

// FileFailure records one file the resource editor could not patch.
type FileFailure struct {
	File string
	Err  error
}

// PatchError lists every file that failed. File is the first failure.
type PatchError struct {
	File     string
	Failures []FileFailure
}

func (e *PatchError) Error() string {
	if len(e.Failures) == 1 {
		return fmt.Sprintf("patch %s: %v", e.File, e.Failures[0].Err)
	}
	files := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		files = append(files, f.File)
	}
	return fmt.Sprintf("patch failed for %d files (%s): %v", len(e.Failures), strings.Join(files, ", "), e.Failures[0].Err)
}

// Unwrap exposes the first failure's cause.
func (e *PatchError) Unwrap() error {
	if len(e.Failures) == 0 {
		return nil
	}
	return e.Failures[0].Err
}

// Patcher drives the external resource editor.
type Patcher struct {
	launcher procexec.Launcher
	editor   string
	logger   *logging.Logger
}

// New creates a Patcher using the resource editor binary at editor.
func New(launcher procexec.Launcher, editor string, logger *logging.Logger) *Patcher {
	return &Patcher{launcher: launcher, editor: editor, logger: logger}
}

// Args builds the resource editor arguments for one file.
func Args(file, version string) []string {
	return []string{file, flagProductVersion, version, flagFileVersion, version}
}

// Patch stamps the file version derived from v onto every file. All files are
// attempted; any failure fails the whole patch.
func (p *Patcher) Patch(files []string, v driver.Version) error {
	version, err := v.FileVersion()
	if err != nil {
		return err
	}

	p.logger.Info("patch.start", "Patching component versions", map[string]interface{}{
		"version": version,
		"files":   len(files),
	})

	var failures []FileFailure
	for _, file := range files {
		if err := procexec.Run(p.launcher, p.editor, Args(file, version)...); err != nil {
			p.logger.Error("patch.file.failed", "Failed to patch file", map[string]interface{}{
				"file":  file,
				"error": err.Error(),
			})
			failures = append(failures, FileFailure{File: file, Err: err})
			continue
		}
		p.logger.Info("patch.file.done", "File patched", map[string]interface{}{
			"file":    file,
			"version": version,
		})
	}

	if len(failures) > 0 {
		return &PatchError{File: failures[0].File, Failures: failures}
	}
	return nil
}
