package config

import (
	"fmt"
	"os"
	"path/filepath"

	"stereo3d/internal/fsutil"
)

// FilePaths is the absolute layout of one run, resolved before any stage runs.
type FilePaths struct {
	WorkDir        string   `json:"work_dir"`
	StateDir       string   `json:"state_dir"`
	SupportFile    string   `json:"support_file"`
	SupportDestDir string   `json:"support_dest_dir"`
	Archive        string   `json:"archive"`
	ExtractDir     string   `json:"extract_dir"`
	Extractor      string   `json:"extractor"`
	ResourceEditor string   `json:"resource_editor"`
	Installer      string   `json:"installer"`
	Enabler        string   `json:"enabler"`
	PatchFiles     []string `json:"patch_files"`
}

// Resolve anchors every relative path at the working directory root.
func (c Config) Resolve() (FilePaths, error) {
	root := c.WorkDir
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return FilePaths{}, fmt.Errorf("resolve working directory: %w", err)
		}
		root = cwd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return FilePaths{}, fmt.Errorf("resolve working directory: %w", err)
	}

	abs := func(p string) string {
		if filepath.IsAbs(p) || isWindowsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(root, p)
	}

	stateDir := c.StateDir
	if stateDir == "" {
		stateDir = fsutil.GetStateDir(fsutil.DefaultStateDir())
	}

	paths := FilePaths{
		WorkDir:        root,
		StateDir:       abs(stateDir),
		SupportFile:    abs(c.Paths.SupportFile),
		SupportDestDir: abs(c.Paths.SupportDestDir),
		Archive:        abs(c.Paths.Archive),
		ExtractDir:     abs(c.Paths.ExtractDir),
		Extractor:      abs(c.Paths.Extractor),
		ResourceEditor: abs(c.Paths.ResourceEditor),
		Installer:      abs(c.Paths.Installer),
		Enabler:        abs(c.Paths.Enabler),
		PatchFiles:     make([]string, 0, len(c.Paths.PatchFiles)),
	}
	for _, f := range c.Paths.PatchFiles {
		paths.PatchFiles = append(paths.PatchFiles, abs(f))
	}
	return paths, nil
}

// isWindowsAbs recognises drive-letter paths ("C:\...") on any build so that
// configs written for the target machine resolve the same way in tests.
func isWindowsAbs(p string) bool {
	return len(p) >= 3 && p[1] == ':' && (p[2] == '\\' || p[2] == '/') &&
		((p[0] >= 'A' && p[0] <= 'Z') || (p[0] >= 'a' && p[0] <= 'z'))
}
