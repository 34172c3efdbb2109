package configdir

import (
	"os"
	"path/filepath"
)

const appDirName = "stereo3d"

// ProgramData returns the machine-wide application data root (C:\ProgramData on Win10).
func ProgramData() string {
	if env := os.Getenv("ProgramData"); env != "" {
		return env
	}
	return `C:\ProgramData`
}

// ConfigDir resolves the configuration directory respecting overrides
func ConfigDir() string {
	if env := os.Getenv("STEREO3D_CONFIG_DIR"); env != "" {
		if abs, err := filepath.Abs(env); err == nil {
			return abs
		}
	}
	return filepath.Join(ProgramData(), appDirName)
}
