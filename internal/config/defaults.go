package config

import (
	"path/filepath"

	"stereo3d/internal/configdir"
	"stereo3d/internal/stereoreg"
)

// DefaultConfig returns the layout of the distributed installer bundle
func DefaultConfig() Config {
	extractDir := "NVidia3DVision"
	return Config{
		Paths: PathsConfig{
			SupportFile:    "Resource.dat",
			SupportDestDir: filepath.Join(configdir.ProgramData(), "NVIDIA"),
			Archive:        filepath.Join("NVidia", "3DVision.exe"),
			ExtractDir:     extractDir,
			Extractor:      filepath.Join("Tools", "7za.exe"),
			ResourceEditor: filepath.Join("Tools", "rcedit.exe"),
			Installer:      filepath.Join(extractDir, "setup.exe"),
			Enabler:        filepath.Join("Tools", "nv3dtoggle.exe"),
			PatchFiles: []string{
				filepath.Join(extractDir, "nvstres.dll"),
				filepath.Join(extractDir, "nvstlink.exe"),
			},
		},
		Registry: RegistryConfig{
			Hive: string(stereoreg.HiveLocalMachine),
			Path: stereoreg.DefaultPath,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
