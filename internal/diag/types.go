package diag

import (
	"path/filepath"
	"time"
)

// Manifest represents the diagnostic package manifest
type Manifest struct {
	Timestamp string         `json:"timestamp"`
	Host      string         `json:"host"`
	Version   string         `json:"stereo3d_version"`
	Files     []ManifestFile `json:"files"`
}

// ManifestFile represents a file in the diagnostic package
type ManifestFile struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	SHA256    string `json:"sha256"`
}

// Config configures diagnostic collection
type Config struct {
	// StateDir holds the run report, probe report and run lock.
	StateDir string
	// LogFile is the configured log file, empty when logging to stderr.
	LogFile string
	// EffectiveConfig is the merged configuration rendered as YAML.
	EffectiveConfig  []byte
	SystemConfigPath string
	OutputPath       string
	Version          string
}

// NewConfig creates a diagnostic config writing into the current directory
func NewConfig(version, stateDir string) *Config {
	return &Config{
		StateDir:   stateDir,
		OutputPath: generateOutputPath(time.Now()),
		Version:    version,
	}
}

func generateOutputPath(now time.Time) string {
	return filepath.Clean("stereo3d-diag-" + now.UTC().Format("20060102-150405") + ".zip")
}
