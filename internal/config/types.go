package config

import "stereo3d/internal/stereoreg"

// Config represents the complete stereo3d configuration
type Config struct {
	// WorkDir is the root relative paths resolve against; empty means the process cwd.
	WorkDir  string         `yaml:"work_dir"`
	StateDir string         `yaml:"state_dir"`
	Paths    PathsConfig    `yaml:"paths"`
	Extract  ExtractConfig  `yaml:"extract"`
	Registry RegistryConfig `yaml:"registry"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PathsConfig locates the inputs and tools of a run
type PathsConfig struct {
	SupportFile    string   `yaml:"support_file" validate:"required"`
	SupportDestDir string   `yaml:"support_dest_dir" validate:"required"`
	Archive        string   `yaml:"archive" validate:"required"`
	ExtractDir     string   `yaml:"extract_dir" validate:"required"`
	Extractor      string   `yaml:"extractor" validate:"required"`
	ResourceEditor string   `yaml:"resource_editor" validate:"required"`
	Installer      string   `yaml:"installer" validate:"required"`
	Enabler        string   `yaml:"enabler" validate:"required"`
	PatchFiles     []string `yaml:"patch_files" validate:"min=1,dive,required"`
}

// ExtractConfig controls the archive extraction stage
type ExtractConfig struct {
	// Skip uses an already extracted driver tree.
	Skip bool `yaml:"skip"`
}

// RegistryConfig locates the stereo namespace and extra preference overrides
type RegistryConfig struct {
	Hive      string            `yaml:"hive" validate:"oneof=HKLM HKCU"`
	Path      string            `yaml:"path" validate:"required"`
	Overrides []stereoreg.Entry `yaml:"overrides,omitempty" validate:"dive"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
	File   string `yaml:"file,omitempty"`
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return e.Path + ": " + e.Message
}
