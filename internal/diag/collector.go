package diag

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"stereo3d/internal/logging"
)

// stateArtifacts are copied from the state directory when present.
var stateArtifacts = []string{"last_run.json", "gpu_report.json", "run.lock"}

// Collector gathers diagnostic artifacts
type Collector struct {
	config   *Config
	redactor *Redactor
	logger   *logging.Logger
	hostname string
}

// NewCollector creates a new diagnostic collector
func NewCollector(config *Config, logger *logging.Logger) *Collector {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return &Collector{
		config:   config,
		redactor: NewRedactor(hostname),
		logger:   logger,
		hostname: hostname,
	}
}

// CollectState gathers the run and probe reports from the state directory
func (c *Collector) CollectState() (map[string][]byte, error) {
	files := make(map[string][]byte)
	var firstErr error

	for _, name := range stateArtifacts {
		path := filepath.Join(c.config.StateDir, name)
		content, err := os.ReadFile(path) // #nosec G304 -- fixed names inside the state dir
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) && firstErr == nil {
				firstErr = fmt.Errorf("failed to read %s: %w", path, err)
			}
			continue
		}
		files["state/"+name] = []byte(c.redactor.Redact(string(content)))
	}

	c.logger.Info("diag.collect.state.complete", "State collection complete", map[string]interface{}{
		"file_count": len(files),
	})
	return files, firstErr
}

// CollectLogs gathers the configured log file
func (c *Collector) CollectLogs() (map[string][]byte, error) {
	files := make(map[string][]byte)
	if c.config.LogFile == "" {
		return files, nil
	}

	content, err := os.ReadFile(c.config.LogFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("diag.collect.logs.missing", "Log file not found", map[string]interface{}{
				"path": c.config.LogFile,
			})
			return files, nil
		}
		return files, fmt.Errorf("failed to read log file: %w", err)
	}

	files["logs/"+filepath.Base(c.config.LogFile)] = []byte(c.redactor.Redact(string(content)))
	return files, nil
}

// CollectConfig gathers the effective configuration and the raw system config
func (c *Collector) CollectConfig() (map[string][]byte, error) {
	files := make(map[string][]byte)

	if len(c.config.EffectiveConfig) > 0 {
		files["config/effective.yaml"] = []byte(c.redactor.Redact(string(c.config.EffectiveConfig)))
	}

	if c.config.SystemConfigPath == "" {
		return files, nil
	}
	content, err := os.ReadFile(c.config.SystemConfigPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return files, nil
		}
		return files, fmt.Errorf("failed to read system config: %w", err)
	}
	files["config/system.yaml"] = []byte(c.redactor.Redact(string(content)))
	return files, nil
}

// CollectSystemInfo gathers platform and version information
func (c *Collector) CollectSystemInfo() (map[string][]byte, error) {
	files := make(map[string][]byte)

	sysInfo := map[string]interface{}{
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
		"host":             "[HOST]",
		"os":               runtime.GOOS,
		"arch":             runtime.GOARCH,
		"stereo3d_version": c.config.Version,
	}

	sysInfoJSON, err := json.MarshalIndent(sysInfo, "", "  ")
	if err != nil {
		return files, fmt.Errorf("failed to marshal system info: %w", err)
	}
	files["system_info.json"] = sysInfoJSON
	return files, nil
}

// CalculateSHA256 computes SHA256 hash of data
func CalculateSHA256(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
