// Package diag bundles reports, logs and configuration into a ZIP file that
// can be attached to a support request.
package diag

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"stereo3d/internal/fsutil"
	"stereo3d/internal/logging"
)

// Packager creates diagnostic ZIP packages
type Packager struct {
	config    *Config
	collector *Collector
	logger    *logging.Logger
}

// NewPackager creates a new diagnostic packager
func NewPackager(config *Config, logger *logging.Logger) *Packager {
	return &Packager{
		config:    config,
		collector: NewCollector(config, logger),
		logger:    logger,
	}
}

// CreatePackage collects every artifact and writes the ZIP. A collector
// that fails contributes what it could read; the package is still written.
func (p *Packager) CreatePackage() (string, error) {
	p.logger.Info("diag.package.start", "Creating diagnostic package", map[string]interface{}{
		"output": p.config.OutputPath,
	})

	collectors := []struct {
		name    string
		collect func() (map[string][]byte, error)
	}{
		{"state", p.collector.CollectState},
		{"logs", p.collector.CollectLogs},
		{"config", p.collector.CollectConfig},
		{"sysinfo", p.collector.CollectSystemInfo},
	}

	allFiles := make(map[string][]byte)
	for _, c := range collectors {
		files, err := c.collect()
		if err != nil {
			p.logger.Error("diag.package.collect_error", "Failed to collect artifacts", map[string]interface{}{
				"collector": c.name,
				"error":     err.Error(),
			})
		}
		for path, content := range files {
			allFiles[path] = content
		}
	}

	manifestJSON, err := json.MarshalIndent(p.createManifest(allFiles), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}
	allFiles["diag_manifest.json"] = manifestJSON

	if err := p.createZIP(allFiles); err != nil {
		return "", fmt.Errorf("failed to create ZIP: %w", err)
	}

	p.logger.Info("diag.package.complete", "Diagnostic package created", map[string]interface{}{
		"output":     p.config.OutputPath,
		"file_count": len(allFiles),
	})
	return p.config.OutputPath, nil
}

func (p *Packager) createManifest(files map[string][]byte) Manifest {
	manifest := Manifest{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Host:      "[HOST]",
		Version:   p.config.Version,
		Files:     make([]ManifestFile, 0, len(files)),
	}
	for _, path := range sortedKeys(files) {
		manifest.Files = append(manifest.Files, ManifestFile{
			Path:      path,
			SizeBytes: int64(len(files[path])),
			SHA256:    CalculateSHA256(files[path]),
		})
	}
	return manifest
}

func (p *Packager) createZIP(files map[string][]byte) error {
	zipFile, err := os.Create(p.config.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer fsutil.CloseWithError(zipFile.Close, p.logger, p.config.OutputPath)

	zipWriter := zip.NewWriter(zipFile)
	for _, path := range sortedKeys(files) {
		w, err := zipWriter.Create(path)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", path, err)
		}
		if _, err := w.Write(files[path]); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return zipWriter.Close()
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
