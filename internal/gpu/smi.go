package gpu

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"stereo3d/internal/driver"
	"stereo3d/internal/logging"
)

const nvidiaSMI = "nvidia-smi"

// SourceSMI marks results obtained from nvidia-smi.
const SourceSMI = "nvidia-smi"

var defaultSMIPaths = []string{
	`C:\Windows\System32\nvidia-smi.exe`,
	`C:\Program Files\NVIDIA Corporation\NVSMI\nvidia-smi.exe`,
}

// SMIProber queries the driver through the nvidia-smi CLI.
type SMIProber struct {
	logger *logging.Logger
	paths  []string
	output func(name string, args ...string) ([]byte, error)
}

// NewSMIProber creates a prober using the installed nvidia-smi.
func NewSMIProber(logger *logging.Logger) *SMIProber {
	return &SMIProber{
		logger: logger,
		paths:  defaultSMIPaths,
		output: func(name string, args ...string) ([]byte, error) {
			// #nosec G204 -- fixed binary and arguments
			return exec.Command(name, args...).Output()
		},
	}
}

// Probe runs nvidia-smi and parses the first device's driver version.
func (p *SMIProber) Probe() ProbeResult {
	p.logger.Info("gpu.probe.start", "Querying driver through nvidia-smi", nil)

	result := ProbeResult{Source: SourceSMI, GPUs: make([]GPUInfo, 0)}

	out, err := p.output(p.binary(), "--query-gpu=driver_version,name", "--format=csv,noheader")
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("nvidia-smi query failed: %v", err)
		p.logger.Warn("gpu.probe.absent", "No NVIDIA driver reachable", map[string]interface{}{
			"error": result.ErrorMessage,
		})
		return result
	}

	for i, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		raw, name, ok := strings.Cut(strings.TrimSpace(line), ",")
		if !ok {
			continue
		}
		raw = strings.TrimSpace(raw)
		version, err := driver.ParseVersion(raw)
		if err != nil {
			p.logger.Warn("gpu.probe.parse_failed", "Unparseable driver version", map[string]interface{}{
				"line":  line,
				"error": err.Error(),
			})
			continue
		}
		if !result.Present {
			result.Present = true
			result.Version = version
			result.RawVersion = raw
		}
		result.GPUs = append(result.GPUs, GPUInfo{Index: i, Name: strings.TrimSpace(name)})
	}

	if !result.Present {
		result.ErrorMessage = "nvidia-smi reported no usable device"
		p.logger.Warn("gpu.probe.absent", "No NVIDIA device reported", nil)
		return result
	}

	p.logger.Info("gpu.probe.done", "NVIDIA driver detected", map[string]interface{}{
		"driver_version": result.RawVersion,
		"gpu_count":      len(result.GPUs),
	})
	return result
}

func (p *SMIProber) binary() string {
	for _, path := range p.paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return nvidiaSMI
}
