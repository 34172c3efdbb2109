//go:build cuda

package gpu

import (
	"fmt"

	"github.com/NVIDIA/go-nvml/pkg/nvml"

	"stereo3d/internal/driver"
	"stereo3d/internal/logging"
)

// SourceNVML marks results obtained through NVML.
const SourceNVML = "nvml"

// NVMLProber queries the driver through NVML.
type NVMLProber struct {
	lib    DriverLibrary
	logger *logging.Logger
}

// NewProber returns the NVML-backed prober.
func NewProber(logger *logging.Logger) Prober {
	return NewNVMLProber(newNVMLLibrary(), logger)
}

// NewNVMLProber creates a prober with a caller supplied NVML library
func NewNVMLProber(lib DriverLibrary, logger *logging.Logger) *NVMLProber {
	return &NVMLProber{
		lib:    lib,
		logger: logger,
	}
}

// Probe initializes NVML and reports the driver version. Every NVML failure
// is folded into Present=false.
func (p *NVMLProber) Probe() ProbeResult {
	p.logger.Info("gpu.probe.start", "Querying driver through NVML", nil)

	result := ProbeResult{Source: SourceNVML, GPUs: make([]GPUInfo, 0)}

	ret := p.lib.Init()
	if ret != nvml.SUCCESS {
		result.ErrorMessage = fmt.Sprintf("Failed to initialize NVML: %v", nvml.ErrorString(ret))
		p.logger.Warn("gpu.nvml.init.failed", "NVML initialization failed", map[string]interface{}{
			"error": result.ErrorMessage,
		})
		return result
	}
	defer p.lib.Shutdown()

	raw, ret := p.lib.SystemGetDriverVersion()
	if ret != nvml.SUCCESS {
		result.ErrorMessage = fmt.Sprintf("Failed to get driver version: %v", nvml.ErrorString(ret))
		p.logger.Warn("gpu.driver.version.failed", "Failed to get driver version", map[string]interface{}{
			"error": result.ErrorMessage,
		})
		return result
	}
	version, err := driver.ParseVersion(raw)
	if err != nil {
		result.ErrorMessage = err.Error()
		p.logger.Warn("gpu.driver.version.invalid", "Unparseable driver version", map[string]interface{}{
			"raw":   raw,
			"error": err.Error(),
		})
		return result
	}

	count, ret := p.lib.DeviceGetCount()
	if ret != nvml.SUCCESS {
		result.ErrorMessage = fmt.Sprintf("Failed to get device count: %v", nvml.ErrorString(ret))
		p.logger.Warn("gpu.device.count.failed", "Failed to get GPU count", map[string]interface{}{
			"error": result.ErrorMessage,
		})
		return result
	}

	for i := 0; i < count; i++ {
		device, ret := p.lib.DeviceGetHandleByIndex(i)
		if ret != nvml.SUCCESS {
			p.logger.Warn("gpu.device.handle.failed", "Failed to get device handle", map[string]interface{}{
				"index": i,
				"error": nvml.ErrorString(ret),
			})
			continue
		}

		info := GPUInfo{Index: i}
		if name, ret := device.GetName(); ret == nvml.SUCCESS {
			info.Name = name
		}
		if uuid, ret := device.GetUUID(); ret == nvml.SUCCESS {
			info.UUID = uuid
		}
		if mem, ret := device.GetMemoryInfo(); ret == nvml.SUCCESS {
			info.MemoryMB = mem.Total / (1024 * 1024)
		}
		result.GPUs = append(result.GPUs, info)
	}

	if len(result.GPUs) == 0 {
		result.ErrorMessage = "NVML reported no devices"
		p.logger.Warn("gpu.probe.absent", "No NVIDIA device reported", nil)
		return result
	}

	result.Present = true
	result.Version = version
	result.RawVersion = raw
	p.logger.Info("gpu.probe.done", "NVIDIA driver detected", map[string]interface{}{
		"driver_version": raw,
		"gpu_count":      len(result.GPUs),
	})
	return result
}
