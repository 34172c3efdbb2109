package gpu

import "stereo3d/internal/driver"

// GPUInfo represents information about a single GPU
type GPUInfo struct {
	Name     string `json:"name"`
	UUID     string `json:"uuid,omitempty"`
	MemoryMB uint64 `json:"memory_mb,omitempty"`
	Index    int    `json:"index"`
}

// ProbeResult is what the capability probe reports. Absence of a device is a
// normal outcome (Present=false), never an error.
type ProbeResult struct {
	Present      bool           `json:"present"`
	Version      driver.Version `json:"driver_version_packed"`
	RawVersion   string         `json:"driver_version"`
	Source       string         `json:"source"`
	GPUs         []GPUInfo      `json:"gpus"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

// Prober queries GPU presence and the running driver version.
type Prober interface {
	Probe() ProbeResult
}
