//go:build !cuda

package gpu

import "stereo3d/internal/logging"

// NewProber returns the nvidia-smi prober when built without NVML support.
func NewProber(logger *logging.Logger) Prober {
	logger.Debug("gpu.nvml.disabled", "NVML disabled (built without cuda tag), using nvidia-smi", nil)
	return NewSMIProber(logger)
}
