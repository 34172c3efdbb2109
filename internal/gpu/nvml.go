//go:build cuda

package gpu

import (
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// DriverLibrary is the slice of NVML the driver probe needs. Tests swap in
// a fake so the probe runs without a GPU.
type DriverLibrary interface {
	Init() nvml.Return
	Shutdown() nvml.Return
	SystemGetDriverVersion() (string, nvml.Return)
	DeviceGetCount() (int, nvml.Return)
	DeviceGetHandleByIndex(index int) (DeviceHandle, nvml.Return)
}

// DeviceHandle exposes the per-device details recorded in a probe report.
type DeviceHandle interface {
	GetName() (string, nvml.Return)
	GetUUID() (string, nvml.Return)
	GetMemoryInfo() (nvml.Memory, nvml.Return)
}

// nvmlLibrary forwards to the process-wide NVML bindings. nvml.Device
// already satisfies DeviceHandle, so only the handle lookup needs adapting.
type nvmlLibrary struct{}

func newNVMLLibrary() DriverLibrary { return nvmlLibrary{} }

func (nvmlLibrary) Init() nvml.Return     { return nvml.Init() }
func (nvmlLibrary) Shutdown() nvml.Return { return nvml.Shutdown() }

func (nvmlLibrary) SystemGetDriverVersion() (string, nvml.Return) {
	return nvml.SystemGetDriverVersion()
}

func (nvmlLibrary) DeviceGetCount() (int, nvml.Return) {
	return nvml.DeviceGetCount()
}

// DeviceGetHandleByIndex returns nil on failure so a bad handle is never
// queried.
func (nvmlLibrary) DeviceGetHandleByIndex(index int) (DeviceHandle, nvml.Return) {
	device, ret := nvml.DeviceGetHandleByIndex(index)
	if ret != nvml.SUCCESS {
		return nil, ret
	}
	return device, ret
}
