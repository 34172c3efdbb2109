package gpu

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stereo3d/internal/driver"
	"stereo3d/internal/logging"
)

func newTestSMIProber(out string, err error) *SMIProber {
	p := NewSMIProber(logging.NewLogger(logging.LevelError))
	p.paths = nil
	p.output = func(string, ...string) ([]byte, error) {
		return []byte(out), err
	}
	return p
}

func TestSMIProber_Present(t *testing.T) {
	p := newTestSMIProber("525.31, NVIDIA GeForce RTX 3080\n525.31, NVIDIA GeForce GTX 1080\n", nil)

	result := p.Probe()

	require.True(t, result.Present)
	assert.Equal(t, driver.Version(52531), result.Version)
	assert.Equal(t, "525.31", result.RawVersion)
	assert.Equal(t, SourceSMI, result.Source)
	require.Len(t, result.GPUs, 2)
	assert.Equal(t, "NVIDIA GeForce RTX 3080", result.GPUs[0].Name)
	assert.Empty(t, result.ErrorMessage)
}

func TestSMIProber_CommandFailureIsAbsence(t *testing.T) {
	p := newTestSMIProber("", errors.New("executable file not found"))

	result := p.Probe()

	assert.False(t, result.Present)
	assert.Contains(t, result.ErrorMessage, "not found")
}

func TestSMIProber_GarbageIsAbsence(t *testing.T) {
	p := newTestSMIProber("No devices were found\n", nil)

	result := p.Probe()

	assert.False(t, result.Present)
	assert.Empty(t, result.GPUs)
}

func TestSMIProber_BinaryFallsBackToPath(t *testing.T) {
	p := newTestSMIProber("", nil)
	p.paths = []string{filepath.Join(t.TempDir(), "missing.exe")}

	assert.Equal(t, nvidiaSMI, p.binary())
}

func TestSaveReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.json")
	result := ProbeResult{Present: true, Version: 52531, RawVersion: "525.31", Source: SourceSMI}

	require.NoError(t, SaveReport(logging.NewLogger(logging.LevelError), result, path))
	assert.FileExists(t, path)
}

func TestSaveReport_CreatesStateDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh", "state", "gpu_report.json")
	result := ProbeResult{Present: true, Version: 52531, RawVersion: "525.31", Source: SourceSMI}

	require.NoError(t, SaveReport(logging.NewLogger(logging.LevelError), result, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"driver_version": "525.31"`)
}
