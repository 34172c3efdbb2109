package setup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stereo3d/internal/logging"
)

type recordingLauncher struct {
	code  int
	err   error
	calls [][]string
}

func (r *recordingLauncher) Launch(path string, args ...string) (int, error) {
	r.calls = append(r.calls, append([]string{path}, args...))
	return r.code, r.err
}

func TestInstaller_UsesSilentFlag(t *testing.T) {
	launcher := &recordingLauncher{}

	code, err := NewInstaller(launcher, `C:\work\NVidia3DVision\setup.exe`, logging.NewLogger(logging.LevelError)).Install()

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, [][]string{{`C:\work\NVidia3DVision\setup.exe`, "/s"}}, launcher.calls)
}

func TestInstaller_ReturnsExitCode(t *testing.T) {
	code, err := NewInstaller(&recordingLauncher{code: 1603}, "setup.exe", logging.NewLogger(logging.LevelError)).Install()

	require.NoError(t, err)
	assert.Equal(t, 1603, code)
}

func TestEnabler_UsesEnableArg(t *testing.T) {
	launcher := &recordingLauncher{}

	code, err := NewEnabler(launcher, "toggle.exe", logging.NewLogger(logging.LevelError)).Enable()

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, [][]string{{"toggle.exe", "enable"}}, launcher.calls)
}

func TestEnabler_LaunchFailure(t *testing.T) {
	_, err := NewEnabler(&recordingLauncher{code: -1, err: errors.New("missing")}, "toggle.exe", logging.NewLogger(logging.LevelError)).Enable()

	assert.Error(t, err)
}
