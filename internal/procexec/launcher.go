package procexec

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"stereo3d/internal/logging"
)

// outputTailBytes bounds how much tool output is kept for diagnostics.
const outputTailBytes = 2048

// Launcher starts an external executable and blocks until it exits.
// A non-nil error means the process could not be run at all; otherwise the
// exit code is returned as reported by the process.
type Launcher interface {
	Launch(path string, args ...string) (int, error)
}

// ExitError reports a tool that ran but exited non-zero.
type ExitError struct {
	Tool   string
	Code   int
	Output string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", filepath.Base(e.Tool), e.Code)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

// ExecLauncher runs tools with os/exec.
type ExecLauncher struct {
	logger *logging.Logger
	// Dir is the working directory for launched tools; empty means inherit.
	Dir string
	// lastOutput holds the tail of the most recent tool's combined output.
	lastOutput string
}

// NewExecLauncher creates a launcher that runs real processes.
func NewExecLauncher(dir string, logger *logging.Logger) *ExecLauncher {
	return &ExecLauncher{logger: logger, Dir: dir}
}

// Launch runs path with args and waits for it. No timeout is applied.
func (l *ExecLauncher) Launch(path string, args ...string) (int, error) {
	l.logger.Info("procexec.launch", "Launching external tool", map[string]interface{}{
		"tool": path,
		"args": args,
	})

	// #nosec G204 -- tool paths come from the resolved run layout, not user input at runtime.
	cmd := exec.Command(path, args...)
	cmd.Dir = l.Dir
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	l.lastOutput = tail(output.String())

	if err == nil {
		l.logger.Info("procexec.exit", "External tool finished", map[string]interface{}{
			"tool":      path,
			"exit_code": 0,
		})
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		l.logger.Warn("procexec.exit", "External tool exited non-zero", map[string]interface{}{
			"tool":      path,
			"exit_code": code,
			"output":    l.lastOutput,
		})
		return code, nil
	}

	l.logger.Error("procexec.start_failed", "Failed to run external tool", map[string]interface{}{
		"tool":  path,
		"error": err.Error(),
	})
	return -1, fmt.Errorf("failed to run %s: %w", path, err)
}

// LastOutput returns the output tail of the most recent launch.
func (l *ExecLauncher) LastOutput() string {
	return l.lastOutput
}

// DryRunLauncher logs what would be launched and reports success.
type DryRunLauncher struct {
	logger *logging.Logger
	// Calls records every command line in launch order.
	Calls [][]string
}

// NewDryRunLauncher creates a launcher that never starts processes.
func NewDryRunLauncher(logger *logging.Logger) *DryRunLauncher {
	return &DryRunLauncher{logger: logger}
}

// Launch records the call and returns exit code 0.
func (d *DryRunLauncher) Launch(path string, args ...string) (int, error) {
	d.Calls = append(d.Calls, append([]string{path}, args...))
	d.logger.Info("procexec.dry_run", "Dry run: not launching external tool", map[string]interface{}{
		"command": CommandLine(path, args...),
	})
	return 0, nil
}

// Run launches a tool and converts a non-zero exit into *ExitError.
func Run(l Launcher, path string, args ...string) error {
	code, err := l.Launch(path, args...)
	if err != nil {
		return err
	}
	if code != 0 {
		exitErr := &ExitError{Tool: path, Code: code}
		if out, ok := l.(interface{ LastOutput() string }); ok {
			exitErr.Output = out.LastOutput()
		}
		return exitErr
	}
	return nil
}

// CommandLine renders a command for logs, quoting arguments with spaces.
func CommandLine(path string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	for _, p := range append([]string{path}, args...) {
		if strings.ContainsAny(p, " \t") {
			p = `"` + p + `"`
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > outputTailBytes {
		return s[len(s)-outputTailBytes:]
	}
	return s
}
