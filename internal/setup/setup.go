// Package setup runs the vendor 3D Vision installer and feature toggle.
package setup

import (
	"stereo3d/internal/logging"
	"stereo3d/internal/procexec"
)

const (
	// SilentFlag makes the InstallShield based setup run unattended. The full
	// driver installer uses the same flag, which leaves 3D installed but disabled.
	SilentFlag = "/s"
	// EnableArg switches the stereo feature on.
	EnableArg = "enable"
)

// Installer launches the vendor setup executable.
type Installer struct {
	launcher procexec.Launcher
	path     string
	logger   *logging.Logger
}

// NewInstaller creates an Installer for the setup binary at path.
func NewInstaller(launcher procexec.Launcher, path string, logger *logging.Logger) *Installer {
	return &Installer{launcher: launcher, path: path, logger: logger}
}

// Install runs setup silently and returns its exit code.
func (i *Installer) Install() (int, error) {
	i.logger.Info("setup.install.start", "Starting 3D Vision setup", map[string]interface{}{
		"installer": i.path,
	})
	return i.launcher.Launch(i.path, SilentFlag)
}

// Enabler launches the vendor stereo toggle.
type Enabler struct {
	launcher procexec.Launcher
	path     string
	logger   *logging.Logger
}

// NewEnabler creates an Enabler for the toggle binary at path.
func NewEnabler(launcher procexec.Launcher, path string, logger *logging.Logger) *Enabler {
	return &Enabler{launcher: launcher, path: path, logger: logger}
}

// Enable turns stereo on and returns the toggle's exit code.
func (e *Enabler) Enable() (int, error) {
	e.logger.Info("setup.enable.start", "Enabling 3D Vision", map[string]interface{}{
		"toggle": e.path,
	})
	return e.launcher.Launch(e.path, EnableArg)
}
