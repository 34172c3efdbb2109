// Package runlock keeps two installations from running on the same machine
// at once. The lock is a JSON file in the state directory with a lease; a
// lock older than the lease is treated as left behind by a crashed run.
package runlock

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"stereo3d/internal/fsutil"
	"stereo3d/internal/logging"
)

var errCorruptLock = errors.New("run lock is unreadable")

const (
	// LockFileName is the name of the run lock file
	LockFileName = "run.lock"

	// DefaultLeaseTimeout bounds how long a lock is honoured. The vendor
	// installer can take several minutes on slow machines.
	DefaultLeaseTimeout = 2 * time.Hour
)

// Manager manages run lock acquisition and release
type Manager struct {
	stateDir     string
	logger       *logging.Logger
	leaseTimeout time.Duration
	now          func() time.Time
}

// NewManager creates a new run lock manager
func NewManager(stateDir string, logger *logging.Logger) *Manager {
	return &Manager{
		stateDir:     stateDir,
		logger:       logger,
		leaseTimeout: DefaultLeaseTimeout,
		now:          time.Now,
	}
}

// Path returns the lock file location
func (m *Manager) Path() string {
	return filepath.Join(m.stateDir, LockFileName)
}

// Acquire takes the lock for runID. It fails with *HeldError while another
// run holds a lock younger than the lease.
func (m *Manager) Acquire(runID string) error {
	if runID == "" {
		return errors.New("run lock requires a run id")
	}

	existing, err := m.load()
	switch {
	case errors.Is(err, errCorruptLock):
		// A run killed mid-write by an older version, or a damaged disk.
		m.logger.Warn("runlock.stale_detected", "Clearing unreadable run lock", map[string]interface{}{
			"path":  m.Path(),
			"error": err.Error(),
		})
		if err := m.remove(); err != nil {
			return fmt.Errorf("failed to clear stale lock: %w", err)
		}
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("failed to read existing lock: %w", err)
	}

	if existing != nil {
		if existing.RunID == runID {
			return nil
		}
		age := m.now().Sub(existing.SinceTS)
		if age <= m.leaseTimeout {
			return &HeldError{Holder: *existing, Age: age}
		}

		m.logger.Warn("runlock.stale_detected", "Clearing stale run lock", map[string]interface{}{
			"previous_run": existing.RunID,
			"age_seconds":  age.Seconds(),
		})
		if err := m.remove(); err != nil {
			return fmt.Errorf("failed to clear stale lock: %w", err)
		}
	}

	info := LockInfo{RunID: runID, PID: os.Getpid(), SinceTS: m.now().UTC()}
	if err := m.create(info); err != nil {
		if errors.Is(err, fs.ErrExist) {
			// Lost the race against a concurrent Acquire.
			current, loadErr := m.load()
			if loadErr == nil {
				return &HeldError{Holder: *current, Age: m.now().Sub(current.SinceTS)}
			}
		}
		return fmt.Errorf("failed to write lock: %w", err)
	}

	m.logger.Info("runlock.acquired", "Run lock acquired", map[string]interface{}{
		"run_id": runID,
		"path":   m.Path(),
	})
	return nil
}

// Release removes the lock if runID holds it.
func (m *Manager) Release(runID string) error {
	existing, err := m.load()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read existing lock: %w", err)
	}

	if existing.RunID != runID {
		return fmt.Errorf("cannot release lock: held by run %s, not %s", existing.RunID, runID)
	}

	if err := m.remove(); err != nil {
		return err
	}

	m.logger.Info("runlock.released", "Run lock released", map[string]interface{}{
		"run_id": runID,
	})
	return nil
}

// Status returns the current holder, or nil when unlocked, stale or
// unreadable.
func (m *Manager) Status() (*LockInfo, error) {
	existing, err := m.load()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, errCorruptLock) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read lock: %w", err)
	}
	if m.now().Sub(existing.SinceTS) > m.leaseTimeout {
		return nil, nil
	}
	return existing, nil
}

func (m *Manager) load() (*LockInfo, error) {
	data, err := os.ReadFile(m.Path())
	if err != nil {
		return nil, err
	}

	var info LockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorruptLock, err)
	}
	if info.RunID == "" {
		return nil, fmt.Errorf("%w: missing run id", errCorruptLock)
	}
	return &info, nil
}

// create writes the lock to a temp file and links it into place. The link
// fails if the lock exists, so only one of two racing runs wins and the
// lock file is never observed half written.
func (m *Manager) create(info LockInfo) error {
	if err := fsutil.EnsureDirectory(m.stateDir); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal lock: %w", err)
	}

	tmp, err := os.CreateTemp(m.stateDir, LockFileName+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if err := os.Remove(tmpPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			m.logger.Warn("runlock.cleanup_failed", "Failed to remove temp lock file", map[string]interface{}{
				"path":  tmpPath,
				"error": err.Error(),
			})
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Link(tmpPath, m.Path())
}

func (m *Manager) remove() error {
	if err := os.Remove(m.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}
