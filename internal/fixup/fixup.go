// Package fixup places the support file DCH drivers no longer ship
// (Resource.dat) where the 3D Vision installer expects it.
package fixup

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"

	"stereo3d/internal/fsutil"
	"stereo3d/internal/logging"
)

// Fixup copies a support file into a system directory.
type Fixup struct {
	logger *logging.Logger
	dryRun bool
}

// New creates a Fixup. With dryRun set nothing is written.
func New(logger *logging.Logger, dryRun bool) *Fixup {
	return &Fixup{logger: logger, dryRun: dryRun}
}

// Apply ensures destDir exists and copies sourceFile into it, replacing any
// existing file. It returns the destination path.
func (f *Fixup) Apply(sourceFile, destDir string) (string, error) {
	dest := filepath.Join(destDir, filepath.Base(sourceFile))

	data, err := os.ReadFile(filepath.Clean(sourceFile)) // #nosec G304 -- path comes from the resolved run layout
	if err != nil {
		return dest, fmt.Errorf("read support file: %w", err)
	}
	want := blake2b.Sum256(data)

	if f.dryRun {
		f.logger.Info("fixup.dry_run", "Dry run: not copying support file", map[string]interface{}{
			"source": sourceFile,
			"dest":   dest,
		})
		return dest, nil
	}

	if err := fsutil.EnsureDirectory(destDir); err != nil {
		return dest, err
	}
	if err := fsutil.AtomicWriteFile(dest, data, 0o644, f.logger); err != nil {
		return dest, fmt.Errorf("write support file: %w", err)
	}

	written, err := os.ReadFile(filepath.Clean(dest)) // #nosec G304 -- destination computed above
	if err != nil {
		return dest, fmt.Errorf("verify support file: %w", err)
	}
	got := blake2b.Sum256(written)
	if !bytes.Equal(want[:], got[:]) {
		return dest, fmt.Errorf("verify support file: digest mismatch for %s", dest)
	}

	f.logger.Info("fixup.placed", "Support file placed", map[string]interface{}{
		"source":  sourceFile,
		"dest":    dest,
		"blake2b": fmt.Sprintf("%x", got[:8]),
	})
	return dest, nil
}
