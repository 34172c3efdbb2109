package stereoreg

import (
	"fmt"

	"stereo3d/internal/fsutil"
	"stereo3d/internal/logging"
)

// WriteError reports a namespace that could not be opened (Key empty) or a
// value that could not be written.
type WriteError struct {
	Namespace string
	Key       string
	Err       error
}

func (e *WriteError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("open %s: %v", e.Namespace, e.Err)
	}
	return fmt.Sprintf("write %s\\%s: %v", e.Namespace, e.Key, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Applier writes configuration tables into one registry namespace.
type Applier struct {
	store  Store
	hive   Hive
	path   string
	logger *logging.Logger
}

// NewApplier creates an Applier for hive\path.
func NewApplier(store Store, hive Hive, path string, logger *logging.Logger) *Applier {
	return &Applier{store: store, hive: hive, path: path, logger: logger}
}

// Namespace returns the full key path written to.
func (a *Applier) Namespace() string {
	return string(a.hive) + `\` + a.path
}

// Apply writes every baseline entry and then every override entry. The first
// failed write aborts; nothing is skipped or reordered.
func (a *Applier) Apply(baseline, overrides Table) error {
	key, err := a.store.OpenKey(a.hive, a.path)
	if err != nil {
		a.logger.Error("registry.open.failed", "Failed to open stereo namespace", map[string]interface{}{
			"namespace": a.Namespace(),
			"error":     err.Error(),
		})
		return &WriteError{Namespace: a.Namespace(), Err: err}
	}
	defer fsutil.CloseWithError(key.Close, a.logger, "registry key")

	for _, entry := range baseline.Then(overrides) {
		if err := key.SetDWordValue(entry.Name, entry.Value); err != nil {
			a.logger.Error("registry.write.failed", "Failed to write stereo value", map[string]interface{}{
				"key":   entry.Name,
				"error": err.Error(),
			})
			return &WriteError{Namespace: a.Namespace(), Key: entry.Name, Err: err}
		}
		a.logger.Debug("registry.write", "Stereo value written", map[string]interface{}{
			"key":   entry.Name,
			"value": entry.Value,
		})
	}

	a.logger.Info("registry.applied", "Stereo configuration applied", map[string]interface{}{
		"namespace": a.Namespace(),
		"baseline":  len(baseline),
		"overrides": len(overrides),
	})
	return nil
}
