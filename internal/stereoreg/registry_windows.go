//go:build windows

package stereoreg

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// SystemStore writes to the Windows registry.
type SystemStore struct{}

// NewSystemStore returns the registry-backed store.
func NewSystemStore() Store {
	return SystemStore{}
}

// OpenKey opens an existing key for writing. A missing key is an error.
func (SystemStore) OpenKey(hive Hive, path string) (Key, error) {
	root, err := rootKey(hive)
	if err != nil {
		return nil, err
	}
	key, err := registry.OpenKey(root, path, registry.SET_VALUE)
	if err != nil {
		return nil, fmt.Errorf("open %s\\%s: %w", hive, path, err)
	}
	return key, nil
}

func rootKey(hive Hive) (registry.Key, error) {
	switch hive {
	case HiveLocalMachine:
		return registry.LOCAL_MACHINE, nil
	case HiveCurrentUser:
		return registry.CURRENT_USER, nil
	}
	return 0, fmt.Errorf("unknown registry hive %q", hive)
}
