//go:build !windows

package stereoreg

import "fmt"

// SystemStore stands in for the Windows registry on other platforms.
type SystemStore struct{}

// NewSystemStore returns a store whose OpenKey always fails.
func NewSystemStore() Store {
	return SystemStore{}
}

// OpenKey returns ErrUnsupported.
func (SystemStore) OpenKey(hive Hive, path string) (Key, error) {
	return nil, fmt.Errorf("open %s\\%s: %w", hive, path, ErrUnsupported)
}
