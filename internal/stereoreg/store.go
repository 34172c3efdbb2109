// Package stereoreg writes the 3D Vision Stereo3D configuration values into
// the system registry.
package stereoreg

import (
	"errors"
	"fmt"
	"strings"
)

// Hive names a registry root.
type Hive string

const (
	// HiveLocalMachine is HKEY_LOCAL_MACHINE.
	HiveLocalMachine Hive = "HKLM"
	// HiveCurrentUser is HKEY_CURRENT_USER.
	HiveCurrentUser Hive = "HKCU"
)

// DefaultPath is the Stereo3D namespace read by the vendor feature stack.
const DefaultPath = `SOFTWARE\NVIDIA Corporation\Global\Stereo3D`

// ErrUnsupported is returned by the system store on non-Windows builds.
var ErrUnsupported = errors.New("registry is only available on windows")

// ParseHive validates a hive name from configuration.
func ParseHive(s string) (Hive, error) {
	switch h := Hive(strings.ToUpper(strings.TrimSpace(s))); h {
	case HiveLocalMachine, HiveCurrentUser:
		return h, nil
	}
	return "", fmt.Errorf("unknown registry hive %q", s)
}

// Store opens registry keys.
type Store interface {
	OpenKey(hive Hive, path string) (Key, error)
}

// Key is an open registry key that accepts DWORD values.
type Key interface {
	SetDWordValue(name string, value uint32) error
	Close() error
}

// Write is one recorded value write.
type Write struct {
	Hive  Hive
	Path  string
	Name  string
	Value uint32
}

// MemoryStore keeps values in memory and records every write in order.
// It backs dry runs and tests.
type MemoryStore struct {
	Writes []Write
	// OpenErr, when set, is returned by OpenKey.
	OpenErr error
	// WriteErrs fails writes to the named values.
	WriteErrs map[string]error
	values    map[string]uint32
	open      int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]uint32)}
}

// OpenKey returns a handle into the in-memory namespace.
func (m *MemoryStore) OpenKey(hive Hive, path string) (Key, error) {
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	if m.values == nil {
		m.values = make(map[string]uint32)
	}
	m.open++
	return &memoryKey{store: m, hive: hive, path: path}, nil
}

// Value returns the persisted value for name under hive\path.
func (m *MemoryStore) Value(hive Hive, path, name string) (uint32, bool) {
	v, ok := m.values[valueID(hive, path, name)]
	return v, ok
}

// OpenHandles reports keys opened but not yet closed.
func (m *MemoryStore) OpenHandles() int {
	return m.open
}

type memoryKey struct {
	store  *MemoryStore
	hive   Hive
	path   string
	closed bool
}

func (k *memoryKey) SetDWordValue(name string, value uint32) error {
	if k.closed {
		return errors.New("key is closed")
	}
	if err := k.store.WriteErrs[name]; err != nil {
		return err
	}
	k.store.values[valueID(k.hive, k.path, name)] = value
	k.store.Writes = append(k.store.Writes, Write{Hive: k.hive, Path: k.path, Name: name, Value: value})
	return nil
}

func (k *memoryKey) Close() error {
	if !k.closed {
		k.closed = true
		k.store.open--
	}
	return nil
}

func valueID(hive Hive, path, name string) string {
	return string(hive) + `\` + strings.ToLower(path) + `\` + strings.ToLower(name)
}
