package host

import "fmt"

// Store backends selectable from configuration.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open builds the TransientStore for backend rooted at dir. The returned
// close func is always non-nil.
func Open(backend, dir string, opts ...Option) (TransientStore, func() error, error) {
	noop := func() error { return nil }

	switch backend {
	case BackendMemory:
		return NewMemoryStore(opts...), noop, nil
	case BackendFile, "":
		s, err := NewFileStore(dir, opts...)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case BackendSQLite:
		s, err := NewSQLiteStore(dir, opts...)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q (want %s, %s or %s)",
			backend, BackendMemory, BackendFile, BackendSQLite)
	}
}
