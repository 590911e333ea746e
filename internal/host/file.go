package host

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wpsix/breakdance-icon-fix/internal/logger"
	"github.com/wpsix/breakdance-icon-fix/internal/utils"
)

const transientsFileName = "transients.json"

type fileEntry struct {
	Value    string    `json:"value"`
	ExpireAt time.Time `json:"expire_at,omitempty"`
}

type transientsFile struct {
	Entries map[string]fileEntry `json:"entries"`
}

// FileStore persists transients in a single JSON document. Every operation
// re-reads the file so that separate processes sharing the directory see
// each other's writes; mutations are written back atomically.
type FileStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewFileStore(dir string, opts ...Option) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	o := buildOptions(opts)
	return &FileStore{
		path: filepath.Join(dir, transientsFileName),
		now:  o.now,
	}, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tf, err := s.load()
	if err != nil {
		return nil, false, err
	}

	e, ok := tf.Entries[key]
	if !ok {
		return nil, false, nil
	}
	if expired(s.now(), e.ExpireAt) {
		delete(tf.Entries, key)
		if err := s.save(tf); err != nil {
			logger.Debug("failed to prune expired transient %q: %v", key, err)
		}
		return nil, false, nil
	}
	return []byte(e.Value), true, nil
}

func (s *FileStore) Set(key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tf, err := s.load()
	if err != nil {
		return err
	}

	now := s.now()
	s.prune(tf, now)
	tf.Entries[key] = fileEntry{Value: string(value), ExpireAt: expiry(now, ttl)}
	return s.save(tf)
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tf, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := tf.Entries[key]; !ok {
		return nil
	}
	delete(tf.Entries, key)
	return s.save(tf)
}

func (s *FileStore) load() (*transientsFile, error) {
	tf := &transientsFile{Entries: make(map[string]fileEntry)}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return tf, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	if err := json.Unmarshal(data, tf); err != nil {
		// corrupt -> start clean, the next write replaces it
		logger.Debug("transients file %s is corrupted, starting empty: %v", s.path, err)
		return &transientsFile{Entries: make(map[string]fileEntry)}, nil
	}
	if tf.Entries == nil {
		tf.Entries = make(map[string]fileEntry)
	}
	return tf, nil
}

func (s *FileStore) prune(tf *transientsFile, now time.Time) {
	for k, e := range tf.Entries {
		if expired(now, e.ExpireAt) {
			delete(tf.Entries, k)
		}
	}
}

func (s *FileStore) save(tf *transientsFile) error {
	if err := utils.WriteJSONAtomic(s.path, tf); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
