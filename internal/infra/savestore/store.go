package savestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"gardenreach/internal/domain"
)

var (
	ErrStoreClosed   = errors.New("selection store is closed")
	ErrMissingSaveID = errors.New("save id is required")
	ErrCorruptRecord = errors.New("selection record is corrupt")
)

type record struct {
	Options   map[string]int `json:"options"`
	UpdatedAt string         `json:"updatedAt,omitempty"`
}

// Store persists per-save tool selections in a bbolt file.
type Store struct {
	mu     sync.RWMutex
	db     *bolt.DB
	path   string
	closed bool
	now    func() time.Time
}

func OpenStore(path string) (*Store, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, fmt.Errorf("ensure store dir: %w", err)
	}
	options := &bolt.Options{Timeout: time.Second}
	base, err := bolt.Open(trimmed, 0o600, options)
	if err != nil {
		return nil, fmt.Errorf("open selection db: %w", err)
	}
	if err := ensureSchema(base); err != nil {
		_ = base.Close()
		return nil, err
	}
	return &Store{db: base, path: trimmed, now: time.Now}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Load returns the selections of saveID; ok is false when nothing was stored.
// A record that cannot be decoded yields ErrCorruptRecord.
func (s *Store) Load(saveID string) (domain.Selections, bool, error) {
	if err := validateSaveID(saveID); err != nil {
		return domain.Selections{}, false, err
	}
	var (
		out   domain.Selections
		found bool
	)
	err := s.view(func(tx *bolt.Tx) error {
		bucket, err := saveBucket(tx, saveID, false)
		if err != nil || bucket == nil {
			return err
		}
		raw := bucket.Get([]byte(recordKey))
		if raw == nil {
			return nil
		}
		found = true
		decoded, err := decodeRecord(saveID, raw)
		if err != nil {
			return err
		}
		out = decoded
		return nil
	})
	if err != nil {
		return domain.Selections{SaveID: saveID}, found, err
	}
	if !found {
		return domain.Selections{SaveID: saveID}, false, nil
	}
	return out, true, nil
}

// Save writes the selections of one save, replacing any previous record.
func (s *Store) Save(selections domain.Selections) error {
	if err := validateSaveID(selections.SaveID); err != nil {
		return err
	}
	payload := record{
		Options:   make(map[string]int, len(selections.Options)),
		UpdatedAt: s.now().UTC().Format(time.RFC3339Nano),
	}
	for kind, option := range selections.Options {
		payload.Options[string(kind)] = option
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode selections: %w", err)
	}
	return s.update(func(tx *bolt.Tx) error {
		bucket, err := saveBucket(tx, selections.SaveID, true)
		if err != nil {
			return err
		}
		if err := bucket.Put([]byte(recordKey), data); err != nil {
			return fmt.Errorf("write selections %s: %w", selections.SaveID, err)
		}
		return nil
	})
}

// Delete removes every record of saveID. Deleting an unknown save is not an error.
func (s *Store) Delete(saveID string) error {
	if err := validateSaveID(saveID); err != nil {
		return err
	}
	return s.update(func(tx *bolt.Tx) error {
		saves, err := savesBucket(tx)
		if err != nil {
			return err
		}
		if saves.Bucket([]byte(saveID)) == nil {
			return nil
		}
		return saves.DeleteBucket([]byte(saveID))
	})
}

// List returns the known save ids in sorted order.
func (s *Store) List() ([]string, error) {
	var ids []string
	err := s.view(func(tx *bolt.Tx) error {
		saves, err := savesBucket(tx)
		if err != nil {
			return err
		}
		return saves.ForEach(func(key, value []byte) error {
			if value == nil {
				ids = append(ids, string(key))
			}
			return nil
		})
	})
	sort.Strings(ids)
	return ids, err
}

func (s *Store) view(fn func(*bolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.db.View(fn)
}

func (s *Store) update(fn func(*bolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.db.Update(fn)
}

func validateSaveID(saveID string) error {
	if strings.TrimSpace(saveID) == "" {
		return ErrMissingSaveID
	}
	return nil
}

func savesBucket(tx *bolt.Tx) (*bolt.Bucket, error) {
	root := tx.Bucket([]byte(rootBucketName))
	if root == nil {
		return nil, fmt.Errorf("missing root bucket")
	}
	saves := root.Bucket([]byte(savesBucketName))
	if saves == nil {
		return nil, fmt.Errorf("missing saves bucket")
	}
	return saves, nil
}

func saveBucket(tx *bolt.Tx, saveID string, create bool) (*bolt.Bucket, error) {
	saves, err := savesBucket(tx)
	if err != nil {
		return nil, err
	}
	key := []byte(saveID)
	if create {
		bucket, err := saves.CreateBucketIfNotExists(key)
		if err != nil {
			return nil, fmt.Errorf("create save bucket: %w", err)
		}
		return bucket, nil
	}
	return saves.Bucket(key), nil
}

func decodeRecord(saveID string, raw []byte) (domain.Selections, error) {
	var payload record
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.Selections{}, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, saveID, err)
	}
	out := domain.Selections{
		SaveID:  saveID,
		Options: make(map[domain.ToolKind]int, len(payload.Options)),
	}
	for name, option := range payload.Options {
		kind := domain.ParseToolKind(name)
		if kind == domain.ToolNone {
			continue
		}
		out.Options[kind] = option
	}
	if payload.UpdatedAt != "" {
		if ts, err := time.Parse(time.RFC3339Nano, payload.UpdatedAt); err == nil {
			out.UpdatedAt = ts
		}
	}
	return out, nil
}

var _ domain.SelectionStore = (*Store)(nil)
