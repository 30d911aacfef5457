package savestore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"gardenreach/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "selections.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestStoreSaveAndLoad(t *testing.T) {
	store := openTestStore(t)
	fixed := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	err := store.Save(domain.Selections{
		SaveID:  "Farm_123",
		Options: map[domain.ToolKind]int{domain.ToolHoe: 2, domain.ToolWateringCan: 5},
	})
	require.NoError(t, err)

	got, ok, err := store.Load("Farm_123")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Farm_123", got.SaveID)
	require.Equal(t, 2, got.Option(domain.ToolHoe))
	require.Equal(t, 5, got.Option(domain.ToolWateringCan))
	require.True(t, fixed.Equal(got.UpdatedAt))
}

func TestStoreLoadMissingSave(t *testing.T) {
	store := openTestStore(t)
	got, ok, err := store.Load("unknown")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, "unknown", got.SaveID)
	require.Equal(t, 0, got.Option(domain.ToolHoe))
}

func TestStoreLoadCorruptRecord(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.db.Update(func(tx *bolt.Tx) error {
		bucket, err := saveBucket(tx, "broken", true)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(recordKey), []byte("{not json"))
	}))

	_, ok, err := store.Load("broken")
	require.True(t, ok)
	require.ErrorIs(t, err, ErrCorruptRecord)
}

func TestStoreIgnoresUnknownToolKinds(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.db.Update(func(tx *bolt.Tx) error {
		bucket, err := saveBucket(tx, "legacy", true)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(recordKey), []byte(`{"options":{"hoe":1,"pickaxe":3}}`))
	}))

	got, ok, err := store.Load("legacy")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, map[domain.ToolKind]int{domain.ToolHoe: 1}, got.Options)
}

func TestStoreRequiresSaveID(t *testing.T) {
	store := openTestStore(t)
	_, _, err := store.Load("  ")
	require.ErrorIs(t, err, ErrMissingSaveID)
	require.ErrorIs(t, store.Save(domain.Selections{}), ErrMissingSaveID)
	require.ErrorIs(t, store.Delete(""), ErrMissingSaveID)
}

func TestStoreListAndDelete(t *testing.T) {
	store := openTestStore(t)
	for _, id := range []string{"b-save", "a-save"} {
		require.NoError(t, store.Save(domain.Selections{SaveID: id, Options: map[domain.ToolKind]int{domain.ToolHoe: 1}}))
	}

	ids, err := store.List()
	require.NoError(t, err)
	require.Equal(t, []string{"a-save", "b-save"}, ids)

	require.NoError(t, store.Delete("a-save"))
	require.NoError(t, store.Delete("a-save"))

	ids, err = store.List()
	require.NoError(t, err)
	require.Equal(t, []string{"b-save"}, ids)
}

func TestStoreClosed(t *testing.T) {
	store, err := OpenStore(filepath.Join(t.TempDir(), "selections.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	_, _, err = store.Load("Farm")
	require.ErrorIs(t, err, ErrStoreClosed)
	require.ErrorIs(t, store.Save(domain.Selections{SaveID: "Farm"}), ErrStoreClosed)
}

func TestStoreReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "selections.db")
	store, err := OpenStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(domain.Selections{SaveID: "Farm", Options: map[domain.ToolKind]int{domain.ToolWateringCan: 3}}))
	require.NoError(t, store.Close())

	reopened, err := OpenStore(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, reopened.Close())
	}()
	got, ok, err := reopened.Load("Farm")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 3, got.Option(domain.ToolWateringCan))
}

func TestOpenStoreRequiresPath(t *testing.T) {
	_, err := OpenStore(" ")
	require.Error(t, err)
}

func seedRawStore(t *testing.T, path string, version int, records map[string]string) {
	t.Helper()
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	require.NoError(t, err)
	require.NoError(t, db.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists([]byte(rootBucketName))
		if err != nil {
			return err
		}
		meta, err := root.CreateBucketIfNotExists([]byte(metaBucketName))
		if err != nil {
			return err
		}
		saves, err := root.CreateBucketIfNotExists([]byte(savesBucketName))
		if err != nil {
			return err
		}
		for id, raw := range records {
			bucket, err := saves.CreateBucketIfNotExists([]byte(id))
			if err != nil {
				return err
			}
			if err := bucket.Put([]byte(recordKey), []byte(raw)); err != nil {
				return err
			}
		}
		return writeSchemaVersion(meta, version)
	}))
	require.NoError(t, db.Close())
}

func TestOpenStoreMigratesFlatRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selections.db")
	seedRawStore(t, path, 1, map[string]string{
		"Farm_1": `{"wateringCan":4,"hoe":2,"updatedAt":"2026-03-01T06:00:00Z"}`,
		"Farm_2": `{"hoe":1}`,
		"Broken": `{not json`,
	})

	store, err := OpenStore(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, store.Close())
	}()

	got, ok, err := store.Load("Farm_1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, map[domain.ToolKind]int{domain.ToolWateringCan: 4, domain.ToolHoe: 2}, got.Options)
	require.True(t, time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC).Equal(got.UpdatedAt))

	got, ok, err = store.Load("Farm_2")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, map[domain.ToolKind]int{domain.ToolHoe: 1}, got.Options)

	_, _, err = store.Load("Broken")
	require.ErrorIs(t, err, ErrCorruptRecord)

	require.NoError(t, store.db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket([]byte(rootBucketName)).Bucket([]byte(metaBucketName))
		require.Equal(t, schemaVersion, readSchemaVersion(meta))
		return nil
	}))
}

func TestOpenStoreRejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selections.db")
	seedRawStore(t, path, schemaVersion+1, nil)

	_, err := OpenStore(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported selection store schema version")
}
