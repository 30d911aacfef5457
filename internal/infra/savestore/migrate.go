package savestore

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"gardenreach/internal/domain"
)

// Schema history:
//
//	1: one flat record per save, {"wateringCan":N,"hoe":N,"updatedAt":...}
//	2: options keyed by tool kind, see record
const (
	schemaVersion = 2

	rootBucketName  = "gardenreach"
	metaBucketName  = "meta"
	savesBucketName = "saves"
	versionKey      = "version"
	recordKey       = "selections"
)

// legacyRecord is the schema 1 payload.
type legacyRecord struct {
	WateringCan *int   `json:"wateringCan"`
	Hoe         *int   `json:"hoe"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

func ensureSchema(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists([]byte(rootBucketName))
		if err != nil {
			return fmt.Errorf("create root bucket: %w", err)
		}
		meta, err := root.CreateBucketIfNotExists([]byte(metaBucketName))
		if err != nil {
			return fmt.Errorf("create meta bucket: %w", err)
		}
		saves, err := root.CreateBucketIfNotExists([]byte(savesBucketName))
		if err != nil {
			return fmt.Errorf("create saves bucket: %w", err)
		}

		current := readSchemaVersion(meta)
		if current == 0 {
			return writeSchemaVersion(meta, schemaVersion)
		}
		if current > schemaVersion {
			return fmt.Errorf("unsupported selection store schema version %d", current)
		}
		for version := current; version < schemaVersion; version++ {
			step, ok := migrations[version]
			if !ok {
				return fmt.Errorf("missing migration path from %d to %d", version, version+1)
			}
			if err := step(saves); err != nil {
				return fmt.Errorf("migrate selection store %d -> %d: %w", version, version+1, err)
			}
		}
		if current == schemaVersion {
			return nil
		}
		return writeSchemaVersion(meta, schemaVersion)
	})
}

// migrations maps a schema version to the step that upgrades it by one.
var migrations = map[int]func(saves *bolt.Bucket) error{
	1: migrateFlatRecords,
}

// migrateFlatRecords rewrites schema 1 records into the options map.
// Records that fail to decode are left alone so Load reports them as corrupt.
func migrateFlatRecords(saves *bolt.Bucket) error {
	var ids [][]byte
	if err := saves.ForEach(func(key, value []byte) error {
		if value == nil {
			ids = append(ids, append([]byte(nil), key...))
		}
		return nil
	}); err != nil {
		return err
	}
	for _, id := range ids {
		bucket := saves.Bucket(id)
		raw := bucket.Get([]byte(recordKey))
		if raw == nil {
			continue
		}
		var legacy legacyRecord
		if err := json.Unmarshal(raw, &legacy); err != nil {
			continue
		}
		upgraded := record{Options: map[string]int{}, UpdatedAt: legacy.UpdatedAt}
		if legacy.WateringCan != nil {
			upgraded.Options[string(domain.ToolWateringCan)] = *legacy.WateringCan
		}
		if legacy.Hoe != nil {
			upgraded.Options[string(domain.ToolHoe)] = *legacy.Hoe
		}
		data, err := json.Marshal(upgraded)
		if err != nil {
			return err
		}
		if err := bucket.Put([]byte(recordKey), data); err != nil {
			return fmt.Errorf("rewrite %s: %w", id, err)
		}
	}
	return nil
}

func readSchemaVersion(meta *bolt.Bucket) int {
	raw := meta.Get([]byte(versionKey))
	if len(raw) != 8 {
		return 0
	}
	return int(binary.BigEndian.Uint64(raw))
}

func writeSchemaVersion(meta *bolt.Bucket, version int) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(version))
	return meta.Put([]byte(versionKey), buf)
}
