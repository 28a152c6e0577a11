// Package coincache persists coin name/symbol to provider id lookups in a
// BoltDB file so repeated conversations skip the full coin list download.
package coincache

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/utils"
	bolt "go.etcd.io/bbolt"
)

////////////////////////////////////////////////////////////////////////////////

const BUCKET_COIN_IDS = "coin_ids"

type entry struct {
	Id       string    `json:"id"`
	StoredAt time.Time `json:"stored_at"`
}

type Cache struct {
	db  *bolt.DB
	ttl time.Duration
	now func() time.Time
}

// Open opens (or creates) the cache file. A ttl <= 0 keeps entries forever.
func Open(path string, ttl time.Duration) (*Cache, error) {
	if err := utils.EnsureParentDir(path); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open coin cache %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(BUCKET_COIN_IDS))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create coin cache bucket: %w", err)
	}

	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

////////////////////////////////////////////////////////////////////////////////

// Get returns the cached id for key. Expired or malformed entries are misses.
func (c *Cache) Get(key string) (string, bool, error) {
	var found *entry
	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(BUCKET_COIN_IDS)).Get([]byte(normalize(key)))
		if v == nil {
			return nil
		}
		var e entry
		if err := json.Unmarshal(v, &e); err != nil {
			return nil
		}
		found = &e
		return nil
	})
	if err != nil {
		return "", false, err
	}
	if found == nil {
		return "", false, nil
	}
	if c.ttl > 0 && c.now().Sub(found.StoredAt) > c.ttl {
		return "", false, nil
	}
	return found.Id, true, nil
}

func (c *Cache) Put(key, id string) error {
	enc, err := json.Marshal(entry{Id: id, StoredAt: c.now()})
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BUCKET_COIN_IDS)).Put([]byte(normalize(key)), enc)
	})
}

func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
