// Package session persists login credentials between runs, one bbolt file
// per server.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mmcdole/mediabox/internal/domain"
)

var bucketCredentials = []byte("credentials")

const keyCurrent = "current"

// Jar implements domain.CredentialStore on top of bbolt.
type Jar struct {
	db *bolt.DB
	mu sync.RWMutex

	// memory copy of every value written or read
	cache map[string][]byte
}

// Open opens the jar for serverURL under dir. An empty dir gives a
// memory-only jar that forgets everything on exit.
func Open(dir, serverURL string) (*Jar, error) {
	if dir == "" {
		return &Jar{cache: make(map[string][]byte)}, nil
	}

	if serverURL != "" {
		dir = filepath.Join(dir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	db, err := bolt.Open(filepath.Join(dir, "session.db"), 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open session db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketCredentials)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Jar{db: db, cache: make(map[string][]byte)}, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (j *Jar) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Load returns the saved credentials.
func (j *Jar) Load() (domain.Credentials, bool) {
	var c domain.Credentials
	if !j.get(bucketCredentials, keyCurrent, &c) || c.IsZero() {
		return domain.Credentials{}, false
	}
	return c, true
}

// Save replaces the saved credentials.
func (j *Jar) Save(c domain.Credentials) error {
	return j.set(bucketCredentials, keyCurrent, c)
}

// Clear forgets the saved credentials.
func (j *Jar) Clear() error {
	return j.delete(bucketCredentials, keyCurrent)
}

func (j *Jar) get(bucket []byte, key string, dest any) bool {
	cacheKey := string(bucket) + ":" + key

	j.mu.RLock()
	if data, ok := j.cache[cacheKey]; ok {
		j.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	j.mu.RUnlock()

	if j.db == nil {
		return false
	}

	var data []byte
	j.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucket).Get([]byte(key)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if data == nil {
		return false
	}

	j.mu.Lock()
	j.cache[cacheKey] = data
	j.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (j *Jar) set(bucket []byte, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	j.mu.Lock()
	j.cache[string(bucket)+":"+key] = data
	j.mu.Unlock()

	if j.db == nil {
		return nil
	}
	return j.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (j *Jar) delete(bucket []byte, key string) error {
	j.mu.Lock()
	delete(j.cache, string(bucket)+":"+key)
	j.mu.Unlock()

	if j.db == nil {
		return nil
	}
	return j.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(key))
	})
}
