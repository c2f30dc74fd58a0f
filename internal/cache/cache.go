// Package cache keeps evaluated record results on disk so repeated batch
// runs over the same inputs skip the arithmetic.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when Entry format changes.
const schemaVersion uint16 = 1

// Key identifies one evaluated record.
type Key [32]byte

// KeyFor hashes parts with length prefixes, so ("ab","c") and ("a","bc")
// never collide.
func KeyFor(parts ...string) Key {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(n[:], uint64(len(p)))
		h.Write(n[:])
		h.Write([]byte(p))
	}
	var k Key
	h.Sum(k[:0])
	return k
}

func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// Entry is the cached outcome of a record.
type Entry struct {
	Schema uint16

	// Result is the formatted value in the output base; empty on failure.
	Result string
	// Code is the diag code of the failure, 0 on success.
	Code    uint16
	Message string

	Created int64 // unix seconds
}

// Stats counts lookups since Open.
type Stats struct {
	Hits, Misses, Writes int64
}

// Disk stores entries as msgpack files under dir.
// Safe for concurrent use.
type Disk struct {
	mu  sync.RWMutex
	dir string

	hits, misses, writes atomic.Int64
}

// Open creates dir if needed and returns a cache rooted there.
func Open(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Disk{dir: dir}, nil
}

// Dir returns the cache root.
func (c *Disk) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *Disk) pathFor(key Key) string {
	s := key.String()
	// двухсимвольные подкаталоги, чтобы не держать всё в одной папке
	return filepath.Join(c.dir, "records", s[:2], s+".mp")
}

// Put serializes e and replaces the entry for key atomically.
func (c *Disk) Put(key Key, e *Entry) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	stored := *e
	stored.Schema = schemaVersion
	if stored.Created == 0 {
		stored.Created = time.Now().Unix()
	}
	if err = msgpack.NewEncoder(f).Encode(&stored); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	if err = os.Rename(f.Name(), p); err != nil {
		return err
	}
	c.writes.Add(1)
	return nil
}

// Get loads the entry for key into out. Entries written by another
// schema version count as misses.
func (c *Disk) Get(key Key, out *Entry) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.misses.Add(1)
			return false, nil
		}
		return false, err
	}
	var e Entry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return false, err
	}
	if e.Schema != schemaVersion {
		c.misses.Add(1)
		return false, nil
	}
	*out = e
	c.hits.Add(1)
	return true, nil
}

// DropAll removes every stored entry.
func (c *Disk) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.RemoveAll(filepath.Join(c.dir, "records")); err != nil {
		return err
	}
	return nil
}

// Stats returns lookup counters.
func (c *Disk) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Writes: c.writes.Load()}
}
