package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"

	"prism/internal/config"
	"prism/internal/diag"
	"prism/internal/observ"
)

// cacheSchemaVersion is bumped whenever cachePayload changes.
const cacheSchemaVersion uint16 = 1

// Digest identifies one compilation input: model file content plus the
// configuration it was compiled with.
type Digest [sha256.Size]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// InputDigest hashes the model file at path together with cfg.
func InputDigest(path string, cfg *config.Config) (Digest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Digest{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	h := sha256.New()
	fmt.Fprintf(h, "prism-cache-%d\n", cacheSchemaVersion)
	h.Write(data)
	if err := toml.NewEncoder(h).Encode(cfg); err != nil {
		return Digest{}, fmt.Errorf("failed to hash configuration: %w", err)
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d, nil
}

type cachePayload struct {
	Schema       uint16
	Name         string
	Runtime      string
	Declarations string
	Diagnostics  []diag.Diagnostic
}

// OutputCache stores compiled outputs on disk, keyed by input digest.
// Safe for concurrent use.
type OutputCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenOutputCache uses dir, or the user cache directory when dir is empty.
func OpenOutputCache(dir string) (*OutputCache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "prism")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &OutputCache{dir: dir}, nil
}

func (c *OutputCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "out", key.String()+".mp")
}

// Put writes res atomically.
func (c *OutputCache) Put(key Digest, res *Result) error {
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
	tmp := f.Name()
	payload := &cachePayload{
		Schema:       cacheSchemaVersion,
		Name:         res.Name,
		Runtime:      res.Runtime,
		Declarations: res.Declarations,
		Diagnostics:  res.Bag.Items(),
	}
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, p)
}

// Get returns the cached result for key. Entries written by another schema
// version are treated as missing.
func (c *OutputCache) Get(key Digest) (*Result, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var payload cachePayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	if payload.Schema != cacheSchemaVersion {
		return nil, false, nil
	}
	bag := diag.NewBag(len(payload.Diagnostics))
	for _, d := range payload.Diagnostics {
		bag.Add(d)
	}
	return &Result{
		Name:         payload.Name,
		Runtime:      payload.Runtime,
		Declarations: payload.Declarations,
		Bag:          bag,
		Timer:        observ.NewTimer(),
		Cached:       true,
	}, true, nil
}

// Drop removes every cached entry.
func (c *OutputCache) Drop() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "out"))
}
