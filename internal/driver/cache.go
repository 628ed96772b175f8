package driver

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"doclint/internal/lint"
	"doclint/internal/token"
)

// Current schema version - increment when DiskPayload or lint.Result change.
const diskCacheSchemaVersion uint16 = 1

// Digest is a SHA-256 cache key.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// DiskCache хранит результаты линтинга по хэшу документа и настроек.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is what gets stored for one document.
type DiskPayload struct {
	Schema uint16
	Lines  []string
	Result lint.Result
}

// OpenDiskCache initializes a disk cache at the standard location for app.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt uses dir as the cache root.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := key.String()
	// подкаталог по первому байту, чтобы не держать тысячи файлов в одном
	return filepath.Join(c.dir, "results", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
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
	defer os.Remove(tmp) // после Rename файла уже нет

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads a payload. A missing entry or one written by another schema
// version is a miss, not an error.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := msgpack.NewDecoder(bytes.NewReader(data)).Decode(out); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// cacheFingerprint is everything besides the document bytes that can change a result.
type cacheFingerprint struct {
	Schema          uint16
	Options         lint.Options
	Delims          token.Delimiters
	Words           []string
	Prefixes        []string
	MaxDepth        int
	ComplexExprLen  int
	PreviewLen      int
	ContextLines    int
	MaxSyntaxErrors int
	LongLineContext int
}

// CacheKey hashes the document together with the linter setup.
func CacheKey(raw []byte, cfg lint.Config, opts lint.Options) Digest {
	h := sha256.New()
	_, _ = h.Write(raw)

	fp := cacheFingerprint{
		Schema:          diskCacheSchemaVersion,
		Options:         opts,
		Delims:          cfg.Delims,
		Words:           cfg.Vocab.Words(),
		Prefixes:        cfg.Prefixes.Names(),
		MaxDepth:        cfg.MaxDepth,
		ComplexExprLen:  cfg.ComplexExprLen,
		PreviewLen:      cfg.PreviewLen,
		ContextLines:    cfg.ContextLines,
		MaxSyntaxErrors: cfg.MaxSyntaxErrors,
		LongLineContext: cfg.LongLineContext,
	}
	enc := msgpack.NewEncoder(h)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(&fp); err != nil {
		// структура из простых полей кодируется всегда
		panic(fmt.Errorf("encode cache fingerprint: %w", err))
	}

	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
