package parcels

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// CacheKey fingerprints a kernel's native compilation unit: the kernel's
// own name, its ParticleType's attribute layout, and each grid field's
// name and unit tag class, matching spec §4.5's cache key of
// "md5(name|particleTypeCacheKey|field:unitClass-...)" — a sampler
// compiled for one unit tag is invalid for another, and a recompiled
// kernel of the same name with a different particle schema must not
// collide on disk.
func CacheKey(kernelName string, pt *ParticleType, grid *Grid) string {
	parts := []string{kernelName, pt.CacheKey()}
	for _, name := range grid.Names() {
		f := grid.Field(name)
		parts = append(parts, fmt.Sprintf("field:%s-%s", name, unitTagClass(f.Unit)))
	}
	sum := md5.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// Cache is a disk-backed store of compiled kernel shared libraries, keyed
// by CacheKey (spec §4.5 "library load ... disk-backed compile cache").
type Cache struct {
	Dir      string
	Compiler Compiler
}

// NewCache returns a Cache rooted at dir using compiler to build cache
// misses. dir is created if it does not exist.
func NewCache(dir string, compiler Compiler) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("parcels: NewCache: %w", err)
	}
	return &Cache{Dir: dir, Compiler: compiler}, nil
}

// Ensure returns the path to a compiled shared library for the given
// cache key, compiling source and populating the cache if no library for
// that key exists yet. The library is written via a temp-file-then-
// rename so concurrent callers racing to compile the same key never see
// a partially written file (spec §5: the cache is safe under concurrent
// use from multiple ParticleSets).
func (c *Cache) Ensure(key, source string) (string, error) {
	libPath := filepath.Join(c.Dir, key+".so")
	if _, err := os.Stat(libPath); err == nil {
		return libPath, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("parcels: cache: %w", err)
	}

	tmpPath := filepath.Join(c.Dir, fmt.Sprintf(".%s.tmp", uuid.NewString()))
	if err := c.Compiler.Compile(source, tmpPath); err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	if err := os.Rename(tmpPath, libPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("parcels: cache: installing compiled library: %w", err)
	}
	Logger.Printf("kernel cache miss: compiled key %s", key)
	return libPath, nil
}
