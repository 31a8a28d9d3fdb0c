// Package cachedir resolves the process-wide directory the kernel
// compile cache (kernel_cache.go) stores compiled native libraries in.
package cachedir

import (
	"fmt"
	"os"
	"path/filepath"
)

const envVar = "PARCELS_CACHE_DIR"

// Get returns the cache directory: PARCELS_CACHE_DIR if set, otherwise
// os.UserCacheDir()/parcels. The directory is created if it does not
// already exist.
func Get() (string, error) {
	dir := os.Getenv(envVar)
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("cachedir: %w", err)
		}
		dir = filepath.Join(base, "parcels")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cachedir: %w", err)
	}
	return dir, nil
}
