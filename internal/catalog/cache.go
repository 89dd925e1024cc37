package catalog

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// CacheTTL is how long a cached catalog listing stays fresh.
const CacheTTL = 60 * time.Minute

const (
	imageCacheFile  = "image-list"
	objectCacheFile = "bucket-list"
)

// CachingClient wraps a Client and memoizes both listings in scratch files.
// A cache file whose modification time is within CacheTTL of now is served
// without touching the network. Fetch is passed through untouched.
type CachingClient struct {
	Client

	Fs  afero.Fs
	Dir string

	// Now is the clock, overridable in tests. Nil means time.Now.
	Now func() time.Time
}

// CachePaths returns the scratch files this cache may have created, for the
// remove operation.
func CachePaths(dir string) []string {
	return []string{
		filepath.Join(dir, imageCacheFile),
		filepath.Join(dir, objectCacheFile),
	}
}

func (c *CachingClient) ListImages(ctx context.Context, project string) (string, error) {
	path := filepath.Join(c.Dir, imageCacheFile)
	if content, ok := c.cached(path); ok {
		return content, nil
	}

	raw, err := c.Client.ListImages(ctx, project)
	if err != nil {
		return "", err
	}
	c.store(path, raw)
	return raw, nil
}

func (c *CachingClient) ListObjects(ctx context.Context, bucket string) ([]string, error) {
	path := filepath.Join(c.Dir, objectCacheFile)
	if content, ok := c.cached(path); ok {
		return splitLines(content), nil
	}

	paths, err := c.Client.ListObjects(ctx, bucket)
	if err != nil {
		return nil, err
	}
	c.store(path, strings.Join(paths, "\n"))
	return paths, nil
}

func (c *CachingClient) cached(path string) (string, bool) {
	info, err := c.Fs.Stat(path)
	if err != nil {
		return "", false
	}
	if c.now().Sub(info.ModTime()) >= CacheTTL {
		return "", false
	}
	content, err := afero.ReadFile(c.Fs, path)
	if err != nil {
		return "", false
	}
	return string(content), true
}

// store writes a cache file on a best-effort basis; an unwritable cache
// directory only costs repeat listings.
func (c *CachingClient) store(path, content string) {
	if err := c.Fs.MkdirAll(c.Dir, 0o755); err != nil {
		return
	}
	_ = afero.WriteFile(c.Fs, path, []byte(content), 0o644)
}

func (c *CachingClient) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
