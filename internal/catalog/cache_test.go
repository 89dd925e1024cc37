package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingClient counts how often each listing hits the wrapped client.
type countingClient struct {
	imageCalls  int
	objectCalls int
}

func (c *countingClient) ListImages(context.Context, string) (string, error) {
	c.imageCalls++
	return "cos-65-10323-104-0  cos-cloud  cos-65-lts  DEPRECATED  READY\n", nil
}

func (c *countingClient) ListObjects(context.Context, string) ([]string, error) {
	c.objectCalls++
	return []string{"gs://cos-tools/10323.104.0/kernel-src.tgz"}, nil
}

func (c *countingClient) Fetch(context.Context, string, string) error {
	return nil
}

func newCachingClient(inner *countingClient) *CachingClient {
	return &CachingClient{
		Client: inner,
		Fs:     afero.NewMemMapFs(),
		Dir:    "/cache",
	}
}

// ageCache rewinds a cache file's mtime by the given amount.
func ageCache(t *testing.T, fs afero.Fs, path string, age time.Duration) {
	t.Helper()
	old := time.Now().Add(-age)
	require.NoError(t, fs.Chtimes(path, old, old))
}

func TestCachingClient(t *testing.T) {
	t.Parallel()

	t.Run("fresh cache avoids the network", func(t *testing.T) {
		t.Parallel()

		inner := &countingClient{}
		c := newCachingClient(inner)

		ctx := context.Background()
		first, err := c.ListImages(ctx, "cos-cloud")
		require.NoError(t, err)
		second, err := c.ListImages(ctx, "cos-cloud")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, inner.imageCalls, "second call must be served from cache")

		_, err = c.ListObjects(ctx, "gs://cos-tools")
		require.NoError(t, err)
		paths, err := c.ListObjects(ctx, "gs://cos-tools")
		require.NoError(t, err)
		assert.Equal(t, []string{"gs://cos-tools/10323.104.0/kernel-src.tgz"}, paths)
		assert.Equal(t, 1, inner.objectCalls)
	})

	t.Run("stale cache is regenerated", func(t *testing.T) {
		t.Parallel()

		inner := &countingClient{}
		c := newCachingClient(inner)

		ctx := context.Background()
		_, err := c.ListImages(ctx, "cos-cloud")
		require.NoError(t, err)

		ageCache(t, c.Fs, "/cache/image-list", CacheTTL+time.Minute)

		_, err = c.ListImages(ctx, "cos-cloud")
		require.NoError(t, err)
		assert.Equal(t, 2, inner.imageCalls, "stale cache must be refreshed")
	})

	t.Run("cache just inside the ttl is still fresh", func(t *testing.T) {
		t.Parallel()

		inner := &countingClient{}
		c := newCachingClient(inner)

		ctx := context.Background()
		_, err := c.ListImages(ctx, "cos-cloud")
		require.NoError(t, err)

		ageCache(t, c.Fs, "/cache/image-list", CacheTTL-time.Minute)

		_, err = c.ListImages(ctx, "cos-cloud")
		require.NoError(t, err)
		assert.Equal(t, 1, inner.imageCalls)
	})
}

func TestCachePaths(t *testing.T) {
	t.Parallel()

	paths := CachePaths("/cache")
	assert.Equal(t, []string{"/cache/image-list", "/cache/bucket-list"}, paths)
}
