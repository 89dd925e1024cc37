// Package catalog queries the remote artifact bucket and the compute-image
// metadata service, and joins the two into the build listing shown by
// kdev list.
//
// Both remote listings are plain text scraped from gcloud/gsutil output.
// All pattern matching over that text lives in parse.go so the fragility is
// confined to one translation layer.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	kdevErrors "github.com/cos-dev/kdev/internal/errors"
	"github.com/cos-dev/kdev/internal/runner"
)

// Client is the read-only surface of the remote catalogs.
type Client interface {
	// ListImages returns the raw compute-image table for a project,
	// one row per image, lifecycle markers included.
	ListImages(ctx context.Context, project string) (string, error)

	// ListObjects returns every object path under the bucket root.
	ListObjects(ctx context.Context, bucket string) ([]string, error)

	// Fetch transfers one remote object to a local path. A transfer that
	// errors or produces an empty file fails.
	Fetch(ctx context.Context, remotePath, localPath string) error
}

// GSClient talks to the catalogs through the gcloud and gsutil binaries.
type GSClient struct {
	Fs     afero.Fs
	Runner runner.Runner
}

func (c *GSClient) ListImages(ctx context.Context, project string) (string, error) {
	out, err := c.Runner.Output(ctx, runner.Command{
		Name: "gcloud",
		Args: []string{"compute", "images", "list", "--project", project, "--show-deprecated", "--no-standard-images"},
	})
	if err != nil {
		return "", kdevErrors.NewCatalogUnavailableError(err, "listing compute images for "+project)
	}
	return string(out), nil
}

func (c *GSClient) ListObjects(ctx context.Context, bucket string) ([]string, error) {
	out, err := c.Runner.Output(ctx, runner.Command{
		Name: "gsutil",
		Args: []string{"ls", "-r", strings.TrimSuffix(bucket, "/") + "/"},
	})
	if err != nil {
		return nil, kdevErrors.NewCatalogUnavailableError(err, "listing objects under "+bucket)
	}

	var paths []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths, nil
}

func (c *GSClient) Fetch(ctx context.Context, remotePath, localPath string) error {
	err := c.Runner.Run(ctx, runner.Command{
		Name: "gsutil",
		Args: []string{"cp", remotePath, localPath},
	})
	if err != nil {
		return err
	}

	// gsutil can leave a zero-length file behind on interrupted transfers.
	info, statErr := c.Fs.Stat(localPath)
	if statErr != nil || info.Size() == 0 {
		c.Fs.Remove(localPath)
		return fmt.Errorf("transfer of %s produced no data", remotePath)
	}
	return nil
}
