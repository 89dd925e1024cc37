package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/cos-dev/kdev/internal/artifact"
	kdevErrors "github.com/cos-dev/kdev/internal/errors"
	"github.com/cos-dev/kdev/internal/version"
)

// Row is one line of the build listing.
type Row struct {
	BuildID   string    `json:"build_id" yaml:"build_id"`
	Milestone string    `json:"milestone,omitempty" yaml:"milestone,omitempty"`
	Family    string    `json:"family,omitempty" yaml:"family,omitempty"`
	Status    Lifecycle `json:"-" yaml:"-"`

	// StatusName carries the lifecycle state in structured output.
	StatusName string `json:"status" yaml:"status"`

	// Artifacts marks availability per registry descriptor, registry order.
	Artifacts []bool `json:"artifacts" yaml:"artifacts"`
}

// Lister produces the joined build listing.
type Lister struct {
	Client  Client
	Project string
	Bucket  string
}

// Rows lists available builds. With filterID set, the result covers exactly
// that build regardless of lifecycle status. Otherwise deprecated and
// obsolete builds are suppressed unless includeAll is true.
func (l *Lister) Rows(ctx context.Context, filterID string, includeAll bool) ([]Row, error) {
	objects, err := l.Client.ListObjects(ctx, l.Bucket)
	if err != nil {
		return nil, err
	}
	objectSet := ObjectSet(objects)

	var builds []string
	if filterID != "" {
		if !version.Valid(filterID) {
			return nil, kdevErrors.NewInvalidBuildIDError(nil,
				fmt.Sprintf("build id %q does not match major.minor.patch", filterID))
		}
		builds = []string{filterID}
		includeAll = true
	} else {
		builds = BuildIDsFromObjects(objects)
	}

	raw, err := l.Client.ListImages(ctx, l.Project)
	if err != nil {
		return nil, err
	}
	images := ParseImageTable(raw)

	var rows []Row
	for _, build := range builds {
		matches := MatchImages(images, build)
		if len(matches) == 0 {
			// Builds without a compute image still carry artifacts worth
			// listing; milestone and family stay blank.
			rows = appendRow(rows, l.row(build, "", "", Active, objectSet), includeAll)
			continue
		}
		// The same build id historically recurs across image families;
		// every match gets its own row, duplicates preserved.
		for _, img := range matches {
			milestone, family := ParseImageName(img.Name)
			rows = appendRow(rows, l.row(build, milestone, family, img.Status, objectSet), includeAll)
		}
	}
	return rows, nil
}

func appendRow(rows []Row, row Row, includeAll bool) []Row {
	if !includeAll && row.Status != Active {
		return rows
	}
	return append(rows, row)
}

func (l *Lister) row(build, milestone, family string, status Lifecycle, objects map[string]struct{}) Row {
	available := make([]bool, len(artifact.Registry))
	base := strings.TrimSuffix(l.Bucket, "/")
	for i, d := range artifact.Registry {
		_, ok := objects[fmt.Sprintf("%s/%s/%s", base, build, d.RemoteName)]
		available[i] = ok
	}
	return Row{
		BuildID:    build,
		Milestone:  milestone,
		Family:     family,
		Status:     status,
		StatusName: status.String(),
		Artifacts:  available,
	}
}
