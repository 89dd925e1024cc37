package catalog

import (
	"regexp"
	"strings"

	"github.com/cos-dev/kdev/internal/version"
)

// Lifecycle is a compute image's deprecation state.
type Lifecycle int

const (
	Active Lifecycle = iota
	Deprecated
	Obsolete
)

// Abbrev is the short status printed in list output; active maps to blank.
func (l Lifecycle) Abbrev() string {
	switch l {
	case Deprecated:
		return "dep"
	case Obsolete:
		return "obs"
	}
	return ""
}

func (l Lifecycle) String() string {
	switch l {
	case Deprecated:
		return "deprecated"
	case Obsolete:
		return "obsolete"
	}
	return "active"
}

// Image is one parsed row of the compute-image table.
type Image struct {
	Name   string
	Status Lifecycle
}

// ParseImageTable turns the raw gcloud image listing into image records.
// The first field is the image name; a DEPRECATED or OBSOLETE marker
// anywhere later in the row sets the lifecycle state. Header rows and rows
// not starting with "cos-" are dropped.
func ParseImageTable(raw string) []Image {
	var images []Image
	for _, line := range strings.Split(raw, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || !strings.HasPrefix(fields[0], "cos-") {
			continue
		}

		status := Active
		for _, f := range fields[1:] {
			switch f {
			case "DEPRECATED":
				status = Deprecated
			case "OBSOLETE":
				status = Obsolete
			}
		}
		images = append(images, Image{Name: fields[0], Status: status})
	}
	return images
}

var buildDirPattern = regexp.MustCompile(`/(\d+\.\d+\.\d+)/`)

// BuildIDsFromObjects extracts the set of build identifiers that have a
// directory marker in the bucket listing, deduplicated and sorted ascending
// with numeric component ordering.
func BuildIDsFromObjects(paths []string) []string {
	seen := make(map[string]struct{})
	for _, p := range paths {
		m := buildDirPattern.FindStringSubmatch(p)
		if m == nil {
			continue
		}
		seen[m[1]] = struct{}{}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	version.Sort(ids)
	return ids
}

var leadingDigit = regexp.MustCompile(`^cos-\d`)

// ParseImageName extracts the milestone and release family from a compute
// image name. Two shapes exist:
//
//	cos-65-10323-104-0          LTS releases; the milestone follows cos-
//	cos-dev-72-11190-0-0        other tracks; the track then the milestone
func ParseImageName(name string) (milestone, family string) {
	fields := strings.Split(name, "-")
	if leadingDigit.MatchString(name) {
		if len(fields) < 2 {
			return "", ""
		}
		return fields[1], "lts"
	}
	if len(fields) < 3 {
		return "", ""
	}
	return fields[2], fields[1]
}

// MatchImages returns the images whose name contains the build identifier in
// its hyphenated form. The same build can appear under several image
// families; every match is returned, in listing order.
func MatchImages(images []Image, buildID string) []Image {
	hyphenated := strings.ReplaceAll(buildID, ".", "-")
	var matches []Image
	for _, img := range images {
		if strings.Contains(img.Name, hyphenated) {
			matches = append(matches, img)
		}
	}
	return matches
}

// ObjectSet indexes a bucket listing for existence checks.
func ObjectSet(paths []string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[strings.TrimSpace(p)] = struct{}{}
	}
	return set
}
