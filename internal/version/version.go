// Package version resolves and compares COS build identifiers.
//
// A build identifier is a three-component dotted version string such as
// "10323.104.0". When no identifier is given on the command line it is read
// from the local release-metadata file (normally /etc/os-release).
package version

import (
	"bufio"
	"regexp"
	"sort"
	"strconv"
	"strings"

	kdevErrors "github.com/cos-dev/kdev/internal/errors"
	"github.com/spf13/afero"
)

// BuildIDKey is the release-metadata key holding the build identifier.
const BuildIDKey = "BUILD_ID"

var buildIDPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Valid reports whether s has the major.minor.patch shape.
func Valid(s string) bool {
	return buildIDPattern.MatchString(s)
}

// Resolve returns the build identifier to operate on. An explicit identifier
// wins; otherwise the release-metadata file at releasePath is consulted.
func Resolve(fs afero.Fs, explicit, releasePath string) (string, error) {
	if explicit != "" {
		if !Valid(explicit) {
			return "", kdevErrors.NewInvalidBuildIDError(nil,
				"build id "+strconv.Quote(explicit)+" does not match major.minor.patch")
		}
		return explicit, nil
	}

	id, err := FromReleaseFile(fs, releasePath)
	if err != nil {
		return "", err
	}
	return id, nil
}

// FromReleaseFile extracts the build identifier from a KEY=VALUE
// release-metadata file.
func FromReleaseFile(fs afero.Fs, path string) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", kdevErrors.NewReleaseMetadataError(err,
			"cannot read "+path,
			"Pass a build id explicitly, e.g. kdev fetch 10323.104.0")
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, found := strings.Cut(line, "=")
		if !found || key != BuildIDKey {
			continue
		}
		value = strings.Trim(value, `"`)
		if !Valid(value) {
			return "", kdevErrors.NewInvalidBuildIDError(nil,
				BuildIDKey+" in "+path+" is "+strconv.Quote(value)+", not major.minor.patch")
		}
		return value, nil
	}
	if err := scanner.Err(); err != nil {
		return "", kdevErrors.NewReleaseMetadataError(err, "reading "+path)
	}

	return "", kdevErrors.NewReleaseMetadataError(nil,
		"no "+BuildIDKey+" entry in "+path,
		"Pass a build id explicitly, e.g. kdev fetch 10323.104.0")
}

// Compare orders two build identifiers component-wise numerically.
// Both arguments must already be valid; malformed components compare as 0.
func Compare(a, b string) int {
	as := strings.SplitN(a, ".", 3)
	bs := strings.SplitN(b, ".", 3)
	for i := 0; i < 3; i++ {
		an, bn := 0, 0
		if i < len(as) {
			an, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bn, _ = strconv.Atoi(bs[i])
		}
		if an != bn {
			if an < bn {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Sort orders build identifiers ascending, numerically per component, so that
// "1.2.10" sorts after "1.2.2" rather than between "1.2.1" and "1.2.2".
func Sort(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		return Compare(ids[i], ids[j]) < 0
	})
}
