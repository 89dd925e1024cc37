package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseImageTable(t *testing.T) {
	t.Parallel()

	raw := `NAME                    PROJECT    FAMILY      DEPRECATED  STATUS
cos-65-10323-104-0      cos-cloud  cos-65-lts  DEPRECATED  READY
cos-dev-72-11190-0-0    cos-cloud  cos-dev     DEPRECATED  READY
cos-69-10895-138-0      cos-cloud  cos-69-lts              READY
cos-stable-72-11316-136-0  cos-cloud  cos-stable  OBSOLETE  READY
debian-9-stretch        debian-cloud  debian-9            READY
`

	images := ParseImageTable(raw)
	assert.Equal(t, []Image{
		{Name: "cos-65-10323-104-0", Status: Deprecated},
		{Name: "cos-dev-72-11190-0-0", Status: Deprecated},
		{Name: "cos-69-10895-138-0", Status: Active},
		{Name: "cos-stable-72-11316-136-0", Status: Obsolete},
	}, images)
}

func TestParseImageName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		milestone string
		family    string
	}{
		{"cos-65-10323-104-0", "65", "lts"},
		{"cos-69-10895-138-0", "69", "lts"},
		{"cos-dev-72-11190-0-0", "72", "dev"},
		{"cos-beta-72-11316-112-0", "72", "beta"},
		{"cos-stable-72-11316-136-0", "72", "stable"},
	}
	for _, c := range cases {
		milestone, family := ParseImageName(c.name)
		assert.Equal(t, c.milestone, milestone, "milestone of %s", c.name)
		assert.Equal(t, c.family, family, "family of %s", c.name)
	}
}

func TestBuildIDsFromObjects(t *testing.T) {
	t.Parallel()

	paths := []string{
		"gs://cos-tools/1.2.10/:",
		"gs://cos-tools/1.2.10/kernel-src.tgz",
		"gs://cos-tools/1.2.2/kernel-src.tgz",
		"gs://cos-tools/1.10.0/kernel-headers.tgz",
		"gs://cos-tools/latest/kernel-src.tgz",
		"gs://cos-tools/readme.txt",
	}

	ids := BuildIDsFromObjects(paths)
	assert.Equal(t, []string{"1.2.2", "1.2.10", "1.10.0"}, ids,
		"ids must be deduplicated and numerically sorted")
}

func TestMatchImages(t *testing.T) {
	t.Parallel()

	images := []Image{
		{Name: "cos-65-10323-104-0", Status: Deprecated},
		{Name: "cos-lts-65-10323-104-0", Status: Obsolete},
		{Name: "cos-69-10895-138-0", Status: Active},
	}

	matches := MatchImages(images, "10323.104.0")
	assert.Len(t, matches, 2, "every family carrying the build matches")

	assert.Empty(t, MatchImages(images, "9999.0.0"))
}

func TestLifecycleAbbrev(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", Active.Abbrev())
	assert.Equal(t, "dep", Deprecated.Abbrev())
	assert.Equal(t, "obs", Obsolete.Abbrev())
}
