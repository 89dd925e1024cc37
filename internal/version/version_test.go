package version

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kdevErrors "github.com/cos-dev/kdev/internal/errors"
)

func TestValid(t *testing.T) {
	t.Parallel()

	valid := []string{"0.0.0", "10323.104.0", "1.2.3", "12371.273.36"}
	for _, id := range valid {
		if !Valid(id) {
			t.Errorf("Valid(%q) = false, want true", id)
		}
	}

	invalid := []string{"", "1.2", "1.2.3.4", "v1.2.3", "1.2.x", "1..3", "1.2.3 ", "a.b.c", "-1.2.3"}
	for _, id := range invalid {
		if Valid(id) {
			t.Errorf("Valid(%q) = true, want false", id)
		}
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	t.Run("explicit id wins", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		id, err := Resolve(fs, "10323.104.0", "/etc/os-release")
		require.NoError(t, err)
		assert.Equal(t, "10323.104.0", id)
	})

	t.Run("malformed explicit id fails", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		_, err := Resolve(fs, "banana", "/etc/os-release")
		require.Error(t, err)
		assert.True(t, kdevErrors.IsInvalidBuildID(err))
	})

	t.Run("falls back to release file", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		release := "NAME=\"Container-Optimized OS\"\nID=cos\nBUILD_ID=10323.104.0\n"
		require.NoError(t, afero.WriteFile(fs, "/etc/os-release", []byte(release), 0o644))

		id, err := Resolve(fs, "", "/etc/os-release")
		require.NoError(t, err)
		assert.Equal(t, "10323.104.0", id)
	})

	t.Run("missing release file fails", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		_, err := Resolve(fs, "", "/etc/os-release")
		require.Error(t, err)
		assert.ErrorIs(t, err, kdevErrors.ErrReleaseMetadata)
	})
}

func TestFromReleaseFile(t *testing.T) {
	t.Parallel()

	t.Run("quoted value accepted", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/etc/os-release", []byte("BUILD_ID=\"11647.77.0\"\n"), 0o644))

		id, err := FromReleaseFile(fs, "/etc/os-release")
		require.NoError(t, err)
		assert.Equal(t, "11647.77.0", id)
	})

	t.Run("missing key fails", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/etc/os-release", []byte("ID=cos\n"), 0o644))

		_, err := FromReleaseFile(fs, "/etc/os-release")
		assert.ErrorIs(t, err, kdevErrors.ErrReleaseMetadata)
	})

	t.Run("malformed value fails with invalid id", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/etc/os-release", []byte("BUILD_ID=tip-of-tree\n"), 0o644))

		_, err := FromReleaseFile(fs, "/etc/os-release")
		assert.True(t, kdevErrors.IsInvalidBuildID(err))
	})
}

func TestCompare(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b string
		want int
	}{
		{"1.2.2", "1.2.10", -1},
		{"1.2.10", "1.2.2", 1},
		{"1.10.0", "1.2.10", 1},
		{"10323.104.0", "10323.104.0", 0},
		{"2.0.0", "10.0.0", -1},
	}
	for _, c := range cases {
		if got := Compare(c.a, c.b); got != c.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestSort(t *testing.T) {
	t.Parallel()

	ids := []string{"1.2.10", "1.2.2", "1.10.0"}
	Sort(ids)
	assert.Equal(t, []string{"1.2.2", "1.2.10", "1.10.0"}, ids)
}
