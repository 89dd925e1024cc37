// Package config assembles the immutable run configuration for a kdev
// invocation.
//
// Values are layered flags > environment > optional kdev.yaml config file >
// built-in defaults, then frozen into a Config that every component receives
// explicitly. Nothing reads configuration after startup.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Built-in defaults, overridable via config file, environment or flags.
const (
	DefaultInstallDir  = "/var/lib/kdev"
	DefaultBucket      = "gs://cos-tools"
	DefaultProject     = "cos-cloud"
	DefaultReleaseFile = "/etc/os-release"
)

const (
	installDirKey  = "install_dir"
	bucketKey      = "bucket"
	projectKey     = "project"
	releaseFileKey = "release_file"
)

// Config is the run configuration. It is built once after argument parsing
// and treated as read-only by everything downstream.
type Config struct {
	// InstallDir is the root under which all artifacts are placed.
	InstallDir string

	// Bucket is the artifact bucket root, e.g. "gs://cos-tools".
	Bucket string

	// Project is the compute-image project queried for build status.
	Project string

	// ReleaseFile is the local release-metadata file consulted when no
	// build id is given.
	ReleaseFile string
}

// Load reads the optional kdev.yaml and the KDEV_* environment into a
// Config. A missing config file is not an error.
func Load(fs afero.Fs) *Config {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigName("kdev")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/kdev")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "kdev"))
	}

	v.SetEnvPrefix("kdev")
	v.AutomaticEnv()

	v.SetDefault(installDirKey, DefaultInstallDir)
	v.SetDefault(bucketKey, DefaultBucket)
	v.SetDefault(projectKey, DefaultProject)
	v.SetDefault(releaseFileKey, DefaultReleaseFile)

	// attempt to read in config file but it might not exist
	_ = v.ReadInConfig()

	return &Config{
		InstallDir:  v.GetString(installDirKey),
		Bucket:      v.GetString(bucketKey),
		Project:     v.GetString(projectKey),
		ReleaseFile: v.GetString(releaseFileKey),
	}
}

// CacheDir is where catalog listings are cached between runs.
func (c *Config) CacheDir() string {
	return filepath.Join(c.InstallDir, "cache")
}
