package config

import (
	"errors"
	"fmt"
	"os"
	goruntime "runtime"

	"github.com/spf13/viper"

	"github.com/debvet/debvet/internal/paths"
)

const (

	// Prefix for environment variables (DEBVET_BASE_IMAGE and so on).
	envPrefix = "DEBVET"

	// Name of the optional configuration file, without extension.
	configName = "config"

	// Format of the configuration file.
	configType = "yaml"
)

// Viper keys. Each key is overridable from the environment by upper-casing
// it and prepending the prefix.
const (
	keyLocalFiles    = "local_files"
	keyRemoteFiles   = "remote_files"
	keyRebuild       = "rebuild"
	keyWorkDir       = "work_dir"
	keyBuildDir      = "build_dir"
	keyBaseImage     = "base_image"
	keyImageTag      = "image_tag"
	keyContainerName = "container_name"
	keyAddress       = "address"
	keyNamespace     = "namespace"
	keyPlatform      = "platform"
)

// Effective parameters for a run.
//
// Values come from four layers in increasing precedence: built-in defaults,
// the optional configuration file, DEBVET_* environment variables, and the
// command line (folded in by Merge).
type Config struct {
	LocalFiles    []string // Local package files to stage.
	RemoteFiles   []string // Remote package URLs to stage.
	Rebuild       bool     // Discard the persisted image and container first.
	WorkDir       string   // Base directory for resolving relative local paths.
	BuildDir      string   // Directory packages are staged into.
	BaseImage     string   // Image the verification image is built from.
	ImageTag      string   // Tag given to the built verification image.
	ContainerName string   // ID of the detached verification container.
	Address       string   // Containerd socket address.
	Namespace     string   // Containerd namespace.
	Platform      string   // OCI platform of the verification image.
}

// Loads the configuration from defaults, the optional configuration file,
// and the environment.
//
// The configuration file is config.yaml in the tool's XDG config directory;
// a missing file is not an error. List-valued environment variables hold
// whitespace-separated entries.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault(keyLocalFiles, []string{})
	v.SetDefault(keyRemoteFiles, []string{})
	v.SetDefault(keyRebuild, false)
	v.SetDefault(keyWorkDir, "")
	v.SetDefault(keyBuildDir, paths.Staging())
	v.SetDefault(keyBaseImage, "docker.io/library/debian:bookworm")
	v.SetDefault(keyImageTag, "debvet/verify:latest")
	v.SetDefault(keyContainerName, "debvet-verify")
	v.SetDefault(keyAddress, "/run/containerd/containerd.sock")
	v.SetDefault(keyNamespace, "debvet")
	v.SetDefault(keyPlatform, "linux/"+goruntime.GOARCH)

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(paths.Config())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{
		keyLocalFiles, keyRemoteFiles, keyRebuild, keyWorkDir, keyBuildDir,
		keyBaseImage, keyImageTag, keyContainerName, keyAddress, keyNamespace,
		keyPlatform,
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
	}

	cfg := &Config{
		LocalFiles:    v.GetStringSlice(keyLocalFiles),
		RemoteFiles:   v.GetStringSlice(keyRemoteFiles),
		Rebuild:       v.GetBool(keyRebuild),
		WorkDir:       v.GetString(keyWorkDir),
		BuildDir:      v.GetString(keyBuildDir),
		BaseImage:     v.GetString(keyBaseImage),
		ImageTag:      v.GetString(keyImageTag),
		ContainerName: v.GetString(keyContainerName),
		Address:       v.GetString(keyAddress),
		Namespace:     v.GetString(keyNamespace),
		Platform:      v.GetString(keyPlatform),
	}

	if cfg.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		cfg.WorkDir = wd
	}

	return cfg, nil
}

// Folds a parsed command line into the configuration.
//
// List flags append to entries seeded by the environment and configuration
// file, preserving each layer's internal order, so repeating a flag and
// layering an environment list accumulate the same way. The rebuild flag
// combines with a logical OR.
func (c *Config) Merge(locals, remotes []string, rebuild bool) {
	c.LocalFiles = append(c.LocalFiles, locals...)
	c.RemoteFiles = append(c.RemoteFiles, remotes...)
	c.Rebuild = c.Rebuild || rebuild
}

// Checks that the merged configuration names at least one package source.
func (c *Config) Validate() error {
	if len(c.LocalFiles) == 0 && len(c.RemoteFiles) == 0 {
		return fmt.Errorf("%w: no package files or URLs given", ErrNoPackages)
	}
	return nil
}
