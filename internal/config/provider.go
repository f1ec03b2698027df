// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions selects where configuration is read from. The zero value
	// means the platform config directory, then ./config.cue.
	LoadOptions struct {
		// ConfigFilePath names the file to load; it must exist.
		ConfigFilePath string
		// ConfigDirPath replaces the platform config directory.
		ConfigDirPath string
	}

	// Provider is the configuration source the CLI depends on.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
		// Path returns the config file Load would read, or "" when defaults apply.
		Path(opts LoadOptions) (string, error)
	}

	fileProvider struct{}

	// StaticProvider serves a fixed configuration, ignoring LoadOptions.
	// It lets embedders and tests bypass the filesystem.
	StaticProvider struct {
		Config *Config
		// Source is reported by Path; empty means defaults.
		Source string
	}
)

// NewProvider returns the provider that reads CUE files through viper.
func NewProvider() Provider {
	return fileProvider{}
}

func (fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (fileProvider) Path(opts LoadOptions) (string, error) {
	return resolveConfigPath(opts)
}

// Load validates and returns the fixed configuration, or the defaults when
// none was set.
func (p StaticProvider) Load(ctx context.Context, _ LoadOptions) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Config == nil {
		return DefaultConfig(), nil
	}
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}
	return p.Config, nil
}

// Path returns Source.
func (p StaticProvider) Path(LoadOptions) (string, error) {
	return p.Source, nil
}
