// Package config holds the runtime configuration gathered from flags, environment and config files.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/idelchi/gogen/pkg/validator"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. GOROTOR_LOG_LEVEL.
const EnvPrefix = "GOROTOR"

// masked replaces secret values in Display output.
const masked = "********"

// ErrInvalid is returned when the configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

// ErrNoKeySets is returned when a command needs key sets and none were configured.
var ErrNoKeySets = errors.New("no key sets configured: use --set seven times or --sets-from")

type Config struct {
	// Show prints the resolved configuration instead of running the command
	Show bool `yaml:"-"`

	// Raw key sets, one whitespace-separated list of integers each
	Sets []string `label:"--set" mapstructure:"set" yaml:"set"`
	// JSONC file holding the key sets as an array of strings
	SetsFrom string `label:"--sets-from" mapstructure:"sets-from" yaml:"sets-from" validate:"exclusive=Sets"`

	Parallel int  `label:"--parallel" yaml:"parallel" validate:"min=1"`
	Quiet    bool `yaml:"quiet"`
	Stats    bool `yaml:"stats"`
	Verify   bool `yaml:"verify"`

	Suffixes Suffixes `mapstructure:",squash" yaml:",inline"`
	Log      Log      `mapstructure:",squash" yaml:",inline"`

	// Positional arguments
	Files []string `mapstructure:"-" yaml:"files"`
}

// Suffixes replace the input extension to form output names.
type Suffixes struct {
	Encrypt string `label:"--encrypt-ext" mapstructure:"encrypt-ext" yaml:"encrypt-ext" validate:"required,nefield=Decrypt"`
	Decrypt string `label:"--decrypt-ext" mapstructure:"decrypt-ext" yaml:"decrypt-ext" validate:"required"`
}

// Log configures the operations log.
type Log struct {
	Level  string `label:"--log-level"  mapstructure:"log-level"  yaml:"log-level"  validate:"oneof=trace debug info warn error disabled"`
	Format string `label:"--log-format" mapstructure:"log-format" yaml:"log-format" validate:"oneof=console json"`
	// File appends the log to a file instead of stderr
	File string `label:"--log-file" mapstructure:"log-file" yaml:"log-file"`
}

// Load merges, in increasing precedence, flag defaults, the optional config file
// named by the "config" flag, GOROTOR_* environment variables and explicitly set flags.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %q: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration against the struct tags.
// Errors name the offending flag through its label tag.
func (c *Config) Validate() error {
	validator := validator.NewValidator()

	if err := registerExclusive(validator); err != nil {
		return err
	}

	errs := validator.Validate(c)

	switch len(errs) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("%w: %w", ErrInvalid, errs[0])
	default:
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
}

// Display renders the configuration as YAML with the key sets masked.
func (c *Config) Display() ([]byte, error) {
	shown := *c

	shown.Sets = make([]string, len(c.Sets))
	for i := range shown.Sets {
		shown.Sets[i] = masked
	}

	out, err := yaml.Marshal(shown)
	if err != nil {
		return nil, fmt.Errorf("rendering configuration: %w", err)
	}

	return out, nil
}

// KeySets returns the configured raw key sets, reading SetsFrom if given.
func (c *Config) KeySets() ([]string, error) {
	if c.SetsFrom != "" {
		return LoadSets(c.SetsFrom)
	}

	if len(c.Sets) == 0 {
		return nil, ErrNoKeySets
	}

	return c.Sets, nil
}
