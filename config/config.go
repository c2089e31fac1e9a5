package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/stalkchat/stalk/engine/relay"
)

// envPrefix is prepended to the upper-cased config keys to form the environment variables overriding
// them, e.g., STALK_ARENA_NODE_CAPACITY for arena.node-capacity.
const envPrefix = "STALK"

var (
	validate *validator.Validate
	//go:embed default-config.yml
	configFile string
)

func init() {
	validate = validator.New()
}

// Config is the configuration of a chat session.
type Config struct {
	Arena   ArenaConfig   `mapstructure:"arena"`
	Relay   relay.Params  `mapstructure:"relay"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	// LogLevel is the minimum level of the printed logs.
	LogLevel string `validate:"oneof=trace debug info warn error" mapstructure:"log-level"`
}

// ArenaConfig sizes the pool shared by the queues of a session.
type ArenaConfig struct {
	NodeCapacity uint32 `validate:"gt=0" mapstructure:"node-capacity"`
	// ListCapacity must leave room for the outbound and inbound queues.
	ListCapacity uint32 `validate:"gte=2" mapstructure:"list-capacity"`
}

type MetricsConfig struct {
	Port            uint `validate:"lte=65535" mapstructure:"port"`
	ProfilerEnabled bool `mapstructure:"profiler-enabled"`
}

// Validate checks every field of the configuration against its constraints.
// Expected errors during normal operations:
//   - InvalidConfigError if any value is out of its range, every offending value is listed.
func (c *Config) Validate() error {
	var result *multierror.Error

	err := validate.Struct(c)
	if err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return fmt.Errorf("could not validate config: %w", err)
		}
		for _, e := range validationErrs {
			result = multierror.Append(result, fmt.Errorf("%s=%v failed on the %q constraint", e.Namespace(), e.Value(), e.Tag()))
		}
	}

	if c.Relay.QueueCapacity > uint(c.Arena.NodeCapacity) {
		result = multierror.Append(result, fmt.Errorf("relay queue capacity %d exceeds the arena node capacity %d", c.Relay.QueueCapacity, c.Arena.NodeCapacity))
	}

	if err := result.ErrorOrNil(); err != nil {
		return NewInvalidConfigErr(err)
	}
	return nil
}

// Level returns the parsed log level, info if the level is unknown.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// DefaultConfig returns the configuration embedded in the binary, without environment or flag overrides.
func DefaultConfig() (*Config, error) {
	conf, err := defaultStore()
	if err != nil {
		return nil, err
	}
	return unmarshal(conf)
}

// Load returns the validated configuration: the embedded defaults, overridden by the STALK_ environment
// variables, overridden by the flags changed on the flag set. flags may be nil.
// Expected errors during normal operations:
//   - InvalidConfigError if the resulting configuration is invalid.
func Load(flags *pflag.FlagSet) (*Config, error) {
	conf, err := defaultStore()
	if err != nil {
		return nil, err
	}

	conf.SetEnvPrefix(envPrefix)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	conf.AutomaticEnv()

	if flags != nil {
		if err := BindFlags(conf, flags); err != nil {
			return nil, err
		}
	}

	c, err := unmarshal(conf)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// defaultStore returns a viper store loaded with the embedded default config.
func defaultStore() (*viper.Viper, error) {
	conf := viper.New()
	conf.SetConfigType("yaml")
	if err := conf.ReadConfig(bytes.NewBufferString(configFile)); err != nil {
		return nil, fmt.Errorf("failed to read default config: %w", err)
	}
	return conf, nil
}

func unmarshal(conf *viper.Viper) (*Config, error) {
	c := &Config{}
	err := conf.Unmarshal(c, func(decoderConfig *mapstructure.DecoderConfig) {
		// a key without field is a typo in the config file
		decoderConfig.ErrorUnused = true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return c, nil
}
