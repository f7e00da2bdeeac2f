// Package config loads the controller configuration. Values are layered, with
// later layers taking precedence: the embedded defaults, an optional YAML
// file, RANDCAST_ prefixed environment variables, and command line flags.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/arpa-network/randcast-controller/engine/api/websockets"
	"github.com/arpa-network/randcast-controller/engine/notifier"
	"github.com/arpa-network/randcast-controller/state/controller"
)

const envPrefix = "RANDCAST"

var (
	//go:embed default-config.yml
	defaultConfig []byte
)

// Config is the configuration of the controller process.
type Config struct {
	Controller controller.Params `mapstructure:"controller"`
	Storage    StorageConfig     `mapstructure:"storage"`
	Chain      ChainConfig       `mapstructure:"chain"`
	API        APIConfig         `mapstructure:"api"`
	Metrics    MetricsConfig     `mapstructure:"metrics"`
	Notifier   NotifierConfig    `mapstructure:"notifier"`
	Log        LogConfig         `mapstructure:"log"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=badger pebble"`
	Dir     string `mapstructure:"dir" validate:"required"`
}

// ChainConfig configures the local block clock.
type ChainConfig struct {
	// StartHeight is the height of a fresh clock. A restarted controller
	// starts no lower than the start block of its latest persisted round.
	StartHeight   uint64        `mapstructure:"start-height"`
	BlockInterval time.Duration `mapstructure:"block-interval" validate:"gt=0"`
}

type APIConfig struct {
	Enabled       bool                `mapstructure:"enabled"`
	Listen        string              `mapstructure:"listen" validate:"required_if=Enabled true"`
	TaskCacheSize int                 `mapstructure:"task-cache-size" validate:"gt=0"`
	Subscriptions SubscriptionsConfig `mapstructure:"subscriptions"`
}

// SubscriptionsConfig configures the websocket task stream of the API.
type SubscriptionsConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	websockets.Config `mapstructure:",squash"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    uint `mapstructure:"port" validate:"required_if=Enabled true"`
}

// NotifierConfig configures the webhook delivery of DKG tasks. The notifier
// is disabled when no endpoint is configured.
type NotifierConfig struct {
	Endpoints []string                 `mapstructure:"endpoints" validate:"dive,url"`
	Workers   int                      `mapstructure:"workers" validate:"gt=0"`
	Retry     notifier.RetryDescriptor `mapstructure:"retry"`

	CircuitBreaker notifier.CircuitBreakerConfig `mapstructure:"circuit-breaker"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// DefaultConfig returns the embedded default configuration.
func DefaultConfig() (*Config, error) {
	return Load(nil)
}

// Load builds the configuration from the defaults, the file named by the
// --config flag, the environment and the changed flags. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	conf := viper.New()
	conf.SetConfigType("yaml")
	if err := conf.ReadConfig(bytes.NewReader(defaultConfig)); err != nil {
		return nil, fmt.Errorf("could not read default config: %w", err)
	}

	if flags != nil {
		path, err := flags.GetString(flagConfigFile)
		if err != nil {
			return nil, fmt.Errorf("could not read config file flag: %w", err)
		}
		if path != "" {
			conf.SetConfigFile(path)
			if err := conf.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("could not read config file %s: %w", path, err)
			}
		}
		if err := bindFlags(conf, flags); err != nil {
			return nil, err
		}
	}

	conf.SetEnvPrefix(envPrefix)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	conf.AutomaticEnv()

	var config Config
	err := conf.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

// Validate checks the struct tag rules and the consistency of the protocol
// parameters. All violations are reported at once.
func (c *Config) Validate() error {
	var errs *multierror.Error

	err := validator.New().Struct(c)
	if err != nil {
		var invalid validator.ValidationErrors
		if !errors.As(err, &invalid) {
			return fmt.Errorf("could not validate config: %w", err)
		}
		for _, field := range invalid {
			errs = multierror.Append(errs, fmt.Errorf("%s: failed on the '%s' rule", field.Namespace(), field.Tag()))
		}
	}

	if err := c.Controller.Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}
