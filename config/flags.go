package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// All constant strings are used for CLI flag names.
const (
	flagConfigFile     = "config"
	flagStorageBackend = "storage-backend"
	flagDataDir        = "data-dir"
	flagBlockInterval  = "block-interval"
	flagAPIListen      = "api-listen"
	flagMetricsPort    = "metrics-port"
	flagEndpoints      = "notifier-endpoints"
	flagLogLevel       = "log-level"
	flagLogFormat      = "log-format"
)

// flagKeys maps the flags to the configuration keys they override.
var flagKeys = map[string]string{
	flagStorageBackend: "storage.backend",
	flagDataDir:        "storage.dir",
	flagBlockInterval:  "chain.block-interval",
	flagAPIListen:      "api.listen",
	flagMetricsPort:    "metrics.port",
	flagEndpoints:      "notifier.endpoints",
	flagLogLevel:       "log.level",
	flagLogFormat:      "log.format",
}

// InitializeFlags registers the configuration flags on the given flag set.
// Flags only override the configuration when they are set explicitly.
func InitializeFlags(flags *pflag.FlagSet) {
	flags.String(flagConfigFile, "", "path to a YAML file overriding the default configuration")
	flags.String(flagStorageBackend, "", "storage backend, badger or pebble")
	flags.String(flagDataDir, "", "directory of the database")
	flags.Duration(flagBlockInterval, 0, "interval between two blocks of the local clock")
	flags.String(flagAPIListen, "", "listen address of the REST API")
	flags.Uint(flagMetricsPort, 0, "port of the metrics server")
	flags.StringSlice(flagEndpoints, nil, "webhook endpoints receiving published DKG tasks")
	flags.String(flagLogLevel, "", "log level")
	flags.String(flagLogFormat, "", "log format, json or console")
}

func bindFlags(conf *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := conf.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("could not bind flag %s: %w", name, err)
		}
	}
	return nil
}
