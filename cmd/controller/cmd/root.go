package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arpa-network/randcast-controller/config"
)

var conf *config.Config

var rootCmd = &cobra.Command{
	Use:   "controller",
	Short: "Randcast group controller",
	// the configuration is only needed by sub-commands
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		conf, err = config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		return initLogger(conf.Log)
	},
}

var RootCmd = rootCmd

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	config.InitializeFlags(rootCmd.PersistentFlags())
}

func initLogger(cfg config.LogConfig) error {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return nil
}
