package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"pipestat/pkg/util/config"
	"pipestat/pkg/util/context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type logConfig struct {
	Level string `json:"level" env:"LOG_LEVEL"`
}

// NewRootCommand returns a new instance of a pipestat command
func NewRootCommand() *cobra.Command {
	var configFile, logLevel string
	rootCmd := &cobra.Command{
		Use:           "pipestat",
		Short:         "pipestat reports the status of AWS Data Pipeline pipelines",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				config.SetConfigFile(configFile)
			}
			if err := config.ReadInConfig(); err != nil {
				return err
			}
			conf := logConfig{Level: "info"}
			if err := config.Unmarshal("log", &conf); err != nil {
				return errors.Wrap(err, "cannot read log config")
			}
			if logLevel != "" {
				conf.Level = logLevel
			}
			return context.SetLogLevel(conf.Level)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default from env "+config.EnvConfigFile+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides the config (trace, debug, info, warn, error)")

	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewLsCommand())
	rootCmd.AddCommand(NewAlertsCommand())
	return rootCmd
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sig:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, func() {
		signal.Stop(sig)
		cancel()
	}
}
