// Package root contains the root command for the application
package root

import (
	"context"
	"errors"

	"ari/moneyworks-cli/internal/config"
	"ari/moneyworks-cli/internal/container"
	"ari/moneyworks-cli/internal/logging"
	"ari/moneyworks-cli/internal/validation"

	"github.com/spf13/cobra"
)

var (
	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "mwcli",
		Short: "A CLI for the MoneyWorks REST interface.",
		Long: `mwcli talks to a MoneyWorks Datacentre server over its REST interface.
It exports records, creates and posts transactions, and prints forms.

Connection settings are read from an INI file (mw.ini by default):

  [mw_server]
  HOST = mw.example.com
  PORT = 6710
  DATA_FILE = Acme Widgets.moneyworks
  USERNAME = Admin
  PASSWORD = secret

Any option can be overridden with an MW_ environment variable, for example
MW_MW_SERVER_HOST. A .env file in the working directory is loaded first.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	// ConfigPath is the INI file given with --config.
	ConfigPath string

	// LogLevel and LogFormat override the [log] section when set.
	LogLevel  string
	LogFormat string

	// AppContainer is built by the persistent pre-run hook. Tests may set it
	// directly.
	AppContainer *container.Container
)

func init() {
	Cmd.PersistentFlags().StringVarP(&ConfigPath, "config", "c", config.DefaultPath, "Path to the INI configuration file")
	Cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&LogFormat, "log-format", "", "Log format (text or json)")
}

func setup(cmd *cobra.Command, args []string) error {
	if AppContainer != nil {
		return nil
	}

	if _, err := config.LoadEnv(); err != nil {
		return err
	}

	cfg, err := config.Load(ConfigPath)
	if err != nil {
		return err
	}
	if LogLevel != "" {
		cfg.Log.Level = LogLevel
	}
	if LogFormat != "" {
		cfg.Log.Format = LogFormat
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return err
	}
	AppContainer = c

	if err := validation.CheckFilePermissions(cfg.Path); err != nil {
		c.GetLogger().Warn("Configuration file is readable by other users",
			logging.F(logging.FieldFile, cfg.Path),
			logging.F(logging.FieldError, err.Error()))
	}
	c.GetLogger().Debug("Configuration loaded",
		logging.F(logging.FieldFile, cfg.Path),
		logging.F(logging.FieldOperation, cmd.Name()))
	return nil
}

// GetContainer returns the application container.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, errors.New("container not initialized")
	}
	return AppContainer, nil
}

// Context returns the command context, or a background context when the
// command was not started through ExecuteContext.
func Context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
