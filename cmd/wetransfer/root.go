package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wetransfer/wetransfer-go"
	"github.com/wetransfer/wetransfer-go/internal/config"
)

// app carries the state shared by all commands.
type app struct {
	configPath string
	debug      bool

	cfg    *config.Config
	logger zerolog.Logger
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "wetransfer",
		Short:         "Send files with WeTransfer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if a.debug {
				cfg.Debug = true
				cfg.LogLevel = "debug"
			}
			level, err := config.ParseLogLevel(cfg.LogLevel)
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.logger = zerolog.New(zerolog.ConsoleWriter{
				Out:        cmd.ErrOrStderr(),
				TimeFormat: "2006-01-02 15:04:05",
				NoColor:    true,
			}).Level(level).With().Timestamp().Logger()
			a.logger.Debug().Object("config", cfg).Msg("configuration loaded")
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&a.debug, "debug", "d", false, "Log every HTTP exchange")

	rootCmd.AddCommand(newAuthorizeCmd(a))
	rootCmd.AddCommand(newSendCmd(a))
	return rootCmd
}

// newClient builds a client from the loaded configuration, prompting for
// the API key when none is configured.
func (a *app) newClient(extra ...wetransfer.Option) (*wetransfer.Client, error) {
	apiKey := a.cfg.APIKey
	if apiKey == "" {
		key, err := promptAPIKey()
		if err != nil {
			return nil, err
		}
		apiKey = key
	}
	opts := append(a.cfg.Options(a.logger), extra...)
	return wetransfer.New(apiKey, opts...)
}

// promptAPIKey reads the API key from the terminal with echo disabled.
func promptAPIKey() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("%s_API_KEY is not set and no terminal is available to prompt for it", config.EnvPrefix)
	}

	fmt.Fprint(os.Stderr, "API key: ")
	key, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading API key: %w", err)
	}
	return string(key), nil
}
