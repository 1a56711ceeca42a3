// Package cmd contains the clinicbook CLI commands
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"clinicbook/internal/apiclient"
	"clinicbook/internal/config"
	"clinicbook/internal/eventbus"
	"clinicbook/internal/logging"
	"clinicbook/internal/terminology"
	"clinicbook/internal/ui"
)

var (
	cfgFile   string
	apiURL    string
	logLevel  string
	cfg       *config.Config
	configSvc config.ConfigService
	bus       eventbus.EventBus
)

// rootCmd runs the TUI when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "clinicbook",
	Short: "Book and review clinical appointments from the terminal",
	Long: `clinicbook is a terminal client for an appointment backend.

It lists appointments and pending appointments page by page and books new
ones with ICHI procedure and ICD-11 diagnosis search.

Example usage:
  clinicbook                               # Start the TUI
  clinicbook --api http://localhost:8080   # Use another backend
  clinicbook list --filter upcoming        # Print a page of appointments
  clinicbook search diagnosis diabetes     # Look up ICD-11 codes
  clinicbook mock-api --addr :8080         # Serve an in-memory backend`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd.Flags())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if bus != nil {
			bus.Close()
			bus = nil
		}
	},
	RunE: runTUI,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/clinicbook/config.toml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "appointment backend base URL")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	// --help must be known before command lookup or it swallows the next flag
	rootCmd.InitDefaultHelpFlag()
}

// initConfig loads the config file and applies flag overrides
func initConfig(flags *pflag.FlagSet) error {
	if bus != nil {
		bus.Close()
	}
	bus = eventbus.New()
	configSvc = config.NewConfigServiceWithBus(cfgFile, bus)

	loaded, err := configSvc.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = loaded
	applyOverrides(flags, cfg)
	return nil
}

// applyOverrides copies explicitly set flags onto cfg. Search URLs that
// still point at the old backend follow a changed --api.
func applyOverrides(flags *pflag.FlagSet, c *config.Config) {
	if flags.Changed("api") {
		oldBase := strings.TrimRight(c.APIBaseURL, "/")
		newBase := strings.TrimRight(apiURL, "/")
		c.APIBaseURL = newBase
		if strings.HasPrefix(c.ICHISearchURL, oldBase+"/") {
			c.ICHISearchURL = newBase + strings.TrimPrefix(c.ICHISearchURL, oldBase)
		}
		if strings.HasPrefix(c.ICDSearchURL, oldBase+"/") {
			c.ICDSearchURL = newBase + strings.TrimPrefix(c.ICDSearchURL, oldBase)
		}
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
}

func newClient() *apiclient.Client {
	return apiclient.New(cfg.APIBaseURL, cfg.RequestTimeout.Std())
}

func runTUI(cmd *cobra.Command, args []string) error {
	closer, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Could not open log file: %v\n", err)
	}
	defer closer.Close()

	log.Info().Str("api", cfg.APIBaseURL).Str("config", configSvc.Path()).Msg("starting clinicbook")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache := terminology.NewCache(cfg.Cache.Size, cfg.Cache.TTL.Std())
	model := ui.NewModel(bus, cfg, configSvc, newClient(), cache)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("program exited with error")
		return fmt.Errorf("running program: %w", err)
	}
	log.Info().Msg("clinicbook exited normally")
	return nil
}
