// Command parley is a terminal chat client for a webhook-backed
// assistant with conversation history in a remote row store.
//
// Usage:
//
//	PARLEY_WEBHOOK_URL=https://... PARLEY_STORE_URL=https://... PARLEY_STORE_KEY=... parley
//
// Flags:
//
//	--webhook-url string   Assistant webhook endpoint (env PARLEY_WEBHOOK_URL)
//	--store-url string     Supabase project URL (env PARLEY_STORE_URL)
//	--store-key string     Supabase anonymous key (env PARLEY_STORE_KEY)
//	--store-table string   History table name (env PARLEY_STORE_TABLE)
//	--legacy-format        Use the {message, sessionId} webhook body
//	--timeout duration     Per-request HTTP timeout
//	--log-file string      Write structured logs to this file
//	--log-level string     Log level: trace, debug, info, warn, error
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/parleyhq/parley"
	bt "github.com/parleyhq/parley/bubbletea"
	"github.com/parleyhq/parley/supabase"
	"github.com/parleyhq/parley/webhook"
)

var (
	flagConfig config
	timeout    time.Duration
	logFile    string
	logLevel   string

	rootCmd = &cobra.Command{
		Use:   "parley",
		Short: "Chat with a webhook-backed assistant from the terminal",
		Long: `parley is a TUI chat client. Messages go to an automation webhook;
conversation history is read back from a Supabase table the remote
pipeline writes to.`,
		RunE:         runTUI,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.Flags().StringVar(&flagConfig.WebhookURL, "webhook-url", "", "Assistant webhook endpoint (env PARLEY_WEBHOOK_URL)")
	rootCmd.Flags().StringVar(&flagConfig.StoreURL, "store-url", "", "Supabase project URL (env PARLEY_STORE_URL)")
	rootCmd.Flags().StringVar(&flagConfig.StoreKey, "store-key", "", "Supabase anonymous key (env PARLEY_STORE_KEY)")
	rootCmd.Flags().StringVar(&flagConfig.StoreTable, "store-table", "", "History table name (env PARLEY_STORE_TABLE)")
	rootCmd.Flags().BoolVar(&flagConfig.LegacyFormat, "legacy-format", false, "Use the {message, sessionId} webhook body")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Per-request HTTP timeout")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Write structured logs to this file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: trace, debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "parley: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(flagConfig, os.Getenv)
	if err != nil {
		return err
	}

	logger, cleanup, err := newLogger(logFile, logLevel)
	if err != nil {
		return err
	}
	defer cleanup()

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	httpClient := &http.Client{Timeout: timeout}

	transportOpts := []webhook.Option{
		webhook.WithHTTPClient(httpClient),
		webhook.WithLogger(logger),
	}
	if cfg.LegacyFormat {
		transportOpts = append(transportOpts, webhook.WithLegacyFormat())
	}
	transport := webhook.New(cfg.WebhookURL, transportOpts...)

	store := supabase.New(cfg.StoreURL, cfg.StoreKey,
		supabase.WithTable(cfg.StoreTable),
		supabase.WithHTTPClient(httpClient),
		supabase.WithLogger(logger),
	)

	controller := parley.NewController()
	lister := parley.NewLister(store)

	m := bt.New(controller, lister, transport, store, parley.DefaultTheme())
	if err := bt.Run(ctx, m); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

// newLogger builds the application logger. Without a log file it
// discards everything; writing to the terminal would corrupt the TUI.
func newLogger(path, level string) (zerolog.Logger, func(), error) {
	if path == "" {
		return zerolog.Nop(), func() {}, nil
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("parse log level: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := zerolog.New(f).With().Timestamp().Logger().Level(lvl)
	return logger, func() { _ = f.Close() }, nil
}
