package main

import (
	"errors"
	"fmt"

	"github.com/parleyhq/parley/supabase"
)

// config holds everything the client needs to talk to its backends.
type config struct {
	WebhookURL   string
	StoreURL     string
	StoreKey     string
	StoreTable   string
	LegacyFormat bool
}

// resolveConfig merges flag values with environment fallbacks and
// validates the result. Flags win over the environment; getenv is
// injected so tests control it.
func resolveConfig(flags config, getenv func(string) string) (config, error) {
	cfg := flags
	if cfg.WebhookURL == "" {
		cfg.WebhookURL = getenv("PARLEY_WEBHOOK_URL")
	}
	if cfg.StoreURL == "" {
		cfg.StoreURL = getenv("PARLEY_STORE_URL")
	}
	if cfg.StoreKey == "" {
		cfg.StoreKey = getenv("PARLEY_STORE_KEY")
	}
	if cfg.StoreTable == "" {
		cfg.StoreTable = getenv("PARLEY_STORE_TABLE")
	}
	if cfg.StoreTable == "" {
		cfg.StoreTable = supabase.DefaultTable
	}

	var missing []string
	if cfg.WebhookURL == "" {
		missing = append(missing, "webhook URL (--webhook-url or PARLEY_WEBHOOK_URL)")
	}
	if cfg.StoreURL == "" {
		missing = append(missing, "store URL (--store-url or PARLEY_STORE_URL)")
	}
	if cfg.StoreKey == "" {
		missing = append(missing, "store key (--store-key or PARLEY_STORE_KEY)")
	}
	if len(missing) > 0 {
		return config{}, errors.New("missing configuration: " + joinAnd(missing))
	}
	return cfg, nil
}

func joinAnd(items []string) string {
	switch len(items) {
	case 1:
		return items[0]
	default:
		s := items[0]
		for _, item := range items[1:] {
			s = fmt.Sprintf("%s, %s", s, item)
		}
		return s
	}
}
