package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/0xmhha/filewatch/pkg/config"
	"github.com/0xmhha/filewatch/pkg/display"
	"github.com/0xmhha/filewatch/pkg/journal"
	"github.com/0xmhha/filewatch/pkg/logger"
	"github.com/0xmhha/filewatch/pkg/messages"
	"github.com/0xmhha/filewatch/pkg/notify"
	"github.com/0xmhha/filewatch/pkg/resolver"
	"github.com/0xmhha/filewatch/pkg/session"
	"github.com/0xmhha/filewatch/pkg/source"
)

// errNoPatterns is returned when neither the command line nor the config
// names anything to watch.
var errNoPatterns = errors.New("no patterns given and none configured under watch.patterns")

// loadConfig loads configuration and builds the logger it describes.
func loadConfig(configPath string) (*config.Config, logger.Logger, error) {
	cfg, err := config.NewLoader(configPath).Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	return cfg, log, nil
}

// watchCommand runs a watch session until interrupted.
type watchCommand struct {
	patterns   []string
	root       string
	timeout    *time.Duration // nil: use config
	noJournal  bool
	quiet      bool
	configPath string
}

// settings resolves command-line values against the loaded config.
func (c *watchCommand) settings(cfg *config.Config) ([]string, string, time.Duration, error) {
	patterns := c.patterns
	if len(patterns) == 0 {
		patterns = cfg.Watch.Patterns
	}
	if len(patterns) == 0 {
		return nil, "", 0, errNoPatterns
	}

	root := c.root
	if root == "" {
		root = cfg.Watch.Root
	}

	timeout := cfg.Watch.Timeout()
	if c.timeout != nil {
		timeout = *c.timeout
	}

	return patterns, root, timeout, nil
}

// Execute runs the watch command.
func (c *watchCommand) Execute() error {
	cfg, log, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}

	patterns, root, timeout, err := c.settings(cfg)
	if err != nil {
		return err
	}

	bus := notify.NewBus(log.Named("bus"))

	out := newConsole(os.Stdout, term.IsTerminal(int(os.Stdout.Fd())), c.quiet)
	defer out.subscribe(bus)()

	if !c.noJournal && !cfg.Storage.JournalDisabled {
		store, openErr := journal.Open(journal.Config{DBPath: cfg.Storage.JournalPath}, log)
		if openErr != nil {
			return fmt.Errorf("failed to open journal: %w", openErr)
		}
		defer func() {
			if closeErr := store.Close(); closeErr != nil {
				log.Error("failed to close journal", "error", closeErr)
			}
		}()
		defer journal.Subscribe(bus, store, os.Stat, log)()
	}

	threshold := cfg.Watch.CircuitBreakerThreshold
	sess := session.New(patterns, session.Options{
		FileTimeout: timeout,
		Root:        root,
		Logger:      log,
		NewSource: func(p []string) (source.Source, error) {
			return source.New(source.Config{
				Patterns:                p,
				Root:                    root,
				CircuitBreakerThreshold: threshold,
			}, log.Named("source"))
		},
	}, bus)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The session outlives ctx so that shutdown goes through Stop below.
	if err := sess.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start watching: %w", err)
	}

	<-ctx.Done()

	if !c.quiet {
		fmt.Println("\nStopping watch...")
	}
	if err := sess.Stop(); err != nil {
		return fmt.Errorf("failed to stop watching: %w", err)
	}
	return nil
}

// listCommand prints what the patterns currently resolve to.
type listCommand struct {
	patterns   []string
	root       string
	format     string
	configPath string
}

// Execute runs the ls command.
func (c *listCommand) Execute() error {
	cfg, log, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}

	format, err := display.ParseFormat(c.format)
	if err != nil {
		return err
	}

	patterns := c.patterns
	if len(patterns) == 0 {
		patterns = cfg.Watch.Patterns
	}
	if len(patterns) == 0 {
		return errNoPatterns
	}

	root := c.root
	if root == "" {
		root = cfg.Watch.Root
	}

	glob := resolver.New(root, log.Named("resolver"))
	log.Debug("resolving patterns", "root", glob.Root(), "patterns", patterns)

	files, err := glob.ResolveStrict(patterns)
	if errors.Is(err, resolver.ErrNoMatches) {
		fmt.Println(messages.Default.Watching())
		return nil
	}
	if err != nil {
		return err
	}

	return display.New(display.Config{Format: format}).FormatFiles(os.Stdout, files)
}

// historyCommand lists journal entries.
type historyCommand struct {
	format     string
	since      time.Duration
	compact    bool
	configPath string
	now        func() time.Time
}

// Execute runs the history command.
func (c *historyCommand) Execute() error {
	cfg, log, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	if cfg.Storage.JournalDisabled {
		return fmt.Errorf("journal is disabled (storage.journal_disabled)")
	}

	format, err := display.ParseFormat(c.format)
	if err != nil {
		return err
	}

	store, err := journal.Open(journal.Config{DBPath: cfg.Storage.JournalPath}, log)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Error("failed to close journal", "error", closeErr)
		}
	}()

	entries, err := store.List()
	if err != nil {
		return err
	}

	formatter := display.New(display.Config{
		Format:         format,
		ShowTimestamps: true,
		Compact:        c.compact,
	})
	return formatter.FormatHistory(os.Stdout, c.filter(entries))
}

// filter drops entries older than the -since window.
func (c *historyCommand) filter(entries []journal.Entry) []journal.Entry {
	if c.since == 0 {
		return entries
	}

	cutoff := c.now().Add(-c.since)
	kept := make([]journal.Entry, 0, len(entries))
	for _, e := range entries {
		if !e.LastChanged.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	return kept
}
