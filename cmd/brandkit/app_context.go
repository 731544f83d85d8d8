package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/brandkit/internal/config"
	"github.com/alexisbeaulieu97/brandkit/internal/cssvars"
	"github.com/alexisbeaulieu97/brandkit/internal/document"
	"github.com/alexisbeaulieu97/brandkit/internal/fonts"
	"github.com/alexisbeaulieu97/brandkit/internal/infrastructure/events"
	"github.com/alexisbeaulieu97/brandkit/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/brandkit/internal/logger"
	"github.com/alexisbeaulieu97/brandkit/internal/persistence"
	"github.com/alexisbeaulieu97/brandkit/internal/ports"
	"github.com/alexisbeaulieu97/brandkit/internal/store"
	"github.com/alexisbeaulieu97/brandkit/internal/tokens"
)

// appContext bundles the services a command needs for one invocation.
type appContext struct {
	ctx      context.Context
	cfg      *config.Config
	logger   ports.Logger
	kv       persistence.KV
	sheet    *document.Sheet
	notifier *events.Notifier
	store    *store.Store
}

func newAppContext(cmd *cobra.Command, flags *rootFlags) (*appContext, error) {
	ctx := ports.WithCorrelationID(cmd.Context(), ports.GenerateCorrelationID())
	early := logging.NewRecorder(0)

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, newCommandError(cmd.Name(), "loading configuration", err, "Fix the config file or BRANDKIT_* environment variables.")
	}
	applyFlagOverrides(cfg, flags)
	if err := config.Validate(cfg); err != nil {
		return nil, newCommandError(cmd.Name(), "validating flags", err, "Run 'brandkit --help' to see accepted values.")
	}
	early.Logger().Debug(ctx, "configuration loaded", "data_dir", cfg.DataDir, "backend", cfg.Backend)

	log, err := newLogger(cfg.LogFormat, cfg.LogLevel, cmd.CommandPath(), cmd.ErrOrStderr())
	if err != nil {
		return nil, newCommandError(cmd.Name(), "creating logger", err, "Use one of: debug, info, warn, error.")
	}
	early.Flush(log)

	kv, err := persistence.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		return nil, newCommandError(cmd.Name(), "opening token store", err, "Check that the data directory is writable.")
	}

	notifier := events.NewNotifier(log)
	if _, err := notifier.Subscribe("*", events.ConsoleSink(cmd.ErrOrStderr())); err != nil {
		kv.Close()
		return nil, newCommandError(cmd.Name(), "subscribing notifications", err, "Retry the command.")
	}

	sheet := document.NewSheet()
	propagator := cssvars.New(sheet, fonts.NewLoader(sheet, log), log)
	s := store.New(ctx, store.Options{
		Persistence: persistence.NewGateway(kv, log),
		Propagator:  propagator,
		Publisher:   notifier,
		Logger:      log,
	})

	app := &appContext{ctx: ctx, cfg: cfg, logger: log, kv: kv, sheet: sheet, notifier: notifier, store: s}
	if err := app.seedDefaultProvider(); err != nil {
		app.Close()
		return nil, newCommandError(cmd.Name(), "applying default_provider", err, "Set default_provider to google, bunny, local or system.")
	}
	return app, nil
}

// seedDefaultProvider applies the configured provider on first run, before
// anything has been persisted.
func (a *appContext) seedDefaultProvider() error {
	if a.store.State() != store.FromDefaults {
		return nil
	}
	provider, err := tokens.LookupProvider(a.cfg.DefaultProvider)
	if err != nil {
		return err
	}
	if a.store.Snapshot().FontProvider.ID == provider.ID {
		return nil
	}
	a.store.UpdateFontProvider(a.ctx, provider)
	a.store.Wait()
	return nil
}

// Close waits for deferred propagation and releases the store.
func (a *appContext) Close() error {
	a.store.Wait()
	return a.kv.Close()
}

func applyFlagOverrides(cfg *config.Config, flags *rootFlags) {
	if flags.dataDir != "" {
		cfg.DataDir = flags.dataDir
	}
	if flags.backend != "" {
		cfg.Backend = flags.backend
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.LogFormat = flags.logFormat
	}
	if flags.verbose {
		cfg.LogLevel = "debug"
	}
}

func newLogger(format, level, command string, w io.Writer) (ports.Logger, error) {
	switch format {
	case "json":
		l, err := logger.New(logger.Options{Level: level, Writer: w})
		if err != nil {
			return nil, err
		}
		return l.With("command", command), nil
	case logging.FormatConsole, logging.FormatLogfmt, "":
		opts := logging.Options{Writer: w, Level: level, Format: format, Command: command}
		if format != logging.FormatLogfmt {
			opts.TimeFormat = time.Kitchen
		}
		l, err := logging.New(opts)
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
