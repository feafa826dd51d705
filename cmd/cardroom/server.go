package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/greenfelt/cardroom/cmd/cardroom/shared"
	"github.com/greenfelt/cardroom/internal/bot"
	"github.com/greenfelt/cardroom/internal/config"
	"github.com/greenfelt/cardroom/internal/game"
	"github.com/greenfelt/cardroom/internal/history"
	"github.com/greenfelt/cardroom/internal/randutil"
	"github.com/greenfelt/cardroom/internal/server"
	"github.com/greenfelt/cardroom/internal/table"
)

// ServerCmd runs the cardroom server.
type ServerCmd struct {
	Config   string `kong:"default='cardroom.hcl',help='Path to HCL configuration file'"`
	Addr     string `kong:"help='Override the configured listen address'"`
	Debug    bool   `kong:"help='Enable debug logging'"`
	JSONLogs bool   `kong:"name='json-logs',help='Emit structured JSON logs'"`
	Seed     *int64 `kong:"help='Deterministic RNG seed for bot strategies (optional)'"`
}

func (c *ServerCmd) Run() error {
	logger := shared.NewLogger(c.Debug, c.JSONLogs)

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	addr := cfg.ListenAddr()
	if c.Addr != "" {
		addr = c.Addr
	}

	ctx := shared.SetupSignalHandler(logger)

	// Hand archive. Without a database block results are discarded.
	var archiver history.Archiver = history.Nop{}
	if cfg.Database != nil {
		store, err := history.New(ctx, cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer store.Close()
		if err := store.Ping(ctx); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		logger.Info().Msg("hand archive enabled")
		archiver = store
	}
	results := make(chan *game.HandResult, 256)

	registry, runners, err := openTables(cfg, logger, results)
	if err != nil {
		return err
	}
	defer registry.Close()

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	rng := randutil.New(seed)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return history.NewWriter(archiver, logger).Run(gctx, results)
	})

	for _, bc := range cfg.Bots {
		strategy, err := bot.NewStrategy(bc.Strategy, rng)
		if err != nil {
			return fmt.Errorf("bot %s: %w", bc.Name, err)
		}
		for _, tableName := range bc.Tables {
			runner, ok := runners[tableName]
			if !ok {
				return fmt.Errorf("bot %s: unknown table %s", bc.Name, tableName)
			}
			driver := bot.NewDriver(bc.Name, bc.BuyIn, strategy, runner, logger)
			g.Go(func() error {
				err := driver.Run(gctx)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		}
	}

	srv := server.NewServer(registry, server.Options{Addr: addr, Logger: logger})
	logger.Info().
		Str("addr", addr).
		Int("tables", len(cfg.Tables)).
		Int("bots", len(cfg.Bots)).
		Msg("starting cardroom")
	g.Go(func() error { return srv.Run(gctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// openTables builds the registry and one runner per configured table.
func openTables(cfg *config.Config, logger zerolog.Logger, results chan<- *game.HandResult) (*table.Registry, map[string]*table.Runner, error) {
	base := game.Config{
		SmallBlind: cfg.Tables[0].SmallBlind,
		BigBlind:   cfg.Tables[0].BigBlind,
		Seats:      cfg.Tables[0].Seats,
	}
	baseOpts := table.Options{
		Logger:    logger,
		AutoStart: true,
		Results:   results,
	}
	registry := table.NewRegistry(base, baseOpts)

	runners := make(map[string]*table.Runner, len(cfg.Tables))
	for _, tc := range cfg.Tables {
		opts := baseOpts
		opts.ActionTimeout = tc.ActionTimeout()
		runner, err := registry.OpenWith(game.Config{
			SmallBlind: tc.SmallBlind,
			BigBlind:   tc.BigBlind,
			Seats:      tc.Seats,
		}, opts)
		if err != nil {
			registry.Close()
			return nil, nil, fmt.Errorf("open table %s: %w", tc.Name, err)
		}
		logger.Info().
			Str("table", tc.Name).
			Str("table_id", runner.ID()).
			Int64("small_blind", tc.SmallBlind).
			Int64("big_blind", tc.BigBlind).
			Msg("table opened")
		runners[tc.Name] = runner
	}
	return registry, runners, nil
}
