package bot

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/greenfelt/cardroom/internal/game"
	"github.com/greenfelt/cardroom/internal/table"
)

// Driver seats a strategy at a table and plays it until the context ends.
// It observes the same delta stream remote clients get and submits through
// the same action path, so a bot exercises the full synchronization layer.
type Driver struct {
	name     string
	buyIn    int64
	strategy Strategy
	runner   *table.Runner
	log      zerolog.Logger
}

func NewDriver(name string, buyIn int64, strategy Strategy, runner *table.Runner, logger zerolog.Logger) *Driver {
	return &Driver{
		name:     name,
		buyIn:    buyIn,
		strategy: strategy,
		runner:   runner,
		log: logger.With().
			Str("component", "bot").
			Str("bot", name).
			Str("table_id", runner.ID()).
			Logger(),
	}
}

// Run seats the bot and plays until ctx is cancelled or the table closes.
func (d *Driver) Run(ctx context.Context) error {
	seat, err := d.runner.Seat(ctx, d.name, d.name, d.buyIn)
	if err != nil {
		return fmt.Errorf("seat bot %s: %w", d.name, err)
	}
	sub, view, err := d.runner.Subscribe(ctx, seat)
	if err != nil {
		return fmt.Errorf("subscribe bot %s: %w", d.name, err)
	}
	defer func() { d.runner.Unsubscribe(sub) }()
	d.log.Info().Int("seat", seat).Msg("bot seated")

	// The table may have dealt between Seat and Subscribe; the snapshot
	// can already show the bot due to act.
	if view.Actor == seat {
		d.act(ctx, view)
	}

	for {
		select {
		case <-ctx.Done():
			leaveCtx := context.Background()
			_ = d.runner.Leave(leaveCtx, d.name)
			return ctx.Err()

		case delta, ok := <-sub.Deltas():
			if !ok {
				if !sub.Lagged() {
					return nil // table closed
				}
				sub, view, err = d.resync(ctx, seat)
				if err != nil {
					return err
				}
				continue
			}
			if err := view.Apply(delta); err != nil {
				// Version gap: fall back to a snapshot.
				sub, view, err = d.resync(ctx, seat)
				if err != nil {
					return err
				}
				continue
			}
			if delta.Actor == seat {
				d.act(ctx, view)
			}
		}
	}
}

// resync replaces a lagged subscription with a fresh one.
func (d *Driver) resync(ctx context.Context, seat int) (*table.Subscription, *game.TableView, error) {
	d.log.Warn().Msg("bot lagged, resubscribing")
	sub, view, err := d.runner.Subscribe(ctx, seat)
	if err != nil {
		return nil, nil, fmt.Errorf("resubscribe bot %s: %w", d.name, err)
	}
	// The fresh view may show the bot already due to act.
	if view.Actor == seat {
		d.act(ctx, view)
	}
	return sub, view, nil
}

func (d *Driver) act(ctx context.Context, view *game.TableView) {
	legal, ok, err := d.runner.Legal(ctx, d.name)
	if err != nil || !ok {
		return
	}
	action := d.strategy.Decide(view, legal)
	if err := d.runner.SubmitAction(ctx, d.name, action); err != nil {
		if game.IsValidation(err) {
			// The engine rejected the strategy's choice; surrender the
			// turn rather than loop.
			d.log.Warn().Err(err).Str("action", action.Type.String()).Msg("bot action rejected, folding")
			fallback := game.PlayerAction{Type: game.Fold}
			if legal.CanCheck {
				fallback = game.PlayerAction{Type: game.Check}
			}
			_ = d.runner.SubmitAction(ctx, d.name, fallback)
			return
		}
		d.log.Error().Err(err).Msg("bot action failed")
	}
}
