package history

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/greenfelt/cardroom/internal/game"
)

// Archiver persists one completed hand. Implementations must be safe for
// use from a single writer goroutine.
type Archiver interface {
	Archive(ctx context.Context, res *game.HandResult) error
}

// Nop discards hand results. Used when no database is configured.
type Nop struct{}

func (Nop) Archive(context.Context, *game.HandResult) error { return nil }

// Store archives into Postgres.
func (s *Store) Archive(ctx context.Context, res *game.HandResult) error {
	return s.SaveHand(ctx, res)
}

// Writer drains the results channel the table runners publish to. A
// failed write is logged and dropped; the tables have already moved on
// and the archive is best-effort.
type Writer struct {
	arch Archiver
	log  zerolog.Logger
}

func NewWriter(arch Archiver, logger zerolog.Logger) *Writer {
	return &Writer{
		arch: arch,
		log:  logger.With().Str("component", "history").Logger(),
	}
}

// Run consumes results until ctx is cancelled or the channel closes.
func (w *Writer) Run(ctx context.Context, results <-chan *game.HandResult) error {
	for {
		select {
		case res, ok := <-results:
			if !ok {
				return nil
			}
			if err := w.arch.Archive(ctx, res); err != nil {
				w.log.Error().Err(err).
					Str("table_id", res.TableID).
					Str("hand_id", res.HandID).
					Msg("archive hand failed")
				continue
			}
			w.log.Debug().Str("hand_id", res.HandID).Msg("hand archived")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
