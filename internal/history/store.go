// Package history persists completed hands. The game core never waits on
// it: hand results arrive on a buffered channel and are written by an
// async writer, so a slow or absent database cannot stall a table.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenfelt/cardroom/internal/game"
)

var ErrNotFound = errors.New("not found")

// Schema for the hand archive. Idempotent; applied at startup.
const schema = `
CREATE TABLE IF NOT EXISTS hands (
	hand_id    TEXT PRIMARY KEY,
	table_id   TEXT NOT NULL,
	board      JSONB NOT NULL,
	reveals    JSONB NOT NULL,
	shares     JSONB NOT NULL,
	final      JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS hands_table_idx ON hands (table_id, created_at);

CREATE TABLE IF NOT EXISTS hand_actions (
	hand_id TEXT NOT NULL REFERENCES hands (hand_id) ON DELETE CASCADE,
	seq     INT  NOT NULL,
	phase   TEXT NOT NULL,
	seat    INT  NOT NULL,
	action  TEXT NOT NULL,
	amount  BIGINT NOT NULL,
	PRIMARY KEY (hand_id, seq)
);
`

// Store wraps DB access for the hand archive.
type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Pool.Ping(ctx)
}

// EnsureSchema creates the archive tables when they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, schema)
	return err
}

// SaveHand writes one completed hand and its action log in a single
// transaction.
func (s *Store) SaveHand(ctx context.Context, res *game.HandResult) error {
	board, err := json.Marshal(res.Board)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	reveals, err := json.Marshal(res.Reveals)
	if err != nil {
		return fmt.Errorf("marshal reveals: %w", err)
	}
	shares, err := json.Marshal(res.Shares)
	if err != nil {
		return fmt.Errorf("marshal shares: %w", err)
	}
	final, err := json.Marshal(res.Final)
	if err != nil {
		return fmt.Errorf("marshal final state: %w", err)
	}

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO hands (hand_id, table_id, board, reveals, shares, final)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (hand_id) DO NOTHING`,
		res.HandID, res.TableID, board, reveals, shares, final)
	if err != nil {
		return fmt.Errorf("insert hand %s: %w", res.HandID, err)
	}

	for _, rec := range res.Log {
		_, err = tx.Exec(ctx, `
			INSERT INTO hand_actions (hand_id, seq, phase, seat, action, amount)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (hand_id, seq) DO NOTHING`,
			res.HandID, rec.Seq, rec.Phase, rec.Seat, rec.Action, rec.Amount)
		if err != nil {
			return fmt.Errorf("insert action %s/%d: %w", res.HandID, rec.Seq, err)
		}
	}

	return tx.Commit(ctx)
}

// LoadHand reads one archived hand back, action log included.
func (s *Store) LoadHand(ctx context.Context, handID string) (*game.HandResult, error) {
	var (
		res     game.HandResult
		board   []byte
		reveals []byte
		shares  []byte
		final   []byte
	)
	err := s.Pool.QueryRow(ctx, `
		SELECT hand_id, table_id, board, reveals, shares, final
		FROM hands WHERE hand_id = $1`, handID).
		Scan(&res.HandID, &res.TableID, &board, &reveals, &shares, &final)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(board, &res.Board); err != nil {
		return nil, fmt.Errorf("unmarshal board: %w", err)
	}
	if err := json.Unmarshal(reveals, &res.Reveals); err != nil {
		return nil, fmt.Errorf("unmarshal reveals: %w", err)
	}
	if err := json.Unmarshal(shares, &res.Shares); err != nil {
		return nil, fmt.Errorf("unmarshal shares: %w", err)
	}
	if err := json.Unmarshal(final, &res.Final); err != nil {
		return nil, fmt.Errorf("unmarshal final state: %w", err)
	}

	rows, err := s.Pool.Query(ctx, `
		SELECT seq, phase, seat, action, amount
		FROM hand_actions WHERE hand_id = $1 ORDER BY seq`, handID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var rec game.ActionRecord
		if err := rows.Scan(&rec.Seq, &rec.Phase, &rec.Seat, &rec.Action, &rec.Amount); err != nil {
			return nil, err
		}
		res.Log = append(res.Log, rec)
	}
	return &res, rows.Err()
}

// RecentHands lists the newest hand IDs archived for a table.
func (s *Store) RecentHands(ctx context.Context, tableID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT hand_id FROM hands
		WHERE table_id = $1 ORDER BY created_at DESC LIMIT $2`, tableID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
