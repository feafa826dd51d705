package table

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/greenfelt/cardroom/internal/game"
)

// ErrClosed is returned for operations against a shut-down table.
var ErrClosed = errors.New("table is closed")

// Options configures a Runner.
type Options struct {
	Logger           zerolog.Logger
	Clock            quartz.Clock
	ActionTimeout    time.Duration // 0 disables auto-actions
	QueueSize        int
	SubscriberBuffer int
	AutoStart        bool // deal a new hand whenever enough players are seated

	// Results receives one HandResult per completed hand. The runner
	// never blocks on it: if the consumer is behind, the result is
	// dropped with a warning. Nil disables archival.
	Results chan<- *game.HandResult
}

func (o *Options) defaults() {
	if o.Clock == nil {
		o.Clock = quartz.NewReal()
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 64
	}
	if o.SubscriberBuffer <= 0 {
		o.SubscriberBuffer = 128
	}
}

// Runner owns one table. All mutations funnel through a single goroutine
// draining a FIFO command queue, so the state machine itself needs no
// locks and actions from many connections are totally ordered. Timeouts
// are scheduled callbacks that inject a synthetic action into the same
// queue; they never touch the table directly.
type Runner struct {
	opts Options
	log  zerolog.Logger
	tbl  *game.Table

	cmds    chan func()
	closing chan struct{} // closed by Close to stop the loop
	done    chan struct{} // closed when the loop has exited
	closeFn func()

	// loop-owned state
	subs      map[*Subscription]struct{}
	turnTimer *quartz.Timer
	turnSeat  int        // seat the timer is armed for
	turnPhase game.Phase // street the timer is armed for
	timerGen  uint64     // invalidates queued firings from stopped timers
}

// NewRunner wraps a table and starts its worker loop.
func NewRunner(tbl *game.Table, opts Options) *Runner {
	opts.defaults()
	r := &Runner{
		opts:    opts,
		log:     opts.Logger.With().Str("component", "table").Str("table_id", tbl.ID()).Logger(),
		tbl:     tbl,
		cmds:    make(chan func(), opts.QueueSize),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
		subs:    make(map[*Subscription]struct{}),
	}
	var closeOnce sync.Once
	r.closeFn = func() { closeOnce.Do(func() { close(r.closing) }) }
	go r.run()
	return r
}

// ID returns the table's identifier.
func (r *Runner) ID() string { return r.tbl.ID() }

func (r *Runner) run() {
	defer close(r.done)
	defer func() {
		r.stopTurnTimer()
		for sub := range r.subs {
			sub.close()
		}
	}()
	for {
		select {
		case cmd := <-r.cmds:
			cmd()
		case <-r.closing:
			return
		}
	}
}

// Close stops the worker loop and closes all subscriber channels. Safe to
// call more than once.
func (r *Runner) Close() {
	r.closeFn()
	<-r.done
}

// do runs fn on the table goroutine and waits for it.
func (r *Runner) do(ctx context.Context, fn func()) error {
	wrapped := make(chan struct{})
	cmd := func() {
		defer close(wrapped)
		fn()
	}
	select {
	case r.cmds <- cmd:
	case <-r.closing:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-wrapped:
		return nil
	case <-r.done:
		return ErrClosed
	}
}

// SubmitAction routes one player action into the table queue. The seat is
// resolved from the player identity, never trusted from the client.
func (r *Runner) SubmitAction(ctx context.Context, playerID string, action game.PlayerAction) error {
	var err error
	doErr := r.do(ctx, func() {
		seat := r.tbl.SeatOf(playerID)
		if seat < 0 {
			err = &game.ValidationError{Code: game.CodeNotSeated, Reason: "player " + playerID + " is not seated"}
			return
		}
		action.Seat = seat
		var deltas []game.StateDelta
		var result *game.HandResult
		deltas, result, err = r.tbl.Apply(action)
		r.afterMutation(deltas, result, err)
	})
	if doErr != nil {
		return doErr
	}
	return err
}

// Seat adds a player and starts a hand if the table was only waiting for
// them.
func (r *Runner) Seat(ctx context.Context, playerID, name string, buyIn int64) (int, error) {
	seat := -1
	var err error
	doErr := r.do(ctx, func() {
		var deltas []game.StateDelta
		seat, deltas, err = r.tbl.Seat(playerID, name, buyIn)
		r.afterMutation(deltas, nil, err)
	})
	if doErr != nil {
		return -1, doErr
	}
	return seat, err
}

// Leave removes a player, folding them first if a hand is running.
func (r *Runner) Leave(ctx context.Context, playerID string) error {
	return r.seatOp(ctx, playerID, func(seat int) ([]game.StateDelta, *game.HandResult, error) {
		return r.tbl.Leave(seat)
	})
}

// SitOut marks a player away from the next hand.
func (r *Runner) SitOut(ctx context.Context, playerID string) error {
	return r.seatOp(ctx, playerID, func(seat int) ([]game.StateDelta, *game.HandResult, error) {
		deltas, err := r.tbl.SitOut(seat)
		return deltas, nil, err
	})
}

// Return brings a player back in for the next hand.
func (r *Runner) Return(ctx context.Context, playerID string) error {
	return r.seatOp(ctx, playerID, func(seat int) ([]game.StateDelta, *game.HandResult, error) {
		deltas, err := r.tbl.Return(seat)
		return deltas, nil, err
	})
}

// MarkDisconnected flags a dropped session; the action timer folds the
// player if they do not come back.
func (r *Runner) MarkDisconnected(ctx context.Context, playerID string) error {
	return r.seatOp(ctx, playerID, func(seat int) ([]game.StateDelta, *game.HandResult, error) {
		deltas, err := r.tbl.MarkDisconnected(seat)
		return deltas, nil, err
	})
}

func (r *Runner) seatOp(ctx context.Context, playerID string, op func(seat int) ([]game.StateDelta, *game.HandResult, error)) error {
	var err error
	doErr := r.do(ctx, func() {
		seat := r.tbl.SeatOf(playerID)
		if seat < 0 {
			err = &game.ValidationError{Code: game.CodeNotSeated, Reason: "player " + playerID + " is not seated"}
			return
		}
		var deltas []game.StateDelta
		var result *game.HandResult
		deltas, result, err = op(seat)
		r.afterMutation(deltas, result, err)
	})
	if doErr != nil {
		return doErr
	}
	return err
}

// StartHand deals manually when auto-start is off.
func (r *Runner) StartHand(ctx context.Context) error {
	var err error
	doErr := r.do(ctx, func() {
		var deltas []game.StateDelta
		deltas, err = r.tbl.StartHand()
		r.afterMutation(deltas, nil, err)
	})
	if doErr != nil {
		return doErr
	}
	return err
}

// Subscribe returns a delta stream for one observer together with the
// snapshot it starts from. Registration and snapshot happen atomically on
// the table goroutine, so the first delta is always snapshot version + 1.
func (r *Runner) Subscribe(ctx context.Context, seat int) (*Subscription, *game.TableView, error) {
	var (
		sub  *Subscription
		snap *game.TableView
	)
	err := r.do(ctx, func() {
		sub = newSubscription(seat, r.opts.SubscriberBuffer)
		r.subs[sub] = struct{}{}
		snap = r.tbl.SnapshotFor(seat)
	})
	if err != nil {
		return nil, nil, err
	}
	return sub, snap, nil
}

// Unsubscribe cancels a subscription and closes its channel.
func (r *Runner) Unsubscribe(sub *Subscription) {
	_ = r.do(context.Background(), func() {
		delete(r.subs, sub)
		sub.close()
	})
}

// Snapshot returns the current redacted view for an observer, for
// resynchronization after a detected version gap.
func (r *Runner) Snapshot(ctx context.Context, seat int) (*game.TableView, error) {
	var snap *game.TableView
	err := r.do(ctx, func() {
		snap = r.tbl.SnapshotFor(seat)
	})
	return snap, err
}

// Legal reports the actions currently available to the player. ok is
// false when it is not the player's turn.
func (r *Runner) Legal(ctx context.Context, playerID string) (game.LegalActions, bool, error) {
	var (
		legal game.LegalActions
		ok    bool
	)
	err := r.do(ctx, func() {
		legal, ok = r.tbl.Legal()
		ok = ok && r.tbl.SeatOf(playerID) == legal.Seat
	})
	return legal, ok, err
}

// afterMutation broadcasts deltas, archives results, rearms the turn
// timer, and chains the next hand. Runs on the table goroutine.
func (r *Runner) afterMutation(deltas []game.StateDelta, result *game.HandResult, err error) {
	if err != nil && game.IsInvariant(err) {
		// Fatal for this table only: dump state and stop dealing.
		r.log.Error().Err(err).
			Interface("state", r.tbl.SnapshotFor(-1)).
			Msg("table halted on invariant violation")
	}
	r.broadcast(deltas)
	if result != nil {
		r.archive(result)
	}
	r.rearmTurnTimer()

	for r.opts.AutoStart && r.tbl.CanStartHand() {
		more, startErr := r.tbl.StartHand()
		if startErr != nil {
			r.log.Warn().Err(startErr).Msg("auto-start failed")
			return
		}
		r.log.Debug().Uint64("version", r.tbl.Version()).Msg("hand started")
		r.broadcast(more)
		r.rearmTurnTimer()
	}
}

func (r *Runner) broadcast(deltas []game.StateDelta) {
	for _, d := range deltas {
		for sub := range r.subs {
			if !sub.send(d) {
				delete(r.subs, sub)
				r.log.Debug().Int("seat", sub.seat).Msg("subscriber lagged, cut off")
			}
		}
	}
}

func (r *Runner) archive(result *game.HandResult) {
	if r.opts.Results == nil {
		return
	}
	select {
	case r.opts.Results <- result:
	default:
		r.log.Warn().Str("hand_id", result.HandID).Msg("archiver behind, dropping hand result")
	}
}

// rearmTurnTimer schedules the auto-action for the current actor. The
// callback injects a synthetic check-or-fold through the same queue as
// real actions, tagged with a generation so a stale firing is a no-op.
// A mutation that does not move the action (a spectator seating, a
// sit-out toggle) keeps the running deadline: the time budget belongs to
// the turn, not to the last mutation.
func (r *Runner) rearmTurnTimer() {
	if r.opts.ActionTimeout <= 0 {
		return
	}
	seat := r.tbl.Actor()
	if seat < 0 {
		r.stopTurnTimer()
		return
	}
	if r.turnTimer != nil && seat == r.turnSeat && r.tbl.Phase() == r.turnPhase {
		return
	}
	r.stopTurnTimer()
	r.turnSeat, r.turnPhase = seat, r.tbl.Phase()
	r.timerGen++
	gen := r.timerGen
	r.turnTimer = r.opts.Clock.AfterFunc(r.opts.ActionTimeout, func() {
		select {
		case r.cmds <- func() { r.fireTimeout(seat, gen) }:
		case <-r.done:
		}
	})
}

func (r *Runner) stopTurnTimer() {
	if r.turnTimer != nil {
		r.turnTimer.Stop()
		r.turnTimer = nil
	}
	r.timerGen++
}

func (r *Runner) fireTimeout(seat int, gen uint64) {
	// The player acted, or the turn moved on, before the firing drained.
	if gen != r.timerGen || r.tbl.Actor() != seat {
		return
	}
	auto := r.tbl.AutoAction(seat)
	r.log.Info().Int("seat", seat).Str("action", auto.Type.String()).Msg("action timeout, auto-acting")
	deltas, result, err := r.tbl.Apply(auto)
	if err != nil {
		r.log.Error().Err(err).Int("seat", seat).Msg("auto-action rejected")
		return
	}
	r.afterMutation(deltas, result, nil)
}
