package table

import (
	"sync"
	"sync/atomic"

	"github.com/greenfelt/cardroom/internal/game"
)

// Subscription is one observer's ordered delta stream. Deltas arrive
// strictly by version with no gaps; if the subscriber falls too far behind
// the stream is closed and Lagged reports true, at which point the
// observer takes a fresh snapshot and resubscribes.
type Subscription struct {
	seat    int // observer's seat for redaction, -1 for spectators
	ch      chan game.StateDelta
	lagged  atomic.Bool
	closeMu sync.Once
}

func newSubscription(seat, buffer int) *Subscription {
	return &Subscription{seat: seat, ch: make(chan game.StateDelta, buffer)}
}

// Deltas returns the delta stream. The channel closes when the
// subscription is cancelled, the table shuts down, or the subscriber lags.
func (s *Subscription) Deltas() <-chan game.StateDelta {
	return s.ch
}

// Seat returns the observer seat the stream is redacted for.
func (s *Subscription) Seat() int { return s.seat }

// Lagged reports whether the stream was cut because the subscriber could
// not keep up.
func (s *Subscription) Lagged() bool { return s.lagged.Load() }

// send queues a delta, redacting private cards that are not for this
// observer. Returns false if the subscriber overflowed.
func (s *Subscription) send(d game.StateDelta) bool {
	if d.Private && d.Seat != s.seat {
		d = d.Redacted()
	}
	select {
	case s.ch <- d:
		return true
	default:
		s.lagged.Store(true)
		s.close()
		return false
	}
}

func (s *Subscription) close() {
	s.closeMu.Do(func() { close(s.ch) })
}
