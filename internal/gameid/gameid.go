// Package gameid issues sortable identifiers for tables and hands. IDs are
// ULIDs, so lexicographic order is creation order, which keeps archived
// hands naturally sorted in the store.
package gameid

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	entropyMu sync.Mutex
)

// New returns a fresh ULID string. Safe for concurrent use.
func New() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// NewAt returns a ULID anchored at the given time, for deterministic
// fixtures.
func NewAt(t time.Time, rng *rand.Rand) string {
	return ulid.MustNew(ulid.Timestamp(t), rng).String()
}
