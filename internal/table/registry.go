package table

import (
	"fmt"
	"sync"

	"github.com/greenfelt/cardroom/internal/game"
	"github.com/greenfelt/cardroom/internal/gameid"
)

// Registry owns every live table runner, addressed by table ID. Tables are
// fully independent: the registry only guards the map, never the tables.
type Registry struct {
	mu      sync.RWMutex
	tables  map[string]*Runner
	opts    Options
	baseCfg game.Config
	closed  bool
}

// NewRegistry creates a registry applying opts to every table it opens.
func NewRegistry(baseCfg game.Config, opts Options) *Registry {
	return &Registry{
		tables:  make(map[string]*Runner),
		opts:    opts,
		baseCfg: baseCfg,
	}
}

// Open creates and starts a new table with the registry's base
// configuration. A zero cfg field falls back to the base value.
func (reg *Registry) Open(cfg game.Config) (*Runner, error) {
	return reg.OpenWith(cfg, reg.opts)
}

// OpenWith opens a table with per-table runner options, for tables whose
// timeout or archive wiring differs from the registry default.
func (reg *Registry) OpenWith(cfg game.Config, opts Options) (*Runner, error) {
	if cfg.SmallBlind == 0 {
		cfg.SmallBlind = reg.baseCfg.SmallBlind
	}
	if cfg.BigBlind == 0 {
		cfg.BigBlind = reg.baseCfg.BigBlind
	}
	if cfg.Seats == 0 {
		cfg.Seats = reg.baseCfg.Seats
	}

	id := gameid.New()
	tbl, err := game.NewTable(id, cfg, game.WithHandIDs(gameid.New))
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.closed {
		return nil, ErrClosed
	}
	runner := NewRunner(tbl, opts)
	reg.tables[id] = runner
	return runner, nil
}

// Get returns the runner for a table ID.
func (reg *Registry) Get(id string) (*Runner, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.tables[id]
	return r, ok
}

// List returns the IDs of all open tables.
func (reg *Registry) List() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	ids := make([]string, 0, len(reg.tables))
	for id := range reg.tables {
		ids = append(ids, id)
	}
	return ids
}

// CloseTable shuts one table down and removes it.
func (reg *Registry) CloseTable(id string) bool {
	reg.mu.Lock()
	r, ok := reg.tables[id]
	delete(reg.tables, id)
	reg.mu.Unlock()
	if ok {
		r.Close()
	}
	return ok
}

// Close shuts every table down. The registry accepts no new tables
// afterwards.
func (reg *Registry) Close() {
	reg.mu.Lock()
	reg.closed = true
	tables := reg.tables
	reg.tables = make(map[string]*Runner)
	reg.mu.Unlock()
	for _, r := range tables {
		r.Close()
	}
}
