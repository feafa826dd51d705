package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/greenfelt/cardroom/internal/game"
	"github.com/greenfelt/cardroom/internal/protocol"
	"github.com/greenfelt/cardroom/internal/table"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from the peer.
	maxMessageSize = 8192

	// Budget for a single runner call made on behalf of the client.
	requestTimeout = 5 * time.Second
)

// tableSession is one player's attachment to one table: their seat and
// the delta subscription feeding their client.
type tableSession struct {
	runner *table.Runner
	sub    *table.Subscription
	seat   int
}

// Connection wraps one WebSocket client. Incoming messages are handled on
// the read pump; outgoing traffic is serialized through the write pump.
type Connection struct {
	ws       *websocket.Conn
	registry *table.Registry
	log      zerolog.Logger

	send      chan []byte
	closing   chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	playerID string
	sessions map[string]*tableSession
}

func newConnection(ws *websocket.Conn, registry *table.Registry, logger zerolog.Logger) *Connection {
	return &Connection{
		ws:       ws,
		registry: registry,
		log:      logger.With().Str("component", "conn").Str("remote", ws.RemoteAddr().String()).Logger(),
		send:     make(chan []byte, 256),
		closing:  make(chan struct{}),
		sessions: make(map[string]*tableSession),
	}
}

func (c *Connection) start() {
	go c.writePump()
	go c.readPump()
}

// Close tears the connection down. Seated players are marked disconnected
// rather than removed, so their stacks survive a reconnect window.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.closing)
		_ = c.ws.Close()

		c.mu.Lock()
		playerID := c.playerID
		sessions := c.sessions
		c.sessions = make(map[string]*tableSession)
		c.mu.Unlock()

		for _, ts := range sessions {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			if err := ts.runner.MarkDisconnected(ctx, playerID); err != nil {
				c.log.Warn().Err(err).Str("table_id", ts.runner.ID()).Msg("disconnect cleanup failed")
			}
			cancel()
			ts.runner.Unsubscribe(ts.sub)
		}
	})
}

func (c *Connection) done() <-chan struct{} { return c.closing }

func (c *Connection) readPump() {
	defer c.Close()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Error().Err(err).Msg("websocket read failed")
			}
			return
		}

		msg, err := protocol.Decode(data)
		if err != nil {
			c.sendError("", "bad_message", err.Error())
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closing:
			_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

func (c *Connection) sendMsg(v any) {
	data, err := protocol.Encode(v)
	if err != nil {
		c.log.Error().Err(err).Msg("encode message failed")
		return
	}
	select {
	case c.send <- data:
	case <-c.closing:
	default:
		c.log.Warn().Msg("send buffer full, dropping client")
		c.Close()
	}
}

func (c *Connection) sendError(tableID, code, message string) {
	c.sendMsg(&protocol.Error{Type: protocol.TypeError, TableID: tableID, Code: code, Message: message})
}

// sendRejection translates engine errors into wire errors, preserving the
// validation code when there is one.
func (c *Connection) sendRejection(tableID string, err error) {
	var verr *game.ValidationError
	if errors.As(err, &verr) {
		c.sendError(tableID, string(verr.Code), verr.Reason)
		return
	}
	c.sendError(tableID, "request_failed", err.Error())
}

func (c *Connection) handleMessage(msg any) {
	switch m := msg.(type) {
	case *protocol.Hello:
		c.handleHello(m)
	case *protocol.ListTables:
		c.handleListTables()
	case *protocol.Join:
		c.handleJoin(m)
	case *protocol.Leave:
		c.handleLeave(m)
	case *protocol.SitOut:
		c.withRunner(m.TableID, func(ts *tableSession, ctx context.Context) error {
			return ts.runner.SitOut(ctx, c.player())
		})
	case *protocol.Return:
		c.withRunner(m.TableID, func(ts *tableSession, ctx context.Context) error {
			return ts.runner.Return(ctx, c.player())
		})
	case *protocol.Action:
		c.handleAction(m)
	case *protocol.SnapshotRequest:
		c.handleSnapshot(m)
	default:
		c.sendError("", "bad_message", "unsupported message")
	}
}

func (c *Connection) player() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID
}

func (c *Connection) session(tableID string) (*tableSession, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts, ok := c.sessions[tableID]
	return ts, ok
}

func (c *Connection) handleHello(m *protocol.Hello) {
	if m.Name == "" {
		c.sendError("", "bad_name", "a name is required")
		return
	}
	c.mu.Lock()
	if c.playerID != "" {
		c.mu.Unlock()
		c.sendError("", "already_registered", "connection already has a player")
		return
	}
	c.playerID = m.Name
	c.mu.Unlock()

	c.log.Info().Str("player_id", m.Name).Msg("player registered")
	c.sendMsg(&protocol.Welcome{Type: protocol.TypeWelcome, PlayerID: m.Name})
}

func (c *Connection) handleListTables() {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var infos []protocol.TableInfo
	for _, id := range c.registry.List() {
		r, ok := c.registry.Get(id)
		if !ok {
			continue
		}
		view, err := r.Snapshot(ctx, -1)
		if err != nil {
			continue
		}
		occupied := 0
		for _, s := range view.Seats {
			if s.Occupied {
				occupied++
			}
		}
		infos = append(infos, protocol.TableInfo{
			TableID:    id,
			SmallBlind: view.SmallBlind,
			BigBlind:   view.BigBlind,
			Seats:      len(view.Seats),
			Occupied:   occupied,
		})
	}
	c.sendMsg(&protocol.TableList{Type: protocol.TypeTableList, Tables: infos})
}

func (c *Connection) handleJoin(m *protocol.Join) {
	playerID := c.player()
	if playerID == "" {
		c.sendError(m.TableID, "not_registered", "send hello first")
		return
	}
	if _, ok := c.session(m.TableID); ok {
		c.sendError(m.TableID, "already_joined", "already seated at this table")
		return
	}
	runner, ok := c.registry.Get(m.TableID)
	if !ok {
		c.sendError(m.TableID, "table_not_found", "no such table")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	seat, err := runner.Seat(ctx, playerID, playerID, m.BuyIn)
	if err != nil {
		c.sendRejection(m.TableID, err)
		return
	}
	sub, snap, err := runner.Subscribe(ctx, seat)
	if err != nil {
		_ = runner.Leave(ctx, playerID)
		c.sendRejection(m.TableID, err)
		return
	}

	ts := &tableSession{runner: runner, sub: sub, seat: seat}
	c.mu.Lock()
	c.sessions[m.TableID] = ts
	c.mu.Unlock()

	c.sendMsg(&protocol.Joined{Type: protocol.TypeJoined, TableID: m.TableID, Seat: seat, State: snap})
	go c.pumpDeltas(m.TableID, ts)
}

func (c *Connection) handleLeave(m *protocol.Leave) {
	ts, ok := c.session(m.TableID)
	if !ok {
		c.sendError(m.TableID, "not_joined", "not seated at this table")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if err := ts.runner.Leave(ctx, c.player()); err != nil {
		c.sendRejection(m.TableID, err)
		return
	}

	c.mu.Lock()
	delete(c.sessions, m.TableID)
	c.mu.Unlock()
	ts.runner.Unsubscribe(ts.sub)

	c.sendMsg(&protocol.Left{Type: protocol.TypeLeft, TableID: m.TableID})
}

func (c *Connection) handleAction(m *protocol.Action) {
	ts, ok := c.session(m.TableID)
	if !ok {
		c.sendError(m.TableID, "not_joined", "not seated at this table")
		return
	}
	actionType, err := protocol.ParseActionType(m.Action)
	if err != nil {
		c.sendError(m.TableID, "bad_action", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	err = ts.runner.SubmitAction(ctx, c.player(), game.PlayerAction{
		Type:   actionType,
		Amount: m.Amount,
	})
	if err != nil {
		c.sendRejection(m.TableID, err)
	}
}

func (c *Connection) handleSnapshot(m *protocol.SnapshotRequest) {
	seat := -1
	if ts, ok := c.session(m.TableID); ok {
		seat = ts.seat
	}
	runner, ok := c.registry.Get(m.TableID)
	if !ok {
		c.sendError(m.TableID, "table_not_found", "no such table")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	view, err := runner.Snapshot(ctx, seat)
	if err != nil {
		c.sendRejection(m.TableID, err)
		return
	}
	c.sendMsg(&protocol.State{Type: protocol.TypeState, TableID: m.TableID, State: view})
}

// withRunner runs a seat-level operation against a joined table and
// reports failures to the client.
func (c *Connection) withRunner(tableID string, op func(*tableSession, context.Context) error) {
	ts, ok := c.session(tableID)
	if !ok {
		c.sendError(tableID, "not_joined", "not seated at this table")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if err := op(ts, ctx); err != nil {
		c.sendRejection(tableID, err)
	}
}

// pumpDeltas forwards the table's delta stream to the client. When the
// subscription lags it is cut off server-side; the pump resubscribes and
// pushes a fresh snapshot so the client can rebuild.
func (c *Connection) pumpDeltas(tableID string, ts *tableSession) {
	for d := range ts.sub.Deltas() {
		c.sendMsg(&protocol.Delta{Type: protocol.TypeDelta, TableID: tableID, Delta: d})
		if d.Actor == ts.seat {
			c.maybeSendTurn(tableID, ts)
		}
	}

	if !ts.sub.Lagged() {
		return // table closed or we left
	}
	select {
	case <-c.closing:
		return
	default:
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	sub, snap, err := ts.runner.Subscribe(ctx, ts.seat)
	if err != nil {
		c.log.Warn().Err(err).Str("table_id", tableID).Msg("resubscribe after lag failed")
		return
	}

	c.mu.Lock()
	if cur, ok := c.sessions[tableID]; ok && cur == ts {
		ts.sub = sub
	} else {
		c.mu.Unlock()
		ts.runner.Unsubscribe(sub)
		return
	}
	c.mu.Unlock()

	c.log.Warn().Str("table_id", tableID).Uint64("version", snap.Version).Msg("client lagged, resynchronizing")
	c.sendMsg(&protocol.State{Type: protocol.TypeState, TableID: tableID, State: snap})
	go c.pumpDeltas(tableID, ts)
}

func (c *Connection) maybeSendTurn(tableID string, ts *tableSession) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	legal, ok, err := ts.runner.Legal(ctx, c.player())
	if err != nil || !ok {
		return
	}
	c.sendMsg(&protocol.Turn{Type: protocol.TypeTurn, TableID: tableID, Legal: legal})
}
