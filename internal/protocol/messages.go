// Package protocol defines the JSON wire messages exchanged between the
// cardroom server and its clients. Every message is a flat struct carrying
// its own Type field so streams can be decoded without framing metadata.
package protocol

import "github.com/greenfelt/cardroom/internal/game"

const (
	// Client -> Server
	TypeHello    = "hello"
	TypeListReq  = "list_tables"
	TypeJoin     = "join"
	TypeLeave    = "leave"
	TypeSitOut   = "sit_out"
	TypeReturn   = "return"
	TypeAction   = "action"
	TypeSnapshot = "snapshot"

	// Server -> Client
	TypeWelcome   = "welcome"
	TypeTableList = "table_list"
	TypeJoined    = "joined"
	TypeLeft      = "left"
	TypeDelta     = "delta"
	TypeState     = "state"
	TypeTurn      = "turn"
	TypeError     = "error"
)

// Client -> Server messages.

// Hello registers the connection under a display name. It must be the
// first message on a connection.
type Hello struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// ListTables asks for the currently open tables.
type ListTables struct {
	Type string `json:"type"`
}

// Join seats the player at a table with the given buy-in.
type Join struct {
	Type    string `json:"type"`
	TableID string `json:"table_id"`
	BuyIn   int64  `json:"buy_in"`
}

// Leave gives up the player's seat. Mid-hand the seat is folded first.
type Leave struct {
	Type    string `json:"type"`
	TableID string `json:"table_id"`
}

// SitOut marks the player as sitting out from the next hand on.
type SitOut struct {
	Type    string `json:"type"`
	TableID string `json:"table_id"`
}

// Return brings a sitting-out player back into the rotation.
type Return struct {
	Type    string `json:"type"`
	TableID string `json:"table_id"`
}

// Action submits a betting decision for the player's seat. Amount is the
// total wagered this round and is meaningful for bet and raise only.
type Action struct {
	Type    string `json:"type"`
	TableID string `json:"table_id"`
	Action  string `json:"action"` // fold, check, call, bet, raise, allin
	Amount  int64  `json:"amount,omitempty"`
}

// SnapshotRequest asks for a full state snapshot, normally after the
// client detected a version gap in its delta stream.
type SnapshotRequest struct {
	Type    string `json:"type"`
	TableID string `json:"table_id"`
}

// Server -> Client messages.

// Welcome acknowledges Hello and assigns the player ID used in seat views.
type Welcome struct {
	Type     string `json:"type"`
	PlayerID string `json:"player_id"`
}

// TableInfo is one entry of a table listing.
type TableInfo struct {
	TableID    string `json:"table_id"`
	SmallBlind int64  `json:"small_blind"`
	BigBlind   int64  `json:"big_blind"`
	Seats      int    `json:"seats"`
	Occupied   int    `json:"occupied"`
}

// TableList answers ListTables.
type TableList struct {
	Type   string      `json:"type"`
	Tables []TableInfo `json:"tables"`
}

// Joined confirms a seat. State is the snapshot the delta stream
// continues from.
type Joined struct {
	Type    string          `json:"type"`
	TableID string          `json:"table_id"`
	Seat    int             `json:"seat"`
	State   *game.TableView `json:"state"`
}

// Left confirms the player gave up their seat.
type Left struct {
	Type    string `json:"type"`
	TableID string `json:"table_id"`
}

// Delta is one versioned state change. Clients apply deltas in version
// order; a gap means the stream lagged and a snapshot is needed.
type Delta struct {
	Type    string          `json:"type"`
	TableID string          `json:"table_id"`
	Delta   game.StateDelta `json:"delta"`
}

// State answers SnapshotRequest, and is also pushed when the server had
// to drop deltas for this client.
type State struct {
	Type    string          `json:"type"`
	TableID string          `json:"table_id"`
	State   *game.TableView `json:"state"`
}

// Turn tells the acting player what they may legally do.
type Turn struct {
	Type    string            `json:"type"`
	TableID string            `json:"table_id"`
	Legal   game.LegalActions `json:"legal"`
}

// Error reports a rejected request. Code is machine-readable; rejected
// actions carry the validation code from the rules engine.
type Error struct {
	Type    string `json:"type"`
	TableID string `json:"table_id,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
