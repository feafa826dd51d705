package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/greenfelt/cardroom/internal/game"
)

var ErrUnknownMessageType = errors.New("unknown message type")

// Encode serializes a message. The message's Type field must already be
// set; constructors in this package and the server always do.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decode parses one client message, dispatching on the embedded type tag.
// Server-to-client messages are not accepted here; each side decodes only
// what its peer may send.
func Decode(data []byte) (any, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode message header: %w", err)
	}

	var msg any
	switch head.Type {
	case TypeHello:
		msg = &Hello{}
	case TypeListReq:
		msg = &ListTables{}
	case TypeJoin:
		msg = &Join{}
	case TypeLeave:
		msg = &Leave{}
	case TypeSitOut:
		msg = &SitOut{}
	case TypeReturn:
		msg = &Return{}
	case TypeAction:
		msg = &Action{}
	case TypeSnapshot:
		msg = &SnapshotRequest{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, head.Type)
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", head.Type, err)
	}
	return msg, nil
}

// ParseActionType maps a wire action name to the engine's action type.
func ParseActionType(s string) (game.ActionType, error) {
	switch s {
	case "fold":
		return game.Fold, nil
	case "check":
		return game.Check, nil
	case "call":
		return game.Call, nil
	case "bet":
		return game.Bet, nil
	case "raise":
		return game.Raise, nil
	case "allin":
		return game.AllIn, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}
