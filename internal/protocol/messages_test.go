package protocol

import (
	"errors"
	"testing"

	"github.com/greenfelt/cardroom/internal/game"
)

func TestDecodeDispatchesOnType(t *testing.T) {
	data, err := Encode(&Action{
		Type:    TypeAction,
		TableID: "t1",
		Action:  "raise",
		Amount:  120,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	msg, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	action, ok := msg.(*Action)
	if !ok {
		t.Fatalf("decoded %T, want *Action", msg)
	}
	if action.TableID != "t1" || action.Action != "raise" || action.Amount != 120 {
		t.Errorf("round trip mismatch: %+v", action)
	}
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	_, err := Decode([]byte(`{"type":"shove_table"}`))
	if !errors.Is(err, ErrUnknownMessageType) {
		t.Fatalf("got %v, want ErrUnknownMessageType", err)
	}
}

func TestDecodeRejectsServerMessages(t *testing.T) {
	// Clients must not be able to inject server-side message types.
	_, err := Decode([]byte(`{"type":"delta"}`))
	if !errors.Is(err, ErrUnknownMessageType) {
		t.Fatalf("got %v, want ErrUnknownMessageType", err)
	}
}

func TestParseActionType(t *testing.T) {
	tests := []struct {
		in   string
		want game.ActionType
	}{
		{"fold", game.Fold},
		{"check", game.Check},
		{"call", game.Call},
		{"bet", game.Bet},
		{"raise", game.Raise},
		{"allin", game.AllIn},
	}
	for _, tt := range tests {
		got, err := ParseActionType(tt.in)
		if err != nil {
			t.Errorf("ParseActionType(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseActionType(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if got.String() != tt.in {
			t.Errorf("round trip %q -> %q", tt.in, got.String())
		}
	}

	if _, err := ParseActionType("limp"); err == nil {
		t.Error("expected error for unknown action")
	}
}
