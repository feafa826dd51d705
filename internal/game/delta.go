package game

// DeltaKind identifies what a StateDelta changed.
type DeltaKind string

const (
	DeltaPlayerSeated DeltaKind = "player_seated"
	DeltaPlayerLeft   DeltaKind = "player_left"
	DeltaStatusChange DeltaKind = "status_change"
	DeltaHandStarted  DeltaKind = "hand_started"
	DeltaBlindPosted  DeltaKind = "blind_posted"
	DeltaHoleCards    DeltaKind = "hole_cards"
	DeltaAction       DeltaKind = "action"
	DeltaPhaseChange  DeltaKind = "phase_change"
	DeltaShowdown     DeltaKind = "showdown"
	DeltaPotAwarded   DeltaKind = "pot_awarded"
	DeltaHandEnded    DeltaKind = "hand_ended"
)

// StateDelta is one versioned table mutation. Exactly one delta exists per
// version; the version is the sole ordering authority for observers. The
// struct is flat with kind-dependent fields so it marshals directly.
type StateDelta struct {
	Version uint64    `json:"version"`
	Kind    DeltaKind `json:"kind"`

	Seat     int    `json:"seat"`  // acting/affected seat, -1 if none
	Actor    int    `json:"actor"` // seat due to act after this delta, -1 if none
	PlayerID string `json:"player_id,omitempty"`
	Name     string `json:"name,omitempty"`
	Status   string `json:"status,omitempty"`

	HandID     string `json:"hand_id,omitempty"`
	Button     int    `json:"button,omitempty"`
	SmallBlind int64  `json:"small_blind,omitempty"`
	BigBlind   int64  `json:"big_blind,omitempty"`

	Action string `json:"action,omitempty"`
	Amount int64  `json:"amount,omitempty"` // chips moved by this mutation
	Chips  int64  `json:"chips,omitempty"`  // Seat's stack after this mutation
	Bet    int64  `json:"bet,omitempty"`    // Seat's round bet after this mutation

	Phase      string `json:"phase,omitempty"`
	CurrentBet int64  `json:"current_bet,omitempty"`
	MinRaise   int64  `json:"min_raise,omitempty"`

	// Cards dealt by this delta: hole cards (private), new board cards, or
	// showdown reveals via Reveals. Private cards are blanked for every
	// observer other than Seat before broadcast; the delta still flows so
	// the version sequence has no holes.
	Cards   []string `json:"cards,omitempty"`
	Private bool     `json:"private,omitempty"`

	Pots    []PotView    `json:"pots,omitempty"`
	Reveals []RevealView `json:"reveals,omitempty"`
	Shares  []ShareView  `json:"shares,omitempty"`
	Stacks  []StackView  `json:"stacks,omitempty"`
}

// PotView is one pot layer as observers see it.
type PotView struct {
	Amount   int64 `json:"amount"`
	Eligible []int `json:"eligible"`
}

// RevealView is one showdown reveal.
type RevealView struct {
	Seat     int      `json:"seat"`
	Cards    []string `json:"cards"`
	Rank     uint16   `json:"rank"`
	RankName string   `json:"rank_name"`
}

// ShareView is one pot payout.
type ShareView struct {
	Seat   int   `json:"seat"`
	Amount int64 `json:"amount"`
	Pot    int   `json:"pot"`
}

// StackView is a seat's stack after payout.
type StackView struct {
	Seat  int   `json:"seat"`
	Chips int64 `json:"chips"`
}

// Redacted returns the delta as an observer other than its private seat
// should receive it.
func (d StateDelta) Redacted() StateDelta {
	if d.Private {
		d.Cards = nil
	}
	return d
}
