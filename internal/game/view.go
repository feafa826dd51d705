package game

// TableView is a redacted, observer-facing projection of table state. A
// fresh view at version 0 advanced by every delta in order reproduces the
// table's snapshot for the same observer; hidden hole cards stay hidden in
// both paths.
type TableView struct {
	TableID    string     `json:"table_id"`
	Version    uint64     `json:"version"`
	Phase      string     `json:"phase"`
	HandID     string     `json:"hand_id,omitempty"`
	Button     int        `json:"button"`
	Actor      int        `json:"actor"`
	SmallBlind int64      `json:"small_blind"`
	BigBlind   int64      `json:"big_blind"`
	CurrentBet int64      `json:"current_bet"`
	MinRaise   int64      `json:"min_raise"`
	Board      []string   `json:"board"`
	Pots       []PotView  `json:"pots"`
	Seats      []SeatView `json:"seats"`
}

// SeatView is one seat as observers see it. Cards is populated only for
// the observer's own seat and for showdown reveals.
type SeatView struct {
	Seat     int      `json:"seat"`
	Occupied bool     `json:"occupied"`
	PlayerID string   `json:"player_id,omitempty"`
	Name     string   `json:"name,omitempty"`
	Chips    int64    `json:"chips"`
	Bet      int64    `json:"bet"`
	TotalBet int64    `json:"total_bet"`
	Status   string   `json:"status,omitempty"`
	HasCards bool     `json:"has_cards"`
	Cards    []string `json:"cards,omitempty"`
}

// NewTableView returns the version-0 baseline an observer replays onto.
func NewTableView(tableID string, seatCount int, smallBlind, bigBlind int64) *TableView {
	seats := make([]SeatView, seatCount)
	for i := range seats {
		seats[i].Seat = i
	}
	return &TableView{
		TableID:    tableID,
		Phase:      WaitingForPlayers.String(),
		Button:     -1,
		Actor:      -1,
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		Seats:      seats,
	}
}

// Apply advances the view by one delta. A version gap returns a
// StateConflictError; the observer should resynchronize from a snapshot.
func (v *TableView) Apply(d StateDelta) error {
	if d.Version != v.Version+1 {
		return &StateConflictError{Requested: d.Version, Current: v.Version}
	}
	v.Version = d.Version
	v.Actor = d.Actor

	switch d.Kind {
	case DeltaPlayerSeated:
		s := &v.Seats[d.Seat]
		s.Occupied = true
		s.PlayerID = d.PlayerID
		s.Name = d.Name
		s.Chips = d.Chips
		s.Status = d.Status
		s.Bet, s.TotalBet, s.HasCards, s.Cards = 0, 0, false, nil

	case DeltaPlayerLeft:
		v.Seats[d.Seat] = SeatView{Seat: d.Seat}

	case DeltaStatusChange:
		v.Seats[d.Seat].Status = d.Status

	case DeltaHandStarted:
		v.HandID = d.HandID
		v.Button = d.Button
		v.Phase = d.Phase
		v.CurrentBet = 0
		v.MinRaise = d.MinRaise
		v.Board = nil
		v.Pots = nil
		participating := make(map[int]bool, len(d.Stacks))
		for _, st := range d.Stacks {
			participating[st.Seat] = true
		}
		for i := range v.Seats {
			s := &v.Seats[i]
			if !s.Occupied {
				continue
			}
			s.Bet, s.TotalBet, s.HasCards, s.Cards = 0, 0, false, nil
			if participating[s.Seat] {
				s.Status = StatusActive.String()
			}
		}

	case DeltaBlindPosted:
		s := &v.Seats[d.Seat]
		s.Chips = d.Chips
		s.Bet = d.Bet
		s.TotalBet += d.Amount
		s.Status = d.Status
		v.CurrentBet = d.CurrentBet

	case DeltaHoleCards:
		s := &v.Seats[d.Seat]
		s.HasCards = true
		if len(d.Cards) > 0 {
			s.Cards = d.Cards
		}

	case DeltaAction:
		s := &v.Seats[d.Seat]
		s.Chips = d.Chips
		s.Bet = d.Bet
		s.TotalBet += d.Amount
		s.Status = d.Status
		if d.Status == StatusFolded.String() {
			s.HasCards, s.Cards = false, nil
		}
		v.CurrentBet = d.CurrentBet
		v.MinRaise = d.MinRaise

	case DeltaPhaseChange:
		v.Phase = d.Phase
		v.Board = append(v.Board, d.Cards...)
		v.Pots = d.Pots
		v.CurrentBet = d.CurrentBet
		v.MinRaise = d.MinRaise
		for i := range v.Seats {
			v.Seats[i].Bet = 0
		}

	case DeltaShowdown:
		v.Phase = d.Phase
		for _, r := range d.Reveals {
			s := &v.Seats[r.Seat]
			s.Cards = r.Cards
			s.HasCards = true
		}

	case DeltaPotAwarded:
		v.Phase = d.Phase
		v.Pots = nil
		for _, st := range d.Stacks {
			v.Seats[st.Seat].Chips = st.Chips
		}

	case DeltaHandEnded:
		v.Phase = d.Phase
		v.HandID = ""
		v.Board = nil
		v.CurrentBet = 0
		v.MinRaise = 0
		for i := range v.Seats {
			s := &v.Seats[i]
			s.Bet = 0
			s.TotalBet = 0
			s.HasCards = false
			s.Cards = nil
		}
	}
	return nil
}
