package game

import (
	"fmt"

	"github.com/greenfelt/cardroom/poker"
)

// Config sets the fixed parameters of one table.
type Config struct {
	SmallBlind int64
	BigBlind   int64
	Seats      int
}

// Validate rejects unusable table parameters.
func (c Config) Validate() error {
	if c.Seats < 2 || c.Seats > 10 {
		return fmt.Errorf("table seats must be 2-10, got %d", c.Seats)
	}
	if c.SmallBlind <= 0 || c.BigBlind < c.SmallBlind {
		return fmt.Errorf("blinds %d/%d are invalid", c.SmallBlind, c.BigBlind)
	}
	return nil
}

// ActionRecord is one entry of the hand's action log.
type ActionRecord struct {
	Seq    int    `json:"seq"`
	Phase  string `json:"phase"`
	Seat   int    `json:"seat"`
	Action string `json:"action"`
	Amount int64  `json:"amount,omitempty"`
}

// HandResult is emitted once per completed hand for archival. The core
// never blocks on whoever consumes it.
type HandResult struct {
	TableID string         `json:"table_id"`
	HandID  string         `json:"hand_id"`
	Board   []string       `json:"board"`
	Log     []ActionRecord `json:"log"`
	Reveals []RevealView   `json:"reveals,omitempty"`
	Shares  []ShareView    `json:"shares"`
	Final   *TableView     `json:"final"`
}

// Table is the authoritative state machine for one poker table. It is not
// safe for concurrent use: exactly one goroutine may own it, which the
// table runner enforces. Every mutation increments the version and emits
// one StateDelta; rejected actions touch nothing.
type Table struct {
	id  string
	cfg Config

	seats   []*Player
	phase   Phase
	button  int
	version uint64
	halted  bool
	haltErr error

	// per-hand state
	handID  string
	handSeq uint64
	players []*Player // participants in seat order from the button's left
	board   []poker.Card
	deck    *poker.Deck
	betting *bettingRound
	actor   int // seat due to act, -1 outside betting
	pots    []Pot
	chipSum int64 // total chips at hand start, for conservation checks
	log     []ActionRecord

	pending []StateDelta
	newDeck func() *poker.Deck
	handIDs func() string
}

// Option customizes table construction.
type Option func(*Table)

// WithDeckFactory substitutes the deck source, for deterministic tests.
func WithDeckFactory(f func() *poker.Deck) Option {
	return func(t *Table) { t.newDeck = f }
}

// WithHandIDs substitutes the hand ID generator.
func WithHandIDs(f func() string) Option {
	return func(t *Table) { t.handIDs = f }
}

// NewTable creates an empty table in the waiting phase.
func NewTable(id string, cfg Config, opts ...Option) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Table{
		id:      id,
		cfg:     cfg,
		seats:   make([]*Player, cfg.Seats),
		phase:   WaitingForPlayers,
		button:  -1,
		actor:   -1,
		newDeck: poker.NewDeck,
	}
	t.handIDs = func() string {
		t.handSeq++
		return fmt.Sprintf("%s-%d", t.id, t.handSeq)
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// ID returns the table identifier.
func (t *Table) ID() string { return t.id }

// Version returns the current state version.
func (t *Table) Version() uint64 { return t.version }

// Phase returns the current phase.
func (t *Table) Phase() Phase { return t.phase }

// Actor returns the seat due to act, or -1.
func (t *Table) Actor() int { return t.actor }

// Halted reports whether an invariant violation froze this table.
func (t *Table) Halted() bool { return t.halted }

// SeatOf returns the seat held by a player, or -1.
func (t *Table) SeatOf(playerID string) int {
	for seat, p := range t.seats {
		if p != nil && p.ID == playerID {
			return seat
		}
	}
	return -1
}

// emit stamps and buffers one delta, advancing the version.
func (t *Table) emit(d StateDelta) {
	t.version++
	d.Version = t.version
	d.Actor = t.actor
	t.pending = append(t.pending, d)
}

// takePending returns and clears the deltas produced by the current
// operation.
func (t *Table) takePending() []StateDelta {
	out := t.pending
	t.pending = nil
	return out
}

// Seat places a player at the lowest empty seat. Joining mid-hand is
// allowed; the player is dealt in from the next hand.
func (t *Table) Seat(playerID, name string, chips int64) (int, []StateDelta, error) {
	if chips <= 0 {
		return -1, nil, fmt.Errorf("buy-in must be positive")
	}
	for _, p := range t.seats {
		if p != nil && p.ID == playerID {
			return -1, nil, fmt.Errorf("player %s already seated", playerID)
		}
	}
	for seat, p := range t.seats {
		if p != nil {
			continue
		}
		pl := &Player{
			ID:     playerID,
			Name:   name,
			Seat:   seat,
			Chips:  chips,
			Status: StatusActive,
		}
		t.seats[seat] = pl
		t.emit(StateDelta{
			Kind:     DeltaPlayerSeated,
			Seat:     seat,
			PlayerID: playerID,
			Name:     name,
			Chips:    chips,
			Status:   pl.Status.String(),
		})
		return seat, t.takePending(), nil
	}
	return -1, nil, fmt.Errorf("table %s is full", t.id)
}

// Leave removes the player. Mid-hand the player is folded first so the
// hand can finish; their stack leaves the table with them.
func (t *Table) Leave(seat int) ([]StateDelta, *HandResult, error) {
	p, err := t.seatAt(seat)
	if err != nil {
		return nil, nil, err
	}
	var result *HandResult
	if t.participant(p) && p.InHand() && t.phase.BettingPhase() {
		result = t.forceFold(p)
	}
	t.seats[seat] = nil
	t.emit(StateDelta{Kind: DeltaPlayerLeft, Seat: seat})
	return t.takePending(), result, nil
}

// SitOut marks the player as sitting out. Mid-hand the current hand is
// played to completion first.
func (t *Table) SitOut(seat int) ([]StateDelta, error) {
	p, err := t.seatAt(seat)
	if err != nil {
		return nil, err
	}
	if t.participant(p) && t.phase.BettingPhase() {
		p.sitOutNext = true
		return nil, nil
	}
	return t.setStatus(p, StatusSittingOut), nil
}

// Return brings a sitting-out or disconnected player back for the next
// hand.
func (t *Table) Return(seat int) ([]StateDelta, error) {
	p, err := t.seatAt(seat)
	if err != nil {
		return nil, err
	}
	p.sitOutNext = false
	if p.Status != StatusSittingOut && p.Status != StatusDisconnected {
		return nil, nil
	}
	return t.setStatus(p, StatusActive), nil
}

// MarkDisconnected flags a dropped connection. The player keeps playing in
// the current hand; their action timer will fold them if they do not
// return in time.
func (t *Table) MarkDisconnected(seat int) ([]StateDelta, error) {
	p, err := t.seatAt(seat)
	if err != nil {
		return nil, err
	}
	if t.participant(p) && t.phase.BettingPhase() {
		p.sitOutNext = true
		return nil, nil
	}
	return t.setStatus(p, StatusDisconnected), nil
}

func (t *Table) setStatus(p *Player, s PlayerStatus) []StateDelta {
	p.Status = s
	t.emit(StateDelta{Kind: DeltaStatusChange, Seat: p.Seat, Status: s.String()})
	return t.takePending()
}

func (t *Table) seatAt(seat int) (*Player, error) {
	if seat < 0 || seat >= len(t.seats) || t.seats[seat] == nil {
		return nil, validationErrf(CodeNotSeated, "no player at seat %d", seat)
	}
	return t.seats[seat], nil
}

func (t *Table) participant(p *Player) bool {
	for _, q := range t.players {
		if q == p {
			return true
		}
	}
	return false
}

// CanStartHand reports whether a new hand could begin now.
func (t *Table) CanStartHand() bool {
	return !t.halted && t.phase == WaitingForPlayers && len(t.eligible()) >= 2
}

// eligible returns seated players able to join the next hand.
func (t *Table) eligible() []*Player {
	var out []*Player
	for _, p := range t.seats {
		if p != nil && p.Status != StatusSittingOut && p.Status != StatusDisconnected && p.Chips > 0 {
			out = append(out, p)
		}
	}
	return out
}

// StartHand shuffles, deals, and posts blinds. The table must be waiting
// with at least two eligible players.
func (t *Table) StartHand() ([]StateDelta, error) {
	if t.halted {
		return nil, invariantErrf("table %s is halted", t.id)
	}
	if t.phase != WaitingForPlayers {
		return nil, validationErrf(CodeIllegalAction, "hand already in progress")
	}
	eligible := t.eligible()
	if len(eligible) < 2 {
		return nil, validationErrf(CodeIllegalAction, "need at least 2 players, have %d", len(eligible))
	}

	t.button = t.nextOccupied(t.button, eligible)
	t.players = t.orderFromButton(eligible)
	t.handID = t.handIDs()
	t.board = nil
	t.pots = nil
	t.log = nil
	t.deck = t.newDeck()
	t.betting = newBettingRound(t.cfg.BigBlind)
	t.chipSum = 0

	stacks := make([]StackView, 0, len(t.players))
	for _, p := range t.players {
		p.resetForHand()
		t.chipSum += p.Chips
		stacks = append(stacks, StackView{Seat: p.Seat, Chips: p.Chips})
	}

	t.phase = PreFlop
	t.emit(StateDelta{
		Kind:       DeltaHandStarted,
		Seat:       -1,
		HandID:     t.handID,
		Button:     t.button,
		Phase:      t.phase.String(),
		SmallBlind: t.cfg.SmallBlind,
		BigBlind:   t.cfg.BigBlind,
		MinRaise:   t.cfg.BigBlind,
		Stacks:     stacks,
	})

	sb, bb := t.blindSeats()
	t.postBlind(sb, t.cfg.SmallBlind)
	t.postBlind(bb, t.cfg.BigBlind)

	for _, p := range t.players {
		p.HoleCards = poker.NewHand(t.deck.Deal(2)...)
		t.emit(StateDelta{
			Kind:    DeltaHoleCards,
			Seat:    p.Seat,
			Cards:   handStrings(p.HoleCards),
			Private: true,
		})
	}

	// First to act preflop is left of the big blind.
	t.setActor(t.nextToAct(bb))
	return t.takePending(), nil
}

// blindSeats returns the small and big blind seats. Heads-up the button
// posts the small blind and acts first preflop.
func (t *Table) blindSeats() (sb, bb int) {
	if len(t.players) == 2 {
		return t.button, t.players[0].Seat
	}
	return t.players[0].Seat, t.players[1].Seat
}

// postBlind posts a blind. The round price is the nominal blind even when
// a short stack posts less.
func (t *Table) postBlind(seat int, amount int64) {
	p := t.playerAt(seat)
	posted := p.post(amount)
	t.betting.CurrentBet = maxInt64(t.betting.CurrentBet, amount)
	t.emit(StateDelta{
		Kind:       DeltaBlindPosted,
		Seat:       seat,
		Amount:     posted,
		Chips:      p.Chips,
		Bet:        p.Bet,
		Status:     p.Status.String(),
		CurrentBet: t.betting.CurrentBet,
	})
	t.logAction(seat, "blind", posted)
}

// setActor updates the turn and patches the actor onto the last emitted
// delta so observers learn whose turn it is from the same message.
func (t *Table) setActor(seat int) {
	t.actor = seat
	if n := len(t.pending); n > 0 {
		t.pending[n-1].Actor = seat
	}
}

// Legal returns the current actor's action set. ok is false when no action
// is expected.
func (t *Table) Legal() (LegalActions, bool) {
	if !t.phase.BettingPhase() || t.actor < 0 {
		return LegalActions{}, false
	}
	return t.betting.legalFor(t.playerAt(t.actor)), true
}

// AutoAction returns the synthetic action applied when the actor's time
// budget expires: check when legal, otherwise fold.
func (t *Table) AutoAction(seat int) PlayerAction {
	if la, ok := t.Legal(); ok && la.Seat == seat && la.CanCheck {
		return PlayerAction{Seat: seat, Type: Check}
	}
	return PlayerAction{Seat: seat, Type: Fold}
}

// Apply validates and executes one player action. On rejection the state
// and version are untouched. A non-nil HandResult means the action ended
// the hand.
func (t *Table) Apply(a PlayerAction) ([]StateDelta, *HandResult, error) {
	if t.halted {
		return nil, nil, invariantErrf("table %s is halted", t.id)
	}
	if !t.phase.BettingPhase() {
		return nil, nil, validationErrf(CodeNoHand, "no betting in progress")
	}
	p, err := t.seatAt(a.Seat)
	if err != nil {
		return nil, nil, err
	}
	if !t.participant(p) || !p.InHand() {
		return nil, nil, validationErrf(CodeNotInHand, "seat %d is not in the hand", a.Seat)
	}
	if a.Seat != t.actor {
		return nil, nil, validationErrf(CodeOutOfTurn, "seat %d acted, seat %d is due", a.Seat, t.actor)
	}
	if err := t.betting.validate(p, a); err != nil {
		return nil, nil, err
	}

	recorded, posted := t.betting.apply(p, a)
	t.logAction(a.Seat, recorded.String(), posted)
	t.emit(StateDelta{
		Kind:       DeltaAction,
		Seat:       a.Seat,
		Action:     recorded.String(),
		Amount:     posted,
		Chips:      p.Chips,
		Bet:        p.Bet,
		Status:     p.Status.String(),
		Phase:      t.phase.String(),
		CurrentBet: t.betting.CurrentBet,
		MinRaise:   t.betting.MinRaise,
	})

	result, err := t.advance()
	if err != nil {
		t.halt(err)
		return t.takePending(), nil, err
	}
	return t.takePending(), result, nil
}

// advance moves the hand forward after an action: next actor, next street,
// or completion.
func (t *Table) advance() (*HandResult, error) {
	if t.inHandCount() == 1 {
		return t.finishHand(false)
	}
	if !t.betting.complete(t.players) {
		t.setActor(t.nextToAct(t.actor))
		return nil, nil
	}
	t.setActor(-1)

	for {
		if err := t.collectPots(); err != nil {
			return nil, err
		}
		switch t.phase {
		case PreFlop:
			t.dealBoard(Flop, 3)
		case Flop:
			t.dealBoard(Turn, 1)
		case Turn:
			t.dealBoard(River, 1)
		case River:
			return t.finishHand(true)
		}
		if t.actor >= 0 {
			return nil, nil
		}
		// Nobody can act: everyone left is all-in, run the board out.
	}
}

// collectPots folds the street's bets into the pot layers.
func (t *Table) collectPots() error {
	pots, err := buildPots(t.players)
	if err != nil {
		return err
	}
	total := potTotal(pots)
	var contributed int64
	for _, p := range t.players {
		contributed += p.TotalBet
	}
	if total != contributed {
		return invariantErrf("pot total %d != contributions %d", total, contributed)
	}
	t.pots = pots
	for _, p := range t.players {
		p.Bet = 0
	}
	t.betting.resetForStreet()
	return nil
}

func (t *Table) dealBoard(next Phase, n int) {
	cards := t.deck.Deal(n)
	t.board = append(t.board, cards...)
	t.phase = next
	t.actor = -1
	t.emit(StateDelta{
		Kind:     DeltaPhaseChange,
		Seat:     -1,
		Phase:    next.String(),
		Cards:    cardStrings(cards),
		Pots:     t.potViews(),
		MinRaise: t.betting.MinRaise,
	})
	t.setActor(t.nextToAct(t.button))
}

// finishHand resolves the pot, pays winners, and returns the table to the
// waiting phase. showdown is false for uncontested pots, which are awarded
// without revealing cards.
func (t *Table) finishHand(showdown bool) (*HandResult, error) {
	t.setActor(-1)
	if err := t.collectPots(); err != nil {
		return nil, err
	}

	var reveals []RevealView
	ranks := make(map[int]poker.HandRank)
	if showdown {
		t.phase = Showdown
		boardHand := poker.NewHand(t.board...)
		for _, p := range t.players {
			if !p.InHand() {
				continue
			}
			rank, err := poker.Evaluate(p.HoleCards | boardHand)
			if err != nil {
				return nil, invariantErrf("showdown evaluation for seat %d: %v", p.Seat, err)
			}
			ranks[p.Seat] = rank
			reveals = append(reveals, RevealView{
				Seat:     p.Seat,
				Cards:    handStrings(p.HoleCards),
				Rank:     uint16(rank),
				RankName: rank.String(),
			})
		}
		t.emit(StateDelta{Kind: DeltaShowdown, Seat: -1, Phase: t.phase.String(), Reveals: reveals})
	}

	shares, err := payoutPots(t.pots, ranks, t.seatOrder())
	if err != nil {
		return nil, err
	}
	for _, s := range shares {
		t.playerAt(s.Seat).Chips += s.Amount
	}

	var after int64
	for _, p := range t.players {
		after += p.Chips
	}
	if after != t.chipSum {
		return nil, invariantErrf("chip conservation broken: %d before, %d after", t.chipSum, after)
	}

	t.phase = Payout
	t.emit(StateDelta{
		Kind:   DeltaPotAwarded,
		Seat:   -1,
		Phase:  t.phase.String(),
		Shares: toShareViews(shares),
		Stacks: t.stackViews(),
	})

	result := &HandResult{
		TableID: t.id,
		HandID:  t.handID,
		Board:   cardStrings(t.board),
		Log:     t.log,
		Reveals: reveals,
		Shares:  toShareViews(shares),
	}

	t.endHand()
	result.Final = t.SnapshotFor(-1)
	return result, nil
}

// endHand applies deferred sit-outs and returns to the waiting phase. The
// runner decides whether to start the next hand immediately.
func (t *Table) endHand() {
	for _, p := range t.players {
		p.HoleCards = 0
		p.Bet = 0
		if p.sitOutNext {
			p.sitOutNext = false
			p.Status = StatusSittingOut
			t.emit(StateDelta{Kind: DeltaStatusChange, Seat: p.Seat, Status: p.Status.String()})
		}
	}
	t.players = nil
	t.pots = nil
	t.handID = ""
	t.phase = WaitingForPlayers
	t.emit(StateDelta{Kind: DeltaHandEnded, Seat: -1, Phase: t.phase.String()})
}

// halt freezes the table after an invariant violation.
func (t *Table) halt(err error) {
	t.halted = true
	t.haltErr = err
}

// HaltReason returns the invariant violation that froze the table, if any.
func (t *Table) HaltReason() error { return t.haltErr }

// inHandCount counts players still holding cards.
func (t *Table) inHandCount() int {
	n := 0
	for _, p := range t.players {
		if p.InHand() {
			n++
		}
	}
	return n
}

// nextToAct returns the first seat after 'after' (in seat order, wrapping)
// that can still act, or -1.
func (t *Table) nextToAct(after int) int {
	for i := 1; i <= len(t.seats); i++ {
		seat := (after + i) % len(t.seats)
		p := t.seats[seat]
		if p != nil && t.participant(p) && p.CanAct() {
			return seat
		}
	}
	return -1
}

// nextOccupied advances the button to the next eligible seat.
func (t *Table) nextOccupied(after int, eligible []*Player) int {
	if after < 0 {
		return eligible[0].Seat
	}
	for i := 1; i <= len(t.seats); i++ {
		seat := (after + i) % len(t.seats)
		for _, p := range eligible {
			if p.Seat == seat {
				return seat
			}
		}
	}
	return eligible[0].Seat
}

// orderFromButton returns the hand's players starting one seat left of the
// button.
func (t *Table) orderFromButton(eligible []*Player) []*Player {
	out := make([]*Player, 0, len(eligible))
	for i := 1; i <= len(t.seats); i++ {
		seat := (t.button + i) % len(t.seats)
		for _, p := range eligible {
			if p.Seat == seat {
				out = append(out, p)
			}
		}
	}
	return out
}

// seatOrder returns the hand's seats clockwise from the button's left,
// the deterministic order used for odd-chip distribution.
func (t *Table) seatOrder() []int {
	out := make([]int, 0, len(t.players))
	for _, p := range t.players {
		out = append(out, p.Seat)
	}
	return out
}

// forceFold folds a player out of turn, for leaves and disconnect expiry.
func (t *Table) forceFold(p *Player) *HandResult {
	if !p.InHand() {
		return nil
	}
	p.Status = StatusFolded
	t.betting.acted[p.Seat] = true
	t.logAction(p.Seat, "fold", 0)
	t.emit(StateDelta{
		Kind:       DeltaAction,
		Seat:       p.Seat,
		Action:     "fold",
		Chips:      p.Chips,
		Bet:        p.Bet,
		Status:     p.Status.String(),
		Phase:      t.phase.String(),
		CurrentBet: t.betting.CurrentBet,
		MinRaise:   t.betting.MinRaise,
	})
	if t.actor != p.Seat {
		// Folded out of turn: the pending actor keeps their turn. The
		// hand only resolves early if a single player remains.
		if t.inHandCount() != 1 {
			return nil
		}
		result, err := t.finishHand(false)
		if err != nil {
			t.halt(err)
			return nil
		}
		return result
	}
	// The folded seat was due to act; advance() finds the successor from
	// their seat exactly as if they had folded in turn.
	result, err := t.advance()
	if err != nil {
		t.halt(err)
		return nil
	}
	return result
}

func (t *Table) playerAt(seat int) *Player {
	return t.seats[seat]
}

func (t *Table) logAction(seat int, action string, amount int64) {
	t.log = append(t.log, ActionRecord{
		Seq:    len(t.log) + 1,
		Phase:  t.phase.String(),
		Seat:   seat,
		Action: action,
		Amount: amount,
	})
}

func (t *Table) potViews() []PotView {
	if len(t.pots) == 0 {
		return nil
	}
	out := make([]PotView, len(t.pots))
	for i, p := range t.pots {
		out[i] = PotView{Amount: p.Amount, Eligible: append([]int(nil), p.Eligible...)}
	}
	return out
}

func (t *Table) stackViews() []StackView {
	out := make([]StackView, 0, len(t.players))
	for _, p := range t.players {
		out = append(out, StackView{Seat: p.Seat, Chips: p.Chips})
	}
	return out
}

// SnapshotFor builds the redacted view for one observer. viewerSeat -1 is
// a spectator. The result is identical to replaying every delta the same
// observer has received since version 0.
func (t *Table) SnapshotFor(viewerSeat int) *TableView {
	v := NewTableView(t.id, len(t.seats), t.cfg.SmallBlind, t.cfg.BigBlind)
	v.Version = t.version
	v.Phase = t.phase.String()
	v.HandID = t.handID
	v.Button = t.button
	v.Actor = t.actor
	if t.betting != nil && t.phase.BettingPhase() {
		v.CurrentBet = t.betting.CurrentBet
		v.MinRaise = t.betting.MinRaise
	}
	if t.phase.BettingPhase() || t.phase == Showdown {
		v.Board = cardStrings(t.board)
		v.Pots = t.potViews()
	}

	for seat, p := range t.seats {
		if p == nil {
			continue
		}
		s := &v.Seats[seat]
		s.Occupied = true
		s.PlayerID = p.ID
		s.Name = p.Name
		s.Chips = p.Chips
		s.Status = p.Status.String()
		if !t.participant(p) || !t.phase.BettingPhase() && t.phase != Showdown {
			continue
		}
		s.Bet = p.Bet
		s.TotalBet = p.TotalBet
		if !p.InHand() {
			continue
		}
		s.HasCards = true
		if seat == viewerSeat || t.phase == Showdown {
			s.Cards = handStrings(p.HoleCards)
		}
	}
	return v
}

func cardStrings(cards []poker.Card) []string {
	if len(cards) == 0 {
		return nil
	}
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

func handStrings(h poker.Hand) []string {
	return cardStrings(h.Cards())
}

func toShareViews(shares []PotShare) []ShareView {
	out := make([]ShareView, len(shares))
	for i, s := range shares {
		out[i] = ShareView{Seat: s.Seat, Amount: s.Amount, Pot: s.Pot}
	}
	return out
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
