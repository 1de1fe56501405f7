package engine

import (
	"fmt"
	"sync"
	"time"

	"diceroyale/events"
	"diceroyale/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const tickInterval = time.Second

// timer keys; notification expiry timers use notePrefix + notification ID
const (
	timerStartup  = "startup"
	timerTick     = "tick"
	timerOpponent = "opponent"
	timerRoll     = "roll"
	timerHold     = "hold"
	notePrefix    = "note:"
)

// EventPublisher receives every event the table raises
type EventPublisher interface {
	Publish(event events.Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(events.Event) {}

type scheduled struct {
	timer Timer
	id    uint64
}

// Engine runs one dice table: the round clock, the bet ledger, outcome draws
// and settlement. Every callback and public operation runs under one mutex, so
// timer callbacks behave as if queued on a single logical thread.
type Engine struct {
	mu        sync.Mutex
	cfg       Config
	clock     Clock
	rng       RNG
	publisher EventPublisher

	state   models.RoundState
	started bool
	closed  bool

	players []*models.Actor
	byID    map[string]*models.Actor
	ledger  *Ledger
	history *capped[models.HistoryEntry]
	notes   *capped[models.Notification]

	timers   map[string]scheduled
	timerSeq uint64
}

// New creates a table waiting to be started. A nil clock, rng or publisher
// falls back to the system clock, a time-seeded generator and a no-op publisher.
func New(cfg Config, clock Clock, rng RNG, publisher EventPublisher) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid table config: %w", err)
	}
	if clock == nil {
		clock = SystemClock()
	}
	if rng == nil {
		rng = NewTimeSeededRNG()
	}
	if publisher == nil {
		publisher = noopPublisher{}
	}

	e := &Engine{
		cfg:       cfg,
		clock:     clock,
		rng:       rng,
		publisher: publisher,
		ledger:    NewLedger(),
		history:   newCapped[models.HistoryEntry](cfg.HistoryLimit),
		notes:     newCapped[models.Notification](cfg.NotificationLimit),
		timers:    make(map[string]scheduled),
		state: models.RoundState{
			Round:            1,
			Phase:            models.PhaseAwaitingStart,
			SecondsRemaining: cfg.RoundSeconds,
		},
	}
	e.resetPlayers()
	return e, nil
}

// Config returns the table settings
func (e *Engine) Config() Config {
	return e.cfg
}

// Start arms the startup delay. Calling it again has no effect.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.started {
		return
	}
	e.started = true

	log.WithFields(log.Fields{
		"startDelay":   e.cfg.StartDelay,
		"roundSeconds": e.cfg.RoundSeconds,
		"opponents":    len(e.cfg.Opponents),
	}).Info("Dice table starting")

	if e.cfg.StartDelay <= 0 {
		e.beginBetting()
		return
	}
	e.schedule(timerStartup, e.cfg.StartDelay, e.beginBetting)
}

// ForceStartNow skips the startup delay. It reports whether the table moved to betting.
func (e *Engine) ForceStartNow() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.state.Phase != models.PhaseAwaitingStart {
		return false
	}
	e.started = true
	e.cancel(timerStartup)
	e.beginBetting()
	return true
}

// ForceResolveNow ends the betting window immediately. It reports whether a
// resolution was started; outside the betting phase it does nothing.
func (e *Engine) ForceResolveNow() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return false
	}
	return e.beginResolving()
}

// PlaceBet stakes the local user's bet for the open round. The stake is
// debited immediately; an earlier bet from the user this round is replaced and
// its stake refunded. A rejected bet leaves every balance untouched.
func (e *Engine) PlaceBet(betType models.BetType, choice models.Choice, amount int64) (models.Bet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return models.Bet{}, ErrClosed
	}
	if !e.state.BettingOpen() || e.ledger.Frozen() {
		return models.Bet{}, fmt.Errorf("%w: table is %s", ErrInvalidBetWindow, e.state.Phase)
	}
	if err := models.ValidateChoice(betType, choice); err != nil {
		return models.Bet{}, fmt.Errorf("%w: %v", ErrInvalidChoice, err)
	}
	if amount <= 0 {
		return models.Bet{}, fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}

	user := e.byID[e.cfg.UserID]
	prev, replacing := e.ledger.Get(user.ID)
	available := user.Balance
	if replacing {
		available += prev.Reserved
	}
	if amount > available {
		return models.Bet{}, fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, available, amount)
	}

	bet := models.Bet{
		ID:        uuid.NewString(),
		OwnerID:   user.ID,
		OwnerName: user.Name,
		Type:      betType,
		Choice:    choice,
		Amount:    amount,
		Reserved:  amount,
		Round:     e.state.Round,
		PlacedAt:  e.clock.Now(),
	}
	if err := e.ledger.Put(bet); err != nil {
		return models.Bet{}, err
	}

	if replacing && prev.Reserved > 0 {
		e.adjust(user, prev.Reserved, models.TransactionTypeStakeRefund)
	}
	e.adjust(user, -amount, models.TransactionTypeStake)

	label := choice.Label(betType)
	e.history.Push(models.HistoryEntry{
		ID:    uuid.NewString(),
		Kind:  models.HistoryKindBetPlaced,
		Round: e.state.Round,
		At:    bet.PlacedAt,
		Delta: -amount,
		Text:  fmt.Sprintf("Placed: %s • %s", label, e.money(amount)),
	})
	e.notify(fmt.Sprintf("You placed %s • %s", label, e.money(amount)))

	log.WithFields(log.Fields{
		"round":    bet.Round,
		"type":     betType,
		"choice":   choice,
		"amount":   amount,
		"replaced": replacing,
	}).Info("User bet placed")

	e.publisher.Publish(events.BetPlacedEvent{Bet: bet})
	return bet, nil
}

// Reset restores the starting balances and clears every round artifact.
// A started table re-opens betting on round 1.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	for key := range e.timers {
		if key != timerStartup {
			e.cancel(key)
		}
	}

	previous := make(map[string]int64, len(e.players))
	for _, p := range e.players {
		previous[p.ID] = p.Balance
	}
	e.resetPlayers()
	for _, p := range e.players {
		before, ok := previous[p.ID]
		if ok && before == p.Balance {
			continue
		}
		e.publisher.Publish(events.BalanceChangeEvent{BalanceChange: models.BalanceChange{
			ActorID:         p.ID,
			BalanceBefore:   before,
			BalanceAfter:    p.Balance,
			ChangeAmount:    p.Balance - before,
			TransactionType: models.TransactionTypeReset,
			Round:           1,
			CreatedAt:       e.clock.Now(),
		}})
	}
	e.ledger.Open(1)
	e.history.Clear()
	e.notes.Clear()
	e.state.Round = 1
	e.state.LastOutcome = nil
	e.state.SecondsRemaining = e.cfg.RoundSeconds

	log.Info("Dice table reset")
	e.publisher.Publish(events.TableResetEvent{Players: e.playersLocked()})

	if e.state.Phase != models.PhaseAwaitingStart {
		e.beginBetting()
	}
}

// BoostOpponents credits every simulated player. During betting the countdown restarts.
func (e *Engine) BoostOpponents(amount int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if amount <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}
	for _, p := range e.players {
		if p.Simulated {
			e.adjust(p, amount, models.TransactionTypeBoost)
		}
	}
	if e.state.Phase == models.PhaseBetting {
		e.state.SecondsRemaining = e.cfg.RoundSeconds
	}
	return nil
}

// Close cancels every pending callback. The table cannot be used afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	for key := range e.timers {
		e.cancel(key)
	}
	log.Info("Dice table closed")
}

// State returns the round clock state
func (e *Engine) State() models.RoundState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// Balances returns every actor's balance keyed by actor ID
func (e *Engine) Balances() map[string]int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]int64, len(e.players))
	for _, p := range e.players {
		out[p.ID] = p.Balance
	}
	return out
}

// Players returns the user followed by the opponents
func (e *Engine) Players() []models.Actor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playersLocked()
}

// History returns the table history, newest first
func (e *Engine) History() []models.HistoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Items()
}

// Notifications returns the live notification feed, newest first
func (e *Engine) Notifications() []models.Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.notes.Items()
}

// PendingBets returns the bets recorded for the current round
func (e *Engine) PendingBets() []models.Bet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Bets()
}

// Snapshot returns a consistent view of the whole table
func (e *Engine) Snapshot() models.TableSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return models.TableSnapshot{
		State:         e.stateLocked(),
		Players:       e.playersLocked(),
		PendingBets:   e.ledger.Bets(),
		History:       e.history.Items(),
		Notifications: e.notes.Items(),
	}
}

func (e *Engine) stateLocked() models.RoundState {
	s := e.state
	if e.state.LastOutcome != nil {
		outcome := *e.state.LastOutcome
		s.LastOutcome = &outcome
	}
	return s
}

func (e *Engine) playersLocked() []models.Actor {
	out := make([]models.Actor, 0, len(e.players))
	for _, p := range e.players {
		out = append(out, *p)
	}
	return out
}

func (e *Engine) resetPlayers() {
	user := &models.Actor{ID: e.cfg.UserID, Name: e.cfg.UserName, Balance: e.cfg.StartingBalance}
	e.players = []*models.Actor{user}
	e.byID = map[string]*models.Actor{user.ID: user}
	for _, o := range e.cfg.Opponents {
		p := &models.Actor{ID: o.ID, Name: o.Name, Balance: o.Balance, Simulated: true}
		e.players = append(e.players, p)
		e.byID[p.ID] = p
	}
}

func (e *Engine) opponents() []*models.Actor {
	out := make([]*models.Actor, 0, len(e.players))
	for _, p := range e.players {
		if p.Simulated {
			out = append(out, p)
		}
	}
	return out
}

// --- round clock ---

func (e *Engine) setPhase(phase models.Phase) {
	old := e.state.Phase
	if old == phase {
		return
	}
	e.state.Phase = phase

	log.WithFields(log.Fields{
		"round": e.state.Round,
		"from":  old,
		"to":    phase,
	}).Debug("Round phase changed")

	e.publisher.Publish(events.PhaseChangedEvent{Round: e.state.Round, OldPhase: old, NewPhase: phase})
}

func (e *Engine) beginBetting() {
	e.state.SecondsRemaining = e.cfg.RoundSeconds
	e.ledger.Open(e.state.Round)
	e.setPhase(models.PhaseBetting)
	e.schedule(timerTick, tickInterval, e.tick)
	e.scheduleOpponent()
}

func (e *Engine) tick() {
	if e.state.Phase != models.PhaseBetting {
		return
	}
	if e.state.SecondsRemaining > 0 {
		e.state.SecondsRemaining--
	}
	if e.state.SecondsRemaining == 0 {
		e.beginResolving()
		return
	}
	e.schedule(timerTick, tickInterval, e.tick)
}

func (e *Engine) beginResolving() bool {
	if e.state.Phase != models.PhaseBetting {
		return false
	}
	e.cancel(timerTick)
	e.cancel(timerOpponent)
	e.state.SecondsRemaining = 0

	snapshot := e.ledger.Freeze()
	e.setPhase(models.PhaseResolving)

	delay := e.cfg.RollDuration + jitter(e.rng, e.cfg.RollJitter)
	if delay <= 0 {
		e.settle(snapshot)
		return true
	}
	e.schedule(timerRoll, delay, func() { e.settle(snapshot) })
	return true
}

func (e *Engine) settle(snapshot []models.Bet) {
	outcome := RollDie(e.rng)
	e.state.LastOutcome = &outcome

	settlements := make([]models.Settlement, 0, len(snapshot))
	var userDelta int64
	userBet := false
	for _, bet := range snapshot {
		if !bet.Choice.IsSet() {
			continue
		}
		actor, ok := e.byID[bet.OwnerID]
		if !ok {
			continue
		}

		delta := Resolve(bet.Type, bet.Choice, bet.Amount, outcome)
		txType := models.TransactionTypeBetLoss
		if delta > 0 {
			txType = models.TransactionTypeBetWin
		}
		before, after := e.adjust(actor, delta, txType)
		settlements = append(settlements, models.Settlement{
			Bet:           bet,
			Outcome:       outcome,
			Delta:         delta,
			BalanceBefore: before,
			BalanceAfter:  after,
		})

		if bet.OwnerID == e.cfg.UserID {
			userBet = true
			userDelta = delta
		}
	}

	result := "No bet placed"
	if userBet {
		if userDelta > 0 {
			result = fmt.Sprintf("WIN +%s", e.money(userDelta))
		} else {
			result = fmt.Sprintf("LOSE -%s", e.money(-userDelta))
		}
	}

	now := e.clock.Now()
	e.history.Push(models.HistoryEntry{
		ID:      uuid.NewString(),
		Kind:    models.HistoryKindRoundResolved,
		Round:   e.state.Round,
		At:      now,
		Outcome: outcome,
		Delta:   userDelta,
		Text:    fmt.Sprintf("Round %d • %s • Rolled %d • You: %s", e.state.Round, now.Format("15:04:05"), outcome, result),
	})
	switch {
	case userDelta > 0:
		e.notify(fmt.Sprintf("You won %s!", e.money(userDelta)))
	case userDelta < 0:
		e.notify(fmt.Sprintf("You lost %s", e.money(-userDelta)))
	}
	e.ledger.Clear()

	log.WithFields(log.Fields{
		"round":       e.state.Round,
		"outcome":     outcome,
		"settlements": len(settlements),
		"userDelta":   userDelta,
	}).Info("Round resolved")

	e.publisher.Publish(events.RoundResolvedEvent{
		Round:       e.state.Round,
		Outcome:     outcome,
		Settlements: settlements,
		UserResult:  result,
	})

	e.setPhase(models.PhaseCooldown)
	if e.cfg.ResultHold <= 0 {
		e.finishRound()
		return
	}
	e.schedule(timerHold, e.cfg.ResultHold, e.finishRound)
}

func (e *Engine) finishRound() {
	e.state.Round++
	e.beginBetting()
}

// --- opponents ---

func (e *Engine) scheduleOpponent() {
	if len(e.opponents()) == 0 || len(e.cfg.OpponentStakes) == 0 || !e.state.BettingOpen() {
		return
	}
	delay := e.cfg.OpponentInterval + jitter(e.rng, e.cfg.OpponentJitter)
	e.schedule(timerOpponent, delay, func() {
		if !e.state.BettingOpen() {
			return
		}
		e.synthesizeOpponentBet()
		e.scheduleOpponent()
	})
}

// synthesizeOpponentBet places a small random bet for a random opponent.
// Only a fraction of the stake is reserved from the opponent's balance.
func (e *Engine) synthesizeOpponentBet() (models.Bet, bool) {
	opponents := e.opponents()
	if len(opponents) == 0 || len(e.cfg.OpponentStakes) == 0 || e.ledger.Frozen() {
		return models.Bet{}, false
	}

	p := opponents[e.rng.IntN(len(opponents))]
	stake := e.cfg.OpponentStakes[e.rng.IntN(len(e.cfg.OpponentStakes))]
	if p.Balance < e.cfg.OpponentFloor {
		return models.Bet{}, false
	}

	betType := models.BetTypes[e.rng.IntN(len(models.BetTypes))]
	var choice models.Choice
	switch betType {
	case models.BetTypeNumber:
		choice = models.NumberChoice(1 + e.rng.IntN(6))
	case models.BetTypeOddEven:
		choice = models.ChoiceEven
		if e.rng.Float64() > 0.5 {
			choice = models.ChoiceOdd
		}
	case models.BetTypeHighLow:
		choice = models.ChoiceLow
		if e.rng.Float64() > 0.5 {
			choice = models.ChoiceHigh
		}
	}

	reserve := min(stake, int64(float64(p.Balance)*e.cfg.OpponentReserve))
	bet := models.Bet{
		ID:        uuid.NewString(),
		OwnerID:   p.ID,
		OwnerName: p.Name,
		Type:      betType,
		Choice:    choice,
		Amount:    stake,
		Reserved:  reserve,
		Round:     e.state.Round,
		PlacedAt:  e.clock.Now(),
	}
	if err := e.ledger.Put(bet); err != nil {
		return models.Bet{}, false
	}
	if reserve > 0 {
		e.adjust(p, -reserve, models.TransactionTypeReservation)
	}

	e.notify(fmt.Sprintf("%s placed %s • %s", p.Name, choice.Label(betType), e.money(stake)))
	e.publisher.Publish(events.BetPlacedEvent{Bet: bet, Simulated: true})
	return bet, true
}

// --- helpers ---

// adjust applies delta to the actor's balance, clamped at zero, and publishes the change
func (e *Engine) adjust(actor *models.Actor, delta int64, txType models.TransactionType) (before, after int64) {
	before = actor.Balance
	after = before + delta
	if after < 0 {
		after = 0
	}
	actor.Balance = after

	e.publisher.Publish(events.BalanceChangeEvent{BalanceChange: models.BalanceChange{
		ActorID:         actor.ID,
		BalanceBefore:   before,
		BalanceAfter:    after,
		ChangeAmount:    after - before,
		TransactionType: txType,
		Round:           e.state.Round,
		CreatedAt:       e.clock.Now(),
	}})
	return before, after
}

func (e *Engine) notify(text string) {
	n := models.Notification{ID: uuid.NewString(), Text: text, At: e.clock.Now()}
	for _, evicted := range e.notes.Push(n) {
		e.cancel(notePrefix + evicted.ID)
	}
	if e.cfg.NotificationTTL <= 0 {
		return
	}
	e.schedule(notePrefix+n.ID, e.cfg.NotificationTTL, func() {
		e.notes.RemoveFunc(func(x models.Notification) bool { return x.ID == n.ID })
	})
}

func (e *Engine) money(amount int64) string {
	return fmt.Sprintf("%s%d", e.cfg.Currency, amount)
}

// schedule arms a callback under key, replacing any pending one. A callback
// that was replaced or cancelled before it runs is ignored.
func (e *Engine) schedule(key string, d time.Duration, fn func()) {
	e.cancel(key)
	e.timerSeq++
	id := e.timerSeq

	t := e.clock.AfterFunc(d, func() {
		e.mu.Lock()
		defer e.mu.Unlock()

		current, ok := e.timers[key]
		if e.closed || !ok || current.id != id {
			return
		}
		delete(e.timers, key)
		fn()
	})
	e.timers[key] = scheduled{timer: t, id: id}
}

func (e *Engine) cancel(key string) {
	if s, ok := e.timers[key]; ok {
		s.timer.Stop()
		delete(e.timers, key)
	}
}

// pendingTimers is used by tests to check teardown
func (e *Engine) pendingTimers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.timers)
}
