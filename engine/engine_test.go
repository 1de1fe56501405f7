package engine

import (
	"sync"
	"testing"
	"time"

	"diceroyale/events"
	"diceroyale/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// scriptedRNG replays fixed draws; an exhausted script returns zero
type scriptedRNG struct {
	ints   []int
	floats []float64
}

func (r *scriptedRNG) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRNG) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) ofType(t events.EventType) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}

// testConfig has no opponents and no jitter so the only random draw is the die
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RoundSeconds = 3
	cfg.StartDelay = 5 * time.Second
	cfg.RollDuration = time.Second
	cfg.RollJitter = 0
	cfg.ResultHold = 2 * time.Second
	cfg.OpponentInterval = time.Second
	cfg.OpponentJitter = 0
	cfg.Opponents = nil
	return cfg
}

type fixture struct {
	engine *Engine
	clock  *ManualClock
	rng    *scriptedRNG
	pub    *recordingPublisher
}

func newFixture(t *testing.T, cfg Config, rolls ...int) *fixture {
	t.Helper()

	clock := NewManualClock(testStart)
	rng := &scriptedRNG{}
	for _, face := range rolls {
		rng.ints = append(rng.ints, face-1)
	}
	pub := &recordingPublisher{}

	e, err := New(cfg, clock, rng, pub)
	require.NoError(t, err)
	t.Cleanup(e.Close)

	return &fixture{engine: e, clock: clock, rng: rng, pub: pub}
}

// betting starts the table and skips the startup delay
func (f *fixture) betting(t *testing.T) {
	t.Helper()
	f.engine.Start()
	f.clock.Advance(f.engine.Config().StartDelay)
	require.Equal(t, models.PhaseBetting, f.engine.State().Phase)
}

func TestEngine_New_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero round length", func(c *Config) { c.RoundSeconds = 0 }},
		{"negative roll duration", func(c *Config) { c.RollDuration = -time.Second }},
		{"zero opponent stake", func(c *Config) { c.OpponentStakes = []int64{20, 0} }},
		{"opponent id reuses the user id", func(c *Config) { c.Opponents[0].ID = c.UserID }},
		{"zero opponent interval", func(c *Config) {
			c.OpponentInterval = 0
			c.OpponentJitter = 0
		}},
		{"zero opponent interval with jitter", func(c *Config) {
			c.OpponentInterval = 0
			c.OpponentJitter = time.Second
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			_, err := New(cfg, NewManualClock(testStart), &scriptedRNG{}, nil)
			assert.Error(t, err)
		})
	}
}

func TestEngine_New_ZeroOpponentIntervalWithoutOpponents(t *testing.T) {
	cfg := testConfig()
	cfg.OpponentInterval = 0
	cfg.OpponentJitter = 0

	_, err := New(cfg, NewManualClock(testStart), &scriptedRNG{}, nil)
	assert.NoError(t, err)
}

func TestEngine_OpponentsWithShortIntervalStillYield(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OpponentInterval = time.Millisecond
	cfg.OpponentJitter = 0
	f := newFixture(t, cfg)

	f.engine.ForceStartNow()
	done := make(chan struct{})
	go func() {
		f.clock.Advance(50 * time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("advancing the clock did not return")
	}
	assert.NotEmpty(t, f.engine.PendingBets())
}

func TestEngine_InitialState(t *testing.T) {
	f := newFixture(t, DefaultConfig())

	state := f.engine.State()
	assert.Equal(t, 1, state.Round)
	assert.Equal(t, models.PhaseAwaitingStart, state.Phase)
	assert.Equal(t, 75, state.SecondsRemaining)
	assert.Nil(t, state.LastOutcome)

	balances := f.engine.Balances()
	assert.Equal(t, map[string]int64{
		"you": 5000,
		"p1":  12000,
		"p2":  9800,
		"p3":  7700,
		"p4":  6000,
	}, balances)

	players := f.engine.Players()
	require.Len(t, players, 5)
	assert.Equal(t, "You", players[0].Name)
	assert.False(t, players[0].Simulated)
	assert.True(t, players[1].Simulated)
}

func TestEngine_RoundLifecycle(t *testing.T) {
	f := newFixture(t, testConfig(), 4)

	f.engine.Start()
	f.clock.Advance(4 * time.Second)
	assert.Equal(t, models.PhaseAwaitingStart, f.engine.State().Phase)

	f.clock.Advance(time.Second)
	state := f.engine.State()
	assert.Equal(t, models.PhaseBetting, state.Phase)
	assert.Equal(t, 3, state.SecondsRemaining)

	f.clock.Advance(time.Second)
	assert.Equal(t, 2, f.engine.State().SecondsRemaining)

	f.clock.Advance(2 * time.Second)
	state = f.engine.State()
	assert.Equal(t, models.PhaseResolving, state.Phase)
	assert.Equal(t, 0, state.SecondsRemaining)
	assert.Nil(t, state.LastOutcome)

	f.clock.Advance(time.Second)
	state = f.engine.State()
	assert.Equal(t, models.PhaseCooldown, state.Phase)
	require.NotNil(t, state.LastOutcome)
	assert.Equal(t, 4, *state.LastOutcome)
	assert.Equal(t, 1, state.Round)

	f.clock.Advance(2 * time.Second)
	state = f.engine.State()
	assert.Equal(t, models.PhaseBetting, state.Phase)
	assert.Equal(t, 2, state.Round)
	assert.Equal(t, 3, state.SecondsRemaining)
	assert.Equal(t, 4, *state.LastOutcome, "last outcome is kept into the next round")

	phases := f.pub.ofType(events.EventTypePhaseChanged)
	var seen []models.Phase
	for _, e := range phases {
		seen = append(seen, e.(events.PhaseChangedEvent).NewPhase)
	}
	assert.Equal(t, []models.Phase{
		models.PhaseBetting,
		models.PhaseResolving,
		models.PhaseCooldown,
		models.PhaseBetting,
	}, seen)
}

func TestEngine_Start_IsIdempotent(t *testing.T) {
	f := newFixture(t, testConfig())

	f.engine.Start()
	f.engine.Start()
	assert.Equal(t, 1, f.clock.Pending())
}

func TestEngine_PlaceBet_NumberWin(t *testing.T) {
	f := newFixture(t, testConfig(), 4)
	f.betting(t)

	bet, err := f.engine.PlaceBet(models.BetTypeNumber, models.NumberChoice(4), 100)
	require.NoError(t, err)
	assert.Equal(t, "you", bet.OwnerID)
	assert.Equal(t, int64(100), bet.Reserved)
	assert.Equal(t, 1, bet.Round)
	assert.Equal(t, int64(4900), f.engine.Balances()["you"])

	history := f.engine.History()
	require.Len(t, history, 1)
	assert.Equal(t, models.HistoryKindBetPlaced, history[0].Kind)
	assert.Equal(t, "Placed: #4 • ₹100", history[0].Text)

	notes := f.engine.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, "You placed #4 • ₹100", notes[0].Text)

	// three ticks then the roll
	f.clock.Advance(4 * time.Second)

	assert.Equal(t, int64(5400), f.engine.Balances()["you"])
	assert.Empty(t, f.engine.PendingBets())

	history = f.engine.History()
	require.Len(t, history, 2)
	assert.Equal(t, models.HistoryKindRoundResolved, history[0].Kind)
	assert.Equal(t, 4, history[0].Outcome)
	assert.Equal(t, int64(500), history[0].Delta)
	assert.Equal(t, "Round 1 • 12:00:09 • Rolled 4 • You: WIN +₹500", history[0].Text)

	assert.Equal(t, "You won ₹500!", f.engine.Notifications()[0].Text)

	resolved := f.pub.ofType(events.EventTypeRoundResolved)
	require.Len(t, resolved, 1)
	ev := resolved[0].(events.RoundResolvedEvent)
	assert.Equal(t, 4, ev.Outcome)
	require.Len(t, ev.Settlements, 1)
	assert.True(t, ev.Settlements[0].Won())
	assert.Equal(t, int64(4900), ev.Settlements[0].BalanceBefore)
	assert.Equal(t, int64(5400), ev.Settlements[0].BalanceAfter)
}

func TestEngine_PlaceBet_Loss(t *testing.T) {
	f := newFixture(t, testConfig(), 3)
	f.betting(t)

	_, err := f.engine.PlaceBet(models.BetTypeOddEven, models.ChoiceEven, 100)
	require.NoError(t, err)

	require.True(t, f.engine.ForceResolveNow())
	f.clock.Advance(time.Second)

	assert.Equal(t, int64(4800), f.engine.Balances()["you"])
	assert.Equal(t, "You lost ₹100", f.engine.Notifications()[0].Text)
	assert.Contains(t, f.engine.History()[0].Text, "Rolled 3 • You: LOSE -₹100")
}

func TestEngine_Settlement_ClampsAtZero(t *testing.T) {
	f := newFixture(t, testConfig(), 1)
	f.betting(t)

	_, err := f.engine.PlaceBet(models.BetTypeHighLow, models.ChoiceHigh, 5000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.engine.Balances()["you"])

	f.engine.ForceResolveNow()
	f.clock.Advance(time.Second)

	assert.Equal(t, int64(0), f.engine.Balances()["you"])

	changes := f.pub.ofType(events.EventTypeBalanceChange)
	last := changes[len(changes)-1].(events.BalanceChangeEvent)
	assert.Equal(t, models.TransactionTypeBetLoss, last.TransactionType)
	assert.Equal(t, int64(0), last.BalanceAfter)
	assert.Equal(t, int64(0), last.ChangeAmount)
}

func TestEngine_Resolve_NoBet(t *testing.T) {
	f := newFixture(t, testConfig(), 6)
	f.betting(t)

	f.engine.ForceResolveNow()
	f.clock.Advance(time.Second)

	history := f.engine.History()
	require.Len(t, history, 1)
	assert.Contains(t, history[0].Text, "Rolled 6 • You: No bet placed")
	assert.Equal(t, int64(0), history[0].Delta)
	assert.Empty(t, f.engine.Notifications())
	assert.Equal(t, int64(5000), f.engine.Balances()["you"])
}

func TestEngine_PlaceBet_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		betType models.BetType
		choice  models.Choice
		amount  int64
		wantErr error
	}{
		{"no choice", models.BetTypeNumber, "", 100, ErrInvalidChoice},
		{"face out of range", models.BetTypeNumber, "7", 100, ErrInvalidChoice},
		{"parity on number bet", models.BetTypeNumber, models.ChoiceOdd, 100, ErrInvalidChoice},
		{"high on odd-even bet", models.BetTypeOddEven, models.ChoiceHigh, 100, ErrInvalidChoice},
		{"unknown type", models.BetType("color"), models.ChoiceOdd, 100, ErrInvalidChoice},
		{"zero amount", models.BetTypeHighLow, models.ChoiceLow, 0, ErrInvalidAmount},
		{"negative amount", models.BetTypeHighLow, models.ChoiceLow, -5, ErrInvalidAmount},
		{"over balance", models.BetTypeHighLow, models.ChoiceLow, 5001, ErrInsufficientBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, testConfig())
			f.betting(t)

			_, err := f.engine.PlaceBet(tt.betType, tt.choice, tt.amount)
			assert.ErrorIs(t, err, tt.wantErr)

			assert.Equal(t, int64(5000), f.engine.Balances()["you"])
			assert.Empty(t, f.engine.PendingBets())
			assert.Empty(t, f.engine.History())
			assert.Empty(t, f.engine.Notifications())
			assert.Empty(t, f.pub.ofType(events.EventTypeBetPlaced))
		})
	}
}

func TestEngine_PlaceBet_OutsideWindow(t *testing.T) {
	f := newFixture(t, testConfig(), 2)

	_, err := f.engine.PlaceBet(models.BetTypeNumber, "2", 10)
	assert.ErrorIs(t, err, ErrInvalidBetWindow, "awaiting start")

	f.betting(t)
	f.engine.ForceResolveNow()

	_, err = f.engine.PlaceBet(models.BetTypeNumber, "2", 10)
	assert.ErrorIs(t, err, ErrInvalidBetWindow, "resolving")

	f.clock.Advance(time.Second)
	require.Equal(t, models.PhaseCooldown, f.engine.State().Phase)

	_, err = f.engine.PlaceBet(models.BetTypeNumber, "2", 10)
	assert.ErrorIs(t, err, ErrInvalidBetWindow, "cooldown")

	assert.Equal(t, int64(5000), f.engine.Balances()["you"])
}

func TestEngine_PlaceBet_ReplacesAndRefunds(t *testing.T) {
	f := newFixture(t, testConfig())
	f.betting(t)

	_, err := f.engine.PlaceBet(models.BetTypeNumber, "3", 100)
	require.NoError(t, err)
	_, err = f.engine.PlaceBet(models.BetTypeOddEven, models.ChoiceOdd, 300)
	require.NoError(t, err)

	assert.Equal(t, int64(4700), f.engine.Balances()["you"])

	pending := f.engine.PendingBets()
	require.Len(t, pending, 1)
	assert.Equal(t, models.BetTypeOddEven, pending[0].Type)
	assert.Equal(t, int64(300), pending[0].Amount)

	// the refundable stake counts toward the balance check
	_, err = f.engine.PlaceBet(models.BetTypeHighLow, models.ChoiceLow, 5000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.engine.Balances()["you"])

	_, err = f.engine.PlaceBet(models.BetTypeHighLow, models.ChoiceLow, 5001)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, int64(0), f.engine.Balances()["you"])
	assert.Equal(t, int64(5000), f.engine.PendingBets()[0].Amount)
}

func TestEngine_ForceResolveNow_ResolvesOnce(t *testing.T) {
	f := newFixture(t, testConfig(), 2, 5)
	f.betting(t)

	_, err := f.engine.PlaceBet(models.BetTypeNumber, "2", 100)
	require.NoError(t, err)

	assert.True(t, f.engine.ForceResolveNow())
	assert.False(t, f.engine.ForceResolveNow())

	f.clock.Advance(time.Second)
	assert.False(t, f.engine.ForceResolveNow(), "cooldown")

	assert.Len(t, f.pub.ofType(events.EventTypeRoundResolved), 1)
	assert.Equal(t, int64(5400), f.engine.Balances()["you"])
	assert.Equal(t, 2, *f.engine.State().LastOutcome)
}

func TestEngine_ForceResolveNow_BeforeStart(t *testing.T) {
	f := newFixture(t, testConfig())

	assert.False(t, f.engine.ForceResolveNow())
	assert.Equal(t, models.PhaseAwaitingStart, f.engine.State().Phase)
}

func TestEngine_ForceResolveNow_ZeroRollDurationSettlesImmediately(t *testing.T) {
	cfg := testConfig()
	cfg.RollDuration = 0
	f := newFixture(t, cfg, 5)
	f.betting(t)

	require.True(t, f.engine.ForceResolveNow())
	state := f.engine.State()
	assert.Equal(t, models.PhaseCooldown, state.Phase)
	assert.Equal(t, 5, *state.LastOutcome)
}

func TestEngine_ForceStartNow(t *testing.T) {
	f := newFixture(t, testConfig())

	assert.True(t, f.engine.ForceStartNow())
	assert.Equal(t, models.PhaseBetting, f.engine.State().Phase)
	assert.False(t, f.engine.ForceStartNow())

	f.clock.Advance(2 * time.Second)
	assert.Equal(t, 1, f.engine.State().SecondsRemaining)
}

func TestEngine_ForceStartNow_AfterStart(t *testing.T) {
	f := newFixture(t, testConfig())
	f.engine.Start()

	assert.True(t, f.engine.ForceStartNow())
	assert.Equal(t, 1, f.clock.Pending(), "only the tick remains")
}

func TestEngine_Close_CancelsEverything(t *testing.T) {
	f := newFixture(t, testConfig())
	f.betting(t)

	_, err := f.engine.PlaceBet(models.BetTypeNumber, "1", 100)
	require.NoError(t, err)
	require.NotZero(t, f.engine.pendingTimers())

	f.engine.Close()
	assert.Zero(t, f.engine.pendingTimers())
	assert.Zero(t, f.clock.Pending())

	before := f.engine.Snapshot()
	f.clock.Advance(time.Minute)
	assert.Equal(t, before, f.engine.Snapshot())

	_, err = f.engine.PlaceBet(models.BetTypeNumber, "1", 100)
	assert.ErrorIs(t, err, ErrClosed)
	assert.False(t, f.engine.ForceResolveNow())
	assert.False(t, f.engine.ForceStartNow())
	assert.ErrorIs(t, f.engine.BoostOpponents(100), ErrClosed)
}

func TestEngine_Close_DuringResolve(t *testing.T) {
	f := newFixture(t, testConfig(), 3)
	f.betting(t)
	f.engine.ForceResolveNow()

	f.engine.Close()
	f.clock.Advance(time.Minute)

	assert.Equal(t, models.PhaseResolving, f.engine.State().Phase)
	assert.Empty(t, f.pub.ofType(events.EventTypeRoundResolved))
}

func TestEngine_StaleCallbackIgnored(t *testing.T) {
	clock := NewManualClock(testStart)
	var stale Timer
	// a clock whose Stop is a no-op lets replaced callbacks fire
	leaky := &leakyClock{ManualClock: clock, onSchedule: func(t Timer) { stale = t }}

	e, err := New(testConfig(), leaky, &scriptedRNG{}, nil)
	require.NoError(t, err)
	defer e.Close()

	e.Start()
	require.NotNil(t, stale)
	require.True(t, e.ForceStartNow())

	// the replaced startup callback still fires at 5s and must not reopen betting
	clock.Advance(5 * time.Second)
	state := e.State()
	assert.Equal(t, models.PhaseCooldown, state.Phase)
	assert.Equal(t, 1, state.Round)
}

type leakyClock struct {
	*ManualClock
	onSchedule func(Timer)
}

type leakyTimer struct{}

func (leakyTimer) Stop() bool { return true }

func (c *leakyClock) AfterFunc(d time.Duration, f func()) Timer {
	t := c.ManualClock.AfterFunc(d, f)
	if c.onSchedule != nil {
		c.onSchedule(t)
		c.onSchedule = nil
	}
	return leakyTimer{}
}

func TestEngine_HistoryIsCapped(t *testing.T) {
	cfg := testConfig()
	cfg.HistoryLimit = 2
	f := newFixture(t, cfg)
	f.betting(t)

	for _, amount := range []int64{10, 20, 30} {
		_, err := f.engine.PlaceBet(models.BetTypeNumber, "1", amount)
		require.NoError(t, err)
	}

	history := f.engine.History()
	require.Len(t, history, 2)
	assert.Equal(t, "Placed: #1 • ₹30", history[0].Text)
	assert.Equal(t, "Placed: #1 • ₹20", history[1].Text)
}

func TestEngine_NotificationsCapAndExpire(t *testing.T) {
	cfg := testConfig()
	cfg.RoundSeconds = 75
	cfg.NotificationLimit = 2
	f := newFixture(t, cfg)
	f.betting(t)

	for _, amount := range []int64{10, 20, 30} {
		_, err := f.engine.PlaceBet(models.BetTypeNumber, "1", amount)
		require.NoError(t, err)
	}

	notes := f.engine.Notifications()
	require.Len(t, notes, 2)
	assert.Equal(t, "You placed #1 • ₹30", notes[0].Text)

	f.clock.Advance(4 * time.Second)
	assert.Len(t, f.engine.Notifications(), 2)

	f.clock.Advance(time.Second)
	assert.Empty(t, f.engine.Notifications())
	assert.Equal(t, 1, f.engine.pendingTimers(), "only the tick remains")
}

func TestEngine_OpponentBet(t *testing.T) {
	cfg := testConfig()
	cfg.RoundSeconds = 75
	cfg.RollDuration = 0
	cfg.Opponents = []models.Actor{{ID: "p1", Name: "Asha", Balance: 1000}}

	f := newFixture(t, cfg)
	// opponent 0, stake 200, number bet on 3, then the die shows 3
	f.rng.ints = []int{0, 3, 0, 2, 2}
	require.True(t, f.engine.ForceStartNow())

	f.clock.Advance(time.Second)

	pending := f.engine.PendingBets()
	require.Len(t, pending, 1)
	assert.Equal(t, "p1", pending[0].OwnerID)
	assert.Equal(t, models.BetTypeNumber, pending[0].Type)
	assert.Equal(t, models.Choice("3"), pending[0].Choice)
	assert.Equal(t, int64(200), pending[0].Amount)
	assert.Equal(t, int64(20), pending[0].Reserved, "2% of the balance")
	assert.Equal(t, int64(980), f.engine.Balances()["p1"])
	assert.Equal(t, "Asha placed #3 • ₹200", f.engine.Notifications()[0].Text)

	placed := f.pub.ofType(events.EventTypeBetPlaced)
	require.Len(t, placed, 1)
	assert.True(t, placed[0].(events.BetPlacedEvent).Simulated)

	require.True(t, f.engine.ForceResolveNow())
	assert.Equal(t, int64(1980), f.engine.Balances()["p1"])
	assert.Contains(t, f.engine.History()[0].Text, "You: No bet placed")
}

func TestEngine_OpponentBet_SkipsLowBalance(t *testing.T) {
	cfg := testConfig()
	cfg.Opponents = []models.Actor{{ID: "p1", Name: "Asha", Balance: 19}}
	f := newFixture(t, cfg)
	f.betting(t)

	_, ok := f.engine.synthesizeOpponentBet()
	assert.False(t, ok)
	assert.Empty(t, f.engine.PendingBets())
	assert.Equal(t, int64(19), f.engine.Balances()["p1"])
}

func TestEngine_OpponentBet_ReplaceKeepsReservation(t *testing.T) {
	cfg := testConfig()
	cfg.Opponents = []models.Actor{{ID: "p1", Name: "Asha", Balance: 10000}}
	f := newFixture(t, cfg)
	f.betting(t)

	f.rng.ints = []int{0, 1, 1, 0, 2, 2}
	f.rng.floats = []float64{0.9, 0.1}

	first, ok := f.engine.synthesizeOpponentBet()
	require.True(t, ok)
	assert.Equal(t, models.ChoiceOdd, first.Choice)
	assert.Equal(t, int64(50), first.Reserved)

	second, ok := f.engine.synthesizeOpponentBet()
	require.True(t, ok)
	assert.Equal(t, models.BetTypeHighLow, second.Type)
	assert.Equal(t, models.ChoiceLow, second.Choice)
	assert.Equal(t, int64(100), second.Amount)

	// no refund for the replaced opponent bet
	assert.Equal(t, int64(10000-50-100), f.engine.Balances()["p1"])
	assert.Len(t, f.engine.PendingBets(), 1)
}

func TestEngine_Reset(t *testing.T) {
	cfg := testConfig()
	cfg.Opponents = DefaultOpponents()
	f := newFixture(t, cfg, 4)
	f.betting(t)

	_, err := f.engine.PlaceBet(models.BetTypeNumber, "4", 100)
	require.NoError(t, err)
	require.NoError(t, f.engine.BoostOpponents(500))
	f.engine.ForceResolveNow()
	f.clock.Advance(3 * time.Second)
	require.Equal(t, 2, f.engine.State().Round)

	f.engine.Reset()

	state := f.engine.State()
	assert.Equal(t, 1, state.Round)
	assert.Equal(t, models.PhaseBetting, state.Phase)
	assert.Equal(t, 3, state.SecondsRemaining)
	assert.Nil(t, state.LastOutcome)
	assert.Equal(t, int64(5000), f.engine.Balances()["you"])
	assert.Equal(t, int64(12000), f.engine.Balances()["p1"])
	assert.Empty(t, f.engine.History())
	assert.Empty(t, f.engine.Notifications())
	assert.Empty(t, f.engine.PendingBets())
	assert.Len(t, f.pub.ofType(events.EventTypeTableReset), 1)
}

func TestEngine_Reset_BeforeStartKeepsWaiting(t *testing.T) {
	f := newFixture(t, testConfig())
	f.engine.Start()

	f.engine.Reset()
	assert.Equal(t, models.PhaseAwaitingStart, f.engine.State().Phase)

	f.clock.Advance(5 * time.Second)
	assert.Equal(t, models.PhaseBetting, f.engine.State().Phase, "startup delay survives a reset")
}

func TestEngine_BoostOpponents(t *testing.T) {
	cfg := testConfig()
	cfg.RoundSeconds = 10
	cfg.Opponents = DefaultOpponents()
	f := newFixture(t, cfg)
	f.engine.ForceStartNow()
	f.rng.ints = nil

	// keep the opponents quiet so balances only move by the boost
	f.engine.mu.Lock()
	f.engine.cancel(timerOpponent)
	f.engine.mu.Unlock()

	f.clock.Advance(4 * time.Second)
	require.Equal(t, 6, f.engine.State().SecondsRemaining)

	require.NoError(t, f.engine.BoostOpponents(500))

	balances := f.engine.Balances()
	assert.Equal(t, int64(5000), balances["you"])
	assert.Equal(t, int64(12500), balances["p1"])
	assert.Equal(t, int64(6500), balances["p4"])
	assert.Equal(t, 10, f.engine.State().SecondsRemaining)

	assert.ErrorIs(t, f.engine.BoostOpponents(0), ErrInvalidAmount)
}

func TestEngine_SnapshotIsACopy(t *testing.T) {
	f := newFixture(t, testConfig(), 2)
	f.betting(t)
	f.engine.ForceResolveNow()
	f.clock.Advance(time.Second)

	snap := f.engine.Snapshot()
	*snap.State.LastOutcome = 6
	snap.Players[0].Balance = 1

	assert.Equal(t, 2, *f.engine.State().LastOutcome)
	assert.Equal(t, int64(5000), f.engine.Balances()["you"])
	assert.NotNil(t, snap.PendingBets)
}
