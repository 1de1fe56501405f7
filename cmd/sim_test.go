package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"diceroyale/engine"
	"diceroyale/models"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simConfig() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.RoundSeconds = 5
	cfg.StartDelay = time.Second
	return cfg
}

func TestAnalyzePayoutsNumberReturnsNothingOnAverage(t *testing.T) {
	report := AnalyzePayouts(engine.NewRNG(42), models.BetTypeNumber, 200000, 100, nil)

	assert.Equal(t, 200000, report.Trials)
	assert.InDelta(t, 1.0/6, float64(report.Wins)/float64(report.Trials), 0.01)
	// +400 on a hit, -200 on a miss once the stake is taken
	assert.InDelta(t, -100, report.Mean, 3)
	assert.InDelta(t, 0.0, report.RTP, 0.03)
	assert.Greater(t, report.StdDev, 0.0)
}

func TestAnalyzePayoutsEvenMoneyTypes(t *testing.T) {
	for _, betType := range []models.BetType{models.BetTypeOddEven, models.BetTypeHighLow} {
		t.Run(string(betType), func(t *testing.T) {
			report := AnalyzePayouts(engine.NewRNG(7), betType, 100000, 100, nil)

			assert.InDelta(t, 0.5, float64(report.Wins)/float64(report.Trials), 0.01)
			// +90 on a win, -200 on a loss once the stake is taken
			assert.InDelta(t, -55, report.Mean, 2)
			assert.InDelta(t, 0.45, report.RTP, 0.02)
		})
	}
}

func TestRunTablePlaysRequestedRounds(t *testing.T) {
	cfg := simConfig()

	report, err := RunTable(cfg, 12, 99, 100, nil)
	require.NoError(t, err)

	assert.Equal(t, 12, report.Rounds)
	total := 0
	for _, n := range report.Outcomes {
		total += n
	}
	assert.Equal(t, 12, total)
	assert.Equal(t, 12, report.UserBets)
	assert.GreaterOrEqual(t, report.Settled, report.UserBets)
	for _, p := range report.Players {
		assert.GreaterOrEqual(t, p.Balance, int64(0), p.Name)
	}
}

func TestRunTableIsDeterministicForSeed(t *testing.T) {
	cfg := simConfig()

	first, err := RunTable(cfg, 8, 1234, 100, nil)
	require.NoError(t, err)
	second, err := RunTable(cfg, 8, 1234, 100, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Outcomes, second.Outcomes)
	assert.Equal(t, first.Players, second.Players)
}

func TestSimulateWritesReport(t *testing.T) {
	var out bytes.Buffer
	opts := SimOptions{Trials: 2000, Rounds: 3, Seed: 5, Stake: 100}

	require.NoError(t, Simulate(simConfig(), opts, &out))

	report := out.String()
	assert.Contains(t, report, "seed: 5")
	assert.Contains(t, report, "Payouts at stake 100")
	assert.Contains(t, report, "odd-even")
	assert.Contains(t, report, "played 3 rounds")
	assert.Contains(t, report, "Final balances")
}

func TestSimulateRejectsEmptyRun(t *testing.T) {
	err := Simulate(simConfig(), SimOptions{Trials: 0, Rounds: 1, Stake: 1}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRenderGridAlignsWideRunes(t *testing.T) {
	grid := renderGrid("Balances", [][]string{
		{"Player", "Balance"},
		{"Asha", "₹12,000"},
		{"You", "₹5,000"},
	})

	lines := strings.Split(strings.TrimRight(grid, "\n"), "\n")
	require.NotEmpty(t, lines)
	width := runewidth.StringWidth(lines[0])
	for _, line := range lines {
		assert.Equal(t, width, runewidth.StringWidth(line), line)
	}
	assert.Contains(t, grid, "| Asha   | ₹12,000 |")
}
