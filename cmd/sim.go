package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"diceroyale/engine"
	"diceroyale/events"
	"diceroyale/models"

	"github.com/cheggaaa/pb/v3"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"
)

var choicesByType = map[models.BetType][]models.Choice{
	models.BetTypeNumber:  {"1", "2", "3", "4", "5", "6"},
	models.BetTypeOddEven: {models.ChoiceOdd, models.ChoiceEven},
	models.BetTypeHighLow: {models.ChoiceHigh, models.ChoiceLow},
}

// SimOptions controls a simulator run
type SimOptions struct {
	Trials       int // payout draws per bet type
	Rounds       int // rounds played on the headless table
	Seed         uint64
	Stake        int64
	ShowProgress bool
}

// DefaultSimOptions returns the settings used by `sim` without arguments
func DefaultSimOptions() SimOptions {
	return SimOptions{
		Trials:       100000,
		Rounds:       200,
		Seed:         uint64(time.Now().UnixNano()),
		Stake:        100,
		ShowProgress: true,
	}
}

// PayoutReport summarizes repeated settlements of one bet type
type PayoutReport struct {
	Type   models.BetType
	Trials int
	Wins   int
	Mean   float64 // mean net balance change per bet, stake included
	StdDev float64
	RTP    float64 // returned to player per unit staked
}

// AnalyzePayouts settles trials random bets of betType at the given stake.
// The stake leaves the balance when the bet is placed and settlement applies
// Resolve on top of that, so a bet's net result is delta - stake.
func AnalyzePayouts(rng engine.RNG, betType models.BetType, trials int, stake int64, bar *pb.ProgressBar) PayoutReport {
	choices := choicesByType[betType]
	nets := make([]float64, trials)
	wins := 0

	for i := range nets {
		choice := choices[rng.IntN(len(choices))]
		delta := engine.Resolve(betType, choice, stake, engine.RollDie(rng))
		if delta > 0 {
			wins++
		}
		nets[i] = float64(delta - stake)
		if bar != nil {
			bar.Increment()
		}
	}

	report := PayoutReport{Type: betType, Trials: trials, Wins: wins}
	if trials > 0 {
		report.Mean, report.StdDev = stat.MeanStdDev(nets, nil)
		report.RTP = (report.Mean + float64(stake)) / float64(stake)
	}
	return report
}

// TableReport summarizes a headless run of the full engine
type TableReport struct {
	Rounds     int
	Outcomes   [6]int
	ChiSquare  float64 // of the outcome counts against a fair die
	UserBets   int
	UserWins   int
	Settled    int
	StartTotal int64
	Players    []models.Actor
}

type settlementCounter struct {
	userID   string
	outcomes [6]int
	rounds   int
	settled  int
	userWins int
}

func (c *settlementCounter) Publish(event events.Event) {
	resolved, ok := event.(events.RoundResolvedEvent)
	if !ok {
		return
	}
	c.rounds++
	c.outcomes[resolved.Outcome-1]++
	c.settled += len(resolved.Settlements)
	for _, st := range resolved.Settlements {
		if st.Bet.OwnerID == c.userID && st.Won() {
			c.userWins++
		}
	}
}

// RunTable plays rounds on a ManualClock, placing one random user bet per round
func RunTable(cfg engine.Config, rounds int, seed uint64, stake int64, bar *pb.ProgressBar) (TableReport, error) {
	clock := engine.NewManualClock(time.Unix(0, 0).UTC())
	counter := &settlementCounter{userID: cfg.UserID}
	table, err := engine.New(cfg, clock, engine.NewRNG(seed), counter)
	if err != nil {
		return TableReport{}, err
	}
	defer table.Close()

	report := TableReport{}
	for _, p := range table.Players() {
		report.StartTotal += p.Balance
	}

	// user picks come from a separate stream so the table RNG sequence is unchanged
	picker := engine.NewRNG(seed ^ 0x9e3779b97f4a7c15)
	types := models.BetTypes
	table.ForceStartNow()

	step := 250 * time.Millisecond
	limit := time.Duration(cfg.RoundSeconds)*time.Second + cfg.RollDuration + cfg.RollJitter + cfg.ResultHold + 10*time.Second

	for counter.rounds < rounds {
		betType := types[picker.IntN(len(types))]
		choices := choicesByType[betType]
		amount := min(stake, userBalance(table.Players(), cfg.UserID))
		if amount > 0 {
			if _, err := table.PlaceBet(betType, choices[picker.IntN(len(choices))], amount); err == nil {
				report.UserBets++
			}
		}

		played := counter.rounds
		for elapsed := time.Duration(0); counter.rounds == played; elapsed += step {
			if elapsed > limit {
				return report, fmt.Errorf("round %d did not resolve within %s", table.State().Round, limit)
			}
			clock.Advance(step)
		}
		for table.State().Phase != models.PhaseBetting {
			clock.Advance(step)
		}
		if bar != nil {
			bar.Increment()
		}
	}

	report.Rounds = counter.rounds
	report.Outcomes = counter.outcomes
	report.Settled = counter.settled
	report.UserWins = counter.userWins
	report.Players = table.Players()

	observed := make([]float64, 6)
	expected := make([]float64, 6)
	for i, n := range counter.outcomes {
		observed[i] = float64(n)
		expected[i] = float64(counter.rounds) / 6
	}
	if counter.rounds > 0 {
		report.ChiSquare = stat.ChiSquare(observed, expected)
	}
	return report, nil
}

func userBalance(players []models.Actor, userID string) int64 {
	for _, p := range players {
		if p.ID == userID {
			return p.Balance
		}
	}
	return 0
}

// Simulate runs the payout analysis and a headless table, writing a report to out
func Simulate(cfg engine.Config, opts SimOptions, out io.Writer) error {
	if opts.Trials <= 0 || opts.Rounds <= 0 || opts.Stake <= 0 {
		return fmt.Errorf("trials, rounds and stake must be positive")
	}
	p := message.NewPrinter(language.English)
	p.Fprintf(out, "seed: %d\n\n", opts.Seed)

	bar := pb.StartNew(opts.Trials * len(models.BetTypes))
	if !opts.ShowProgress {
		bar.SetWriter(io.Discard)
	}
	rng := engine.NewRNG(opts.Seed)
	reports := make([]PayoutReport, 0, len(models.BetTypes))
	for _, betType := range models.BetTypes {
		reports = append(reports, AnalyzePayouts(rng, betType, opts.Trials, opts.Stake, bar))
	}
	bar.Finish()

	rows := [][]string{{"Bet type", "Pays", "Trials", "Win rate", "Mean net", "Std dev", "RTP"}}
	for _, r := range reports {
		rows = append(rows, []string{
			string(r.Type),
			p.Sprintf("%.1fx", engine.Multiplier(r.Type)),
			p.Sprintf("%d", r.Trials),
			p.Sprintf("%.2f%%", 100*float64(r.Wins)/float64(r.Trials)),
			p.Sprintf("%.2f", r.Mean),
			p.Sprintf("%.2f", r.StdDev),
			p.Sprintf("%.2f%%", 100*r.RTP),
		})
	}
	fmt.Fprintln(out, renderGrid(p.Sprintf("Payouts at stake %d", opts.Stake), rows))

	bar = pb.StartNew(opts.Rounds)
	if !opts.ShowProgress {
		bar.SetWriter(io.Discard)
	}
	started := time.Now()
	table, err := RunTable(cfg, opts.Rounds, opts.Seed, opts.Stake, bar)
	bar.Finish()
	if err != nil {
		return fmt.Errorf("table run failed: %w", err)
	}
	p.Fprintf(out, "played %d rounds in %.2fs\n", table.Rounds, time.Since(started).Seconds())

	faces := [][]string{{"Face", "Rolls", "Share"}}
	for i, n := range table.Outcomes {
		faces = append(faces, []string{
			fmt.Sprintf("%d", i+1),
			p.Sprintf("%d", n),
			p.Sprintf("%.2f%%", 100*float64(n)/float64(table.Rounds)),
		})
	}
	fmt.Fprintln(out, renderGrid(p.Sprintf("Outcomes (χ² %.2f, 5 df)", table.ChiSquare), faces))

	var endTotal int64
	players := [][]string{{"Player", "Balance"}}
	for _, a := range table.Players {
		endTotal += a.Balance
		players = append(players, []string{a.Name, p.Sprintf("%s%d", cfg.Currency, a.Balance)})
	}
	fmt.Fprintln(out, renderGrid("Final balances", players))

	p.Fprintf(out, "user bets: %d, wins: %d, settlements: %d, table total %d -> %d\n",
		table.UserBets, table.UserWins, table.Settled, table.StartTotal, endTotal)
	return nil
}

// renderGrid lays rows out as a bordered table; the first row is the header
func renderGrid(title string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	inner := len(widths) - 1
	for _, w := range widths {
		inner += w + 2
	}

	var b strings.Builder
	divider := "+"
	for _, w := range widths {
		divider += strings.Repeat("-", w+2) + "+"
	}
	divider += "\n"

	b.WriteString("+" + strings.Repeat("-", inner) + "+\n")
	titleW := runewidth.StringWidth(title)
	left := max((inner-titleW)/2, 0)
	b.WriteString("|" + strings.Repeat(" ", left) + runewidth.FillRight(title, inner-left) + "|\n")
	b.WriteString(divider)
	for r, row := range rows {
		b.WriteString("|")
		for i, cell := range row {
			b.WriteString(" " + runewidth.FillRight(cell, widths[i]) + " |")
		}
		b.WriteString("\n")
		if r == 0 {
			b.WriteString(divider)
		}
	}
	b.WriteString(divider)
	return b.String()
}
