package models

// Actor is a participant at the table with a balance.
// Simulated actors are the opponents whose bets are synthesized.
type Actor struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Balance   int64  `json:"balance" yaml:"balance"`
	Simulated bool   `json:"simulated" yaml:"-"`
}
