package sim

import "time"

// State is the account at a point in the run: uninvested cash plus a whole
// number of shares. The machine is either flat (Shares == 0) or long; there is
// no shorting and cash never goes negative. EntryPrice and EntryDate are
// meaningful only while InPosition.
type State struct {
	Cash       float64   `json:"cash"`
	Shares     int       `json:"shares"`
	InPosition bool      `json:"in_position"`
	EntryPrice float64   `json:"entry_price"`
	EntryDate  time.Time `json:"entry_date"`
}

// Snapshot is the portfolio marked to one day's close.
type Snapshot struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Value marks the state to the given close.
func (s State) Value(close float64) float64 {
	return s.Cash + float64(s.Shares)*close
}
