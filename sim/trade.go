package sim

import "time"

// Action is the side of an executed trade.
type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

// Trade is one executed order, recorded at the close it traded on. The trade
// log is append-only. Profit and ProfitPct are realized P&L against the entry
// price and are set on SELL trades only; on a BUY both are zero.
type Trade struct {
	ID     string    `json:"id"`
	Action Action    `json:"action"`
	Date   time.Time `json:"date"`
	Price  float64   `json:"price"`
	Shares int       `json:"shares"`

	// Realized
	Profit    float64 `json:"profit"`
	ProfitPct float64 `json:"profit_pct"`
}
