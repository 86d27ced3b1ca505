package market

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used in CSV files, flags and reports.
const DateLayout = "2006-01-02"

// ErrNoData signals an empty price series at the data boundary. The core
// packages never return it; they turn an empty input into a degenerate result.
var ErrNoData = errors.New("no price data")

// Bar represents one trading day of OHLCV data. The backtest pipeline reads
// Date and Close only; the remaining fields ride along for data export.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Series is a time-ordered run of daily bars, oldest first.
type Series []Bar

// Closes returns the close prices in series order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Start returns the date of the first bar, or the zero time for an empty series.
func (s Series) Start() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[0].Date
}

// End returns the date of the last bar, or the zero time for an empty series.
func (s Series) End() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[len(s)-1].Date
}

// Validate checks the series invariants: strictly increasing dates and
// positive close prices.
func (s Series) Validate() error {
	for i, b := range s {
		if b.Close <= 0 {
			return fmt.Errorf("bar %d (%s): close must be positive, got %v",
				i, b.Date.Format(DateLayout), b.Close)
		}
		if i > 0 && !b.Date.After(s[i-1].Date) {
			return fmt.Errorf("bar %d (%s): date not after previous bar",
				i, b.Date.Format(DateLayout))
		}
	}
	return nil
}
