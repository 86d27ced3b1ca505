package backtest

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/rustyeddy/backtester/market"
)

// Sweep backtests every window pair drawn from shorts x longs over the same
// series and ranks the outcomes, best total return first. Ties rank the
// shorter windows first so the ordering is deterministic.
//
// Pairs that cannot trade (short >= long, non-positive windows) and duplicate
// pairs are skipped rather than reported as errors, so overlapping ranges can
// be passed freely. Workers below 1 defaults to one per CPU.
func Sweep(ctx context.Context, series market.Series, base Options, shorts, longs []int, workers int) ([]*Result, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	var pairs []Options
	seen := make(map[[2]int]bool)
	for _, s := range shorts {
		for _, l := range longs {
			if s < 1 || s >= l || seen[[2]int{s, l}] {
				continue
			}
			seen[[2]int{s, l}] = true
			o := base
			o.ShortWindow = s
			o.LongWindow = l
			pairs = append(pairs, o)
		}
	}

	jobCh := make(chan Options)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var ranked []*Result
	var firstErr error

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for o := range jobCh {
				r, err := Run(series, o)
				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
				} else {
					ranked = append(ranked, r)
				}
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(jobCh)
		for _, o := range pairs {
			select {
			case jobCh <- o:
			case <-ctx.Done():
				return
			}
		}
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Metrics.TotalReturnPct != b.Metrics.TotalReturnPct {
			return a.Metrics.TotalReturnPct > b.Metrics.TotalReturnPct
		}
		if a.Options.ShortWindow != b.Options.ShortWindow {
			return a.Options.ShortWindow < b.Options.ShortWindow
		}
		return a.Options.LongWindow < b.Options.LongWindow
	})
	return ranked, nil
}
