package journal

import (
	"io"
	"strings"
	"text/template"
	"time"
)

var orgFuncs = template.FuncMap{
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var orgTmpl = template.Must(template.New("run").Funcs(orgFuncs).Parse(OrgTemplate))

type orgView struct {
	Run
	TradeLog []TradeRecord
}

// WriteOrg renders a run as an org-mode block, ready to refile into a trading
// notebook. Trades may be nil when only the summary is wanted.
func WriteOrg(w io.Writer, run Run, trades []TradeRecord) error {
	return orgTmpl.Execute(w, orgView{Run: run, TradeLog: trades})
}

// ExportOrg loads a run and its trades and returns the org block.
func (j *SQLiteJournal) ExportOrg(runID string) (string, error) {
	run, err := j.GetRun(runID)
	if err != nil {
		return "", err
	}
	trades, err := j.ListTradesByRun(runID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := WriteOrg(&b, run, trades); err != nil {
		return "", err
	}
	return b.String(), nil
}

const OrgTemplate = `
* BACKTEST: MA-Cross {{.Ticker}} {{.ShortWindow}}/{{.LongWindow}}
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:STRATEGY:    ma_cross
:TICKER:      {{.Ticker}}
:SHORT_MA:    {{.ShortWindow}}
:LONG_MA:     {{.LongWindow}}
:START_DATE:  {{.Start.Format "2006-01-02"}}
:END_DATE:    {{.End.Format "2006-01-02"}}
:CAPITAL:     {{printf "%.2f" .InitialCapital}}
:FINAL_VALUE: {{printf "%.2f" .FinalValue}}
:RETURN_PCT:  {{printf "%.2f" .TotalReturnPct}}
:MAX_DD_PCT:  {{printf "%.2f" .MaxDrawdownPct}}
:BENCH_PCT:   {{printf "%.2f" .BenchReturnPct}}
:TRADES:      {{.Trades}}
:WINS:        {{.Wins}}
:LOSSES:      {{.Losses}}
:WIN_RATE:    {{printf "%.2f" .WinRatePct}}
:VERDICT:     {{if .Verdict}}{{.Verdict}}{{else}}(verdict?){{end}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Return:           *{{printf "%.2f" .TotalReturnPct}}%*
- Buy & Hold:       *{{printf "%.2f" .BenchReturnPct}}%*
- Max Drawdown:     *{{printf "%.2f" .MaxDrawdownPct}}%*
- Win Rate:         *{{printf "%.2f" .WinRatePct}}%*
- Final Value:      *{{printf "%.2f" .FinalValue}}*

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Wins}} |
| Losses  | {{.Losses}} |
| Total   | {{.Trades}} |

{{- if .TradeLog }}

** Trades
| Action | Date | Shares | Price | P/L | P/L % |
|--------+------+--------+-------+-----+-------|
{{- range .TradeLog }}
| {{.Action}} | {{.Date.Format "2006-01-02"}} | {{.Shares}} | {{printf "%.2f" .Price}} | {{printf "%.2f" .Profit}} | {{printf "%.2f" .ProfitPct}} |
{{- end }}
{{- end }}

{{- if .Notes }}

** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}

{{- if .NextActions }}

** Next Actions
{{- range .NextActions }}
- [ ] {{.}}
{{- end }}
{{- end }}
`
