package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"PutScout/internal/deploy"
	"PutScout/internal/model"
)

// RenderCandidates writes the ranked single-leg candidates as a console
// table, already assumed sorted by score descending.
func RenderCandidates(w io.Writer, candidates []model.ScoredCandidate) {
	p := message.NewPrinter(language.English)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{
		"Ticker", "Expiration", "Strike", "Premium", "Score",
		"Ann. Return", "Margin of Safety", "DTE", "IV Rank", "Delta", "Sector",
	})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetColumnSeparator("")

	for _, c := range candidates {
		table.Append([]string{
			c.Ticker,
			c.Expiration.Format("2006-01-02"),
			p.Sprintf("%.2f", c.Strike),
			p.Sprintf("$%.2f", c.Premium),
			fmt.Sprintf("%.1f", c.Score),
			fmt.Sprintf("%.1f%%", c.AnnualizedReturn*100),
			fmt.Sprintf("%.1f%%", c.MarginOfSafety*100),
			fmt.Sprintf("%d", c.DTE),
			fmt.Sprintf("%.1f%%", c.IVRank*100),
			fmt.Sprintf("%.3f", c.Delta),
			c.Sector,
		})
	}
	table.Render()
}

// RenderScreenResults writes one row per screened symbol, PASS and FAIL.
func RenderScreenResults(w io.Writer, results []model.ScreenResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{
		"Symbol", "Status", "Vol Rank", "Tech", "Price",
		"Short", "Long", "Width", "Credit", "Max Risk", "RoR", "Reason",
	})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetColumnSeparator("")

	for _, r := range results {
		row := []string{
			r.Symbol,
			string(r.Status),
			fmt.Sprintf("%.2f%%", r.VolRank),
			fmt.Sprintf("%d/2", r.TechScore),
			fmt.Sprintf("$%.2f", r.CurrentPrice),
			"-", "-", "-", "-", "-", "-",
			r.Reason,
		}
		if s := r.Spread; s != nil {
			row[5] = fmt.Sprintf("%.2f (%.3f)", s.ShortStrike, s.ShortDelta)
			row[6] = fmt.Sprintf("%.2f (%.3f)", s.LongStrike, s.LongDelta)
			row[7] = fmt.Sprintf("%.2f", s.Width)
			row[8] = fmt.Sprintf("$%.2f", s.NetCredit)
			row[9] = fmt.Sprintf("$%.2f", s.MaxRisk)
			row[10] = fmt.Sprintf("%.2f%%", s.ReturnOnRisk)
		}
		table.Append(row)
	}
	table.Render()
}

// RenderDeployStatus writes the EMA deployment ladder for a benchmark symbol.
func RenderDeployStatus(w io.Writer, status *deploy.Status) {
	p := message.NewPrinter(language.English)

	fmt.Fprintf(w, "%s deployment ladder (price $%s)\n",
		status.Ticker, p.Sprintf("%.2f", status.CurrentPrice))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Horizon", "EMA", "Status"})
	table.SetColumnSeparator("")

	for _, t := range status.Triggers {
		state := p.Sprintf("price is $%.2f above", status.CurrentPrice-t.EMA)
		if t.Fired {
			state = fmt.Sprintf("TRIGGERED: deploy %.0f%% of remaining reserve", t.Fraction*100)
		}
		table.Append([]string{
			fmt.Sprintf("%d-week EMA (%dd)", t.Weeks, t.Days),
			p.Sprintf("$%.2f", t.EMA),
			state,
		})
	}
	table.Render()
}
