package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"PutScout/internal/model"
)

// candidateRow is the CSV projection of a ScoredCandidate.
type candidateRow struct {
	Ticker           string  `csv:"ticker"`
	Expiration       string  `csv:"expiration"`
	Strike           float64 `csv:"strike"`
	Premium          float64 `csv:"premium"`
	Score            float64 `csv:"score"`
	AnnualizedReturn float64 `csv:"annualized_return"`
	MarginOfSafety   float64 `csv:"margin_of_safety"`
	DTE              int     `csv:"dte"`
	IVRank           float64 `csv:"iv_rank"`
	Delta            float64 `csv:"delta"`
	Sector           string  `csv:"sector"`
}

// WriteCandidatesCSV exports ranked candidates for spreadsheet use.
func WriteCandidatesCSV(w io.Writer, candidates []model.ScoredCandidate) error {
	rows := make([]candidateRow, len(candidates))
	for i, c := range candidates {
		rows[i] = candidateRow{
			Ticker:           c.Ticker,
			Expiration:       c.Expiration.Format("2006-01-02"),
			Strike:           c.Strike,
			Premium:          c.Premium,
			Score:            c.Score,
			AnnualizedReturn: c.AnnualizedReturn,
			MarginOfSafety:   c.MarginOfSafety,
			DTE:              c.DTE,
			IVRank:           c.IVRank,
			Delta:            c.Delta,
			Sector:           c.Sector,
		}
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write candidates csv: %w", err)
	}
	return nil
}

// universeRow is one line of a universe CSV file.
type universeRow struct {
	Ticker string `csv:"ticker"`
}

// LoadUniverseCSV reads a ticker list from a CSV file with a `ticker` column.
func LoadUniverseCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open universe file: %w", err)
	}
	defer f.Close()

	var rows []universeRow
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, fmt.Errorf("parse universe file: %w", err)
	}

	tickers := make([]string, 0, len(rows))
	for _, r := range rows {
		t := strings.ToUpper(strings.TrimSpace(r.Ticker))
		if t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers, nil
}
