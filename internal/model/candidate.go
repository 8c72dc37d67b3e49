package model

import "time"

// CategoryScore represents a single scoring category's result.
type CategoryScore struct {
	Name     string
	Score    float64 // 0~5
	Weight   float64
	Weighted float64
}

// ScoredCandidate is one put that survived the hard filter, with its
// analytics and composite score. One per (ticker, expiration, strike).
type ScoredCandidate struct {
	Ticker           string
	Expiration       time.Time
	Strike           float64
	Premium          float64
	DTE              int
	Delta            float64
	AnnualizedReturn float64
	MarginOfSafety   float64
	IVRank           float64
	Sector           string
	Score            float64 // 0~100
	Categories       []CategoryScore
}

// SpreadCandidate is a validated bull put credit spread.
// Invariants: ShortStrike > LongStrike, Width > 0, NetCredit >= Width/3,
// MaxRisk = Width - NetCredit > 0.
type SpreadCandidate struct {
	ShortStrike  float64
	ShortDelta   float64
	LongStrike   float64
	LongDelta    float64
	Width        float64
	NetCredit    float64
	MaxRisk      float64
	ReturnOnRisk float64 // percent
}

// Status classifies a screened symbol.
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
)

// ScreenResult is the per-symbol outcome of the stage-gated screener. FAIL
// carries the first failing condition's message; PASS carries the spread.
type ScreenResult struct {
	Symbol       string
	Status       Status
	Reason       string
	VolRank      float64
	TechScore    int // 0~2, informational
	CurrentPrice float64
	Spread       *SpreadCandidate
}
