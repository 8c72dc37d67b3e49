package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"PutScout/internal/scoring"
	"PutScout/internal/spread"
)

// Profiles are the named scoring weight vectors in active use. Weights are
// configuration, never constants baked into the scoring model.
var Profiles = map[string]scoring.Weights{
	"balanced":  {ReturnOnCapital: 0.35, ProbabilitySafety: 0.35, Technicals: 0.20, RiskManagement: 0.10},
	"defensive": {ReturnOnCapital: 0.20, ProbabilitySafety: 0.50, Technicals: 0.20, RiskManagement: 0.10},
	"income":    {ReturnOnCapital: 0.45, ProbabilitySafety: 0.35, Technicals: 0.15, RiskManagement: 0.05},
}

// Config holds all application configuration.
type Config struct {
	Universe     []string `yaml:"universe"`
	UniverseFile string   `yaml:"universe_file"`

	Screen struct {
		MinDTE         int     `yaml:"min_dte"`
		MaxDTE         int     `yaml:"max_dte"`
		StrikesOTM     int     `yaml:"strikes_otm"`
		PortfolioValue float64 `yaml:"portfolio_value"`
		MinReturn      float64 `yaml:"min_return"`
		Workers        int     `yaml:"workers"`
		TopPerTicker   int     `yaml:"top_per_ticker"`
		Profile        string  `yaml:"profile"`
	} `yaml:"screen"`

	Bands *scoring.Bands `yaml:"bands"` // nil means scoring defaults

	// Zero numeric values fall back to defaults on Load; the vol-rank and
	// credit gates cannot be disabled, only tuned.
	Spread struct {
		MinVolRank     float64          `yaml:"min_vol_rank"`
		MinDTE         int              `yaml:"min_dte"`
		MaxDTE         int              `yaml:"max_dte"`
		MinCreditRatio float64          `yaml:"min_credit_ratio"`
		Legs           *spread.LegBands `yaml:"legs"` // nil means defaults
	} `yaml:"spread"`

	Deploy struct {
		Benchmark string `yaml:"benchmark"`
	} `yaml:"deploy"`

	Watch struct {
		Cron        string `yaml:"cron"`
		MarketHours bool   `yaml:"market_hours"`
		Timezone    string `yaml:"timezone"`
	} `yaml:"watch"`

	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PUTSCOUT_UNIVERSE"); v != "" {
		cfg.Universe = nil
		for _, t := range strings.Split(v, ",") {
			if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
				cfg.Universe = append(cfg.Universe, t)
			}
		}
	}
	if v := os.Getenv("PUTSCOUT_PROFILE"); v != "" {
		cfg.Screen.Profile = v
	}
	if v := os.Getenv("PUTSCOUT_PORTFOLIO_VALUE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Screen.PortfolioValue = f
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if len(cfg.Universe) == 0 && cfg.UniverseFile == "" {
		cfg.Universe = []string{"SPY", "QQQ", "IWM", "DIA", "AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "TSLA"}
	}
	if cfg.Screen.MinDTE == 0 {
		cfg.Screen.MinDTE = 20
	}
	if cfg.Screen.MaxDTE == 0 {
		cfg.Screen.MaxDTE = 45
	}
	if cfg.Screen.PortfolioValue == 0 {
		cfg.Screen.PortfolioValue = 200000
	}
	if cfg.Screen.MinReturn == 0 {
		cfg.Screen.MinReturn = 0.08
	}
	if cfg.Screen.Workers == 0 {
		cfg.Screen.Workers = 4
	}
	if cfg.Screen.TopPerTicker == 0 {
		cfg.Screen.TopPerTicker = 5
	}
	if cfg.Screen.Profile == "" {
		cfg.Screen.Profile = "balanced"
	}
	if cfg.Spread.MinVolRank == 0 {
		cfg.Spread.MinVolRank = 40
	}
	if cfg.Spread.MinDTE == 0 {
		cfg.Spread.MinDTE = 30
	}
	if cfg.Spread.MaxDTE == 0 {
		cfg.Spread.MaxDTE = 50
	}
	if cfg.Spread.MinCreditRatio == 0 {
		cfg.Spread.MinCreditRatio = spread.DefaultMinCreditRatio
	}
	if cfg.Deploy.Benchmark == "" {
		cfg.Deploy.Benchmark = "QQQ"
	}
	if cfg.Watch.Cron == "" {
		cfg.Watch.Cron = "0 0 10 * * 1-5"
	}
	if cfg.Watch.Timezone == "" {
		cfg.Watch.Timezone = "America/New_York"
	}

	return cfg, nil
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if len(c.Universe) == 0 && c.UniverseFile == "" {
		return fmt.Errorf("universe or universe_file is required")
	}
	if c.Screen.MinDTE < 0 || c.Screen.MaxDTE < c.Screen.MinDTE {
		return fmt.Errorf("screen DTE range [%d,%d] is invalid", c.Screen.MinDTE, c.Screen.MaxDTE)
	}
	if c.Spread.MaxDTE < c.Spread.MinDTE {
		return fmt.Errorf("spread DTE range [%d,%d] is invalid", c.Spread.MinDTE, c.Spread.MaxDTE)
	}
	if c.Screen.PortfolioValue <= 0 {
		return fmt.Errorf("screen.portfolio_value must be positive")
	}
	if _, err := c.Weights(); err != nil {
		return err
	}
	return nil
}

// Weights resolves the configured scoring profile.
func (c *Config) Weights() (scoring.Weights, error) {
	w, ok := Profiles[c.Screen.Profile]
	if !ok {
		names := make([]string, 0, len(Profiles))
		for name := range Profiles {
			names = append(names, name)
		}
		return scoring.Weights{}, fmt.Errorf("unknown scoring profile %q (have: %s)",
			c.Screen.Profile, strings.Join(names, ", "))
	}
	return w, nil
}

// ScoringBands resolves the configured sub-score bands.
func (c *Config) ScoringBands() scoring.Bands {
	if c.Bands != nil {
		return *c.Bands
	}
	return scoring.DefaultBands()
}

// SpreadLegs resolves the configured spread delta bands.
func (c *Config) SpreadLegs() spread.LegBands {
	if c.Spread.Legs != nil {
		return *c.Spread.Legs
	}
	return spread.DefaultLegBands()
}
