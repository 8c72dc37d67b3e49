package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"PutScout/internal/config"
	"PutScout/internal/deploy"
	"PutScout/internal/pipeline"
	"PutScout/internal/provider"
	"PutScout/internal/report"
	"PutScout/internal/spread"
)

var (
	cfgPath string
	csvOut  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Screen cash-secured puts and bull put spreads",
	Long: `PutScout screens exchange-traded put options against a pre-vetted
universe and produces a ranked list of candidates for an investor willing to
be assigned stock at a given price.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Rank single-leg put candidates across the universe",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, data := mustSetup()
		runScan(signalContext(), cfg, data)
	},
}

var spreadCmd = &cobra.Command{
	Use:   "spread",
	Short: "Run the stage-gated bull put spread screener",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, data := mustSetup()
		runSpread(signalContext(), cfg, data)
	},
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Show the EMA capital-deployment ladder for the benchmark",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, data := mustSetup()
		runDeploy(signalContext(), cfg, data)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the spread screener on a cron schedule",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, data := mustSetup()
		runWatch(signalContext(), cfg, data)
	},
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "configs/config.yaml", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	scanCmd.Flags().StringVar(&csvOut, "csv", "", "also write ranked candidates to this CSV file")
	rootCmd.AddCommand(scanCmd, spreadCmd, deployCmd, watchCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutdown signal received, stopping...")
		cancel()
	}()
	return ctx
}

func mustSetup() (*config.Config, provider.MarketData) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("loading .env: %v", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.UniverseFile != "" {
		universe, err := report.LoadUniverseCSV(cfg.UniverseFile)
		if err != nil {
			log.Fatalf("load universe: %v", err)
		}
		cfg.Universe = universe
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}

	data := provider.NewCachedMarketData(provider.NewYahooProvider(cfg.Proxy))
	log.Infof("data source: %s", data.Name())
	return cfg, data
}

// progressLogger reports pipeline progress to the log.
type progressLogger struct{}

func (progressLogger) Progress(message string, fraction float64) {
	log.Infof("[%3.0f%%] %s", fraction*100, message)
}

func runScan(ctx context.Context, cfg *config.Config, data provider.MarketData) {
	weights, err := cfg.Weights()
	if err != nil {
		log.Fatal(err)
	}

	screener := pipeline.NewScreener(data, progressLogger{})
	candidates, err := screener.Run(ctx, pipeline.Params{
		Universe:       cfg.Universe,
		MinDTE:         cfg.Screen.MinDTE,
		MaxDTE:         cfg.Screen.MaxDTE,
		StrikesOTM:     cfg.Screen.StrikesOTM,
		PortfolioValue: cfg.Screen.PortfolioValue,
		MinReturn:      cfg.Screen.MinReturn,
		Weights:        weights,
		Bands:          cfg.ScoringBands(),
		Workers:        cfg.Screen.Workers,
	})
	if err != nil {
		log.Fatalf("screen aborted: %v", err)
	}
	if len(candidates) == 0 {
		log.Info("no options found matching the criteria")
		return
	}

	report.RenderCandidates(os.Stdout, pipeline.TopPerTicker(candidates, cfg.Screen.TopPerTicker))

	if csvOut != "" {
		f, err := os.Create(csvOut)
		if err != nil {
			log.Fatalf("create csv: %v", err)
		}
		defer f.Close()
		if err := report.WriteCandidatesCSV(f, candidates); err != nil {
			log.Fatalf("write csv: %v", err)
		}
		log.Infof("wrote %d candidates to %s", len(candidates), csvOut)
	}
}

func runSpread(ctx context.Context, cfg *config.Config, data provider.MarketData) {
	screener := spread.NewScreener(data, progressLogger{})
	results, err := screener.Screen(ctx, spread.Params{
		Universe:       cfg.Universe,
		MinVolRank:     cfg.Spread.MinVolRank,
		MinDTE:         cfg.Spread.MinDTE,
		MaxDTE:         cfg.Spread.MaxDTE,
		Legs:           cfg.SpreadLegs(),
		MinCreditRatio: cfg.Spread.MinCreditRatio,
	})
	if err != nil {
		log.Fatalf("screen aborted: %v", err)
	}
	report.RenderScreenResults(os.Stdout, results)
}

func runDeploy(ctx context.Context, cfg *config.Config, data provider.MarketData) {
	series, err := data.FetchPriceSeries(ctx, cfg.Deploy.Benchmark)
	if err != nil {
		log.Fatalf("fetch %s: %v", cfg.Deploy.Benchmark, err)
	}
	status, err := deploy.Evaluate(series)
	if err != nil {
		log.Fatalf("evaluate %s: %v", cfg.Deploy.Benchmark, err)
	}
	report.RenderDeployStatus(os.Stdout, status)
}

// isMarketHours reports whether t falls inside the regular session:
// weekdays 09:30-16:00 in the configured exchange timezone.
func isMarketHours(t time.Time, loc *time.Location) bool {
	t = t.In(loc)
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	open := time.Date(t.Year(), t.Month(), t.Day(), 9, 30, 0, 0, loc)
	close := time.Date(t.Year(), t.Month(), t.Day(), 16, 0, 0, 0, loc)
	return !t.Before(open) && !t.After(close)
}

func runWatch(ctx context.Context, cfg *config.Config, data provider.MarketData) {
	loc, err := time.LoadLocation(cfg.Watch.Timezone)
	if err != nil {
		log.Fatalf("load timezone: %v", err)
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.Watch.Cron, func() {
		if cfg.Watch.MarketHours && !isMarketHours(time.Now(), loc) {
			log.Info("outside market hours, skipping run")
			return
		}
		runSpread(ctx, cfg, data)
	})
	if err != nil {
		log.Fatalf("register cron schedule: %v", err)
	}

	c.Start()
	defer c.Stop()
	log.Infof("watching on schedule %q (%s)", cfg.Watch.Cron, cfg.Watch.Timezone)

	<-ctx.Done()
}
