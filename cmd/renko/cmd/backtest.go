package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/renko/backtest"
	"github.com/rustyeddy/renko/broker"
	"github.com/rustyeddy/renko/config"
	"github.com/rustyeddy/renko/journal"
	"github.com/rustyeddy/renko/sim"
	"github.com/rustyeddy/renko/strategies"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay tick data through the crossover strategy",
	Long: `Backtest replays historical tick data through the Renko crossover strategy
against a simulated cash account.

Data formats:
  - canonical: time,instrument,bid,ask[,last] with RFC3339 timestamps
  - quote:     time,bid,ask,last with "20060102 15:04:05.000" timestamps
               (single instrument, taken from --instrument)

Example:
  renko backtest --ticks data/eurusd.csv --strategy renko-cross \
      --fast 10 --slow 50 --brick 0.001`,
	RunE: runBacktest,
}

var (
	btConfigPath string
	btTicksPath  string
	btFormat     string
	btFrom       string
	btTo         string
	btDBPath     string
	btBalance    float64
	btAccountID  string
	btCloseEnd   bool
	btStrategy   string
	btInstrument string
	btFast       int
	btSlow       int
	btBrick      float64
	btVolWindow  int
	btVolThresh  float64
	btBias       float64
	btGate       string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "c", "", "config file; flags override its values")
	backtestCmd.Flags().StringVarP(&btTicksPath, "ticks", "t", "", "path to tick CSV (required unless set in config)")
	backtestCmd.Flags().StringVar(&btFormat, "format", "canonical", "tick file format (canonical, quote)")
	backtestCmd.Flags().StringVar(&btFrom, "from", "", "replay start (RFC3339, canonical format only)")
	backtestCmd.Flags().StringVar(&btTo, "to", "", "replay end, exclusive (RFC3339, canonical format only)")
	backtestCmd.Flags().StringVarP(&btDBPath, "db", "d", "./backtest.sqlite", "path to SQLite journal DB")
	backtestCmd.Flags().Float64VarP(&btBalance, "balance", "b", 100_000, "starting account balance")
	backtestCmd.Flags().StringVar(&btAccountID, "account", "SIM-BACKTEST", "account ID for journaling")
	backtestCmd.Flags().BoolVar(&btCloseEnd, "close-end", true, "close all open trades at end of replay")

	backtestCmd.Flags().StringVarP(&btStrategy, "strategy", "s", "renko-cross", "strategy name (noop, renko-cross)")
	backtestCmd.Flags().StringVarP(&btInstrument, "instrument", "i", "EUR_USD", "strategy instrument")

	backtestCmd.Flags().IntVar(&btFast, "fast", 10, "fast EMA period")
	backtestCmd.Flags().IntVar(&btSlow, "slow", 50, "slow EMA period")
	backtestCmd.Flags().Float64Var(&btBrick, "brick", 0, "brick size (0 disables Renko aggregation)")
	backtestCmd.Flags().IntVar(&btVolWindow, "vol-window", 30, "volatility window (clamped to [5,500])")
	backtestCmd.Flags().Float64Var(&btVolThresh, "vol-threshold", 0, "volatility gate threshold")
	backtestCmd.Flags().Float64Var(&btBias, "bias", 0, "crossover bias offset")
	backtestCmd.Flags().StringVar(&btGate, "gate", "off", "gate mode (off, vol_gate, bias)")
}

func backtestConfig() (*config.Config, error) {
	if btConfigPath != "" {
		return config.LoadFromFile(btConfigPath)
	}

	cfg := config.Default()
	cfg.Account.ID = btAccountID
	cfg.Account.Balance = btBalance
	cfg.Strategy = strategies.RenkoCrossConfig{
		Instrument:   btInstrument,
		FastPeriod:   btFast,
		SlowPeriod:   btSlow,
		BrickSize:    btBrick,
		VolWindow:    btVolWindow,
		VolThreshold: btVolThresh,
		Bias:         btBias,
		Gate:         btGate,
	}
	cfg.Data = config.DataConfig{Format: btFormat, Path: btTicksPath, From: btFrom, To: btTo}
	cfg.Journal = config.JournalConfig{Type: "sqlite", DBPath: btDBPath}
	cfg.Normalize()

	return cfg, cfg.Validate()
}

func openFeed(cfg *config.Config) (backtest.TickFeed, error) {
	if cfg.Data.Path == "" {
		return nil, fmt.Errorf("no tick file: use --ticks or data.path in the config")
	}

	switch cfg.Data.Format {
	case "quote":
		return backtest.NewQuoteTickFeed(cfg.Data.Path, cfg.Strategy.Instrument)
	default:
		var from, to time.Time
		var err error
		if cfg.Data.From != "" {
			if from, err = time.Parse(time.RFC3339, cfg.Data.From); err != nil {
				return nil, fmt.Errorf("bad from: %w", err)
			}
		}
		if cfg.Data.To != "" {
			if to, err = time.Parse(time.RFC3339, cfg.Data.To); err != nil {
				return nil, fmt.Errorf("bad to: %w", err)
			}
		}
		return backtest.NewCSVTicksFeed(cfg.Data.Path, from, to)
	}
}

func openJournal(cfg *config.Config) (journal.Journal, *journal.SQLiteJournal, error) {
	if cfg.Journal.Type == "csv" {
		j, err := journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.EquityFile, cfg.Journal.SignalsFile)
		return j, nil, err
	}
	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	return j, j, err
}

func runBacktest(cobraCmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg, err := backtestConfig()
	if err != nil {
		return err
	}

	j, lister, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	feed, err := openFeed(cfg)
	if err != nil {
		return err
	}

	engine := sim.NewEngine(broker.Account{
		ID:       cfg.Account.ID,
		Currency: cfg.Account.Currency,
		Balance:  cfg.Account.Balance,
	}, j)
	engine.SetLogger(log)

	strat, err := strategies.StrategyByName(btStrategy, &cfg.Strategy)
	if err != nil {
		return err
	}
	if rc, ok := strat.(*strategies.RenkoCross); ok {
		rc.SetSignalRecorder(j)
		rc.SetLogger(log)
	}

	runner := &backtest.Runner{
		Engine:   engine,
		Feed:     feed,
		Strategy: strat,
		Options:  backtest.RunnerOptions{CloseEnd: btCloseEnd},
		Logger:   log,
	}

	var tl backtest.TradeLister
	if lister != nil {
		tl = lister
	}

	res, err := runner.Run(cobraCmd.Context(), tl)
	if err != nil {
		return err
	}

	fmt.Printf("ticks=%d trades=%d wins=%d losses=%d balance=%.2f equity=%.2f\n",
		res.Ticks, res.Trades, res.Wins, res.Losses, res.FinalBalance, res.FinalEquity)
	return nil
}
