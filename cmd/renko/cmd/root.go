package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "renko",
	Short: "A Renko/EMA-crossover trading research tool",
	Long: `Renko is a streaming trading decision engine and backtester written in Go.

It converts a tick stream into fixed-size price bricks, runs a dual EMA
crossover over the brick (or raw) stream, optionally gated by realized
volatility or a directional bias, and replays the resulting signals against
a simulated cash account.

Tools:
  - Backtesting the crossover strategy against historical tick data
  - Journaling trades, equity curves, and emitted signals
  - Converting Dukascopy tick archives into replayable CSV files`,
}

var logLevel string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

// newLogger builds the process logger from the --log-level flag.
func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(logLevel)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}
