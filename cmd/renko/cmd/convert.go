package cmd

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/renko/marketdata"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.bi5> [file.bi5 ...]",
	Short: "Convert Dukascopy .bi5 tick files to quote CSV",
	Long: `Convert decodes one or more Dukascopy .bi5 hour files into the quote CSV
format accepted by "backtest --format quote". Each input file covers one
hour; pass the hour of the first file with --hour and the rest are assumed
to follow consecutively.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

var (
	cvOut   string
	cvHour  string
	cvPoint float64
)

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&cvOut, "out", "o", "", "output CSV path (default stdout)")
	convertCmd.Flags().StringVar(&cvHour, "hour", "", "UTC hour of the first file, e.g. 2024-03-01T13 (required)")
	convertCmd.Flags().Float64Var(&cvPoint, "point", marketdata.DefaultPoint, "price point scale")
	convertCmd.MarkFlagRequired("hour")
}

func runConvert(cobraCmd *cobra.Command, args []string) error {
	hour, err := time.Parse("2006-01-02T15", cvHour)
	if err != nil {
		return fmt.Errorf("bad hour %q: %w", cvHour, err)
	}

	var all []marketdata.QuoteTick
	for i, path := range args {
		ticks, err := marketdata.DecodeBI5File(path, hour.Add(time.Duration(i)*time.Hour), cvPoint)
		if err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		all = append(all, ticks...)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Time.Before(all[j].Time) })

	out := os.Stdout
	if cvOut != "" {
		f, err := os.Create(cvOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if err := marketdata.WriteQuoteCSV(out, all); err != nil {
		return err
	}
	if cvOut != "" {
		fmt.Printf("wrote %d ticks to %s\n", len(all), cvOut)
	}
	return nil
}
