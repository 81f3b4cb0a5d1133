// Command timeshare-feed writes a synthetic quote stream as CSV.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"git.sr.ht/~whereswaldon/timeshare/config"
	"git.sr.ht/~whereswaldon/timeshare/feed"
	"git.sr.ht/~whereswaldon/timeshare/logging"
	"git.sr.ht/~whereswaldon/timeshare/quote"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		outputName string
		interval   time.Duration
		startPrice float64
		count      int
		seed       uint64
	)
	cmd := &cobra.Command{
		Use:   "timeshare-feed",
		Short: "Write a random walk of quotes as CSV",
		Example: "  timeshare-feed | timeshare\n" +
			"  timeshare-feed --output quotes.csv & timeshare quotes.csv",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(logLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			flags := cmd.Flags()
			var cfg config.Config
			if flags.Changed("config") {
				cfg, err = config.Load(ctx, configPath)
			} else {
				cfg, err = config.LoadOptional(ctx, configPath)
			}
			if err != nil {
				logger.Error("failed loading config", zap.Error(err))
				return err
			}
			if flags.Changed("interval") {
				cfg.Feed.Interval = interval
			}
			if flags.Changed("start-price") {
				cfg.Feed.StartPrice = startPrice
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if !flags.Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}

			var output io.WriteCloser
			if outputName == "-" {
				output = os.Stdout
			} else {
				f, err := os.Create(outputName)
				if err != nil {
					return fmt.Errorf("failed opening output file %q: %w", outputName, err)
				}
				output = f
			}
			defer func() {
				if err := output.Close(); err != nil {
					logger.Warn("failed closing output", zap.Error(err))
				}
			}()

			logger.Info("writing quotes",
				zap.String("output", outputName),
				zap.Duration("interval", cfg.Feed.Interval),
				zap.Uint64("seed", seed))
			gen := feed.NewGenerator(cfg.Feed, seed)
			if err := gen.Run(ctx, quote.NewWriter(output), cfg.Feed.Interval, count); err != nil {
				return fmt.Errorf("failed writing quotes: %w", err)
			}
			return nil
		},
	}
	defaults := config.Default().Feed
	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "timeshare.yaml", "YAML config file, optional unless given explicitly (settings may also come from "+config.EnvPrefix+"* variables)")
	flags.StringVar(&logLevel, "log-level", "info", "minimum level to log (debug, info, warn, error)")
	flags.StringVar(&outputName, "output", "-", "output file for CSV quote data")
	flags.DurationVar(&interval, "interval", defaults.Interval, "interval between quotes")
	flags.Float64Var(&startPrice, "start-price", defaults.StartPrice, "opening price of the first quote")
	flags.IntVar(&count, "count", 0, "stop after this many quotes (0 runs until interrupted)")
	flags.Uint64Var(&seed, "seed", 0, "random seed (defaults to the current time)")
	return cmd
}
