package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/op"
	"gioui.org/unit"
	"git.sr.ht/~gioverse/skel/stream"
	"git.sr.ht/~whereswaldon/timeshare/backend"
	"git.sr.ht/~whereswaldon/timeshare/config"
	"git.sr.ht/~whereswaldon/timeshare/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	cmd := newRootCmd()
	go func() {
		if err := cmd.Execute(); err != nil {
			os.Exit(1)
		}
		os.Exit(0)
	}()
	app.Main()
}

const defaultConfigFile = "timeshare.yaml"

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)
	cmd := &cobra.Command{
		Use:   "timeshare [quotes.csv]",
		Short: "Chart intraday quotes as a time-share line",
		Long: "Chart intraday quotes as a time-share line. Quotes are read from the\n" +
			"given CSV file, which is followed as it grows, or from stdin.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(logLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			var cfg config.Config
			if cmd.Flags().Changed("config") {
				cfg, err = config.Load(ctx, configPath)
			} else {
				cfg, err = config.LoadOptional(ctx, configPath)
			}
			if err != nil {
				logger.Error("failed loading config", zap.Error(err))
				return err
			}
			var source string
			if len(args) > 0 {
				source = args[0]
			}
			return run(ctx, logger, cfg, source)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", defaultConfigFile, "YAML config file, optional unless given explicitly (settings may also come from "+config.EnvPrefix+"* variables)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "minimum level to log (debug, info, warn, error)")
	return cmd
}

func run(ctx context.Context, logger *zap.Logger, cfg config.Config, source string) error {
	colors, err := cfg.Palette.Colors()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	mutator := stream.NewMutator(ctx, time.Minute)
	bundle := backend.NewBundle(cfg, logger, mutator)
	go func() {
		var err error
		if source == "" {
			err = bundle.Datasource.LoadStream(ctx, "stdin", os.Stdin)
		} else {
			err = bundle.Datasource.FollowFile(ctx, source)
		}
		if err != nil {
			logger.Error("quote source failed", zap.Error(err))
		}
	}()

	w := app.NewWindow(app.Title(appName), app.Size(unit.Dp(800), unit.Dp(480)))
	go func() {
		<-ctx.Done()
		w.Perform(system.ActionClose)
	}()
	ws := backend.NewWindowState(ctx, bundle, w)
	ui := NewUI(ws, w, colors)
	if err := loop(w, ui); err != nil {
		return fmt.Errorf("window failed: %w", err)
	}
	return nil
}

func loop(w *app.Window, ui *UI) error {
	var ops op.Ops
	for {
		switch ev := w.NextEvent().(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, ev)
			ui.Layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}
