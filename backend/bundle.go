package backend

import (
	"context"

	"gioui.org/app"
	"git.sr.ht/~gioverse/skel/stream"
	"git.sr.ht/~whereswaldon/timeshare/config"
	"go.uber.org/zap"
)

type WindowState struct {
	Bundle
	Controller *stream.Controller
}

func NewWindowState(ctx context.Context, bundle Bundle, win *app.Window) WindowState {
	return WindowState{
		Bundle:     bundle,
		Controller: stream.NewController(ctx, win.Invalidate),
	}
}

// Bundle holds the application-wide resources shared by every window.
type Bundle struct {
	Config     config.Config
	Logger     *zap.Logger
	Datasource *Datasource
}

func NewBundle(cfg config.Config, logger *zap.Logger, mutator *stream.Mutator) Bundle {
	return Bundle{
		Config:     cfg,
		Logger:     logger,
		Datasource: NewDatasource(logger.Named("datasource"), cfg.Chart.MaxQuotes, mutator),
	}
}
