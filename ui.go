package main

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/text"
	"gioui.org/widget/material"
	"git.sr.ht/~gioverse/skel/stream"
	"git.sr.ht/~whereswaldon/timeshare/backend"
	"git.sr.ht/~whereswaldon/timeshare/config"
	"git.sr.ht/~whereswaldon/timeshare/delegate"
	"go.uber.org/zap"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

const appName = "timeshare"

// UI is responsible for holding the state of and drawing the top-level UI.
type UI struct {
	ws     backend.WindowState
	win    *app.Window
	logger *zap.Logger

	th    *material.Theme
	chart *ChartView

	sessionStream *stream.Stream[backend.Session]
	session       backend.Session
}

func NewUI(ws backend.WindowState, win *app.Window, colors config.Colors) *UI {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()), text.NoSystemFonts())
	ui := &UI{
		ws:            ws,
		win:           win,
		logger:        ws.Logger.Named("ui"),
		th:            th,
		chart:         NewChartView(ws.Config, colors, th.Shaper),
		sessionStream: stream.New(ws.Controller, ws.Datasource.Stream),
	}
	delegate.Bind(&ui.chart.OnFollowChanged, ui, (*UI).followChanged)
	return ui
}

func (ui *UI) followChanged(following bool) struct{} {
	ui.logger.Debug("follow mode changed", zap.Bool("following", following))
	title := appName
	if !following {
		title += " (paused)"
	}
	ui.win.Option(app.Title(title))
	return struct{}{}
}

// Update the state of the UI from the backend.
func (ui *UI) Update(gtx C) {
	ui.sessionStream.ReadInto(gtx, &ui.session, backend.Session{})
}

func (ui *UI) statusText() string {
	s := ui.session
	status := fmt.Sprintf("%s: %d quotes", s.Source, len(s.Quotes))
	if latest, ok := s.Latest(); ok {
		status += ", last " + strconv.FormatFloat(latest.Close, 'f', 2, 64)
	}
	if s.Skipped > 0 {
		status += fmt.Sprintf(", %d skipped", s.Skipped)
	}
	if s.Done {
		status += ", ended"
	} else if s.Mode != backend.ModeNone {
		status += ", " + s.Mode.String()
	}
	return status
}

func (ui *UI) layoutStatus(gtx C) D {
	return layout.UniformInset(4).Layout(gtx, func(gtx C) D {
		if ui.session.Err != nil {
			l := material.Body2(ui.th, ui.session.Err.Error())
			l.Color = color.NRGBA{R: 150, A: 255}
			return l.Layout(gtx)
		}
		l := material.Body2(ui.th, ui.statusText())
		l.MaxLines = 1
		return l.Layout(gtx)
	})
}

func (ui *UI) layoutMainArea(gtx C) D {
	return layout.Flex{
		Axis: layout.Vertical,
	}.Layout(gtx,
		layout.Flexed(1, func(gtx C) D {
			return ui.chart.Layout(gtx, ui.th, ui.session.Quotes)
		}),
		layout.Rigid(ui.layoutStatus),
	)
}

func (ui *UI) layoutStartScreen(gtx C) D {
	msg := "No data yet."
	if ui.session.Source != "" {
		msg = "Waiting for quotes from " + ui.session.Source + "."
	}
	if ui.session.Done {
		msg = "No quotes in " + ui.session.Source + "."
	}
	return layout.Flex{
		Axis:      layout.Vertical,
		Alignment: layout.Middle,
		Spacing:   layout.SpaceAround,
	}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return material.Body1(ui.th, msg).Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			if ui.session.Err == nil {
				return D{}
			}
			gtx.Constraints.Min = image.Point{}
			return ui.layoutStatus(gtx)
		}),
	)
}

// Layout the UI into the provided context.
func (ui *UI) Layout(gtx C) D {
	ui.Update(gtx)
	if len(ui.session.Quotes) > 0 {
		return ui.layoutMainArea(gtx)
	}
	return ui.layoutStartScreen(gtx)
}
