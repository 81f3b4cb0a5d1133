// Package config loads the viewer and feed settings from an optional YAML
// file and TIMESHARE_* environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"time"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/unit"
	"git.sr.ht/~whereswaldon/timeshare/layer"
	"github.com/go-playground/validator/v10"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "TIMESHARE_"

// Config is the complete settings tree. Lengths are in Dp.
type Config struct {
	Chart   ChartConfig   `yaml:"chart" env:", prefix=CHART_"`
	Palette PaletteConfig `yaml:"palette" env:", prefix=PALETTE_"`
	Label   LabelConfig   `yaml:"label" env:", prefix=LABEL_"`
	Feed    FeedConfig    `yaml:"feed" env:", prefix=FEED_"`
}

type ChartConfig struct {
	IndicatorDiameter   float32 `yaml:"indicator_diameter" env:"INDICATOR_DIAMETER" validate:"gt=0"`
	LineWidth           float32 `yaml:"line_width" env:"LINE_WIDTH" validate:"gt=0"`
	ShadowRadius        float32 `yaml:"shadow_radius" env:"SHADOW_RADIUS" validate:"gte=0"`
	ShadowOffsetX       float32 `yaml:"shadow_offset_x" env:"SHADOW_OFFSET_X"`
	ShadowOffsetY       float32 `yaml:"shadow_offset_y" env:"SHADOW_OFFSET_Y"`
	ShadowOpacity       float32 `yaml:"shadow_opacity" env:"SHADOW_OPACITY" validate:"gte=0,lte=1"`
	GradientAlphaTop    float32 `yaml:"gradient_alpha_top" env:"GRADIENT_ALPHA_TOP" validate:"gte=0,lte=1"`
	GradientAlphaBottom float32 `yaml:"gradient_alpha_bottom" env:"GRADIENT_ALPHA_BOTTOM" validate:"gte=0,lte=1"`
	// QuoteWidth is the horizontal space given to each quote at zoom 1.
	QuoteWidth float32 `yaml:"quote_width" env:"QUOTE_WIDTH" validate:"gt=0"`
	// MaxQuotes bounds the history kept in memory. Zero keeps everything.
	MaxQuotes int `yaml:"max_quotes" env:"MAX_QUOTES" validate:"gte=0"`
}

// PaletteConfig holds colors as hex strings such as "#2b7fa8" or "#fff".
type PaletteConfig struct {
	Background      string `yaml:"background" env:"BACKGROUND" validate:"required,colorhex"`
	Line            string `yaml:"line" env:"LINE" validate:"required,colorhex"`
	Shadow          string `yaml:"shadow" env:"SHADOW" validate:"required,colorhex"`
	LabelBackground string `yaml:"label_background" env:"LABEL_BACKGROUND" validate:"required,colorhex"`
	LabelText       string `yaml:"label_text" env:"LABEL_TEXT" validate:"required,colorhex"`
}

type LabelConfig struct {
	InsetTop     float32 `yaml:"inset_top" env:"INSET_TOP" validate:"gte=0"`
	InsetLeft    float32 `yaml:"inset_left" env:"INSET_LEFT" validate:"gte=0"`
	InsetBottom  float32 `yaml:"inset_bottom" env:"INSET_BOTTOM" validate:"gte=0"`
	InsetRight   float32 `yaml:"inset_right" env:"INSET_RIGHT" validate:"gte=0"`
	TextSize     float32 `yaml:"text_size" env:"TEXT_SIZE" validate:"gt=0"`
	CornerRadius float32 `yaml:"corner_radius" env:"CORNER_RADIUS" validate:"gte=0"`
}

// FeedConfig drives the synthetic quote generator.
type FeedConfig struct {
	Interval   time.Duration `yaml:"interval" env:"INTERVAL" validate:"gt=0"`
	StartPrice float64       `yaml:"start_price" env:"START_PRICE" validate:"gt=0"`
	Volatility float64       `yaml:"volatility" env:"VOLATILITY" validate:"gte=0"`
	Spread     float64       `yaml:"spread" env:"SPREAD" validate:"gte=0"`
}

// Default returns the stock settings.
func Default() Config {
	opts := layer.DefaultOptions()
	return Config{
		Chart: ChartConfig{
			IndicatorDiameter:   opts.IndicatorDiameter,
			LineWidth:           opts.LineWidth,
			ShadowRadius:        opts.ShadowRadius,
			ShadowOffsetX:       opts.ShadowOffset.X,
			ShadowOffsetY:       opts.ShadowOffset.Y,
			ShadowOpacity:       opts.ShadowOpacity,
			GradientAlphaTop:    opts.GradientAlphaTop,
			GradientAlphaBottom: opts.GradientAlphaBottom,
			QuoteWidth:          4,
			MaxQuotes:           0,
		},
		Palette: PaletteConfig{
			Background:      "#ffffff",
			Line:            "#2b7fa8",
			Shadow:          "#2b7fa8",
			LabelBackground: "#2b7fa8",
			LabelText:       "#ffffff",
		},
		Label: LabelConfig{
			InsetTop:     2,
			InsetLeft:    4,
			InsetBottom:  2,
			InsetRight:   4,
			TextSize:     10,
			CornerRadius: 2,
		},
		Feed: FeedConfig{
			Interval:   time.Second,
			StartPrice: 100,
			Volatility: 0.002,
			Spread:     0.01,
		},
	}
}

// Load reads the settings: defaults, then the YAML file at path (skipped when
// path is empty), then TIMESHARE_* environment variables. The result is
// validated.
func Load(ctx context.Context, path string) (Config, error) {
	return LoadWith(ctx, path, envconfig.OsLookuper())
}

// LoadWith is Load with the environment supplied by lookuper.
func LoadWith(ctx context.Context, path string, lookuper envconfig.Lookuper) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed reading config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed parsing config file %q: %w", path, err)
		}
	}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:           &cfg,
		Lookuper:         envconfig.PrefixLookuper(EnvPrefix, lookuper),
		DefaultOverwrite: true,
	}); err != nil {
		return Config{}, fmt.Errorf("failed processing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOptional is Load, but a missing file at path is not an error.
func LoadOptional(ctx context.Context, path string) (Config, error) {
	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	return Load(ctx, path)
}

func newValidator() *validator.Validate {
	validate := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = validate.RegisterValidation("colorhex", func(fl validator.FieldLevel) bool {
		_, err := colorful.Hex(fl.Field().String())
		return err == nil
	})
	return validate
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ChartOptions converts the chart settings into layer options in pixels for
// the metric m.
func (c Config) ChartOptions(m unit.Metric) layer.Options {
	px := func(v float32) float32 {
		return v * nonZero(m.PxPerDp)
	}
	ch := c.Chart
	return layer.Options{
		IndicatorDiameter:   px(ch.IndicatorDiameter),
		LineWidth:           px(ch.LineWidth),
		ShadowRadius:        px(ch.ShadowRadius),
		ShadowOffset:        f32.Pt(px(ch.ShadowOffsetX), px(ch.ShadowOffsetY)),
		ShadowOpacity:       ch.ShadowOpacity,
		GradientAlphaTop:    ch.GradientAlphaTop,
		GradientAlphaBottom: ch.GradientAlphaBottom,
	}
}

func nonZero(v float32) float32 {
	if v == 0 {
		return 1
	}
	return v
}

// Insets returns the label padding.
func (l LabelConfig) Insets() layout.Inset {
	return layout.Inset{
		Top:    unit.Dp(l.InsetTop),
		Left:   unit.Dp(l.InsetLeft),
		Bottom: unit.Dp(l.InsetBottom),
		Right:  unit.Dp(l.InsetRight),
	}
}

// Colors is a resolved palette.
type Colors struct {
	Background      color.NRGBA
	Line            color.NRGBA
	Shadow          color.NRGBA
	LabelBackground color.NRGBA
	LabelText       color.NRGBA
}

// Colors parses the palette.
func (p PaletteConfig) Colors() (Colors, error) {
	var (
		out Colors
		err error
	)
	for _, f := range []struct {
		dst *color.NRGBA
		hex string
	}{
		{&out.Background, p.Background},
		{&out.Line, p.Line},
		{&out.Shadow, p.Shadow},
		{&out.LabelBackground, p.LabelBackground},
		{&out.LabelText, p.LabelText},
	} {
		if *f.dst, err = ParseColor(f.hex); err != nil {
			return Colors{}, err
		}
	}
	return out, nil
}

// ParseColor parses an opaque hex color.
func ParseColor(hex string) (color.NRGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("failed parsing color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}
