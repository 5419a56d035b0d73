package gridfx

import (
	"time"

	"github.com/gogpu/gridfx/quality"
)

// Defaults for a new renderer.
const (
	DefaultFontSize   = 14.0
	DefaultColor      = "#00ff00"
	DefaultBackground = "#0a0a0a"
	DefaultEffect     = "wave"
	DefaultSpeed      = 1.0
	DefaultIntensity  = 0.6

	MinFontSize  = 10.0
	MaxFontSize  = 20.0
	MinSpeed     = 0.25
	MaxSpeed     = 3.0
	MinIntensity = 0.1
	MaxIntensity = 1.0
)

// Option configures a Renderer during creation.
//
// Example:
//
//	r, err := gridfx.New(p,
//	    gridfx.WithEffect("matrix"),
//	    gridfx.WithSpeed(1.5),
//	)
type Option func(*options)

// Listener is a host subscription made on behalf of the renderer.
// Destroy calls its detach func exactly once.
type Listener func() (detach func())

type options struct {
	charset       string
	fontSize      float64
	color         string
	background    string
	effect        string
	speed         float64
	intensity     float64
	quality       *quality.Level
	reducedMotion bool
	transition    time.Duration
	rand          Rand
	clock         Clock
	scheduler     Scheduler
	listeners     []Listener
	width, height int
}

func defaultOptions() options {
	return options{
		charset:    "standard",
		fontSize:   DefaultFontSize,
		color:      DefaultColor,
		background: DefaultBackground,
		effect:     DefaultEffect,
		speed:      DefaultSpeed,
		intensity:  DefaultIntensity,
	}
}

// WithCharset selects the glyph set by name. Unknown names use "standard".
func WithCharset(name string) Option {
	return func(o *options) { o.charset = name }
}

// WithFontSize sets the font size in pixels, clamped to [10, 20].
func WithFontSize(px float64) Option {
	return func(o *options) { o.fontSize = px }
}

// WithColor sets the primary glyph color as a hex string.
func WithColor(hex string) Option {
	return func(o *options) { o.color = hex }
}

// WithBackground sets the background color as a hex string.
func WithBackground(hex string) Option {
	return func(o *options) { o.background = hex }
}

// WithEffect selects the initial effect. Unknown names use wave.
func WithEffect(name string) Option {
	return func(o *options) { o.effect = name }
}

// WithSpeed sets the initial speed, clamped to [0.25, 3].
func WithSpeed(v float64) Option {
	return func(o *options) { o.speed = v }
}

// WithIntensity sets the initial intensity, clamped to [0.1, 1].
func WithIntensity(v float64) Option {
	return func(o *options) { o.intensity = v }
}

// WithQuality sets the starting quality level instead of High.
func WithQuality(l quality.Level) Option {
	return func(o *options) { o.quality = &l }
}

// WithReducedMotion makes Start paint a single static frame.
func WithReducedMotion(on bool) Option {
	return func(o *options) { o.reducedMotion = on }
}

// WithTransitionDuration sets the effect crossfade length.
func WithTransitionDuration(d time.Duration) Option {
	return func(o *options) { o.transition = d }
}

// WithRand sets the randomness source.
func WithRand(r Rand) Option {
	return func(o *options) { o.rand = r }
}

// WithClock sets the wall clock.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithScheduler sets the frame scheduler. When the scheduler is also a
// Clock and no clock was given, it is used as the clock.
func WithScheduler(s Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

// WithListener attaches a host listener at construction.
func WithListener(l Listener) Option {
	return func(o *options) { o.listeners = append(o.listeners, l) }
}

// WithSize sets the initial surface size in pixels.
func WithSize(width, height int) Option {
	return func(o *options) { o.width, o.height = width, height }
}

// WithConfig applies every field of cfg.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.charset = cfg.Charset
		o.fontSize = cfg.FontSize
		o.color = cfg.Color
		o.background = cfg.Background
		o.effect = cfg.Effect
		o.speed = cfg.Speed
		o.intensity = cfg.Intensity
		o.reducedMotion = cfg.ReducedMotion
		if cfg.Transition > 0 {
			o.transition = cfg.Transition
		}
		if l, ok := cfg.QualityLevel(); ok {
			o.quality = &l
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
