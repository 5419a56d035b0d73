// Package quality implements the adaptive quality controller for the grid
// renderer.
//
// The controller keeps a rolling window of frame intervals and steps the
// quality level up or down one notch at a time with hysteresis: the gap
// between the downgrade and upgrade thresholds is a dead zone in which the
// level never changes.
package quality

import (
	"fmt"
	"strings"
	"time"
)

// Level is a discrete performance/fidelity tier.
type Level int

// Quality levels in ascending order of cost.
const (
	Low Level = iota
	Medium
	High
	Ultra
)

// Levels lists every level from lowest to highest.
var Levels = [...]Level{Low, Medium, High, Ultra}

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	case Ultra:
		return "ultra"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Valid reports whether l is one of the four defined levels.
func (l Level) Valid() bool {
	return l >= Low && l <= Ultra
}

// Settings returns the render-cost preset bound to l.
func (l Level) Settings() Settings {
	return presets[l.clamp()]
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("quality: invalid level %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	p, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = p
	return nil
}

// Parse converts a level name into a Level.
func Parse(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "low":
		return Low, nil
	case "medium":
		return Medium, nil
	case "high":
		return High, nil
	case "ultra":
		return Ultra, nil
	}
	return Medium, fmt.Errorf("quality: unknown level %q", name)
}

func (l Level) clamp() Level {
	if l < Low {
		return Low
	}
	if l > Ultra {
		return Ultra
	}
	return l
}

// Settings is the render-cost tuple consumed by the renderer.
type Settings struct {
	// CellSkip renders every Nth cell in both axes.
	CellSkip int

	// EffectsEnabled gates the expensive per-cell math: pointer ripples,
	// pointer rings and trail inversion.
	EffectsEnabled bool

	// FrameInterval is the minimum time between painted frames.
	FrameInterval time.Duration
}

var presets = [...]Settings{
	Low:    {CellSkip: 2, EffectsEnabled: false, FrameInterval: 50 * time.Millisecond},
	Medium: {CellSkip: 1, EffectsEnabled: true, FrameInterval: 33 * time.Millisecond},
	High:   {CellSkip: 1, EffectsEnabled: true, FrameInterval: 16 * time.Millisecond},
	Ultra:  {CellSkip: 1, EffectsEnabled: true, FrameInterval: 16 * time.Millisecond},
}

// Metrics is a read-only performance snapshot.
type Metrics struct {
	FPS       int     `json:"fps" yaml:"fps"`
	FrameTime float64 `json:"frameTime" yaml:"frameTime"` // milliseconds, two decimals
	Quality   Level   `json:"quality" yaml:"quality"`
}
