package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/gogpu/gridfx"
	"github.com/gogpu/gridfx/effect"
	"github.com/gogpu/gridfx/terminal"
)

const (
	speedStep     = 0.25
	intensityStep = 0.1
	intensityEase = 300 * time.Millisecond
)

var liveEffect string

func newLiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live",
		Short: "animate in the terminal",
		Long: `Live runs the animation in the terminal. Click to trigger explosions.

Keys:
  1-4    wave, matrix, pulse, glitch
  + -    speed
  [ ]    intensity
  space  skip the intro
  p      pause and resume
  q      quit`,
		RunE: runLive,
	}
	cmd.Flags().StringVar(&liveEffect, "effect", "", "effect override (wave, matrix, pulse, glitch)")
	return cmd
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if liveEffect != "" {
		cfg.Effect = liveEffect
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.EnableFocus()
	screen.HideCursor()

	painter, err := terminal.New(screen)
	if err != nil {
		return err
	}
	cols, rows := screen.Size()
	w, h := terminal.PixelSize(cols, rows, cfg.FontSize)

	sched := gridfx.NewTickerScheduler(0)
	opts := append(rendererOptions(cfg), gridfx.WithScheduler(sched), gridfx.WithSize(w, h))
	r, err := gridfx.New(painter, opts...)
	if err != nil {
		return err
	}
	defer r.Destroy()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := &liveController{r: r, fontSize: cfg.FontSize, cancel: cancel}
	c.resize(cols, rows)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			if err := sched.Post(ctx, func() { c.handle(ev) }); err != nil {
				return
			}
		}
	}()

	r.Start()
	if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// liveController maps terminal events onto renderer calls. It runs on the
// scheduler goroutine.
type liveController struct {
	r        *gridfx.Renderer
	fontSize float64
	cancel   context.CancelFunc

	cols, rows    int
	width, height int
	pressed       bool
	paused        bool
}

func (c *liveController) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		c.resize(ev.Size())
		c.r.NotifyResize(c.width, c.height)
	case *tcell.EventMouse:
		c.mouse(ev)
	case *tcell.EventFocus:
		if !c.paused {
			c.r.NotifyVisibility(ev.Focused)
		}
	case *tcell.EventKey:
		c.key(ev)
	}
}

func (c *liveController) resize(cols, rows int) {
	c.cols, c.rows = cols, rows
	c.width, c.height = terminal.PixelSize(cols, rows, c.fontSize)
}

func (c *liveController) mouse(ev *tcell.EventMouse) {
	if c.cols <= 0 || c.rows <= 0 {
		return
	}
	x, y := ev.Position()
	nx := (float64(x) + 0.5) / float64(c.cols)
	ny := (float64(y) + 0.5) / float64(c.rows)
	c.r.NotifyPointer(nx*float64(c.width), ny*float64(c.height))

	down := ev.Buttons()&tcell.Button1 != 0
	if down && !c.pressed {
		c.r.TriggerExplosion(nx, ny)
	}
	c.pressed = down
}

func (c *liveController) key(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		c.cancel()
		return
	case tcell.KeyRune:
	default:
		return
	}

	switch ev.Rune() {
	case 'q':
		c.cancel()
	case '1':
		c.r.SetEffect(effect.Wave.String())
	case '2':
		c.r.SetEffect(effect.Matrix.String())
	case '3':
		c.r.SetEffect(effect.Pulse.String())
	case '4':
		c.r.SetEffect(effect.Glitch.String())
	case '+', '=':
		c.r.SetSpeed(c.r.Speed() + speedStep)
	case '-':
		c.r.SetSpeed(c.r.Speed() - speedStep)
	case ']':
		c.r.SetIntensityAnimated(c.r.Intensity()+intensityStep, intensityEase)
	case '[':
		c.r.SetIntensityAnimated(c.r.Intensity()-intensityStep, intensityEase)
	case ' ':
		c.r.SkipIntro()
	case 'p':
		c.paused = !c.paused
		if c.paused {
			c.r.Pause()
		} else {
			c.r.NotifyVisibility(true)
		}
	}
}
