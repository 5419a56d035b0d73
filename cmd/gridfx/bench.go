package main

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gdamore/tcell/v2"
	"github.com/guptarohit/asciigraph"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/spf13/cobra"

	"github.com/gogpu/gridfx"
	"github.com/gogpu/gridfx/backend"
	"github.com/gogpu/gridfx/gpu"
	"github.com/gogpu/gridfx/quality"
)

var (
	benchSize     string
	benchFrames   int
	benchQuality  string
	benchBackends []string
	benchExplode  int
	benchPlot     bool
)

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "measure frame cost per backend",
		Long: `Bench renders the same animation on each backend with a locked
quality level and reports wall time per frame. The gpu backend runs on a
headless no-op device, so its numbers cover vertex building and command
encoding only.`,
		RunE: runBench,
	}
	cmd.Flags().StringVar(&benchSize, "size", "1280x720", "surface size WxH")
	cmd.Flags().IntVar(&benchFrames, "frames", 300, "frames per backend")
	cmd.Flags().StringVar(&benchQuality, "quality", "high", "locked quality level")
	cmd.Flags().StringSliceVar(&benchBackends, "backend", nil, "backends to run (default: all registered)")
	cmd.Flags().IntVar(&benchExplode, "explode-every", 60, "trigger an explosion every N frames (0 disables)")
	cmd.Flags().BoolVar(&benchPlot, "plot", true, "plot frame times")
	return cmd
}

// benchResult is the outcome of one backend run.
type benchResult struct {
	name    string
	samples []float64 // milliseconds
	painted int
}

// frameStats summarizes frame times in milliseconds.
type frameStats struct {
	Mean, P50, P95, Max float64
}

func summarize(samples []float64) frameStats {
	if len(samples) == 0 {
		return frameStats{}
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return frameStats{
		Mean: sum / float64(len(sorted)),
		P50:  percentile(sorted, 0.50),
		P95:  percentile(sorted, 0.95),
		Max:  sorted[len(sorted)-1],
	}
}

// percentile uses the nearest-rank method on sorted data.
func percentile(sorted []float64, p float64) float64 {
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	return sorted[max(0, min(rank, len(sorted)-1))]
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	w, h, err := parseSize(benchSize)
	if err != nil {
		return err
	}
	level, err := quality.Parse(benchQuality)
	if err != nil {
		return err
	}
	names := benchBackends
	if len(names) == 0 {
		names = backend.Available()
	}

	var results []benchResult
	for _, name := range names {
		res, err := benchBackend(name, cfg, w, h, level)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: skipped: %v\n", name, err)
			continue
		}
		results = append(results, res)
	}
	if len(results) == 0 {
		return fmt.Errorf("no backend could run")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%dx%d, %d frames, quality %s, effect %s\n\n", w, h, benchFrames, level, cfg.Effect)
	fmt.Fprintln(out, resultTable(results))
	if benchPlot && benchFrames > 1 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, resultPlot(results))
	}
	return nil
}

// benchTarget builds the surfaces backend name needs. The returned func
// releases them.
func benchTarget(name string, fontSize float64, w, h int) (backend.Target, func(), error) {
	t := backend.Target{Width: w, Height: h}
	switch name {
	case backend.GPU:
		hl, err := gpu.OpenHeadless(noop.API{})
		if err != nil {
			return t, nil, err
		}
		t.Provider = hl
		return t, hl.Close, nil
	case backend.Terminal:
		s := tcell.NewSimulationScreen("UTF-8")
		if err := s.Init(); err != nil {
			return t, nil, err
		}
		s.SetSize(int(float64(w)/(fontSize*0.6)), int(float64(h)/fontSize))
		t.Screen = s
		return t, s.Fini, nil
	}
	return t, func() {}, nil
}

func benchBackend(name string, cfg *gridfx.Config, w, h int, level quality.Level) (benchResult, error) {
	res := benchResult{name: name}
	target, release, err := benchTarget(name, cfg.FontSize, w, h)
	if err != nil {
		return res, err
	}
	defer release()

	painter, opened, err := backend.Open(target, name)
	if err != nil {
		return res, err
	}
	opts := append(rendererOptions(cfg), gridfx.WithSize(w, h), gridfx.WithScheduler(gridfx.NewManualScheduler(time.Unix(0, 0))))
	r, err := gridfx.New(painter, opts...)
	if err != nil {
		_ = painter.Close()
		return res, err
	}
	defer r.Destroy()
	res.name = opened

	r.LockQuality(level)
	r.SkipIntro()
	step := level.Settings().FrameInterval
	now := time.Unix(0, 0)
	res.samples = make([]float64, 0, benchFrames)
	for i := 0; i < benchFrames; i++ {
		if benchExplode > 0 && i%benchExplode == 0 {
			r.TriggerExplosion(0.25+0.5*float64(i%(3*benchExplode))/float64(3*benchExplode), 0.5)
		}
		now = now.Add(step)
		start := time.Now()
		if r.Step(now) {
			res.painted++
		}
		res.samples = append(res.samples, float64(time.Since(start).Microseconds())/1000)
	}
	return res, nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
)

func resultTable(results []benchResult) string {
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		s := summarize(res.samples)
		fps := 0.0
		if s.Mean > 0 {
			fps = 1000 / s.Mean
		}
		rows = append(rows, []string{
			res.name,
			fmt.Sprint(res.painted),
			fmt.Sprintf("%.3f", s.Mean),
			fmt.Sprintf("%.3f", s.P50),
			fmt.Sprintf("%.3f", s.P95),
			fmt.Sprintf("%.3f", s.Max),
			fmt.Sprintf("%.0f", fps),
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("backend", "painted", "mean ms", "p50 ms", "p95 ms", "max ms", "max fps").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		}).
		String()
}

var seriesColors = []asciigraph.AnsiColor{asciigraph.Green, asciigraph.Cyan, asciigraph.Magenta, asciigraph.Yellow, asciigraph.Red}

func resultPlot(results []benchResult) string {
	data := make([][]float64, len(results))
	legends := make([]string, len(results))
	colors := make([]asciigraph.AnsiColor, len(results))
	for i, res := range results {
		data[i] = res.samples
		legends[i] = res.name
		colors[i] = seriesColors[i%len(seriesColors)]
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
		asciigraph.Caption("frame time (ms)"))
}
