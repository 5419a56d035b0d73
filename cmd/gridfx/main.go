// Command gridfx renders procedural character-grid animations to PNG
// files or a terminal, and benchmarks the painting backends.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/gridfx"
)

var (
	configFile string
	preset     string
	logLevel   string
	seed       uint64
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gridfx",
		Short:         "procedural ASCII grid animations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "preset configuration ("+strings.Join(gridfx.Presets(), ", ")+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "off", "log level: off, debug, info, warn, error")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 1, "random seed")

	rootCmd.AddCommand(
		newRenderCmd(),
		newLiveCmd(),
		newBenchCmd(),
		newConfigCmd(),
		newASCIICmd(),
	)
	return rootCmd
}

// setupLogging routes the library logger to stderr.
func setupLogging(level string) error {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "", "off":
		return nil
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
	gridfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// loadConfig resolves --config and --preset. A preset overrides the file.
func loadConfig() (*gridfx.Config, error) {
	cfg := gridfx.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = gridfx.Load(configFile); err != nil {
			return nil, err
		}
	}
	if preset != "" {
		p := gridfx.Preset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %s)", preset, strings.Join(gridfx.Presets(), ", "))
		}
		cfg = p
	}
	return cfg, nil
}

// rendererOptions turns a config into renderer options.
func rendererOptions(cfg *gridfx.Config) []gridfx.Option {
	return []gridfx.Option{gridfx.WithConfig(*cfg), gridfx.WithRand(gridfx.NewSeededRand(seed))}
}

// parseSize parses "WxH".
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q, want WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("size %q must be positive", s)
	}
	return w, h, nil
}

// parsePoint parses "x,y" with normalized coordinates.
func parsePoint(s string) (float64, float64, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("invalid point %q, want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x in %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y in %q: %w", s, err)
	}
	return x, y, nil
}
