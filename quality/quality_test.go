package quality

import (
	"errors"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
)

// feed ticks the controller n times at a fixed interval.
func feed(c *Controller, start time.Time, n int, interval time.Duration) time.Time {
	now := start
	for i := 0; i < n; i++ {
		now = now.Add(interval)
		c.Tick(now)
	}
	return now
}

func TestCheckAndAdaptWaitsForFullWindow(t *testing.T) {
	c := NewController(Medium)
	start := time.Unix(0, 0)
	c.Tick(start)

	// One sample short of a full window at 10 fps.
	now := feed(c, start, DefaultWindow-1, 100*time.Millisecond)
	if got := c.CheckAndAdapt(); got != Medium {
		t.Fatalf("CheckAndAdapt() with partial window = %v, want %v", got, Medium)
	}

	feed(c, now, 1, 100*time.Millisecond)
	if got := c.CheckAndAdapt(); got != Low {
		t.Errorf("CheckAndAdapt() with slow full window = %v, want %v", got, Low)
	}
}

func TestHysteresis(t *testing.T) {
	tests := []struct {
		name     string
		start    Level
		interval time.Duration
		want     Level
	}{
		{"slow downgrades", High, 50 * time.Millisecond, Medium},
		{"slow stays at low", Low, 50 * time.Millisecond, Low},
		{"fast upgrades", Medium, 10 * time.Millisecond, High},
		{"fast stays at ultra", Ultra, 10 * time.Millisecond, Ultra},
		{"dead zone holds", High, 25 * time.Millisecond, High},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(tt.start)
			start := time.Unix(0, 0)
			c.Tick(start)
			feed(c, start, DefaultWindow, tt.interval)
			if got := c.CheckAndAdapt(); got != tt.want {
				t.Errorf("CheckAndAdapt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLevelNeverLeavesRange(t *testing.T) {
	c := NewController(Low)
	now := time.Unix(0, 0)
	c.Tick(now)
	for i := 0; i < 200; i++ {
		now = feed(c, now, 1, 200*time.Millisecond)
		if l := c.CheckAndAdapt(); !l.Valid() {
			t.Fatalf("level %v out of range", l)
		}
	}
	if c.Level() != Low {
		t.Errorf("Level() = %v, want %v", c.Level(), Low)
	}
	for i := 0; i < 200; i++ {
		now = feed(c, now, 1, time.Millisecond)
		if l := c.CheckAndAdapt(); !l.Valid() {
			t.Fatalf("level %v out of range", l)
		}
	}
	if c.Level() != Ultra {
		t.Errorf("Level() = %v, want %v", c.Level(), Ultra)
	}
}

func TestLockSuspendsAdaptation(t *testing.T) {
	c := NewController(High)
	c.Lock(Ultra)
	start := time.Unix(0, 0)
	c.Tick(start)
	now := feed(c, start, DefaultWindow, 100*time.Millisecond)
	if got := c.CheckAndAdapt(); got != Ultra {
		t.Fatalf("locked CheckAndAdapt() = %v, want %v", got, Ultra)
	}

	c.Unlock()
	if c.Locked() {
		t.Fatal("Locked() after Unlock = true")
	}
	if c.Full() {
		t.Fatal("window still full after Unlock")
	}
	feed(c, now, DefaultWindow, 100*time.Millisecond)
	if got := c.CheckAndAdapt(); got != High {
		t.Errorf("CheckAndAdapt() after unlock = %v, want %v", got, High)
	}
}

func TestMetrics(t *testing.T) {
	c := NewController(Medium)
	start := time.Unix(0, 0)
	c.Tick(start)
	m := c.Tick(start.Add(20 * time.Millisecond))
	if m.FPS != 50 {
		t.Errorf("FPS = %d, want 50", m.FPS)
	}
	if m.FrameTime != 20 {
		t.Errorf("FrameTime = %v, want 20", m.FrameTime)
	}
	if m.Quality != Medium {
		t.Errorf("Quality = %v, want %v", m.Quality, Medium)
	}
}

func TestReset(t *testing.T) {
	c := NewController(High)
	c.Lock(Low)
	c.Reset()
	if c.Level() != High || c.Locked() || c.Full() {
		t.Errorf("Reset() left level=%v locked=%v full=%v", c.Level(), c.Locked(), c.Full())
	}
}

func TestParseAndText(t *testing.T) {
	for _, l := range Levels {
		b, err := l.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", l, err)
		}
		var got Level
		if err := got.UnmarshalText(b); err != nil || got != l {
			t.Errorf("UnmarshalText(%q) = %v, %v; want %v", b, got, err, l)
		}
	}
	if _, err := Parse("extreme"); err == nil {
		t.Error("Parse(extreme) returned nil error")
	}
}

func TestSettingsPresets(t *testing.T) {
	if s := Low.Settings(); s.CellSkip != 2 || s.EffectsEnabled || s.FrameInterval != 50*time.Millisecond {
		t.Errorf("Low settings = %+v", s)
	}
	if s := Ultra.Settings(); s.CellSkip != 1 || !s.EffectsEnabled || s.FrameInterval != 16*time.Millisecond {
		t.Errorf("Ultra settings = %+v", s)
	}
}

func TestRecommendFor(t *testing.T) {
	tests := []struct {
		name string
		host Host
		want Level
	}{
		{"dual core", Host{LogicalCPUs: 2, MemoryBytes: 16 * gib, Arch: "amd64"}, Low},
		{"low memory", Host{LogicalCPUs: 8, MemoryBytes: gib, Arch: "amd64"}, Low},
		{"arm", Host{LogicalCPUs: 8, MemoryBytes: 16 * gib, Arch: "arm64"}, Medium},
		{"quad core", Host{LogicalCPUs: 4, MemoryBytes: 16 * gib, Arch: "amd64"}, Medium},
		{"workstation", Host{LogicalCPUs: 16, MemoryBytes: 32 * gib, Arch: "amd64"}, High},
		{"unknown", Host{}, Medium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RecommendFor(tt.host); got != tt.want {
				t.Errorf("RecommendFor(%+v) = %v, want %v", tt.host, got, tt.want)
			}
		})
	}
}

func TestProbeHostFailures(t *testing.T) {
	oldCPU, oldMem := cpuCounts, virtualMemory
	defer func() { cpuCounts, virtualMemory = oldCPU, oldMem }()

	cpuCounts = func(bool) (int, error) { return 0, errors.New("no cpu info") }
	virtualMemory = func() (*mem.VirtualMemoryStat, error) { return &mem.VirtualMemoryStat{Total: 4 * gib}, nil }

	h := ProbeHost()
	if h.LogicalCPUs != 0 || h.MemoryBytes != 4*gib {
		t.Errorf("ProbeHost() = %+v", h)
	}
}
