package quality

import (
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

const gib = 1 << 30

// Host describes the machine the renderer runs on.
type Host struct {
	LogicalCPUs int
	MemoryBytes uint64
	Arch        string
}

// IsARM reports whether the host is an ARM device.
func (h Host) IsARM() bool {
	return strings.HasPrefix(h.Arch, "arm")
}

// probes are variables so tests can replace them.
var (
	cpuCounts     = cpu.Counts
	virtualMemory = mem.VirtualMemory
)

// ProbeHost inspects the running machine. Probe failures leave the
// corresponding field zero.
func ProbeHost() Host {
	h := Host{Arch: runtime.GOARCH}
	if n, err := cpuCounts(true); err == nil {
		h.LogicalCPUs = n
	}
	if vm, err := virtualMemory(); err == nil && vm != nil {
		h.MemoryBytes = vm.Total
	}
	return h
}

// Recommend returns the starting level for the running machine.
func Recommend() Level {
	return RecommendFor(ProbeHost())
}

// RecommendFor picks a starting level from host capabilities. Unknown
// values are treated optimistically and yield Medium.
func RecommendFor(h Host) Level {
	cpus := h.LogicalCPUs
	memory := h.MemoryBytes

	switch {
	case cpus > 0 && cpus <= 2, memory > 0 && memory < 2*gib:
		return Low
	case h.IsARM(), cpus > 0 && cpus <= 4:
		return Medium
	case cpus >= 8 && memory >= 8*gib:
		return High
	default:
		return Medium
	}
}
