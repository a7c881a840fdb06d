// Package sysmon reads host resource usage for the progress line. A
// loaded client machine skews results more often than the server under
// test does, so the numbers are worth keeping on screen.
package sysmon

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// Reading is one host resource sample. Ok reports whether the sample
// is usable.
type Reading struct {
	CPUPercent float64
	MemPercent float64
	Load1      float64
	Ok         bool
}

// Monitor samples host CPU and memory usage.
type Monitor struct{}

// New creates a monitor and primes the kernel CPU counters so the
// first real sample has an interval to measure against.
func New() *Monitor {
	cpu.Percent(0, false)
	return &Monitor{}
}

// Sample returns current host usage. Failures are soft: a sample that
// cannot be read comes back with Ok unset and the caller skips it.
func (m *Monitor) Sample() Reading {
	pcts, err := cpu.Percent(0, false)
	if err != nil || len(pcts) == 0 {
		return Reading{}
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return Reading{}
	}

	r := Reading{
		CPUPercent: pcts[0],
		MemPercent: vm.UsedPercent,
		Ok:         true,
	}
	if avg, err := load.Avg(); err == nil {
		r.Load1 = avg.Load1
	}
	return r
}
