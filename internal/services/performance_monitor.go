package services

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/sirupsen/logrus"
)

// OperationStats aggregates timings for one tracked operation.
type OperationStats struct {
	Count     int64   `json:"count"`
	TotalMs   float64 `json:"total_ms"`
	MinMs     float64 `json:"min_ms"`
	MaxMs     float64 `json:"max_ms"`
	AverageMs float64 `json:"average_ms"`
}

// SystemStats is a point-in-time resource snapshot of the process host.
type SystemStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  float64 `json:"memory_used_mb"`
	Goroutines    int     `json:"goroutines"`
}

// PerformanceReport combines operation timings with system resource usage.
type PerformanceReport struct {
	Operations map[string]OperationStats `json:"operations"`
	System     SystemStats               `json:"system"`
	Uptime     string                    `json:"uptime"`
}

// PerformanceMonitor records wall-clock durations per operation name.
type PerformanceMonitor struct {
	mu         sync.Mutex
	operations map[string]*OperationStats
	startedAt  time.Time
	logger     *logrus.Logger
}

// NewPerformanceMonitor creates an empty monitor.
func NewPerformanceMonitor(logger *logrus.Logger) *PerformanceMonitor {
	return &PerformanceMonitor{
		operations: make(map[string]*OperationStats),
		startedAt:  time.Now(),
		logger:     logger,
	}
}

// Track starts a timer for the named operation. The returned func records
// the elapsed time when called, usually via defer.
func (p *PerformanceMonitor) Track(operation string) func() {
	start := time.Now()
	return func() {
		p.record(operation, time.Since(start))
	}
}

func (p *PerformanceMonitor) record(operation string, elapsed time.Duration) {
	ms := float64(elapsed.Microseconds()) / 1000.0

	p.mu.Lock()
	defer p.mu.Unlock()

	stats, ok := p.operations[operation]
	if !ok {
		stats = &OperationStats{MinMs: ms, MaxMs: ms}
		p.operations[operation] = stats
	}
	stats.Count++
	stats.TotalMs += ms
	if ms < stats.MinMs {
		stats.MinMs = ms
	}
	if ms > stats.MaxMs {
		stats.MaxMs = ms
	}
	stats.AverageMs = stats.TotalMs / float64(stats.Count)
}

// Report snapshots the collected timings together with current CPU and
// memory usage.
func (p *PerformanceMonitor) Report(ctx context.Context) PerformanceReport {
	report := PerformanceReport{
		Operations: make(map[string]OperationStats),
		Uptime:     time.Since(p.startedAt).Round(time.Second).String(),
	}

	p.mu.Lock()
	for name, stats := range p.operations {
		report.Operations[name] = *stats
	}
	p.mu.Unlock()

	report.System.Goroutines = runtime.NumGoroutine()
	if percents, err := cpu.PercentWithContext(ctx, 100*time.Millisecond, false); err == nil && len(percents) > 0 {
		report.System.CPUPercent = percents[0]
	} else if err != nil {
		p.logger.WithError(err).Debug("CPU usage unavailable")
	}
	if memInfo, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		report.System.MemoryPercent = memInfo.UsedPercent
		report.System.MemoryUsedMB = float64(memInfo.Used) / 1024 / 1024
	} else {
		p.logger.WithError(err).Debug("Memory usage unavailable")
	}

	return report
}

// Reset discards all collected operation timings.
func (p *PerformanceMonitor) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.operations = make(map[string]*OperationStats)
	p.startedAt = time.Now()
}
