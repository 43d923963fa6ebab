package metrics

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcessStats статистика процесса песочницы
type ProcessStats struct {
	StartTime time.Time
	proc      *process.Process
}

// ProcessSnapshot снимок показателей процесса
type ProcessSnapshot struct {
	Uptime     time.Duration
	CPUPercent float64
	RSSMB      float64
	AllocMB    float64
	Goroutines int
	NumGC      uint32
}

// NewProcessStats создаёт статистику для текущего процесса
func NewProcessStats() *ProcessStats {
	ps := &ProcessStats{StartTime: time.Now()}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		ps.proc = proc
	}
	return ps
}

// GetUptime возвращает время работы в читаемом виде
func (ps *ProcessStats) GetUptime() string {
	return FormatUptime(time.Since(ps.StartTime))
}

// FormatUptime форматирует длительность как "1д 2ч 3м 4с"
func FormatUptime(uptime time.Duration) string {
	days := int(uptime.Hours()) / 24
	hours := int(uptime.Hours()) % 24
	minutes := int(uptime.Minutes()) % 60
	seconds := int(uptime.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dд %dч %dм %dс", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dч %dм %dс", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dм %dс", minutes, seconds)
	default:
		return fmt.Sprintf("%dс", seconds)
	}
}

// GetCPUUsage возвращает использование CPU процессом в процентах
func (ps *ProcessStats) GetCPUUsage() (float64, error) {
	if ps.proc != nil {
		if cpuPercent, err := ps.proc.CPUPercent(); err == nil {
			return cpuPercent, nil
		}
	}

	// Если не удалось получить метрику процесса, попробуем системную
	cpuPercents, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		return 0, err
	}
	if len(cpuPercents) == 0 {
		return 0, fmt.Errorf("нет данных о загрузке CPU")
	}
	return cpuPercents[0], nil
}

// GetRSS возвращает резидентную память процесса в MB
func (ps *ProcessStats) GetRSS() (float64, error) {
	if ps.proc == nil {
		return 0, fmt.Errorf("процесс недоступен")
	}
	info, err := ps.proc.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return float64(info.RSS) / 1024 / 1024, nil
}

// Snapshot собирает все показатели. Недоступные показатели остаются нулевыми.
func (ps *ProcessStats) Snapshot() ProcessSnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	snap := ProcessSnapshot{
		Uptime:     time.Since(ps.StartTime),
		AllocMB:    float64(m.Alloc) / 1024 / 1024,
		Goroutines: runtime.NumGoroutine(),
		NumGC:      m.NumGC,
	}
	if cpuPercent, err := ps.GetCPUUsage(); err == nil {
		snap.CPUPercent = cpuPercent
	}
	if rss, err := ps.GetRSS(); err == nil {
		snap.RSSMB = rss
	}
	return snap
}

// String форматирует снимок для отчёта
func (s ProcessSnapshot) String() string {
	return fmt.Sprintf("uptime %s, CPU %.1f%%, RSS %.1f MB, heap %.1f MB, goroutines %d, GC %d",
		FormatUptime(s.Uptime), s.CPUPercent, s.RSSMB, s.AllocMB, s.Goroutines, s.NumGC)
}
