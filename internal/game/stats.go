package game

import (
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessSample - снимок ресурсов процесса
type ProcessSample struct {
	CPUPercent float64
	RSS        uint64
	Goroutines int
}

func (s ProcessSample) String() string {
	return fmt.Sprintf("cpu=%.1f%% rss=%.1fMB goroutines=%d", s.CPUPercent, float64(s.RSS)/(1<<20), s.Goroutines)
}

// ProcessStats читает загрузку текущего процесса
type ProcessStats struct {
	proc *process.Process
}

// NewProcessStats создаёт читатель статистики текущего процесса
func NewProcessStats() (*ProcessStats, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть процесс: %w", err)
	}
	return &ProcessStats{proc: proc}, nil
}

// Sample возвращает текущий снимок
func (s *ProcessStats) Sample() (ProcessSample, error) {
	cpu, err := s.proc.CPUPercent()
	if err != nil {
		return ProcessSample{}, err
	}
	mem, err := s.proc.MemoryInfo()
	if err != nil {
		return ProcessSample{}, err
	}
	return ProcessSample{
		CPUPercent: cpu,
		RSS:        mem.RSS,
		Goroutines: runtime.NumGoroutine(),
	}, nil
}
