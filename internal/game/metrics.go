package game

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics - Prometheus-метрики игрового цикла
type Metrics struct {
	tickDuration  prometheus.Histogram
	frames        prometheus.Counter
	liveActors    prometheus.Gauge
	blocks        prometheus.Gauge
	commands      *prometheus.CounterVec
	commandErrors *prometheus.CounterVec
	processRSS    prometheus.Gauge
	processCPU    prometheus.Gauge
}

// NewMetrics создаёт метрики и регистрирует их в reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "game",
			Name:      "tick_duration_seconds",
			Help:      "Длительность обновления одного кадра.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .025, .05, .1},
		}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "game",
			Name:      "frames_total",
			Help:      "Число выполненных кадров.",
		}),
		liveActors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "game",
			Name:      "live_actors",
			Help:      "Живые персонажи уровня.",
		}),
		blocks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "game",
			Name:      "blocks",
			Help:      "Блоки в мире.",
		}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "game",
			Name:      "commands_total",
			Help:      "Применённые команды игрока.",
		}, []string{"command"}),
		commandErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "game",
			Name:      "command_errors_total",
			Help:      "Команды, завершившиеся ошибкой.",
		}, []string{"command"}),
		processRSS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "game",
			Name:      "process_rss_bytes",
			Help:      "Резидентная память процесса.",
		}),
		processCPU: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "game",
			Name:      "process_cpu_percent",
			Help:      "Загрузка CPU процессом.",
		}),
	}

	collectors := []prometheus.Collector{
		m.tickDuration, m.frames, m.liveActors, m.blocks,
		m.commands, m.commandErrors, m.processRSS, m.processCPU,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeFrame(seconds float64, actors, blocks int) {
	if m == nil {
		return
	}
	m.tickDuration.Observe(seconds)
	m.frames.Inc()
	m.liveActors.Set(float64(actors))
	m.blocks.Set(float64(blocks))
}

func (m *Metrics) observeCommand(cmd Command, err error) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(cmd.String()).Inc()
	if err != nil {
		m.commandErrors.WithLabelValues(cmd.String()).Inc()
	}
}

func (m *Metrics) observeProcess(s ProcessSample) {
	if m == nil {
		return
	}
	m.processRSS.Set(float64(s.RSS))
	m.processCPU.Set(s.CPUPercent)
}
