package game

import (
	"context"
	"time"

	"github.com/annel0/blockplay/internal/logging"
	"github.com/annel0/blockplay/internal/platformer"
)

// DefaultFPS - частота кадров по умолчанию
const DefaultFPS = 20

// Loop - игровой цикл с фиксированным шагом.
// Команды, пришедшие между кадрами, применяются в начале следующего кадра,
// и кадр целиком завершается до приёма новых команд.
type Loop struct {
	session       *Session
	fps           int
	stopOnOutcome bool
	maxFrames     uint64
	render        Renderer
	stats         *ProcessStats
	statsEvery    time.Duration
	logger        *logging.Logger
}

// LoopOption настраивает цикл
type LoopOption func(*Loop)

// WithFPS задаёт частоту кадров
func WithFPS(fps int) LoopOption {
	return func(l *Loop) {
		if fps > 0 {
			l.fps = fps
		}
	}
}

// WithRenderer задаёт получателя снимков кадров
func WithRenderer(r Renderer) LoopOption {
	return func(l *Loop) { l.render = r }
}

// StopOnOutcome останавливает цикл, когда уровень выигран или проигран
func StopOnOutcome() LoopOption {
	return func(l *Loop) { l.stopOnOutcome = true }
}

// WithMaxFrames ограничивает число кадров (0 - без ограничения)
func WithMaxFrames(n uint64) LoopOption {
	return func(l *Loop) { l.maxFrames = n }
}

// WithProcessStats периодически пишет в лог и метрики загрузку процесса
func WithProcessStats(stats *ProcessStats, every time.Duration) LoopOption {
	return func(l *Loop) {
		l.stats = stats
		l.statsEvery = every
	}
}

// NewLoop создаёт цикл для сессии
func NewLoop(session *Session, opts ...LoopOption) *Loop {
	l := &Loop{
		session: session,
		fps:     DefaultFPS,
		logger:  logging.GetGameLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run крутит цикл до отмены контекста, исчерпания кадров или завершения уровня.
// Закрытый канал команд цикл не останавливает.
func (l *Loop) Run(ctx context.Context, commands <-chan Command) error {
	ticker := time.NewTicker(time.Second / time.Duration(l.fps))
	defer ticker.Stop()

	var statsC <-chan time.Time
	if l.stats != nil && l.statsEvery > 0 {
		statsTicker := time.NewTicker(l.statsEvery)
		defer statsTicker.Stop()
		statsC = statsTicker.C
	}

	l.logger.Info("Игровой цикл запущен: %d FPS", l.fps)
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Игровой цикл остановлен на кадре %d", l.session.FrameNumber())
			return ctx.Err()
		case <-statsC:
			l.logStats()
		case <-ticker.C:
			commands = l.drain(ctx, commands)
			frame := l.session.Step()
			if l.render != nil {
				l.render(frame)
			}

			if l.stopOnOutcome && frame.Outcome != platformer.Running {
				l.logger.Info("Уровень завершён: %s", frame.Outcome)
				return nil
			}
			if l.maxFrames > 0 && frame.Number >= l.maxFrames {
				return nil
			}
		}
	}
}

// drain применяет все команды, накопившиеся с прошлого кадра.
// Возвращает nil вместо закрытого канала.
func (l *Loop) drain(ctx context.Context, commands <-chan Command) <-chan Command {
	for commands != nil {
		select {
		case cmd, ok := <-commands:
			if !ok {
				return nil
			}
			// Ошибка команды уже записана в лог и метрики, кадр продолжается
			_ = l.session.Apply(ctx, cmd)
		default:
			return commands
		}
	}
	return nil
}

func (l *Loop) logStats() {
	sample, err := l.stats.Sample()
	if err != nil {
		l.logger.Warn("Не удалось получить статистику процесса: %v", err)
		return
	}
	l.session.metrics.observeProcess(sample)
	l.logger.Info("Кадр %d: %s", l.session.FrameNumber(), sample)
}
