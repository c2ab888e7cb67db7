package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/annel0/blockplay/internal/eventbus"
	"github.com/annel0/blockplay/internal/logging"
	"github.com/annel0/blockplay/internal/platformer"
	"github.com/annel0/blockplay/internal/world"
	"github.com/annel0/blockplay/internal/world/entity"
)

var (
	// ErrNoWorld - команда мира блоков без загруженного мира
	ErrNoWorld = errors.New("мир блоков не загружен")
	// ErrNoLevel - команда платформера без уровня
	ErrNoLevel = errors.New("уровень не загружен")
)

// Значения по умолчанию для героя платформера
const (
	DefaultHeroStep = 10
	DefaultHeroJump = 15
)

// Session связывает мир блоков, игрока, уровень платформера, шину событий и метрики.
// Все методы вызываются из одного игрового цикла.
type Session struct {
	land     *world.Land
	player   *entity.Player
	level    *platformer.Level
	bus      eventbus.EventBus
	metrics  *Metrics
	logger   *logging.Logger
	heroStep int
	heroJump int
	frame    uint64
}

// SessionOption настраивает сессию
type SessionOption func(*Session)

// WithWorld подключает мир блоков и игрока
func WithWorld(land *world.Land, player *entity.Player) SessionOption {
	return func(s *Session) {
		s.land = land
		s.player = player
	}
}

// WithLevel подключает уровень платформера
func WithLevel(level *platformer.Level) SessionOption {
	return func(s *Session) { s.level = level }
}

// WithBus публикует события мира и уровня в шину
func WithBus(bus eventbus.EventBus) SessionOption {
	return func(s *Session) { s.bus = bus }
}

// WithMetrics подключает Prometheus-метрики
func WithMetrics(m *Metrics) SessionOption {
	return func(s *Session) { s.metrics = m }
}

// WithHero задаёт шаг и силу прыжка героя
func WithHero(step, jump int) SessionOption {
	return func(s *Session) {
		if step > 0 {
			s.heroStep = step
		}
		if jump > 0 {
			s.heroJump = jump
		}
	}
}

// NewSession создаёт сессию и подписывается на события мира и уровня
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		logger:   logging.GetGameLogger(),
		heroStep: DefaultHeroStep,
		heroJump: DefaultHeroJump,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.land != nil {
		s.land.SetObserver(s.onBlockEvent)
	}
	if s.level != nil {
		s.level.SetObserver(s.onLevelEvent)
	}
	return s
}

func (s *Session) Land() *world.Land        { return s.land }
func (s *Session) Player() *entity.Player   { return s.player }
func (s *Session) Level() *platformer.Level { return s.level }
func (s *Session) FrameNumber() uint64      { return s.frame }

// Outcome возвращает итог уровня (Running, если уровня нет)
func (s *Session) Outcome() platformer.Outcome {
	if s.level == nil {
		return platformer.Running
	}
	return s.level.Outcome()
}

// Apply применяет команду игрока
func (s *Session) Apply(ctx context.Context, cmd Command) error {
	err := s.apply(ctx, cmd)
	s.metrics.observeCommand(cmd, err)
	if err != nil {
		s.logger.Warn("Команда %s: %v", cmd, err)
	}
	return err
}

func (s *Session) apply(ctx context.Context, cmd Command) error {
	if cmd.isWorldCommand() {
		return s.applyWorld(ctx, cmd)
	}
	return s.applyHero(cmd)
}

func (s *Session) applyWorld(ctx context.Context, cmd Command) error {
	if s.land == nil || s.player == nil {
		return ErrNoWorld
	}
	p := s.player

	switch cmd {
	case CmdForward:
		p.Forward()
	case CmdBack:
		p.Back()
	case CmdLeft:
		p.Left()
	case CmdRight:
		p.Right()
	case CmdTurnLeft:
		p.TurnLeft()
	case CmdTurnRight:
		p.TurnRight()
	case CmdUp:
		p.Up()
	case CmdDown:
		p.Down()
	case CmdBuild:
		pos, placed, err := p.Build()
		if err != nil {
			return err
		}
		if placed {
			s.logger.Debug("Блок поставлен в %s", pos)
		}
	case CmdDestroy:
		if pos, removed := p.Destroy(); removed {
			s.logger.Debug("Блок удалён из %s", pos)
		}
	case CmdToggleNoClip:
		s.logger.Info("Режим прохода сквозь блоки: %v", p.ToggleNoClip())
	case CmdToggleCamera:
		s.logger.Info("Камера привязана к игроку: %v", p.ToggleCamera())
	case CmdSaveMap:
		return s.land.SaveMap(ctx)
	case CmdLoadMap:
		return s.land.LoadMap(ctx)
	default:
		return fmt.Errorf("неизвестная команда %s", cmd)
	}
	return nil
}

func (s *Session) applyHero(cmd Command) error {
	if s.level == nil {
		return ErrNoLevel
	}
	hero := s.level.Hero()
	if hero == nil || !hero.Alive() {
		return fmt.Errorf("%w: нет живого героя", ErrNoLevel)
	}

	switch cmd {
	case CmdHeroLeft:
		hero.MoveLeft(s.heroStep)
	case CmdHeroRight:
		hero.MoveRight(s.heroStep)
	case CmdHeroUp:
		hero.MoveUp(s.heroStep)
	case CmdHeroDown:
		hero.MoveDown(s.heroStep)
	case CmdHeroStop:
		hero.Stop()
	case CmdHeroJump:
		hero.Jump(s.heroJump)
	case CmdHeroFire:
		if _, err := s.level.Fire(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("неизвестная команда %s", cmd)
	}
	return nil
}

// Step выполняет один кадр: обновление уровня и снимок для отрисовки
func (s *Session) Step() Frame {
	start := time.Now()
	s.frame++

	actors := 0
	if s.level != nil {
		s.level.Update()
		actors = len(s.level.Actors())
	}
	blocks := 0
	if s.land != nil {
		blocks = s.land.Len()
	}

	s.metrics.observeFrame(time.Since(start).Seconds(), actors, blocks)
	return s.snapshot()
}
