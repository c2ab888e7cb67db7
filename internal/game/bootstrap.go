package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/annel0/blockplay/internal/config"
	"github.com/annel0/blockplay/internal/eventbus"
	"github.com/annel0/blockplay/internal/platformer"
	"github.com/annel0/blockplay/internal/storage"
	"github.com/annel0/blockplay/internal/world"
	"github.com/annel0/blockplay/internal/world/entity"
	"github.com/prometheus/client_golang/prometheus"
)

// Resources - всё, что создаёт Bootstrap и что нужно закрыть после игры
type Resources struct {
	Session  *Session
	Bus      eventbus.EventBus
	Exporter *eventbus.MetricsExporter
	closers  []func() error
}

// Close освобождает ресурсы в обратном порядке создания
func (r *Resources) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewMapStore создаёт хранилище карты по конфигурации
func NewMapStore(cfg config.WorldConfig) (world.MapStore, func() error, error) {
	switch cfg.MapBackend {
	case config.MapBackendBadger:
		store, err := storage.NewBadgerMapStore(cfg.BadgerDir)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "", config.MapBackendFile:
		return storage.NewFileMapStore(cfg.GetMapPath(), cfg.CompressMap), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("неизвестное хранилище карты %q", cfg.MapBackend)
	}
}

// LoadLevel загружает уровень по конфигурации
func LoadLevel(cfg config.PlatformerConfig) (*platformer.Level, error) {
	var (
		level *platformer.Level
		err   error
	)
	switch cfg.LevelFormat {
	case "", config.LevelFormatBuiltin:
		level = platformer.NewLabyrinth()
	case config.LevelFormatYAML:
		level, err = platformer.LoadLevelYAML(cfg.LevelPath)
	case config.LevelFormatTMX:
		level, err = platformer.LoadLevelTMX(os.DirFS(filepath.Dir(cfg.LevelPath)), filepath.Base(cfg.LevelPath))
	default:
		err = fmt.Errorf("неизвестный формат уровня %q", cfg.LevelFormat)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Gravity != nil {
		level.Gravity = *cfg.Gravity
		for _, a := range level.Actors() {
			if a.Movement == platformer.MoveCharacter {
				a.Heavy = *cfg.Gravity
			}
		}
	}
	if cfg.MirrorOffset > 0 {
		level.MirrorOffset = cfg.MirrorOffset
	}
	return level, nil
}

// Bootstrap собирает сессию по конфигурации: мир из карты высот, хранилище карты,
// игрока в центре мира, уровень, шину событий и метрики в reg.
// Ошибка загрузки карты высот возвращается как *world.LoadError или *world.ParseError.
func Bootstrap(cfg *config.Config, reg prometheus.Registerer) (*Resources, error) {
	res := &Resources{}
	fail := func(err error) (*Resources, error) {
		res.Close()
		return nil, err
	}

	store, closeStore, err := NewMapStore(cfg.World)
	if err != nil {
		return fail(err)
	}
	res.closers = append(res.closers, closeStore)

	landOpts := []world.Option{world.WithStore(store), world.WithMaxHeight(cfg.World.MaxHeight)}
	if cfg.World.Seed != 0 {
		landOpts = append(landOpts, world.WithSeed(cfg.World.Seed))
	}
	land := world.NewLand(landOpts...)
	extents, err := land.LoadLand(cfg.World.LandPath)
	if err != nil {
		return fail(err)
	}

	startZ := cfg.Player.StartZ
	if startZ <= 0 {
		startZ = entity.DefaultStartZ
	}
	player := entity.NewPlayer(entity.StartPosition(extents, startZ), land, entity.WithTurnDegree(cfg.Player.TurnDegree))

	level, err := LoadLevel(cfg.Platformer)
	if err != nil {
		return fail(err)
	}

	metrics, err := NewMetrics(reg)
	if err != nil {
		return fail(err)
	}

	res.Bus = eventbus.NewMemoryBus(256)
	res.closers = append(res.closers, func() error { res.Bus.Close(); return nil })

	res.Exporter, err = eventbus.NewMetricsExporter(res.Bus, reg)
	if err != nil {
		return fail(err)
	}

	res.Session = NewSession(
		WithWorld(land, player),
		WithLevel(level),
		WithBus(res.Bus),
		WithMetrics(metrics),
		WithHero(cfg.Platformer.HeroStep, cfg.Platformer.HeroJump),
	)
	return res, nil
}
