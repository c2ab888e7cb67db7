package game

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/annel0/blockplay/internal/eventbus"
	"github.com/annel0/blockplay/internal/platformer"
	"github.com/annel0/blockplay/internal/storage"
	"github.com/annel0/blockplay/internal/vec"
	"github.com/annel0/blockplay/internal/world"
	"github.com/annel0/blockplay/internal/world/entity"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newWorldSession создаёт ровный мир 3x3 и игрока в его центре на z = 1
func newWorldSession(t *testing.T, opts ...SessionOption) *Session {
	t.Helper()

	land := world.NewLand(world.WithSeed(1))
	_, err := land.ApplyHeightMap(world.HeightMap{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}})
	require.NoError(t, err)

	player := entity.NewPlayer(vec.Vec3{X: 1, Y: 1, Z: 1}, land)
	return NewSession(append([]SessionOption{WithWorld(land, player)}, opts...)...)
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestParseCommand(t *testing.T) {
	for i := range commandNames {
		cmd := Command(i)
		got, err := ParseCommand(cmd.String())
		require.NoError(t, err)
		assert.Equal(t, cmd, got)
	}

	_, err := ParseCommand("fly")
	assert.Error(t, err)
	assert.Equal(t, "Command(200)", Command(200).String())
}

func TestSession_WorldCommands(t *testing.T) {
	s := newWorldSession(t)
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx, CmdForward))
	assert.Equal(t, vec.Vec3{X: 1, Y: 0, Z: 1}, s.Player().Position())

	require.NoError(t, s.Apply(ctx, CmdBack))
	assert.Equal(t, vec.Vec3{X: 1, Y: 1, Z: 1}, s.Player().Position())

	require.NoError(t, s.Apply(ctx, CmdTurnLeft))
	assert.Equal(t, entity.DefaultHeading+entity.DefaultTurnDegree, s.Player().Heading())
	require.NoError(t, s.Apply(ctx, CmdTurnRight))
	assert.Equal(t, entity.DefaultHeading, s.Player().Heading())

	before := s.Land().Len()
	require.NoError(t, s.Apply(ctx, CmdBuild))
	assert.Equal(t, before+1, s.Land().Len())
	assert.False(t, s.Land().IsEmpty(vec.Vec3{X: 1, Y: 0, Z: 1}))

	require.NoError(t, s.Apply(ctx, CmdDestroy))
	assert.Equal(t, before, s.Land().Len())

	require.NoError(t, s.Apply(ctx, CmdToggleCamera))
	assert.False(t, s.Player().CameraAttached())

	require.NoError(t, s.Apply(ctx, CmdToggleNoClip))
	require.NoError(t, s.Apply(ctx, CmdUp))
	assert.Equal(t, 2, s.Player().Position().Z)
	require.NoError(t, s.Apply(ctx, CmdDown))
	assert.Equal(t, 1, s.Player().Position().Z)
}

func TestSession_NoWorldOrLevel(t *testing.T) {
	s := NewSession()
	ctx := context.Background()

	assert.ErrorIs(t, s.Apply(ctx, CmdForward), ErrNoWorld)
	assert.ErrorIs(t, s.Apply(ctx, CmdSaveMap), ErrNoWorld)
	assert.ErrorIs(t, s.Apply(ctx, CmdHeroJump), ErrNoLevel)
	assert.Equal(t, platformer.Running, s.Outcome())

	frame := s.Step()
	assert.Equal(t, uint64(1), frame.Number)
	assert.Nil(t, frame.Player)
	assert.Empty(t, frame.Actors)
}

func TestSession_SaveLoadMap(t *testing.T) {
	store := storage.NewFileMapStore(filepath.Join(t.TempDir(), "map.dat"), true)
	s := newWorldSession(t)
	s.Land().SetStore(store)
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx, CmdBuild))
	built := s.Land().Len()
	require.NoError(t, s.Apply(ctx, CmdSaveMap))

	require.NoError(t, s.Apply(ctx, CmdDestroy))
	require.Equal(t, built-1, s.Land().Len())

	require.NoError(t, s.Apply(ctx, CmdLoadMap))
	assert.Equal(t, built, s.Land().Len())
	assert.False(t, s.Land().IsEmpty(vec.Vec3{X: 1, Y: 0, Z: 1}))
}

func TestSession_LoadMapWithoutStore(t *testing.T) {
	s := newWorldSession(t)
	assert.ErrorIs(t, s.Apply(context.Background(), CmdLoadMap), world.ErrNoStore)
}

func TestSession_CommandMetrics(t *testing.T) {
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	s := newWorldSession(t, WithMetrics(m))
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx, CmdToggleNoClip))
	require.NoError(t, s.Apply(ctx, CmdBuild))
	assert.ErrorIs(t, s.Apply(ctx, CmdBuild), world.ErrBlockExists, "клетка уже занята")

	assert.Equal(t, 2.0, counterValue(t, m.commands.WithLabelValues("build")))
	assert.Equal(t, 1.0, counterValue(t, m.commandErrors.WithLabelValues("build")))
	assert.Equal(t, 0.0, counterValue(t, m.commandErrors.WithLabelValues("noclip")))

	s.Step()
	s.Step()
	assert.Equal(t, 2.0, counterValue(t, m.frames))
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

type recorder struct {
	mu     sync.Mutex
	events []*eventbus.Envelope
}

func (r *recorder) handle(_ context.Context, ev *eventbus.Envelope) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.events))
	for i, ev := range r.events {
		types[i] = ev.EventType
	}
	return types
}

func TestSession_PublishesBlockEvents(t *testing.T) {
	bus := eventbus.NewMemoryBus(16)
	rec := &recorder{}
	_, err := bus.Subscribe(context.Background(), eventbus.Filter{Sources: []string{SourceWorld}}, rec.handle)
	require.NoError(t, err)

	s := newWorldSession(t, WithBus(bus))
	require.NoError(t, s.Apply(context.Background(), CmdBuild))
	bus.Close()

	require.Equal(t, []string{"BlockPlaced"}, rec.types())

	var payload BlockPayload
	require.NoError(t, rec.events[0].Decode(&payload))
	assert.Equal(t, vec.Vec3{X: 1, Y: 0, Z: 1}, payload.Position)
}

func TestSession_HeroCommands(t *testing.T) {
	s := NewSession(WithLevel(platformer.NewLabyrinth()), WithHero(platformer.LabyrinthStep, 0))
	hero := s.Level().Hero()
	start := hero.Rect.X
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx, CmdHeroRight))
	frame := s.Step()
	assert.Greater(t, hero.Rect.X, start)
	assert.Equal(t, platformer.Running, frame.Outcome)
	assert.Len(t, frame.Barriers, 8)

	require.NoError(t, s.Apply(ctx, CmdHeroStop))
	x := hero.Rect.X
	s.Step()
	assert.Equal(t, x, hero.Rect.X)

	assert.ErrorIs(t, s.Apply(ctx, CmdForward), ErrNoWorld)
}

func TestSession_HeroFirePublishesSpawn(t *testing.T) {
	bus := eventbus.NewMemoryBus(16)
	rec := &recorder{}
	_, err := bus.Subscribe(context.Background(), eventbus.Filter{Types: []string{EventActorSpawned}}, rec.handle)
	require.NoError(t, err)

	s := NewSession(WithLevel(platformer.NewLabyrinth()), WithBus(bus))
	actors := len(s.Level().Actors())

	require.NoError(t, s.Apply(context.Background(), CmdHeroFire))
	assert.Len(t, s.Level().Actors(), actors+1)
	bus.Close()

	assert.Equal(t, []string{EventActorSpawned}, rec.types())
}

func TestSession_PublishesOutcome(t *testing.T) {
	bus := eventbus.NewMemoryBus(16)
	rec := &recorder{}
	_, err := bus.Subscribe(context.Background(), eventbus.Filter{Types: []string{EventLevelOutcome}}, rec.handle)
	require.NoError(t, err)

	s := NewSession(WithLevel(platformer.NewLabyrinth()), WithBus(bus))
	hero := s.Level().Hero()
	hero.Rect.X, hero.Rect.Y = 330, 500

	frame := s.Step()
	assert.Equal(t, platformer.Lost, frame.Outcome)
	bus.Close()

	require.Len(t, rec.events, 1)
	var payload OutcomePayload
	require.NoError(t, rec.events[0].Decode(&payload))
	assert.Equal(t, platformer.Lost.String(), payload.Outcome)
	assert.Equal(t, uint64(1), payload.Frame)
}
