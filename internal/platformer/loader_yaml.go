package platformer

import (
	"fmt"
	"io"
	"os"

	"github.com/annel0/blockplay/internal/physics"
	"gopkg.in/yaml.v3"
)

// RectSpec - прямоугольник в описании уровня
type RectSpec struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

func (r RectSpec) rect() physics.Rect { return physics.NewRect(r.X, r.Y, r.W, r.H) }

// VelocitySpec - скорость в описании уровня
type VelocitySpec struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// BarrierSpec описывает стену или подвижную платформу
type BarrierSpec struct {
	Rect     RectSpec     `yaml:"rect"`
	Velocity VelocitySpec `yaml:"velocity"`
	Area     RectSpec     `yaml:"area"`
	Costume  int          `yaml:"costume"`
}

// PatrolSpec описывает маршрут патрулирования
type PatrolSpec struct {
	Axis string `yaml:"axis"`
	Min  int    `yaml:"min"`
	Max  int    `yaml:"max"`
}

// ActorSpec описывает персонажа
type ActorSpec struct {
	Name     string       `yaml:"name"`
	Movement string       `yaml:"movement"`
	Rect     RectSpec     `yaml:"rect"`
	Velocity VelocitySpec `yaml:"velocity"`
	Area     RectSpec     `yaml:"area"`
	Heavy    *int         `yaml:"heavy"`
	DieX     bool         `yaml:"die_x"`
	DieY     *bool        `yaml:"die_y"`
	Costume  int          `yaml:"costume"`
	Step     int          `yaml:"step"`
	Patrol   *PatrolSpec  `yaml:"patrol"`
	Hero     bool         `yaml:"hero"`
	Hostile  bool         `yaml:"hostile"`
}

// LevelSpec - описание уровня в YAML
type LevelSpec struct {
	Name         string        `yaml:"name"`
	Gravity      *int          `yaml:"gravity"`
	Visible      RectSpec      `yaml:"visible"`
	Goal         RectSpec      `yaml:"goal"`
	MirrorOffset int           `yaml:"mirror_offset"`
	Bullet       *BulletSpec   `yaml:"bullet"`
	Barriers     []BarrierSpec `yaml:"barriers"`
	Actors       []ActorSpec   `yaml:"actors"`
}

// LoadLevelYAML читает уровень из YAML-файла
func LoadLevelYAML(path string) (*Level, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть уровень %s: %w", path, err)
	}
	defer file.Close()

	level, err := DecodeLevelYAML(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return level, nil
}

// DecodeLevelYAML читает уровень из потока
func DecodeLevelYAML(r io.Reader) (*Level, error) {
	var spec LevelSpec
	if err := yaml.NewDecoder(r).Decode(&spec); err != nil {
		return nil, fmt.Errorf("ошибка разбора уровня: %w", err)
	}
	return spec.Build()
}

// Build создаёт уровень по описанию
func (s *LevelSpec) Build() (*Level, error) {
	visible := s.Visible.rect()
	if visible.W <= 0 || visible.H <= 0 {
		return nil, fmt.Errorf("уровень %q: не задана видимая область", s.Name)
	}

	level := NewLevel(s.Name, visible)
	if s.Gravity != nil {
		level.Gravity = *s.Gravity
	}
	level.Goal = s.Goal.rect()
	level.MirrorOffset = s.MirrorOffset
	if s.Bullet != nil {
		level.Bullet = *s.Bullet
	}

	for _, bs := range s.Barriers {
		if bs.Rect.W <= 0 || bs.Rect.H <= 0 {
			return nil, fmt.Errorf("уровень %q: платформа с пустым прямоугольником", s.Name)
		}
		level.AddBarrier(&Barrier{
			Rect:    bs.Rect.rect(),
			VX:      bs.Velocity.X,
			VY:      bs.Velocity.Y,
			Area:    bs.Area.rect(),
			Costume: bs.Costume,
		})
	}

	for i, as := range s.Actors {
		actor, err := as.build(level.Gravity)
		if err != nil {
			return nil, fmt.Errorf("уровень %q, персонаж %d: %w", s.Name, i, err)
		}
		level.AddActor(actor)
	}

	return level, nil
}

func (as ActorSpec) build(gravity int) (*Actor, error) {
	movement := MoveCharacter
	if as.Movement != "" {
		m, err := ParseMovement(as.Movement)
		if err != nil {
			return nil, err
		}
		movement = m
	}
	if as.Rect.W <= 0 || as.Rect.H <= 0 {
		return nil, fmt.Errorf("пустой прямоугольник")
	}

	a := NewActor(as.Name, movement, as.Rect.rect(), as.Velocity.X, as.Velocity.Y)
	a.Area = as.Area.rect()
	a.DieX = as.DieX
	if as.DieY != nil {
		a.DieY = *as.DieY
	}
	if movement == MoveCharacter {
		a.Heavy = gravity
	}
	if as.Heavy != nil {
		a.Heavy = *as.Heavy
	}
	a.Costume = as.Costume
	a.Step = as.Step
	a.Hero = as.Hero
	a.Hostile = as.Hostile

	if as.Patrol != nil {
		axis, err := parseAxis(as.Patrol.Axis)
		if err != nil {
			return nil, err
		}
		if as.Patrol.Min > as.Patrol.Max {
			return nil, fmt.Errorf("маршрут: min %d больше max %d", as.Patrol.Min, as.Patrol.Max)
		}
		a.Patrol = Patrol{Axis: axis, Min: as.Patrol.Min, Max: as.Patrol.Max}
	} else if movement == MovePatrol {
		return nil, fmt.Errorf("для патрулирования нужен маршрут")
	}

	return a, nil
}

func parseAxis(s string) (Axis, error) {
	switch s {
	case "x", "X":
		return AxisX, nil
	case "", "y", "Y":
		return AxisY, nil
	default:
		return 0, fmt.Errorf("неизвестная ось %q", s)
	}
}
