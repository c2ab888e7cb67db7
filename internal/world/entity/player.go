package entity

import (
	"github.com/annel0/blockplay/internal/vec"
)

const (
	// DefaultTurnDegree - шаг поворота игрока в градусах
	DefaultTurnDegree = 5
	// DefaultHeading - начальное направление взгляда
	DefaultHeading = 180
	// DefaultStartZ - начальная высота игрока
	DefaultStartZ = 2
)

// Terrain - операции мира блоков, которые нужны игроку
type Terrain interface {
	IsEmpty(pos vec.Vec3) bool
	FindHighestEmpty(pos vec.Vec3) vec.Vec3
	AddBlock(pos vec.Vec3) error
	DelBlock(pos vec.Vec3) bool
	BuildBlock(pos vec.Vec3) (vec.Vec3, bool, error)
	DelBlockFrom(pos vec.Vec3) (vec.Vec3, bool)
}

// Player - игрок в мире блоков.
// Позиция целочисленная, направление взгляда - угол в градусах [0, 360).
type Player struct {
	pos            vec.Vec3
	heading        int
	turnDegree     int
	noClip         bool
	cameraAttached bool
	land           Terrain
}

// PlayerOption настраивает игрока при создании
type PlayerOption func(*Player)

// WithTurnDegree задаёт шаг поворота
func WithTurnDegree(deg int) PlayerOption {
	return func(p *Player) {
		if deg > 0 {
			p.turnDegree = deg
		}
	}
}

// WithHeading задаёт начальное направление взгляда
func WithHeading(deg int) PlayerOption {
	return func(p *Player) { p.heading = normalizeAngle(deg) }
}

// NewPlayer создаёт игрока в позиции pos. Камера изначально привязана к игроку.
func NewPlayer(pos vec.Vec3, land Terrain, opts ...PlayerOption) *Player {
	p := &Player{
		pos:            pos,
		heading:        DefaultHeading,
		turnDegree:     DefaultTurnDegree,
		cameraAttached: true,
		land:           land,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// StartPosition возвращает стартовую позицию для мира с размерами extents
func StartPosition(extents vec.Vec2, z int) vec.Vec3 {
	return vec.Vec3{X: extents.X / 2, Y: extents.Y / 2, Z: z}
}

func (p *Player) Position() vec.Vec3   { return p.pos }
func (p *Player) Heading() int         { return p.heading }
func (p *Player) NoClip() bool         { return p.noClip }
func (p *Player) CameraAttached() bool { return p.cameraAttached }

// SetPosition телепортирует игрока без проверок
func (p *Player) SetPosition(pos vec.Vec3) { p.pos = pos }

// CheckDir переводит угол в шаг по одной из восьми сторон света.
// Угол 0 уменьшает Y, 90 увеличивает X, 180 увеличивает Y, 270 уменьшает X.
func CheckDir(angle int) vec.Vec2 {
	angle = normalizeAngle(angle)
	switch {
	case angle <= 20:
		return vec.Vec2{X: 0, Y: -1}
	case angle <= 65:
		return vec.Vec2{X: 1, Y: -1}
	case angle <= 110:
		return vec.Vec2{X: 1, Y: 0}
	case angle <= 155:
		return vec.Vec2{X: 1, Y: 1}
	case angle <= 200:
		return vec.Vec2{X: 0, Y: 1}
	case angle <= 245:
		return vec.Vec2{X: -1, Y: 1}
	case angle <= 290:
		return vec.Vec2{X: -1, Y: 0}
	case angle <= 335:
		return vec.Vec2{X: -1, Y: -1}
	default:
		return vec.Vec2{X: 0, Y: -1}
	}
}

// LookAt возвращает клетку, в которую игрок шагнёт в направлении angle (высота та же)
func (p *Player) LookAt(angle int) vec.Vec3 {
	step := CheckDir(angle)
	return vec.Vec3{X: p.pos.X + step.X, Y: p.pos.Y + step.Y, Z: p.pos.Z}
}

// TurnLeft поворачивает игрока против часовой стрелки
func (p *Player) TurnLeft() { p.heading = normalizeAngle(p.heading + p.turnDegree) }

// TurnRight поворачивает игрока по часовой стрелке
func (p *Player) TurnRight() { p.heading = normalizeAngle(p.heading - p.turnDegree) }

// Направления движения относительно взгляда
func (p *Player) forwardAngle() int { return normalizeAngle(p.heading + 180) }
func (p *Player) backAngle() int    { return normalizeAngle(p.heading) }
func (p *Player) leftAngle() int    { return normalizeAngle(p.heading + 270) }
func (p *Player) rightAngle() int   { return normalizeAngle(p.heading + 90) }

func (p *Player) Forward() vec.Vec3 { return p.MoveTo(p.forwardAngle()) }
func (p *Player) Back() vec.Vec3    { return p.MoveTo(p.backAngle()) }
func (p *Player) Left() vec.Vec3    { return p.MoveTo(p.leftAngle()) }
func (p *Player) Right() vec.Vec3   { return p.MoveTo(p.rightAngle()) }

// MoveTo делает шаг в направлении angle и возвращает новую позицию.
// В режиме прохода сквозь блоки шаг выполняется без проверок.
func (p *Player) MoveTo(angle int) vec.Vec3 {
	if p.noClip {
		p.pos = p.LookAt(angle)
		return p.pos
	}
	p.tryMove(angle)
	return p.pos
}

// tryMove: в свободную клетку игрок шагает и падает до вершины колонки,
// на занятую забирается, только если над ней свободно
func (p *Player) tryMove(angle int) {
	target := p.LookAt(angle)
	if p.land.IsEmpty(target) {
		p.pos = p.land.FindHighestEmpty(target)
		return
	}

	above := target.Up(1)
	if p.land.IsEmpty(above) {
		p.pos = above
	}
}

// Up поднимает игрока на клетку (только без столкновений)
func (p *Player) Up() bool {
	if !p.noClip {
		return false
	}
	p.pos = p.pos.Up(1)
	return true
}

// Down опускает игрока на клетку (только без столкновений и не ниже z = 1)
func (p *Player) Down() bool {
	if !p.noClip || p.pos.Z <= 1 {
		return false
	}
	p.pos = p.pos.Up(-1)
	return true
}

// ToggleNoClip переключает режим прохода сквозь блоки
func (p *Player) ToggleNoClip() bool {
	p.noClip = !p.noClip
	return p.noClip
}

// ToggleCamera переключает привязку камеры к игроку
func (p *Player) ToggleCamera() bool {
	p.cameraAttached = !p.cameraAttached
	return p.cameraAttached
}

// Target возвращает клетку перед игроком, с которой работают постройка и разрушение
func (p *Player) Target() vec.Vec3 { return p.LookAt(p.forwardAngle()) }

// Build ставит блок перед игроком. Без столкновений блок ставится ровно в клетку,
// иначе действует правило досягаемости мира.
func (p *Player) Build() (vec.Vec3, bool, error) {
	target := p.Target()
	if p.noClip {
		if err := p.land.AddBlock(target); err != nil {
			return target, false, err
		}
		return target, true, nil
	}
	return p.land.BuildBlock(target)
}

// Destroy удаляет блок перед игроком: без столкновений ровно в клетке,
// иначе верхний блок колонки
func (p *Player) Destroy() (vec.Vec3, bool) {
	target := p.Target()
	if p.noClip {
		return target, p.land.DelBlock(target)
	}
	return p.land.DelBlockFrom(target)
}

func normalizeAngle(angle int) int {
	angle %= 360
	if angle < 0 {
		angle += 360
	}
	return angle
}
