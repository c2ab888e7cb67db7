package platformer

import (
	"fmt"

	"github.com/annel0/blockplay/internal/physics"
)

// Movement - вариант поведения персонажа
type Movement uint8

const (
	// MoveCharacter - персонаж с гравитацией, опорой на платформы и проверкой раздавливания
	MoveCharacter Movement = iota
	// MoveBouncer - постоянная скорость с отражением от краёв ареала
	MoveBouncer
	// MovePatrol - движение по одной оси между двумя координатами
	MovePatrol
	// MoveBullet - снаряд: летит по горизонтали, гибнет вне экрана или о стену
	MoveBullet
	// MoveWalker - вид сверху: движение в пределах экрана, стены отталкивают
	MoveWalker
)

var movementNames = map[Movement]string{
	MoveCharacter: "character",
	MoveBouncer:   "bouncer",
	MovePatrol:    "patrol",
	MoveBullet:    "bullet",
	MoveWalker:    "walker",
}

func (m Movement) String() string {
	if name, ok := movementNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Movement(%d)", m)
}

// ParseMovement разбирает имя поведения из описания уровня
func ParseMovement(s string) (Movement, error) {
	for m, name := range movementNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("неизвестное поведение %q", s)
}

// Axis - ось патрулирования
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

// Patrol описывает маршрут патрулирующего персонажа
type Patrol struct {
	Axis Axis
	Min  int
	Max  int
}

// Actor - персонаж уровня. Размеры прямоугольника не меняются за время жизни.
type Actor struct {
	ID       int
	Name     string
	Movement Movement
	Rect     physics.Rect
	VX       int
	VY       int
	// Direction - горизонтальное направление: 1 вправо, -1 влево
	Direction int
	// Area - ареал, за пределами которого персонаж гибнет или отражается
	Area  physics.Rect
	Heavy int
	DieX  bool
	DieY  bool
	// StandsOn - ID платформы-опоры или NoBarrier
	StandsOn int
	// Costume - базовый индекс картинки, смотрящей вправо
	Costume int
	// Step - шаг отскока от стены для MoveWalker
	Step    int
	Patrol  Patrol
	Hero    bool
	Hostile bool

	alive          bool
	oldDirection   int
	currentCostume int // Costume или его зеркальная копия
	XChanged       int
	YChanged       int
}

// NewActor создаёт живого персонажа. Направление берётся из знака скорости по X.
func NewActor(name string, movement Movement, rect physics.Rect, vx, vy int) *Actor {
	a := &Actor{
		Name:      name,
		Movement:  movement,
		Rect:      rect,
		VX:        vx,
		VY:        vy,
		Direction: 1,
		DieY:      true,
		StandsOn:  NoBarrier,
		alive:     true,
	}
	if vx < 0 {
		a.Direction = -1
	}
	return a
}

// Alive возвращает false после гибели персонажа
func (a *Actor) Alive() bool { return a.alive }

// Standing возвращает true, если персонаж стоит на платформе
func (a *Actor) Standing() bool { return a.StandsOn != NoBarrier }

// CostumeIndex возвращает индекс картинки с учётом направления взгляда
func (a *Actor) CostumeIndex() int { return a.currentCostume }

func (a *Actor) outside() bool { return !a.Area.Contains(a.Rect) }

func (a *Actor) changeDir() {
	a.VX = -a.VX
	a.Direction = -a.Direction
}

// updateCostume меняет картинку только при смене направления;
// вторая половина списка костюмов содержит зеркальные копии
func (a *Actor) updateCostume(mirrorOffset int) {
	if a.oldDirection != a.Direction {
		if a.Direction > 0 {
			a.currentCostume = a.Costume
		} else {
			a.currentCostume = a.Costume + mirrorOffset
		}
	}
	a.oldDirection = a.Direction
}

// MoveLeft задаёт движение влево с шагом step
func (a *Actor) MoveLeft(step int) {
	a.VX = -step
	a.Direction = -1
}

// MoveRight задаёт движение вправо с шагом step
func (a *Actor) MoveRight(step int) {
	a.VX = step
	a.Direction = 1
}

// MoveUp задаёт движение вверх (для вида сверху)
func (a *Actor) MoveUp(step int) { a.VY = -step }

// MoveDown задаёт движение вниз (для вида сверху)
func (a *Actor) MoveDown(step int) { a.VY = step }

// Stop останавливает горизонтальное движение; вид сверху останавливается полностью
func (a *Actor) Stop() {
	a.VX = 0
	if a.Movement == MoveWalker {
		a.VY = 0
	}
}

// Jump подбрасывает персонажа, только если он стоит на опоре
func (a *Actor) Jump(power int) bool {
	if !a.Standing() {
		return false
	}
	a.VY = -power
	return true
}
