package platformer

import (
	"fmt"

	"github.com/annel0/blockplay/internal/logging"
	"github.com/annel0/blockplay/internal/physics"
)

// DefaultGravity - ускорение свободного падения в пикселях за кадр
const DefaultGravity = 1

// BulletSpec описывает снаряды героя
type BulletSpec struct {
	W     int `yaml:"w"`
	H     int `yaml:"h"`
	Speed int `yaml:"speed"`
}

// Level - состояние уровня: платформы, персонажи, цель и параметры.
// Передаётся в обновление явно, не потокобезопасен.
type Level struct {
	Name         string
	Gravity      int
	Visible      physics.Rect
	Goal         physics.Rect
	MirrorOffset int
	Bullet       BulletSpec

	barriers []*Barrier
	actors   []*Actor
	hero     *Actor
	nextID   int
	outcome  Outcome
	frame    uint64
	observer Observer
	space    *barrierSpace
	logger   *logging.Logger
}

// NewLevel создаёт пустой уровень с видимой областью visible
func NewLevel(name string, visible physics.Rect) *Level {
	return &Level{
		Name:    name,
		Gravity: DefaultGravity,
		Visible: visible,
		Bullet:  BulletSpec{W: 10, H: 10, Speed: 15},
		space:   newBarrierSpace(),
		logger:  logging.GetPlatformerLogger(),
	}
}

// SetObserver подписывает наблюдателя на события уровня
func (l *Level) SetObserver(o Observer) { l.observer = o }

// AddBarrier добавляет платформу и возвращает её ID
func (l *Level) AddBarrier(b *Barrier) int {
	b.ID = l.newID()
	l.barriers = append(l.barriers, b)
	l.space.invalidate()
	return b.ID
}

// AddWall добавляет неподвижную стену
func (l *Level) AddWall(r physics.Rect) int {
	return l.AddBarrier(&Barrier{Rect: r})
}

// RemoveBarrier удаляет платформу; ссылки персонажей на неё сбрасываются при обновлении
func (l *Level) RemoveBarrier(id int) bool {
	for i, b := range l.barriers {
		if b.ID == id {
			l.barriers = append(l.barriers[:i], l.barriers[i+1:]...)
			l.space.invalidate()
			return true
		}
	}
	return false
}

// AddActor добавляет персонажа. Пустой ареал заменяется видимой областью.
func (l *Level) AddActor(a *Actor) int {
	a.ID = l.newID()
	a.alive = true
	if a.Area.W <= 0 || a.Area.H <= 0 {
		a.Area = l.Visible
	}
	if a.Hero && l.hero == nil {
		l.hero = a
	}
	a.updateCostume(l.MirrorOffset)
	l.actors = append(l.actors, a)
	l.emit(Event{Kind: EventActorSpawned, ActorID: a.ID, Name: a.Name})
	return a.ID
}

// Barrier возвращает платформу по ID
func (l *Level) Barrier(id int) (*Barrier, bool) {
	if id == NoBarrier {
		return nil, false
	}
	for _, b := range l.barriers {
		if b.ID == id {
			return b, true
		}
	}
	return nil, false
}

// Barriers возвращает платформы уровня
func (l *Level) Barriers() []*Barrier { return l.barriers }

// Actors возвращает живых персонажей
func (l *Level) Actors() []*Actor { return l.actors }

// Hero возвращает управляемого персонажа (может быть nil)
func (l *Level) Hero() *Actor { return l.hero }

// Outcome возвращает итог уровня
func (l *Level) Outcome() Outcome { return l.outcome }

// Frame возвращает число выполненных обновлений
func (l *Level) Frame() uint64 { return l.frame }

// Fire выпускает снаряд героя в направлении его взгляда
func (l *Level) Fire() (*Actor, error) {
	hero := l.hero
	if hero == nil || !hero.alive {
		return nil, fmt.Errorf("на уровне %q нет живого героя", l.Name)
	}
	if l.Bullet.W <= 0 || l.Bullet.H <= 0 {
		return nil, fmt.Errorf("на уровне %q не заданы снаряды", l.Name)
	}

	y := hero.Rect.CenterY() - l.Bullet.H/2
	x := hero.Rect.Left() - 10
	if hero.Direction > 0 {
		x = hero.Rect.Right() + 10 - l.Bullet.W
	}

	bullet := NewActor("bullet", MoveBullet, physics.NewRect(x, y, l.Bullet.W, l.Bullet.H), hero.Direction*l.Bullet.Speed, 0)
	bullet.DieX = true
	l.AddActor(bullet)
	return bullet, nil
}

// touching возвращает платформы, пересекающиеся с r
func (l *Level) touching(r physics.Rect) []*Barrier {
	if l.space.space == nil {
		l.space.sync(l.barriers)
	}
	return l.space.touching(r)
}

func (l *Level) kill(a *Actor, reason DeathReason) {
	if !a.alive {
		return
	}
	a.alive = false
	a.StandsOn = NoBarrier
	l.logger.Debug("Уровень %s, кадр %d: %s #%d погиб (%s)", l.Name, l.frame, a.Name, a.ID, reason)
	l.emit(Event{Kind: EventActorDied, ActorID: a.ID, Name: a.Name, Reason: reason})
}

func (l *Level) emit(ev Event) {
	if l.observer != nil {
		l.observer(ev)
	}
}

func (l *Level) newID() int {
	id := l.nextID
	l.nextID++
	return id
}
