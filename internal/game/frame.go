package game

import (
	"github.com/annel0/blockplay/internal/physics"
	"github.com/annel0/blockplay/internal/platformer"
	"github.com/annel0/blockplay/internal/vec"
	"github.com/annel0/blockplay/internal/world"
)

// ActorView - персонаж для отрисовки
type ActorView struct {
	ID      int
	Name    string
	Rect    physics.Rect
	Costume int
	Hero    bool
}

// PlayerView - игрок мира блоков для отрисовки
type PlayerView struct {
	Pos            vec.Vec3
	Heading        int
	NoClip         bool
	CameraAttached bool
}

// Frame - снимок состояния после кадра. Отрисовка целиком на стороне получателя.
type Frame struct {
	Number   uint64
	Actors   []ActorView
	Barriers []physics.Rect
	Blocks   []world.Block
	Player   *PlayerView
	Outcome  platformer.Outcome
}

// Renderer получает снимок каждого кадра
type Renderer func(Frame)

func (s *Session) snapshot() Frame {
	f := Frame{Number: s.frame}

	if s.level != nil {
		for _, a := range s.level.Actors() {
			f.Actors = append(f.Actors, ActorView{
				ID:      a.ID,
				Name:    a.Name,
				Rect:    a.Rect,
				Costume: a.CostumeIndex(),
				Hero:    a.Hero,
			})
		}
		for _, b := range s.level.Barriers() {
			f.Barriers = append(f.Barriers, b.Rect)
		}
		f.Outcome = s.level.Outcome()
	}

	if s.land != nil {
		f.Blocks = s.land.Blocks()
	}

	if s.player != nil {
		f.Player = &PlayerView{
			Pos:            s.player.Position(),
			Heading:        s.player.Heading(),
			NoClip:         s.player.NoClip(),
			CameraAttached: s.player.CameraAttached(),
		}
	}
	return f
}
