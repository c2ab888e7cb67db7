package platformer

import (
	"sort"

	"github.com/annel0/blockplay/internal/physics"
	"github.com/solarlune/resolv"
)

const (
	spaceCellSize = 32
	tagBarrier    = "barrier"
	tagQuery      = "query"
)

// barrierSpace - сетка resolv с платформами уровня для быстрого отбора соседей.
// Сетка отбирает кандидатов по клеткам, точное пересечение проверяет Rect.Overlaps.
type barrierSpace struct {
	space   *resolv.Space
	origin  physics.Rect // мировые координаты, покрытые сеткой
	objects map[*Barrier]*resolv.Object
	query   *resolv.Object
}

func newBarrierSpace() *barrierSpace {
	return &barrierSpace{objects: make(map[*Barrier]*resolv.Object)}
}

// invalidate сбрасывает сетку; она перестроится при следующей синхронизации
func (s *barrierSpace) invalidate() { s.space = nil }

// sync переносит текущие прямоугольники платформ в сетку.
// Если платформа вышла за покрытую область, сетка строится заново.
func (s *barrierSpace) sync(barriers []*Barrier) {
	if s.space != nil {
		for _, b := range barriers {
			if !s.origin.Contains(b.Rect) {
				s.space = nil
				break
			}
		}
	}
	if s.space == nil {
		s.rebuild(barriers)
		return
	}
	for _, b := range barriers {
		s.place(s.objects[b], b.Rect)
	}
}

func (s *barrierSpace) rebuild(barriers []*Barrier) {
	bounds := physics.NewRect(0, 0, 1, 1)
	for i, b := range barriers {
		if i == 0 {
			bounds = b.Rect
			continue
		}
		bounds = bounds.Union(b.Rect)
	}

	// Запас в клетку с каждой стороны
	cellsX := bounds.W/spaceCellSize + 3
	cellsY := bounds.H/spaceCellSize + 3
	s.origin = physics.NewRect(bounds.X-spaceCellSize, bounds.Y-spaceCellSize, cellsX*spaceCellSize, cellsY*spaceCellSize)
	s.space = resolv.NewSpace(s.origin.W, s.origin.H, spaceCellSize, spaceCellSize)
	s.objects = make(map[*Barrier]*resolv.Object, len(barriers))

	for _, b := range barriers {
		obj := resolv.NewObject(0, 0, 0, 0, tagBarrier)
		obj.Data = b
		s.space.Add(obj)
		s.objects[b] = obj
		s.place(obj, b.Rect)
	}

	s.query = resolv.NewObject(0, 0, 0, 0, tagQuery)
	s.space.Add(s.query)
}

func (s *barrierSpace) place(obj *resolv.Object, r physics.Rect) {
	obj.X = float64(r.X - s.origin.X)
	obj.Y = float64(r.Y - s.origin.Y)
	obj.W = float64(r.W)
	obj.H = float64(r.H)
	obj.Update()
}

// touching возвращает платформы, пересекающиеся с r, в порядке ID
func (s *barrierSpace) touching(r physics.Rect) []*Barrier {
	s.place(s.query, r)
	check := s.query.Check(0, 0, tagBarrier)
	if check == nil {
		return nil
	}

	var touched []*Barrier
	for _, obj := range check.ObjectsByTags(tagBarrier) {
		b, ok := obj.Data.(*Barrier)
		if ok && r.Overlaps(b.Rect) {
			touched = append(touched, b)
		}
	}
	sort.Slice(touched, func(i, j int) bool { return touched[i].ID < touched[j].ID })
	return touched
}
