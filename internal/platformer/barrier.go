package platformer

import "github.com/annel0/blockplay/internal/physics"

// NoBarrier - пустая ссылка на опору
const NoBarrier = -1

// Barrier - стена или платформа. Подвижная платформа отражается от краёв своего ареала.
type Barrier struct {
	ID   int
	Rect physics.Rect
	VX   int
	VY   int
	// Area ограничивает движение платформы; пустой прямоугольник - без ограничений
	Area physics.Rect
	// Смещение за последний кадр, его получают стоящие на платформе персонажи
	XChanged int
	YChanged int
	Costume  int
}

// Moving возвращает true для платформы с ненулевой скоростью
func (b *Barrier) Moving() bool { return b.VX != 0 || b.VY != 0 }

func (b *Barrier) outside() bool {
	if b.Area.W <= 0 || b.Area.H <= 0 {
		return false
	}
	return !b.Area.Contains(b.Rect)
}

// update сдвигает платформу сначала по X, затем по Y;
// выход за ареал отменяет сдвиг по оси и разворачивает её
func (b *Barrier) update() {
	b.Rect.X += b.VX
	b.XChanged = b.VX
	if b.outside() {
		b.Rect.X -= b.VX
		b.XChanged = 0
		b.VX = -b.VX
	}

	b.Rect.Y += b.VY
	b.YChanged = b.VY
	if b.outside() {
		b.Rect.Y -= b.VY
		b.YChanged = 0
		b.VY = -b.VY
	}
}
