package physics

// Rect представляет прямоугольник, выровненный по осям (в пикселях).
// X, Y - левый верхний угол; W, H - ширина и высота.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect создаёт прямоугольник с указанными координатами и размерами
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Left возвращает координату левого края
func (r Rect) Left() int { return r.X }

// Right возвращает координату правого края
func (r Rect) Right() int { return r.X + r.W }

// Top возвращает координату верхнего края
func (r Rect) Top() int { return r.Y }

// Bottom возвращает координату нижнего края
func (r Rect) Bottom() int { return r.Y + r.H }

// CenterX возвращает координату центра по горизонтали
func (r Rect) CenterX() int { return r.X + r.W/2 }

// CenterY возвращает координату центра по вертикали
func (r Rect) CenterY() int { return r.Y + r.H/2 }

// SetRight сдвигает прямоугольник так, чтобы правый край оказался в x
func (r *Rect) SetRight(x int) { r.X = x - r.W }

// SetBottom сдвигает прямоугольник так, чтобы нижний край оказался в y
func (r *Rect) SetBottom(y int) { r.Y = y - r.H }

// Move возвращает прямоугольник, сдвинутый на (dx, dy)
func (r Rect) Move(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Overlaps проверяет пересечение двух прямоугольников.
// Касание краями пересечением не считается, пустой прямоугольник ни с чем не пересекается.
func (r Rect) Overlaps(other Rect) bool {
	if r.W <= 0 || r.H <= 0 || other.W <= 0 || other.H <= 0 {
		return false
	}
	return r.X < other.Right() &&
		other.X < r.Right() &&
		r.Y < other.Bottom() &&
		other.Y < r.Bottom()
}

// Contains проверяет, что other целиком лежит внутри r (края включительно)
func (r Rect) Contains(other Rect) bool {
	return other.X >= r.X &&
		other.Y >= r.Y &&
		other.Right() <= r.Right() &&
		other.Bottom() <= r.Bottom()
}

// ContainsPoint проверяет, находится ли точка внутри прямоугольника
func (r Rect) ContainsPoint(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// HorizontalOverlap возвращает ширину общего участка проекций на ось X (0, если нет)
func (r Rect) HorizontalOverlap(other Rect) int {
	left := max(r.X, other.X)
	right := min(r.Right(), other.Right())
	if right <= left {
		return 0
	}
	return right - left
}

// Union возвращает наименьший прямоугольник, содержащий r и other
func (r Rect) Union(other Rect) Rect {
	x, y := min(r.X, other.X), min(r.Y, other.Y)
	return NewRect(x, y, max(r.Right(), other.Right())-x, max(r.Bottom(), other.Bottom())-y)
}
