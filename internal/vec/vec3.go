package vec

import "fmt"

// Vec3 представляет позицию блока в мире: X, Y - колонка, Z - высота
type Vec3 struct {
	X int
	Y int
	Z int
}

// ToVec2 преобразует Vec3 в Vec2, игнорируя координату Z
func (v Vec3) ToVec2() Vec2 {
	return Vec2{
		X: v.X,
		Y: v.Y,
	}
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Up возвращает позицию на dz выше
func (v Vec3) Up(dz int) Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: v.Z + dz}
}

// Less задаёт порядок позиций: по Z, затем по Y, затем по X
func (v Vec3) Less(other Vec3) bool {
	if v.Z != other.Z {
		return v.Z < other.Z
	}
	if v.Y != other.Y {
		return v.Y < other.Y
	}
	return v.X < other.X
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z)
}
