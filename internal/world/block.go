package world

import (
	"github.com/annel0/blockplay/internal/vec"
	"github.com/annel0/blockplay/internal/world/block"
)

// Block представляет собой блок в игровом мире: единичный куб в целочисленной позиции.
// Существование блока означает, что клетка твёрдая; цвет только косметический.
type Block struct {
	Pos   vec.Vec3
	Color block.Color
}
