package entity

import (
	"testing"

	"github.com/annel0/blockplay/internal/vec"
	"github.com/annel0/blockplay/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDir(t *testing.T) {
	tests := []struct {
		angle int
		want  vec.Vec2
	}{
		{0, vec.Vec2{X: 0, Y: -1}},
		{20, vec.Vec2{X: 0, Y: -1}},
		{21, vec.Vec2{X: 1, Y: -1}},
		{65, vec.Vec2{X: 1, Y: -1}},
		{90, vec.Vec2{X: 1, Y: 0}},
		{110, vec.Vec2{X: 1, Y: 0}},
		{155, vec.Vec2{X: 1, Y: 1}},
		{180, vec.Vec2{X: 0, Y: 1}},
		{200, vec.Vec2{X: 0, Y: 1}},
		{245, vec.Vec2{X: -1, Y: 1}},
		{270, vec.Vec2{X: -1, Y: 0}},
		{290, vec.Vec2{X: -1, Y: 0}},
		{335, vec.Vec2{X: -1, Y: -1}},
		{340, vec.Vec2{X: 0, Y: -1}},
		{359, vec.Vec2{X: 0, Y: -1}},
		{450, vec.Vec2{X: 1, Y: 0}},
		{-90, vec.Vec2{X: -1, Y: 0}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CheckDir(tt.angle), "угол %d", tt.angle)
	}
}

// flatLand создаёт мир 5x5 с плоской землёй высоты 0
func flatLand(t *testing.T) *world.Land {
	t.Helper()
	land := world.NewLand(world.WithSeed(1))
	hm := make(world.HeightMap, 5)
	for y := range hm {
		hm[y] = make([]int, 5)
	}
	_, err := land.ApplyHeightMap(hm)
	require.NoError(t, err)
	return land
}

func TestPlayer_Turn(t *testing.T) {
	p := NewPlayer(vec.Vec3{}, flatLand(t), WithHeading(0))

	p.TurnRight()
	assert.Equal(t, 355, p.Heading())
	p.TurnLeft()
	p.TurnLeft()
	assert.Equal(t, 5, p.Heading())

	p = NewPlayer(vec.Vec3{}, flatLand(t), WithHeading(0), WithTurnDegree(90))
	p.TurnLeft()
	assert.Equal(t, 90, p.Heading())
}

func TestPlayer_MoveOnFlatGround(t *testing.T) {
	land := flatLand(t)
	p := NewPlayer(vec.Vec3{X: 2, Y: 2, Z: 1}, land)

	// Взгляд 180: вперёд - угол 0, то есть Y - 1
	assert.Equal(t, vec.Vec3{X: 2, Y: 1, Z: 1}, p.Forward())
	assert.Equal(t, vec.Vec3{X: 2, Y: 2, Z: 1}, p.Back())
	// Влево - угол 90 (X + 1), вправо - угол 270 (X - 1)
	assert.Equal(t, vec.Vec3{X: 3, Y: 2, Z: 1}, p.Left())
	assert.Equal(t, vec.Vec3{X: 2, Y: 2, Z: 1}, p.Right())
}

func TestPlayer_StepUpAndFall(t *testing.T) {
	land := flatLand(t)
	require.NoError(t, land.AddBlock(vec.Vec3{X: 2, Y: 1, Z: 1}))
	p := NewPlayer(vec.Vec3{X: 2, Y: 2, Z: 1}, land)

	// Занятая клетка с пустотой сверху: забираемся
	assert.Equal(t, vec.Vec3{X: 2, Y: 1, Z: 2}, p.Forward())

	// Впереди пусто: падаем до вершины колонки
	assert.Equal(t, vec.Vec3{X: 2, Y: 0, Z: 1}, p.Forward())
}

func TestPlayer_BlockedByWall(t *testing.T) {
	land := flatLand(t)
	require.NoError(t, land.AddBlock(vec.Vec3{X: 2, Y: 1, Z: 1}))
	require.NoError(t, land.AddBlock(vec.Vec3{X: 2, Y: 1, Z: 2}))
	p := NewPlayer(vec.Vec3{X: 2, Y: 2, Z: 1}, land)

	assert.Equal(t, vec.Vec3{X: 2, Y: 2, Z: 1}, p.Forward(), "стена в два блока не пускает")
}

func TestPlayer_NoClip(t *testing.T) {
	land := flatLand(t)
	require.NoError(t, land.AddBlock(vec.Vec3{X: 2, Y: 1, Z: 1}))
	require.NoError(t, land.AddBlock(vec.Vec3{X: 2, Y: 1, Z: 2}))
	p := NewPlayer(vec.Vec3{X: 2, Y: 2, Z: 1}, land)

	assert.False(t, p.Up(), "без режима прохода вверх нельзя")
	assert.True(t, p.ToggleNoClip())

	assert.Equal(t, vec.Vec3{X: 2, Y: 1, Z: 1}, p.Forward(), "сквозь стену")
	assert.True(t, p.Up())
	assert.Equal(t, 2, p.Position().Z)
	assert.True(t, p.Down())
	assert.False(t, p.Down(), "ниже z = 1 опускаться нельзя")
	assert.Equal(t, 1, p.Position().Z)
}

func TestPlayer_BuildAndDestroy(t *testing.T) {
	land := flatLand(t)
	p := NewPlayer(vec.Vec3{X: 2, Y: 2, Z: 1}, land)
	front := vec.Vec3{X: 2, Y: 1, Z: 1}
	assert.Equal(t, front, p.Target())

	pos, placed, err := p.Build()
	require.NoError(t, err)
	assert.True(t, placed)
	assert.Equal(t, front, pos)

	pos, placed, err = p.Build()
	require.NoError(t, err)
	assert.True(t, placed)
	assert.Equal(t, front.Up(1), pos)

	// Вершина колонки на z = 3 > 1 + 1: не дотянуться
	_, placed, err = p.Build()
	require.NoError(t, err)
	assert.False(t, placed)

	removed, ok := p.Destroy()
	assert.True(t, ok)
	assert.Equal(t, front.Up(1), removed)
}

func TestPlayer_NoClipBuildIgnoresReach(t *testing.T) {
	land := flatLand(t)
	p := NewPlayer(vec.Vec3{X: 2, Y: 2, Z: 5}, land)
	p.ToggleNoClip()

	pos, placed, err := p.Build()
	require.NoError(t, err)
	assert.True(t, placed)
	assert.Equal(t, vec.Vec3{X: 2, Y: 1, Z: 5}, pos, "блок ставится ровно в клетку, без падения")

	_, _, err = p.Build()
	assert.ErrorIs(t, err, world.ErrBlockExists)

	removed, ok := p.Destroy()
	assert.True(t, ok)
	assert.Equal(t, pos, removed)
	assert.True(t, land.IsEmpty(pos))
}

func TestPlayer_CameraToggle(t *testing.T) {
	p := NewPlayer(vec.Vec3{}, flatLand(t))
	assert.True(t, p.CameraAttached())
	assert.False(t, p.ToggleCamera())
	assert.True(t, p.ToggleCamera())
}

func TestStartPosition(t *testing.T) {
	assert.Equal(t, vec.Vec3{X: 5, Y: 3, Z: 2}, StartPosition(vec.Vec2{X: 11, Y: 7}, DefaultStartZ))
}
