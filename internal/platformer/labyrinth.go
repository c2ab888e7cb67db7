package platformer

import "github.com/annel0/blockplay/internal/physics"

// Параметры встроенного уровня-лабиринта
const (
	LabyrinthWidth  = 960
	LabyrinthHeight = 720

	labyrinthPlayerSize     = 80
	labyrinthPlayerVelocity = 10
	labyrinthObstacleSize   = 75
	labyrinthObstacleSpeed  = 7
	labyrinthBulletSize     = 55
	labyrinthBulletSpeed    = 15
	labyrinthGoalSize       = 90
)

var labyrinthWalls = []physics.Rect{
	{X: 200, Y: 0, W: 60, H: 125},
	{X: 200, Y: 125, W: 400, H: 60},
	{X: 0, Y: 300, W: 300, H: 60},
	{X: 240, Y: 360, W: 60, H: 125},
	{X: 240, Y: 610, W: 60, H: 180},
	{X: 680, Y: 200, W: 60, H: 200},
	{X: 680, Y: 450, W: 60, H: 200},
	{X: 740, Y: 450, W: 150, H: 60},
}

// LabyrinthStep - шаг игрока лабиринта за кадр
const LabyrinthStep = labyrinthPlayerVelocity

// NewLabyrinth создаёт встроенный уровень-лабиринт: вид сверху, игрок стреляет влево,
// монстр патрулирует по вертикали между 340 и 640
func NewLabyrinth() *Level {
	l := NewLevel("labyrinth", physics.NewRect(0, 0, LabyrinthWidth, LabyrinthHeight))
	l.Gravity = 0
	l.Goal = physics.NewRect(30, 500, labyrinthGoalSize, labyrinthGoalSize)
	l.Bullet = BulletSpec{W: labyrinthBulletSize, H: labyrinthBulletSize, Speed: labyrinthBulletSpeed}

	for _, wall := range labyrinthWalls {
		l.AddWall(wall)
	}

	player := NewActor("player", MoveWalker, physics.NewRect(5, 100, labyrinthPlayerSize, labyrinthPlayerSize), 0, 0)
	player.Hero = true
	player.Direction = -1
	player.Step = labyrinthPlayerVelocity
	l.AddActor(player)

	monster := NewActor("obstacle", MovePatrol, physics.NewRect(325, 560, labyrinthObstacleSize, labyrinthObstacleSize), 0, labyrinthObstacleSpeed)
	monster.Hostile = true
	monster.Patrol = Patrol{Axis: AxisY, Min: 340, Max: LabyrinthHeight - 80}
	l.AddActor(monster)

	return l
}
