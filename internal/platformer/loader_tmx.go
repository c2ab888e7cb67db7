package platformer

import (
	"fmt"
	"io/fs"
	"strconv"

	"github.com/lafriks/go-tiled"
)

// Имена слоёв TMX-карты
const (
	TMXBarrierLayer = "barriers"
	TMXActorsGroup  = "actors"
	TMXGoalGroup    = "goal"
	TMXPlatforms    = "platforms"
)

// LoadLevelTMX читает уровень из карты Tiled.
// Непустые клетки слоя "barriers" становятся стенами (соседние клетки строки склеиваются),
// объекты группы "platforms" - подвижными платформами, "actors" - персонажами, "goal" - целью.
// Гравитация уровня - по умолчанию, персонажам её можно переопределить свойством heavy.
// Параметры персонажей задаются свойствами объектов: movement, vx, vy, heavy, die_x, die_y,
// hero, hostile, step, costume, patrol_axis, patrol_min, patrol_max.
func LoadLevelTMX(fsys fs.FS, path string) (*Level, error) {
	levelMap, err := tiled.LoadFile(path, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", path, err)
	}
	return levelFromTMX(path, levelMap)
}

func levelFromTMX(path string, levelMap *tiled.Map) (*Level, error) {
	spec := LevelSpec{
		Name: path,
		Visible: RectSpec{
			W: levelMap.Width * levelMap.TileWidth,
			H: levelMap.Height * levelMap.TileHeight,
		},
	}

	for _, layer := range levelMap.Layers {
		if layer.Name != TMXBarrierLayer {
			continue
		}
		// Бесконечные карты хранят тайлы в чанках, и layer.Tiles остаётся пустым
		if len(layer.Tiles) < levelMap.Width*levelMap.Height {
			return nil, fmt.Errorf("TMX %s: слой %q содержит %d тайлов из %d (бесконечные карты не поддерживаются)",
				path, layer.Name, len(layer.Tiles), levelMap.Width*levelMap.Height)
		}
		for y := 0; y < levelMap.Height; y++ {
			runStart := -1
			for x := 0; x <= levelMap.Width; x++ {
				solid := x < levelMap.Width && !layer.Tiles[y*levelMap.Width+x].IsNil()
				if solid && runStart < 0 {
					runStart = x
				}
				if !solid && runStart >= 0 {
					spec.Barriers = append(spec.Barriers, BarrierSpec{Rect: RectSpec{
						X: runStart * levelMap.TileWidth,
						Y: y * levelMap.TileHeight,
						W: (x - runStart) * levelMap.TileWidth,
						H: levelMap.TileHeight,
					}})
					runStart = -1
				}
			}
		}
		break
	}

	for _, og := range levelMap.ObjectGroups {
		switch og.Name {
		case TMXGoalGroup:
			for _, o := range og.Objects {
				spec.Goal = objectRect(o)
			}
		case TMXPlatforms:
			for _, o := range og.Objects {
				spec.Barriers = append(spec.Barriers, BarrierSpec{
					Rect:     objectRect(o),
					Velocity: VelocitySpec{X: o.Properties.GetInt("vx"), Y: o.Properties.GetInt("vy")},
					Area: RectSpec{
						X: o.Properties.GetInt("area_x"),
						Y: o.Properties.GetInt("area_y"),
						W: o.Properties.GetInt("area_w"),
						H: o.Properties.GetInt("area_h"),
					},
				})
			}
		case TMXActorsGroup:
			for _, o := range og.Objects {
				actor, err := objectActor(o)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", path, err)
				}
				spec.Actors = append(spec.Actors, actor)
			}
		}
	}

	return spec.Build()
}

func objectRect(o *tiled.Object) RectSpec {
	return RectSpec{X: int(o.X), Y: int(o.Y), W: int(o.Width), H: int(o.Height)}
}

func objectActor(o *tiled.Object) (ActorSpec, error) {
	movement := o.Properties.GetString("movement")
	if movement == "" {
		movement = o.Class
	}

	as := ActorSpec{
		Name:     o.Name,
		Movement: movement,
		Rect:     objectRect(o),
		Velocity: VelocitySpec{X: o.Properties.GetInt("vx"), Y: o.Properties.GetInt("vy")},
		DieX:     propBool(o.Properties.GetString, "die_x", false),
		Costume:  o.Properties.GetInt("costume"),
		Step:     o.Properties.GetInt("step"),
		Hero:     propBool(o.Properties.GetString, "hero", false),
		Hostile:  propBool(o.Properties.GetString, "hostile", false),
	}
	if v := o.Properties.GetString("heavy"); v != "" {
		heavy, err := strconv.Atoi(v)
		if err != nil {
			return as, fmt.Errorf("объект %q: heavy: %w", o.Name, err)
		}
		as.Heavy = &heavy
	}
	if o.Properties.GetString("die_y") != "" {
		dieY := propBool(o.Properties.GetString, "die_y", true)
		as.DieY = &dieY
	}
	if axis := o.Properties.GetString("patrol_axis"); axis != "" {
		as.Patrol = &PatrolSpec{
			Axis: axis,
			Min:  o.Properties.GetInt("patrol_min"),
			Max:  o.Properties.GetInt("patrol_max"),
		}
	}
	return as, nil
}

func propBool(get func(string) string, name string, def bool) bool {
	v := get(name)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
