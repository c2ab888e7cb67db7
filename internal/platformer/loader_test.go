package platformer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/annel0/blockplay/internal/physics"
	"github.com/lafriks/go-tiled"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLevelYAML = `
name: meadow
gravity: 2
visible: {x: 0, y: 0, w: 800, h: 600}
goal: {x: 700, y: 500, w: 40, h: 40}
mirror_offset: 4
bullet: {w: 8, h: 8, speed: 12}
barriers:
  - rect: {x: 0, y: 560, w: 800, h: 40}
  - rect: {x: 300, y: 400, w: 100, h: 20}
    velocity: {x: 2, y: 0}
    area: {x: 200, y: 0, w: 400, h: 600}
actors:
  - name: hero
    hero: true
    rect: {x: 10, y: 500, w: 30, h: 40}
  - name: slime
    movement: patrol
    hostile: true
    rect: {x: 500, y: 520, w: 30, h: 30}
    velocity: {x: 3}
    patrol: {axis: x, min: 450, max: 650}
    die_y: false
`

func TestDecodeLevelYAML(t *testing.T) {
	l, err := DecodeLevelYAML(strings.NewReader(sampleLevelYAML))
	require.NoError(t, err)

	assert.Equal(t, "meadow", l.Name)
	assert.Equal(t, 2, l.Gravity)
	assert.Equal(t, physics.NewRect(700, 500, 40, 40), l.Goal)
	assert.Equal(t, BulletSpec{W: 8, H: 8, Speed: 12}, l.Bullet)
	require.Len(t, l.Barriers(), 2)
	assert.Equal(t, 2, l.Barriers()[1].VX)

	require.Len(t, l.Actors(), 2)
	hero := l.Hero()
	require.NotNil(t, hero)
	assert.Equal(t, MoveCharacter, hero.Movement)
	assert.Equal(t, 2, hero.Heavy, "персонаж получает гравитацию уровня")
	assert.True(t, hero.DieY)
	assert.Equal(t, l.Visible, hero.Area)

	slime := l.Actors()[1]
	assert.Equal(t, MovePatrol, slime.Movement)
	assert.Equal(t, Patrol{Axis: AxisX, Min: 450, Max: 650}, slime.Patrol)
	assert.Equal(t, 0, slime.Heavy)
	assert.False(t, slime.DieY)
}

func TestDecodeLevelYAMLErrors(t *testing.T) {
	tests := map[string]string{
		"нет видимой области": `name: x`,
		"неизвестное поведение": `
visible: {w: 10, h: 10}
actors:
  - rect: {w: 1, h: 1}
    movement: teleport`,
		"патруль без маршрута": `
visible: {w: 10, h: 10}
actors:
  - rect: {w: 1, h: 1}
    movement: patrol`,
		"пустая платформа": `
visible: {w: 10, h: 10}
barriers:
  - rect: {x: 1}`,
		"некорректный YAML": `visible: [`,
	}

	for name, doc := range tests {
		_, err := DecodeLevelYAML(strings.NewReader(doc))
		assert.Error(t, err, name)
	}
}

func TestLoadLevelYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleLevelYAML), 0644))

	l, err := LoadLevelYAML(path)
	require.NoError(t, err)
	assert.Equal(t, "meadow", l.Name)

	_, err = LoadLevelYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

const sampleTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" tiledversion="1.10.2" orientation="orthogonal" renderorder="right-down" width="4" height="3" tilewidth="10" tileheight="10" infinite="0" nextlayerid="4" nextobjectid="4">
 <tileset firstgid="1" name="walls" tilewidth="10" tileheight="10" tilecount="1" columns="1">
  <image source="walls.png" width="10" height="10"/>
 </tileset>
 <layer id="1" name="barriers" width="4" height="3">
  <data encoding="csv">
0,0,0,0,
0,0,0,0,
1,1,0,1
</data>
 </layer>
 <objectgroup id="2" name="actors">
  <object id="1" name="hero" x="0" y="0" width="10" height="10">
   <properties>
    <property name="hero" type="bool" value="true"/>
    <property name="movement" value="character"/>
    <property name="heavy" type="int" value="3"/>
   </properties>
  </object>
  <object id="2" name="bat" x="20" y="0" width="5" height="5">
   <properties>
    <property name="movement" value="bouncer"/>
    <property name="hostile" type="bool" value="true"/>
    <property name="vx" type="int" value="-2"/>
   </properties>
  </object>
 </objectgroup>
 <objectgroup id="3" name="goal">
  <object id="3" x="30" y="10" width="10" height="10"/>
 </objectgroup>
</map>
`

func TestLoadLevelTMX(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "level.tmx"), []byte(sampleTMX), 0644))

	l, err := LoadLevelTMX(os.DirFS(dir), "level.tmx")
	require.NoError(t, err)

	assert.Equal(t, physics.NewRect(0, 0, 40, 30), l.Visible)
	assert.Equal(t, physics.NewRect(30, 10, 10, 10), l.Goal)

	require.Len(t, l.Barriers(), 2, "соседние клетки склеиваются в одну стену")
	assert.Equal(t, physics.NewRect(0, 20, 20, 10), l.Barriers()[0].Rect)
	assert.Equal(t, physics.NewRect(30, 20, 10, 10), l.Barriers()[1].Rect)

	require.Len(t, l.Actors(), 2)
	hero := l.Hero()
	require.NotNil(t, hero)
	assert.Equal(t, 3, hero.Heavy)

	bat := l.Actors()[1]
	assert.Equal(t, MoveBouncer, bat.Movement)
	assert.True(t, bat.Hostile)
	assert.Equal(t, -2, bat.VX)
	assert.Equal(t, -1, bat.Direction)
}

func TestLoadLevelTMXMissing(t *testing.T) {
	_, err := LoadLevelTMX(os.DirFS(t.TempDir()), "none.tmx")
	assert.Error(t, err)
}

func TestLevelFromTMXShortLayer(t *testing.T) {
	levelMap := &tiled.Map{
		Width: 4, Height: 3, TileWidth: 10, TileHeight: 10,
		Layers: []*tiled.Layer{{Name: TMXBarrierLayer}},
	}

	var l *Level
	var err error
	assert.NotPanics(t, func() { l, err = levelFromTMX("chunks.tmx", levelMap) })
	assert.Nil(t, l)
	assert.ErrorContains(t, err, TMXBarrierLayer)
}

func TestParseMovement(t *testing.T) {
	for m, name := range movementNames {
		got, err := ParseMovement(name)
		require.NoError(t, err)
		assert.Equal(t, m, got)
		assert.Equal(t, name, m.String())
	}
	_, err := ParseMovement("fly")
	assert.Error(t, err)
}

func TestLoadLevelYAML_SampleLevel(t *testing.T) {
	l, err := LoadLevelYAML("../../data/levels/meadow.yaml")
	require.NoError(t, err)

	assert.Equal(t, "meadow", l.Name)
	assert.Len(t, l.Barriers(), 6)
	require.NotNil(t, l.Hero())
	assert.Len(t, l.Actors(), 3)

	for i := 0; i < 50; i++ {
		l.Update()
	}
	assert.True(t, l.Hero().Alive(), "герой стоит на полу")
}
