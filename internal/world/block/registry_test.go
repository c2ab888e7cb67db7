package block

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPalettePick(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	seen := make(map[Color]int)

	for i := 0; i < 400; i++ {
		c := DefaultPalette.Pick(rng)
		assert.True(t, DefaultPalette.Has(c), "цвет %v должен быть из палитры", c)
		seen[c]++
	}

	assert.Len(t, seen, len(DefaultPalette), "за 400 выборок должны встретиться все цвета")
}

func TestEmptyPalette(t *testing.T) {
	c := Palette{}.Pick(rand.New(rand.NewSource(1)))
	assert.Equal(t, Color{R: 1, G: 1, B: 1, A: 1}, c)
}
