package block

import (
	"fmt"
	"math/rand"
)

// Color представляет цвет блока в формате RGBA (компоненты 0..1)
type Color struct {
	R, G, B, A float64
}

func (c Color) String() string {
	return fmt.Sprintf("rgba(%.2f, %.2f, %.2f, %.2f)", c.R, c.G, c.B, c.A)
}

// Palette - фиксированный набор цветов, из которого выбираются цвета блоков
type Palette []Color

// DefaultPalette - палитра по умолчанию: синий, зелёный, красный, коричневый
var DefaultPalette = Palette{
	{R: 0.2, G: 0.2, B: 0.35, A: 1},
	{R: 0.2, G: 0.5, B: 0.2, A: 1},
	{R: 0.7, G: 0.2, B: 0.2, A: 1},
	{R: 0.5, G: 0.3, B: 0.0, A: 1},
}

// Pick возвращает равновероятно выбранный цвет палитры.
// Для пустой палитры возвращается непрозрачный белый.
func (p Palette) Pick(rng *rand.Rand) Color {
	if len(p) == 0 {
		return Color{R: 1, G: 1, B: 1, A: 1}
	}
	return p[rng.Intn(len(p))]
}

// Has проверяет, входит ли цвет в палитру
func (p Palette) Has(c Color) bool {
	for _, pc := range p {
		if pc == c {
			return true
		}
	}
	return false
}
