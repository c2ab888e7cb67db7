package world

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/annel0/blockplay/internal/vec"
)

// HeightMap - высоты колонок: HeightMap[y][x] = h означает блоки на z = 0..h
type HeightMap [][]int

// Extents возвращает размеры карты: ширину самой длинной строки и число строк
func (hm HeightMap) Extents() vec.Vec2 {
	width := 0
	for _, row := range hm {
		if len(row) > width {
			width = len(row)
		}
	}
	return vec.Vec2{X: width, Y: len(hm)}
}

// ParseHeightMap читает карту высот: строки через перевод строки,
// колонки через пробельные символы, каждый токен - неотрицательное целое.
// Пустые строки пропускаются.
func ParseHeightMap(r io.Reader) (HeightMap, error) {
	var hm HeightMap

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		row := make([]int, len(fields))
		for x, token := range fields {
			h, err := strconv.Atoi(token)
			if err != nil {
				return nil, &ParseError{Line: line, Token: token, Err: err}
			}
			if h < 0 {
				return nil, &ParseError{Line: line, Token: token, Err: errors.New("высота не может быть отрицательной")}
			}
			row[x] = h
		}
		hm = append(hm, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return hm, nil
}

// LoadLand создаёт карту земли из текстового файла и возвращает её размеры.
// Ошибка чтения - *LoadError, некорректный токен - *ParseError;
// в обоих случаях текущие блоки не меняются.
func (l *Land) LoadLand(path string) (vec.Vec2, error) {
	file, err := os.Open(path)
	if err != nil {
		return vec.Vec2{}, &LoadError{Source: path, Err: err}
	}
	defer file.Close()

	hm, err := ParseHeightMap(file)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Source = path
			return vec.Vec2{}, perr
		}
		return vec.Vec2{}, &LoadError{Source: path, Err: err}
	}

	extents, err := l.applyHeightMap(hm)
	if err != nil {
		return vec.Vec2{}, fmt.Errorf("%s: %w", path, err)
	}

	l.logger.Info("Карта высот %s загружена: %dx%d, %d блоков", path, extents.X, extents.Y, len(l.blocks))
	return extents, nil
}

// ApplyHeightMap заменяет мир блоками карты высот и возвращает её размеры
func (l *Land) ApplyHeightMap(hm HeightMap) (vec.Vec2, error) {
	return l.applyHeightMap(hm)
}

func (l *Land) applyHeightMap(hm HeightMap) (vec.Vec2, error) {
	extents := hm.Extents()
	bounds := Bounds{Width: extents.X, Depth: extents.Y, MaxHeight: l.bounds.MaxHeight}

	var positions []vec.Vec3
	for y, row := range hm {
		for x, h := range row {
			top := vec.Vec3{X: x, Y: y, Z: h}
			if !bounds.Contains(top) {
				return vec.Vec2{}, &BoundsError{Pos: top, Bounds: bounds}
			}
			for z := 0; z <= h; z++ {
				positions = append(positions, vec.Vec3{X: x, Y: y, Z: z})
			}
		}
	}

	l.bounds = bounds
	l.extents = extents
	l.replaceAll(positions)
	l.notify(BlockEvent{EventType: EventTypeLandLoaded, Count: len(l.blocks)})
	return extents, nil
}
