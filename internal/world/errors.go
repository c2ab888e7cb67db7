package world

import (
	"errors"
	"fmt"

	"github.com/annel0/blockplay/internal/vec"
)

var (
	// ErrBlockExists возвращается при попытке поставить блок в занятую клетку
	ErrBlockExists = errors.New("клетка уже занята блоком")

	// ErrNoStore возвращается при сохранении/загрузке карты без хранилища
	ErrNoStore = errors.New("хранилище карты не задано")
)

// LoadError описывает ошибку чтения карты высот или сохранённой карты блоков.
// Состояние мира при такой ошибке не меняется.
type LoadError struct {
	Source string // путь к файлу или имя хранилища
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("не удалось загрузить %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ParseError описывает некорректный токен в карте высот
type ParseError struct {
	Source string
	Line   int // номер строки, начиная с 1
	Token  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s:%d: некорректная высота %q: %v", e.Source, e.Line, e.Token, e.Err)
	}
	return fmt.Sprintf("строка %d: некорректная высота %q: %v", e.Line, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// BoundsError возвращается для позиции за пределами мира
type BoundsError struct {
	Pos    vec.Vec3
	Bounds Bounds
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("позиция %s вне границ мира %s", e.Pos, e.Bounds)
}
