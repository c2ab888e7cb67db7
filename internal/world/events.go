package world

import (
	"github.com/annel0/blockplay/internal/vec"
	"github.com/annel0/blockplay/internal/world/block"
)

// EventType определяет тип события мира
type EventType uint8

const (
	EventTypeBlockPlaced  EventType = iota // Установка блока
	EventTypeBlockRemoved                  // Удаление блока
	EventTypeLandCleared                   // Мир очищен
	EventTypeLandLoaded                    // Загружена карта высот
	EventTypeMapSaved                      // Карта блоков сохранена
	EventTypeMapLoaded                     // Карта блоков загружена
)

// String возвращает имя типа события
func (t EventType) String() string {
	switch t {
	case EventTypeBlockPlaced:
		return "BlockPlaced"
	case EventTypeBlockRemoved:
		return "BlockRemoved"
	case EventTypeLandCleared:
		return "LandCleared"
	case EventTypeLandLoaded:
		return "LandLoaded"
	case EventTypeMapSaved:
		return "MapSaved"
	case EventTypeMapLoaded:
		return "MapLoaded"
	default:
		return "Unknown"
	}
}

// BlockEvent представляет событие, связанное с блоками мира
type BlockEvent struct {
	EventType EventType
	Position  vec.Vec3    // Позиция блока (для одиночных изменений)
	Color     block.Color // Цвет поставленного блока
	Count     int         // Число блоков после массовой операции
}

// Observer получает события мира. Вызывается синхронно из операций Land.
type Observer func(BlockEvent)
