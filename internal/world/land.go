package world

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/annel0/blockplay/internal/logging"
	"github.com/annel0/blockplay/internal/vec"
	"github.com/annel0/blockplay/internal/world/block"
)

// DefaultMaxHeight - высота мира по умолчанию
const DefaultMaxHeight = 256

// Bounds задаёт границы мира. Нулевое значение поля означает отсутствие ограничения
// по этой оси; отрицательные координаты запрещены всегда.
type Bounds struct {
	Width     int // число колонок по X
	Depth     int // число колонок по Y
	MaxHeight int // первая недопустимая высота Z
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%dx%dx%d]", b.Width, b.Depth, b.MaxHeight)
}

// Contains проверяет, лежит ли позиция внутри границ
func (b Bounds) Contains(pos vec.Vec3) bool {
	if pos.X < 0 || pos.Y < 0 || pos.Z < 0 {
		return false
	}
	if b.Width > 0 && pos.X >= b.Width {
		return false
	}
	if b.Depth > 0 && pos.Y >= b.Depth {
		return false
	}
	if b.MaxHeight > 0 && pos.Z >= b.MaxHeight {
		return false
	}
	return true
}

// MapStore сохраняет и восстанавливает множество позиций блоков
type MapStore interface {
	SaveBlocks(ctx context.Context, positions []vec.Vec3) error
	LoadBlocks(ctx context.Context) ([]vec.Vec3, error)
}

// Land - хранилище блоков мира: множество занятых клеток с цветами.
// Не потокобезопасен: все изменения выполняются из одного цикла обновления.
type Land struct {
	blocks   map[vec.Vec3]block.Color
	palette  block.Palette
	rng      *rand.Rand
	bounds   Bounds
	extents  vec.Vec2
	store    MapStore
	observer Observer
	logger   *logging.Logger
}

// Option настраивает Land при создании
type Option func(*Land)

// WithPalette задаёт палитру цветов блоков
func WithPalette(p block.Palette) Option {
	return func(l *Land) { l.palette = p }
}

// WithSeed фиксирует генератор случайных цветов
func WithSeed(seed int64) Option {
	return func(l *Land) { l.rng = rand.New(rand.NewSource(seed)) }
}

// WithMaxHeight задаёт предельную высоту мира (0 - без ограничения)
func WithMaxHeight(h int) Option {
	return func(l *Land) { l.bounds.MaxHeight = h }
}

// WithStore задаёт хранилище для SaveMap/LoadMap
func WithStore(s MapStore) Option {
	return func(l *Land) { l.store = s }
}

// WithObserver подписывает наблюдателя на события мира
func WithObserver(o Observer) Option {
	return func(l *Land) { l.observer = o }
}

// NewLand создаёт пустой мир
func NewLand(opts ...Option) *Land {
	l := &Land{
		blocks:  make(map[vec.Vec3]block.Color),
		palette: block.DefaultPalette,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		bounds:  Bounds{MaxHeight: DefaultMaxHeight},
		logger:  logging.GetWorldLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetStore заменяет хранилище карты
func (l *Land) SetStore(s MapStore) { l.store = s }

// SetObserver заменяет наблюдателя событий
func (l *Land) SetObserver(o Observer) { l.observer = o }

// Bounds возвращает текущие границы мира
func (l *Land) Bounds() Bounds { return l.bounds }

// Extents возвращает размеры последней загруженной карты высот (ширина, глубина)
func (l *Land) Extents() vec.Vec2 { return l.extents }

// Len возвращает число блоков
func (l *Land) Len() int { return len(l.blocks) }

// IsEmpty возвращает true, если в позиции нет блока
func (l *Land) IsEmpty(pos vec.Vec3) bool {
	_, exists := l.blocks[pos]
	return !exists
}

// ColorAt возвращает цвет блока в позиции
func (l *Land) ColorAt(pos vec.Vec3) (block.Color, bool) {
	c, exists := l.blocks[pos]
	return c, exists
}

// FindHighestEmpty ищет первую свободную клетку колонки (x, y), начиная с z = 1.
// Z входной позиции игнорируется.
func (l *Land) FindHighestEmpty(pos vec.Vec3) vec.Vec3 {
	cell := vec.Vec3{X: pos.X, Y: pos.Y, Z: 1}
	for !l.IsEmpty(cell) {
		cell.Z++
	}
	return cell
}

// AddBlock ставит блок в позицию со случайным цветом из палитры.
// Занятая клетка не перезаписывается: возвращается ErrBlockExists.
func (l *Land) AddBlock(pos vec.Vec3) error {
	if !l.bounds.Contains(pos) {
		return &BoundsError{Pos: pos, Bounds: l.bounds}
	}
	if !l.IsEmpty(pos) {
		return fmt.Errorf("%s: %w", pos, ErrBlockExists)
	}

	color := l.palette.Pick(l.rng)
	l.blocks[pos] = color
	l.notify(BlockEvent{EventType: EventTypeBlockPlaced, Position: pos, Color: color, Count: len(l.blocks)})
	return nil
}

// DelBlock удаляет блок в позиции. Возвращает false, если клетка была пуста.
func (l *Land) DelBlock(pos vec.Vec3) bool {
	if l.IsEmpty(pos) {
		return false
	}
	delete(l.blocks, pos)
	l.notify(BlockEvent{EventType: EventTypeBlockRemoved, Position: pos, Count: len(l.blocks)})
	return true
}

// BuildBlock ставит блок с учётом гравитации: блок падает на вершину колонки,
// если она не выше чем на одну клетку над pos.Z. Иначе мир не меняется.
func (l *Land) BuildBlock(pos vec.Vec3) (vec.Vec3, bool, error) {
	target := l.FindHighestEmpty(pos)
	if target.Z > pos.Z+1 {
		return target, false, nil
	}
	if err := l.AddBlock(target); err != nil {
		return target, false, err
	}
	return target, true, nil
}

// DelBlockFrom удаляет верхний блок колонки (клетку под первой свободной)
func (l *Land) DelBlockFrom(pos vec.Vec3) (vec.Vec3, bool) {
	top := l.FindHighestEmpty(pos).Up(-1)
	return top, l.DelBlock(top)
}

// Clear удаляет все блоки
func (l *Land) Clear() {
	l.blocks = make(map[vec.Vec3]block.Color)
	l.notify(BlockEvent{EventType: EventTypeLandCleared})
}

// Positions возвращает отсортированные позиции всех блоков
func (l *Land) Positions() []vec.Vec3 {
	positions := make([]vec.Vec3, 0, len(l.blocks))
	for pos := range l.blocks {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].Less(positions[j]) })
	return positions
}

// Blocks возвращает снимок блоков для отрисовки
func (l *Land) Blocks() []Block {
	positions := l.Positions()
	result := make([]Block, len(positions))
	for i, pos := range positions {
		result[i] = Block{Pos: pos, Color: l.blocks[pos]}
	}
	return result
}

// replaceAll заменяет содержимое мира целиком, назначая блокам новые цвета.
// Дубликаты и позиции вне границ пропускаются; возвращает число пропущенных.
func (l *Land) replaceAll(positions []vec.Vec3) int {
	blocks := make(map[vec.Vec3]block.Color, len(positions))
	skipped := 0
	for _, pos := range positions {
		if _, dup := blocks[pos]; dup || !l.bounds.Contains(pos) {
			skipped++
			continue
		}
		blocks[pos] = l.palette.Pick(l.rng)
	}
	l.blocks = blocks
	return skipped
}

// SaveMap сохраняет все блоки, включая постройки, в хранилище
func (l *Land) SaveMap(ctx context.Context) error {
	if l.store == nil {
		return ErrNoStore
	}

	positions := l.Positions()
	if err := l.store.SaveBlocks(ctx, positions); err != nil {
		return fmt.Errorf("ошибка сохранения карты: %w", err)
	}

	l.logger.Info("Карта сохранена: %d блоков", len(positions))
	l.notify(BlockEvent{EventType: EventTypeMapSaved, Count: len(positions)})
	return nil
}

// LoadMap заменяет мир блоками из хранилища.
// При ошибке возвращается *LoadError, а текущие блоки остаются нетронутыми.
func (l *Land) LoadMap(ctx context.Context) error {
	if l.store == nil {
		return ErrNoStore
	}

	positions, err := l.store.LoadBlocks(ctx)
	if err != nil {
		return &LoadError{Source: fmt.Sprintf("%T", l.store), Err: err}
	}

	if skipped := l.replaceAll(positions); skipped > 0 {
		l.logger.Warn("При загрузке карты пропущено %d блоков (дубликаты или вне границ)", skipped)
	}

	l.logger.Info("Карта загружена: %d блоков", len(l.blocks))
	l.notify(BlockEvent{EventType: EventTypeMapLoaded, Count: len(l.blocks)})
	return nil
}

func (l *Land) notify(ev BlockEvent) {
	if l.observer != nil {
		l.observer(ev)
	}
}
