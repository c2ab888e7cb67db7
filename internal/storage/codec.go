package storage

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/annel0/blockplay/internal/vec"
)

// MaxRecords ограничивает число записей в одном файле карты
const MaxRecords = 1 << 24

// ErrCorruptMap возвращается для обрезанного или некорректного потока записей
var ErrCorruptMap = errors.New("повреждённая карта блоков")

// WriteBlocks пишет список позиций: uint32 число записей, затем тройки int32 (little-endian).
// Позиция, не помещающаяся в int32, отклоняется до записи первого байта.
func WriteBlocks(w io.Writer, positions []vec.Vec3) error {
	if len(positions) > MaxRecords {
		return fmt.Errorf("%w: слишком много записей (%d)", ErrCorruptMap, len(positions))
	}
	for _, pos := range positions {
		if !fitsInt32(pos.X) || !fitsInt32(pos.Y) || !fitsInt32(pos.Z) {
			return fmt.Errorf("%w: позиция %s не помещается в int32", ErrCorruptMap, pos)
		}
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(positions))); err != nil {
		return err
	}

	var rec [3]int32
	for _, pos := range positions {
		rec[0], rec[1], rec[2] = int32(pos.X), int32(pos.Y), int32(pos.Z)
		if err := binary.Write(bw, binary.LittleEndian, rec); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func fitsInt32(v int) bool {
	return v >= math.MinInt32 && v <= math.MaxInt32
}

// ReadBlocks читает список позиций, записанный WriteBlocks
func ReadBlocks(r io.Reader) ([]vec.Vec3, error) {
	br := bufio.NewReader(r)

	var count uint32
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: нет заголовка: %v", ErrCorruptMap, err)
	}
	if count > MaxRecords {
		return nil, fmt.Errorf("%w: слишком много записей (%d)", ErrCorruptMap, count)
	}

	positions := make([]vec.Vec3, 0, count)
	var rec [3]int32
	for i := uint32(0); i < count; i++ {
		if err := binary.Read(br, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("%w: запись %d из %d: %v", ErrCorruptMap, i, count, err)
		}
		positions = append(positions, vec.Vec3{X: int(rec[0]), Y: int(rec[1]), Z: int(rec[2])})
	}
	return positions, nil
}
