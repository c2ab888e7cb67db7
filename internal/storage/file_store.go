package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/annel0/blockplay/internal/logging"
	"github.com/annel0/blockplay/internal/vec"
	"github.com/klauspost/compress/zstd"
)

// zstdMagic - первые байты кадра zstd
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// FileMapStore хранит карту блоков в одном файле.
// При сжатии поток записей упаковывается в zstd; при загрузке формат определяется по заголовку.
type FileMapStore struct {
	path     string
	compress bool
	logger   *logging.Logger
}

// NewFileMapStore создаёт файловое хранилище карты
func NewFileMapStore(path string, compress bool) *FileMapStore {
	return &FileMapStore{
		path:     path,
		compress: compress,
		logger:   logging.GetStorageLogger(),
	}
}

// Path возвращает путь к файлу карты
func (s *FileMapStore) Path() string { return s.path }

// SaveBlocks записывает позиции во временный файл и атомарно заменяет им файл карты
func (s *FileMapStore) SaveBlocks(ctx context.Context, positions []vec.Vec3) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := WriteBlocks(&buf, positions); err != nil {
		return err
	}

	data := buf.Bytes()
	if s.compress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return fmt.Errorf("не удалось создать zstd-кодер: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		enc.Close()
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("не удалось создать каталог карты: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("ошибка записи %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("ошибка замены %s: %w", s.path, err)
	}

	s.logger.Debug("Карта записана в %s: %d блоков, %d байт", s.path, len(positions), len(data))
	return nil
}

// LoadBlocks читает позиции из файла карты
func (s *FileMapStore) LoadBlocks(ctx context.Context) ([]vec.Vec3, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	if bytes.HasPrefix(data, zstdMagic) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("не удалось создать zstd-декодер: %w", err)
		}
		defer dec.Close()

		data, err = dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptMap, err)
		}
	}

	positions, err := ReadBlocks(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Карта прочитана из %s: %d блоков", s.path, len(positions))
	return positions, nil
}
