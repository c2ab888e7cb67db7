package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/annel0/blockplay/internal/logging"
	"github.com/annel0/blockplay/internal/vec"
	"github.com/dgraph-io/badger/v3"
)

// Ключи BadgerDB: блоки текущего поколения block:<gen>:x:y:z и метаданные.
// meta:gen указывает на последнее полностью записанное поколение.
var (
	metaGenKey   = []byte("meta:gen")
	metaCountKey = []byte("meta:count")
)

// BadgerMapStore хранит карту блоков в BadgerDB: один ключ на блок.
// Каждое сохранение пишет новое поколение и только после этого удаляет старое.
type BadgerMapStore struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool
	logger  *logging.Logger
}

// NewBadgerMapStore открывает хранилище в каталоге dir.
// Пустой dir открывает базу в памяти.
func NewBadgerMapStore(dir string) (*BadgerMapStore, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	return &BadgerMapStore{
		db:      db,
		dbPath:  dir,
		isReady: true,
		logger:  logging.GetStorageLogger(),
	}, nil
}

// Close закрывает хранилище данных
func (s *BadgerMapStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isReady {
		return nil
	}

	s.isReady = false
	return s.db.Close()
}

func generationPrefix(gen uint64) []byte {
	return []byte(fmt.Sprintf("block:%d:", gen))
}

func blockKey(gen uint64, pos vec.Vec3) []byte {
	return []byte(fmt.Sprintf("block:%d:%d:%d:%d", gen, pos.X, pos.Y, pos.Z))
}

func parseBlockKey(key []byte) (vec.Vec3, error) {
	var (
		gen uint64
		pos vec.Vec3
	)
	if _, err := fmt.Sscanf(string(key), "block:%d:%d:%d:%d", &gen, &pos.X, &pos.Y, &pos.Z); err != nil {
		return pos, fmt.Errorf("%w: ключ %q: %v", ErrCorruptMap, key, err)
	}
	return pos, nil
}

func readUint(txn *badger.Txn, key []byte) (uint64, error) {
	item, err := txn.Get(key)
	if err != nil {
		return 0, err
	}
	var v uint64
	err = item.Value(func(val []byte) error {
		v, err = strconv.ParseUint(string(val), 10, 64)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrCorruptMap, key, err)
	}
	return v, nil
}

// currentGeneration возвращает последнее записанное поколение; ok=false, если карты ещё нет
func (s *BadgerMapStore) currentGeneration(txn *badger.Txn) (gen uint64, ok bool, err error) {
	gen, err = readUint(txn, metaGenKey)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return gen, true, nil
}

// SaveBlocks заменяет все сохранённые блоки новым набором.
// Блоки пишутся под новым поколением; переключение meta:gen - одна транзакция,
// поэтому сбой до него оставляет прежнюю карту целой.
func (s *BadgerMapStore) SaveBlocks(ctx context.Context, positions []vec.Vec3) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return fmt.Errorf("хранилище не готово")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var (
		oldGen uint64
		hasOld bool
	)
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		oldGen, hasOld, err = s.currentGeneration(txn)
		return err
	})
	if err != nil {
		return fmt.Errorf("ошибка чтения метаданных BadgerDB: %w", err)
	}
	newGen := oldGen + 1

	// Остатки прерванного сохранения под тем же поколением
	if err := s.db.DropPrefix(generationPrefix(newGen)); err != nil {
		return fmt.Errorf("ошибка очистки блоков: %w", err)
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, pos := range positions {
		if err := wb.Set(blockKey(newGen, pos), nil); err != nil {
			return fmt.Errorf("ошибка записи блока %s: %w", pos, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(metaGenKey, []byte(strconv.FormatUint(newGen, 10))); err != nil {
			return err
		}
		return txn.Set(metaCountKey, []byte(strconv.Itoa(len(positions))))
	})
	if err != nil {
		return fmt.Errorf("ошибка записи метаданных BadgerDB: %w", err)
	}

	if hasOld {
		if err := s.db.DropPrefix(generationPrefix(oldGen)); err != nil {
			// Новая карта уже действует, старое поколение только занимает место
			s.logger.Warn("Не удалось удалить поколение %d: %v", oldGen, err)
		}
	}

	s.logger.Debug("В BadgerDB сохранено %d блоков (поколение %d)", len(positions), newGen)
	return nil
}

// LoadBlocks читает блоки последнего сохранения.
// Если карта ещё не сохранялась, ошибка оборачивает os.ErrNotExist.
func (s *BadgerMapStore) LoadBlocks(ctx context.Context) ([]vec.Vec3, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return nil, fmt.Errorf("хранилище не готово")
	}

	var positions []vec.Vec3
	err := s.db.View(func(txn *badger.Txn) error {
		gen, ok, err := s.currentGeneration(txn)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("карта не сохранялась: %w", os.ErrNotExist)
		}
		count, err := readUint(txn, metaCountKey)
		if err != nil {
			return fmt.Errorf("%w: нет числа блоков: %v", ErrCorruptMap, err)
		}

		prefix := generationPrefix(gen)
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			pos, err := parseBlockKey(it.Item().Key())
			if err != nil {
				return err
			}
			positions = append(positions, pos)
		}

		if uint64(len(positions)) != count {
			return fmt.Errorf("%w: ожидалось %d блоков, найдено %d", ErrCorruptMap, count, len(positions))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	s.logger.Debug("Из BadgerDB прочитано %d блоков", len(positions))
	return positions, nil
}
