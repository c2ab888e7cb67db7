package logging

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// levels - пороги консоли и файла одного компонента
type levels struct {
	console LogLevel
	file    LogLevel
}

// LoggerManager раздаёт логгеры компонентов и хранит их пороги.
// Порог, заданный до создания логгера, применяется при его создании.
type LoggerManager struct {
	mu        sync.Mutex
	loggers   map[string]*Logger
	overrides map[string]levels
}

var (
	globalManager *LoggerManager
	managerOnce   sync.Once
)

// GetLoggerManager возвращает глобальный менеджер логгеров
func GetLoggerManager() *LoggerManager {
	managerOnce.Do(func() {
		globalManager = newLoggerManager()
	})
	return globalManager
}

func newLoggerManager() *LoggerManager {
	return &LoggerManager{
		loggers:   make(map[string]*Logger),
		overrides: make(map[string]levels),
	}
}

// GetLogger возвращает логгер компонента, создавая его при первом обращении
func (lm *LoggerManager) GetLogger(component string) (*Logger, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if logger, exists := lm.loggers[component]; exists {
		return logger, nil
	}

	logger, err := NewLogger(component)
	if err != nil {
		return nil, fmt.Errorf("логгер %s: %w", component, err)
	}
	if lv, ok := lm.overrides[component]; ok {
		logger.setLevels(lv.console, lv.file)
	}
	lm.loggers[component] = logger
	return logger, nil
}

// MustGetLogger возвращает логгер или консольный fallback, если файл не открылся
func (lm *LoggerManager) MustGetLogger(component string) *Logger {
	logger, err := lm.GetLogger(component)
	if err == nil {
		return logger
	}

	defaultLogger.Warn("Файловый лог недоступен: %v", err)
	fallback := &Logger{
		component:       component,
		consoleLogger:   defaultLogger.consoleLogger,
		minConsoleLevel: INFO,
		minFileLevel:    ERROR,
	}

	lm.mu.Lock()
	if lv, ok := lm.overrides[component]; ok {
		fallback.setLevels(lv.console, lv.file)
	}
	lm.mu.Unlock()
	return fallback
}

// SetLogLevel задаёт пороги компонента: сразу для существующего логгера
// и при создании для ещё не созданного
func (lm *LoggerManager) SetLogLevel(component string, consoleLevel, fileLevel LogLevel) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	lm.overrides[component] = levels{console: consoleLevel, file: fileLevel}
	if logger, exists := lm.loggers[component]; exists {
		logger.setLevels(consoleLevel, fileLevel)
	}
}

// Components возвращает отсортированные имена созданных логгеров
func (lm *LoggerManager) Components() []string {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	names := make([]string, 0, len(lm.loggers))
	for name := range lm.loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CloseAll закрывает файлы всех логгеров и забывает их
func (lm *LoggerManager) CloseAll() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	var errs []error
	for _, logger := range lm.loggers {
		if err := logger.Close(); err != nil {
			errs = append(errs, fmt.Errorf("логгер %s: %w", logger.component, err))
		}
	}
	lm.loggers = make(map[string]*Logger)
	return errors.Join(errs...)
}

// Имена компонентов
const (
	ComponentWorld      = "world"
	ComponentStorage    = "storage"
	ComponentPlatformer = "platformer"
	ComponentGame       = "game"
	ComponentEvents     = "events"
)

func GetComponentLogger(component string) *Logger {
	return GetLoggerManager().MustGetLogger(component)
}

func GetWorldLogger() *Logger      { return GetComponentLogger(ComponentWorld) }
func GetStorageLogger() *Logger    { return GetComponentLogger(ComponentStorage) }
func GetPlatformerLogger() *Logger { return GetComponentLogger(ComponentPlatformer) }
func GetGameLogger() *Logger       { return GetComponentLogger(ComponentGame) }
