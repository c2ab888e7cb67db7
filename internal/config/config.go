package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Player     PlayerConfig     `yaml:"player"`
	Platformer PlatformerConfig `yaml:"platformer"`
	Loop       LoopConfig       `yaml:"loop"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// Хранилища карты блоков
const (
	MapBackendFile   = "file"
	MapBackendBadger = "badger"
)

// Форматы описания уровня
const (
	LevelFormatBuiltin = "builtin"
	LevelFormatYAML    = "yaml"
	LevelFormatTMX     = "tmx"
)

type WorldConfig struct {
	LandPath    string `yaml:"land_path"`
	MapPath     string `yaml:"map_path"`
	MapBackend  string `yaml:"map_backend"`
	BadgerDir   string `yaml:"badger_dir"`
	CompressMap bool   `yaml:"compress_map"`
	MaxHeight   int    `yaml:"max_height"`
	Seed        int64  `yaml:"seed"`
}

type PlayerConfig struct {
	TurnDegree int `yaml:"turn_degree"`
	StartZ     int `yaml:"start_z"`
}

type PlatformerConfig struct {
	LevelPath    string `yaml:"level_path"`
	LevelFormat  string `yaml:"level_format"`
	Gravity      *int   `yaml:"gravity"` // если задано, заменяет гравитацию уровня
	MirrorOffset int    `yaml:"mirror_offset"`
	HeroStep     int    `yaml:"hero_step"`
	HeroJump     int    `yaml:"hero_jump"`
}

type LoopConfig struct {
	FPS           int  `yaml:"fps"`
	StopOnOutcome bool `yaml:"stop_on_outcome"`
	StatsEvery    int  `yaml:"stats_every_seconds"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Dir          string `yaml:"dir"`
	ConsoleLevel string `yaml:"console_level"`
	FileLevel    string `yaml:"file_level"`

	// Components задаёт консольный порог отдельных компонентов (world, storage, game...)
	Components map[string]string `yaml:"components"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		World: WorldConfig{
			LandPath:   "data/land.txt",
			MapPath:    "data/map.dat",
			MapBackend: MapBackendFile,
			BadgerDir:  "data/badger",
			MaxHeight:  256,
		},
		Player: PlayerConfig{
			TurnDegree: 5,
			StartZ:     2,
		},
		Platformer: PlatformerConfig{
			LevelFormat:  LevelFormatBuiltin,
			MirrorOffset: 0,
			HeroStep:     10,
			HeroJump:     15,
		},
		Loop: LoopConfig{
			FPS:        20,
			StatsEvery: 10,
		},
		Logging: LoggingConfig{
			ConsoleLevel: "INFO",
			FileLevel:    "DEBUG",
		},
	}
}

// Validate проверяет значения, которые нельзя исправить молча
func (c *Config) Validate() error {
	switch c.World.MapBackend {
	case "", MapBackendFile, MapBackendBadger:
	default:
		return fmt.Errorf("world.map_backend: неизвестное хранилище %q", c.World.MapBackend)
	}
	switch c.Platformer.LevelFormat {
	case "", LevelFormatBuiltin, LevelFormatYAML, LevelFormatTMX:
	default:
		return fmt.Errorf("platformer.level_format: неизвестный формат %q", c.Platformer.LevelFormat)
	}
	if c.Platformer.LevelFormat != "" && c.Platformer.LevelFormat != LevelFormatBuiltin && c.Platformer.LevelPath == "" {
		return fmt.Errorf("platformer.level_path обязателен для формата %q", c.Platformer.LevelFormat)
	}
	if c.World.MaxHeight < 0 {
		return fmt.Errorf("world.max_height не может быть отрицательным")
	}
	return nil
}

// GetFPS возвращает частоту кадров с приоритетом: config -> env -> default
func (l *LoopConfig) GetFPS() int {
	return getIntWithEnvFallback(l.FPS, "GAME_FPS", 20)
}

// GetAddr возвращает адрес /metrics; пустая строка отключает HTTP
func (m *MetricsConfig) GetAddr() string {
	return getStringWithEnvFallback(m.Addr, "GAME_METRICS_ADDR", "")
}

// GetMapPath возвращает путь к файлу карты блоков
func (w *WorldConfig) GetMapPath() string {
	return getStringWithEnvFallback(w.MapPath, "GAME_MAP_PATH", "data/map.dat")
}

// getIntWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getIntWithEnvFallback(configValue int, envVar string, defaultValue int) int {
	// Если значение задано в конфиге и больше 0, используем его
	if configValue > 0 {
		return configValue
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}

	// Используем дефолтное значение
	return defaultValue
}

func getStringWithEnvFallback(configValue, envVar, defaultValue string) string {
	if configValue != "" {
		return configValue
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		return envVal
	}
	return defaultValue
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV GAME_CONFIG, иначе возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("GAME_CONFIG")
		if path == "" {
			return cfg, nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}
