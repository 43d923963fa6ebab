package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/annel0/tileworld/internal/logging"
	"github.com/annel0/tileworld/internal/world"
	"github.com/annel0/tileworld/internal/world/block"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig возвращается при недопустимых значениях конфигурации
var ErrInvalidConfig = errors.New("invalid config")

// Переменные окружения
const (
	EnvConfigPath  = "TILEWORLD_CONFIG"
	EnvSeed        = "TILEWORLD_SEED"
	EnvMetricsAddr = "TILEWORLD_METRICS_ADDR"
)

// Config корневая структура конфигурации песочницы
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Game      GameConfig      `yaml:"game"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type WorldConfig struct {
	Seed        int64         `yaml:"seed"`
	ChunkRadius int           `yaml:"chunk_radius"`
	BaseBlock   string        `yaml:"base_block"`
	Surface     SurfaceConfig `yaml:"surface"`
	Stone       StoneConfig   `yaml:"stone"`
	Caves       CavesConfig   `yaml:"caves"`
	Border      bool          `yaml:"border"`
}

type SurfaceConfig struct {
	Length float64 `yaml:"length"`
	Height float64 `yaml:"height"`
	Offset int     `yaml:"offset"`
}

type StoneConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Depth     int     `yaml:"depth"`
	Amplitude float64 `yaml:"amplitude"`
	Period    float64 `yaml:"period"`
	Jitter    int     `yaml:"jitter"`
}

type CavesConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Scale     float64 `yaml:"scale"`
	Threshold float64 `yaml:"threshold"`
}

type PhysicsConfig struct {
	Gravity     float64 `yaml:"gravity"`
	MaxSpeed    float64 `yaml:"max_speed"`
	PlayerSpeed float64 `yaml:"player_speed"`
	JumpSpeed   float64 `yaml:"jump_speed"`
}

type GameConfig struct {
	Ticks        int     `yaml:"ticks"`
	TickRateHz   int     `yaml:"tick_rate_hz"`
	PickupRadius float64 `yaml:"pickup_radius"`
	Creative     bool    `yaml:"creative"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
	File  bool   `yaml:"file"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
	Endpoint    string `yaml:"endpoint"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	gen := world.DefaultGeneratorConfig()
	return &Config{
		World: WorldConfig{
			Seed:        0,
			ChunkRadius: 4,
			BaseBlock:   gen.BaseBlock.String(),
			Surface: SurfaceConfig{
				Length: gen.SurfaceLength,
				Height: gen.SurfaceHeight,
				Offset: gen.SurfaceOffset,
			},
			Stone: StoneConfig{
				Enabled:   gen.Stone.Enabled,
				Depth:     gen.Stone.Depth,
				Amplitude: gen.Stone.Amplitude,
				Period:    gen.Stone.Period,
				Jitter:    gen.Stone.Jitter,
			},
			Caves: CavesConfig{
				Enabled:   gen.Caves.Enabled,
				Scale:     gen.Caves.Scale,
				Threshold: gen.Caves.Threshold,
			},
			Border: gen.Border,
		},
		Physics: PhysicsConfig{
			Gravity:     512,
			MaxSpeed:    512,
			PlayerSpeed: 128,
			JumpSpeed:   256,
		},
		Game: GameConfig{
			Ticks:        600,
			TickRateHz:   60,
			PickupRadius: 12,
			Creative:     true,
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "logs",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "tileworld",
		},
	}
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", берётся путь из TILEWORLD_CONFIG; если и он пуст, используются дефолты.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения конфигурации %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("ошибка разбора конфигурации %s: %w", path, err)
		}
		logging.Info("Конфигурация загружена из %s", path)
	}

	cfg.World.Seed = getSeedWithEnvFallback(cfg.World.Seed, EnvSeed)
	cfg.Metrics.Addr = getStringWithEnvFallback(cfg.Metrics.Addr, EnvMetricsAddr, "")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getSeedWithEnvFallback возвращает сид с приоритетом: config -> env -> 0 (случайный)
func getSeedWithEnvFallback(configSeed int64, envVar string) int64 {
	if configSeed != 0 {
		return configSeed
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		if seed, err := strconv.ParseInt(envVal, 10, 64); err == nil {
			return seed
		}
		logging.Warn("Некорректный %s=%q, используется случайный сид", envVar, envVal)
	}
	return 0
}

// getStringWithEnvFallback возвращает строку с приоритетом: config -> env -> default
func getStringWithEnvFallback(configVal, envVar, defaultVal string) string {
	if configVal != "" {
		return configVal
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		return envVal
	}
	return defaultVal
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.World.ChunkRadius < 0 {
		return fmt.Errorf("%w: world.chunk_radius должен быть >= 0, получено %d", ErrInvalidConfig, c.World.ChunkRadius)
	}
	if c.World.Surface.Length <= 0 {
		return fmt.Errorf("%w: world.surface.length должен быть > 0", ErrInvalidConfig)
	}
	if c.World.Caves.Enabled && c.World.Caves.Scale <= 0 {
		return fmt.Errorf("%w: world.caves.scale должен быть > 0", ErrInvalidConfig)
	}
	if _, err := block.ParseName(c.World.BaseBlock); err != nil {
		return fmt.Errorf("%w: world.base_block: %v", ErrInvalidConfig, err)
	}
	if c.Physics.MaxSpeed <= 0 {
		return fmt.Errorf("%w: physics.max_speed должен быть > 0", ErrInvalidConfig)
	}
	if c.Game.TickRateHz <= 0 {
		return fmt.Errorf("%w: game.tick_rate_hz должен быть > 0", ErrInvalidConfig)
	}
	if c.Game.Ticks < 0 {
		return fmt.Errorf("%w: game.ticks должен быть >= 0", ErrInvalidConfig)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Generator переводит секцию world в параметры генератора
func (c *Config) Generator() world.GeneratorConfig {
	base, err := block.ParseName(c.World.BaseBlock)
	if err != nil {
		base = block.DirtBlockID
	}
	return world.GeneratorConfig{
		Seed:          c.World.Seed,
		BaseBlock:     base,
		SurfaceLength: c.World.Surface.Length,
		SurfaceHeight: c.World.Surface.Height,
		SurfaceOffset: c.World.Surface.Offset,
		Stone: world.StoneConfig{
			Enabled:   c.World.Stone.Enabled,
			Depth:     c.World.Stone.Depth,
			Amplitude: c.World.Stone.Amplitude,
			Period:    c.World.Stone.Period,
			Jitter:    c.World.Stone.Jitter,
		},
		Caves: world.CaveConfig{
			Enabled:   c.World.Caves.Enabled,
			Scale:     c.World.Caves.Scale,
			Threshold: c.World.Caves.Threshold,
		},
		Border: c.World.Border,
	}
}

// TickDuration возвращает длительность тика в секундах
func (c *Config) TickDuration() float64 {
	return 1.0 / float64(c.Game.TickRateHz)
}

// LogLevel возвращает разобранный уровень логирования
func (c *Config) LogLevel() logging.LogLevel {
	level, _ := logging.ParseLevel(c.Logging.Level)
	return level
}
