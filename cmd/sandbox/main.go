package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/tileworld/internal/config"
	"github.com/annel0/tileworld/internal/game"
	"github.com/annel0/tileworld/internal/logging"
	"github.com/annel0/tileworld/internal/metrics"
	"github.com/annel0/tileworld/internal/observability"
	"github.com/annel0/tileworld/internal/presentation"
	"github.com/annel0/tileworld/internal/world"
	_ "github.com/annel0/tileworld/internal/world/block/implementations"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации")
	ticks := flag.Int("ticks", -1, "число тиков (0 - до сигнала)")
	seed := flag.Int64("seed", 0, "сид мира (0 - из конфигурации)")
	fast := flag.Bool("fast", false, "не ждать реального времени между тиками")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}
	if *ticks >= 0 {
		cfg.Game.Ticks = *ticks
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}

	if err := initLogging(cfg); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer func() {
		if err := logging.GetLoggerManager().CloseAll(); err != nil {
			log.Printf("ошибка закрытия логов компонентов: %v", err)
		}
	}()

	logging.Info("🎮 Запуск песочницы tileworld...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.InitTelemetry(ctx, observability.Options{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: cfg.Telemetry.ServiceName,
		Endpoint:    cfg.Telemetry.Endpoint,
	})
	if err != nil {
		logging.Error("❌ Ошибка инициализации OpenTelemetry: %v", err)
		shutdownTelemetry = func(context.Context) error { return nil }
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logging.Warn("Ошибка остановки OpenTelemetry: %v", err)
		}
	}()

	// === МЕТРИКИ ===
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	worldMetrics := metrics.NewWorldMetrics(registry)
	if cfg.Metrics.Addr != "" {
		exporter := metrics.StartHTTP(cfg.Metrics.Addr, registry)
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := exporter.Stop(stopCtx); err != nil {
				logging.Warn("Ошибка остановки /metrics: %v", err)
			}
		}()
	}
	stats := metrics.NewProcessStats()

	// === МИР ===
	tracer := otel.Tracer("github.com/annel0/tileworld/cmd/sandbox")
	generator := world.NewWorldGenerator(cfg.Generator(), world.WithGeneratorTracer(tracer))
	storage, report := generator.Generate(ctx)
	logging.Info("🌍 Мир сгенерирован: сид %d, камень %d, пещеры %d, за %s",
		report.Seed, report.StoneCells, report.CaveCells, report.Duration)

	arena := presentation.NewArena()
	opts := game.Options{
		ChunkRadius:  cfg.World.ChunkRadius,
		PlayerSpeed:  cfg.Physics.PlayerSpeed,
		JumpSpeed:    cfg.Physics.JumpSpeed,
		PickupRadius: cfg.Game.PickupRadius,
		Creative:     cfg.Game.Creative,
		Gravity:      cfg.Physics.Gravity,
		MaxSpeed:     cfg.Physics.MaxSpeed,
	}
	spawn := game.SpawnAboveSurface(storage, world.WorldBlockSize.X/2)
	session := game.NewSession(storage, arena, spawn, opts, game.WithMetrics(worldMetrics), game.WithTracer(tracer))
	session.Start(ctx)

	logging.Info("✅ Сессия %s запущена: %d чанков, %d регионов",
		session.ID, session.Streamer.LoadedCount(), session.Index.RegionCount())

	run(ctx, session, cfg, *fast, tickLogger(cfg))

	logging.Info("📊 Итоги: тиков %d, игрок в %v (чанк %v), инвентарь %v",
		session.TickCount(), session.Player.Position, session.PlayerChunk(), session.Inventory)
	logging.Info("📊 Загружено чанков %d, регионов %d, узлов презентации %d",
		session.Streamer.LoadedCount(), session.Index.RegionCount(), arena.LiveNodes())
	logging.Info("📊 Процесс: %s", stats.Snapshot())
	logging.Info("👋 Песочница остановлена")
}

// initLogging настраивает логгер по умолчанию по секции logging
func initLogging(cfg *config.Config) error {
	if cfg.Logging.File {
		logging.LogDir = cfg.Logging.Dir
		if err := logging.InitDefaultLogger("sandbox"); err != nil {
			return err
		}
		logging.Default().SetLevel(cfg.LogLevel())
		return nil
	}
	logging.SetDefaultLogger(logging.NewConsoleLogger("sandbox", os.Stdout, cfg.LogLevel()))
	return nil
}

// tickLogger возвращает логгер для потиковых сообщений. При записи в файл
// тики идут в отдельный файл компонента game.
func tickLogger(cfg *config.Config) *logging.Logger {
	logging.GetLoggerManager().Configure(cfg.LogLevel(), cfg.Logging.File)
	return logging.GetGameLogger()
}

// run крутит тики до исчерпания лимита или сигнала
func run(ctx context.Context, session *game.Session, cfg *config.Config, fast bool, logger *logging.Logger) {
	pilot := newAutopilot()
	dt := cfg.TickDuration()

	var ticker *time.Ticker
	if !fast {
		ticker = time.NewTicker(time.Duration(dt * float64(time.Second)))
		defer ticker.Stop()
	}

	for tick := uint64(0); cfg.Game.Ticks == 0 || tick < uint64(cfg.Game.Ticks); tick++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
				logging.Info("📡 Получен сигнал, завершение работы...")
				return
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			return
		}

		pilot.step(session, tick)
		rep := session.Tick(ctx, dt)
		if rep.FullReload {
			logger.Debug("Тик %d: окно перезагружено, центр %v", rep.Tick, session.PlayerChunk())
		}
		if rep.Applied > 0 || rep.Rejected > 0 {
			logger.Debug("Тик %d: правок %d, отклонено %d, чанков перезагружено %d",
				rep.Tick, rep.Applied, rep.Rejected, rep.Reloaded)
		}
	}
}
