package world

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/annel0/tileworld/internal/logging"
	"github.com/annel0/tileworld/internal/util"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world/block"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/annel0/tileworld/internal/world"

// StoneConfig параметры каменного пояса
type StoneConfig struct {
	Enabled   bool
	Depth     int     // Глубина верхней границы камня под поверхностью
	Amplitude float64 // Амплитуда косинусной волны границы
	Period    float64 // Период волны в блоках
	Jitter    int     // Толщина полосы со случайной границей земля/камень
}

// CaveConfig параметры пещер
type CaveConfig struct {
	Enabled   bool
	Scale     float64 // Масштаб 2D шума в блоках
	Threshold float64 // Камень с шумом выше порога становится воздухом
}

// GeneratorConfig параметры генерации мира
type GeneratorConfig struct {
	Seed          int64 // 0 - случайный сид на каждый запуск
	BaseBlock     block.BlockID
	SurfaceLength float64 // Горизонтальный масштаб шума поверхности
	SurfaceHeight float64 // Амплитуда холмов
	SurfaceOffset int     // Средняя глубина поверхности от верха мира
	Stone         StoneConfig
	Caves         CaveConfig
	Border        bool
}

// DefaultGeneratorConfig возвращает параметры генерации по умолчанию
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		BaseBlock:     block.DirtBlockID,
		SurfaceLength: 64,
		SurfaceHeight: 24,
		SurfaceOffset: 48,
		Stone: StoneConfig{
			Enabled:   true,
			Depth:     12,
			Amplitude: 4,
			Period:    40,
			Jitter:    2,
		},
		Caves: CaveConfig{
			Enabled:   true,
			Scale:     16,
			Threshold: 0.62,
		},
		Border: true,
	}
}

// GenerationReport итоги генерации
type GenerationReport struct {
	Seed       int64
	Heights    []int // Высота поверхности для каждого столбца мира
	StoneCells int
	CaveCells  int
	Duration   time.Duration
}

// WorldGenerator заполняет новое хранилище мира
type WorldGenerator struct {
	cfg    GeneratorConfig
	tracer trace.Tracer
}

// GeneratorOption настройка генератора
type GeneratorOption func(*WorldGenerator)

// WithGeneratorTracer задаёт трассировщик для спанов генерации
func WithGeneratorTracer(t trace.Tracer) GeneratorOption {
	return func(g *WorldGenerator) { g.tracer = t }
}

// NewWorldGenerator создаёт новый генератор мира
func NewWorldGenerator(cfg GeneratorConfig, opts ...GeneratorOption) *WorldGenerator {
	g := &WorldGenerator{cfg: cfg}
	for _, opt := range opts {
		opt(g)
	}
	if g.tracer == nil {
		g.tracer = otel.Tracer(tracerName)
	}
	return g
}

// Config возвращает параметры генератора
func (g *WorldGenerator) Config() GeneratorConfig {
	return g.cfg
}

// resolveSeed выбирает сид прогона. Нулевой сид заменяется случайным.
func (g *WorldGenerator) resolveSeed() int64 {
	if g.cfg.Seed != 0 {
		return g.cfg.Seed
	}
	seed := rand.New(rand.NewSource(time.Now().UnixNano())).Int63()
	if seed == 0 {
		seed = 1
	}
	return seed
}

// Generate создаёт и заполняет мир. Порядок проходов фиксирован:
// база, поверхность, камень, пещеры, граница, отражения.
func (g *WorldGenerator) Generate(ctx context.Context) (*WorldStorage, *GenerationReport) {
	start := time.Now()
	seed := g.resolveSeed()

	_, span := g.tracer.Start(ctx, "world.Generate")
	defer span.End()
	span.SetAttributes(attribute.Int64("world.seed", seed))

	logging.Info("🌍 Генерация мира %dx%d чанков, сид %d", WorldChunkSize.X, WorldChunkSize.Y, seed)

	ws := NewWorldStorage()
	report := &GenerationReport{Seed: seed}
	rng := rand.New(rand.NewSource(seed))

	g.FillBase(ws)
	report.Heights = g.CarveSurface(ws, seed)

	if g.cfg.Stone.Enabled {
		report.StoneCells = g.FillStoneBand(ws, report.Heights, rng)
	}
	if g.cfg.Caves.Enabled {
		report.CaveCells = g.CarveCaves(ws, seed)
	}
	if g.cfg.Border {
		g.PlaceBorder(ws)
	}
	g.ScatterFlips(ws, rng)

	report.Duration = time.Since(start)
	span.SetAttributes(
		attribute.Int("world.stone_cells", report.StoneCells),
		attribute.Int("world.cave_cells", report.CaveCells),
	)
	logging.Info("✅ Мир сгенерирован за %v: камень %d, пещеры %d", report.Duration, report.StoneCells, report.CaveCells)

	return ws, report
}

// FillBase заполняет все блоки и стены базовым материалом
func (g *WorldGenerator) FillBase(ws *WorldStorage) {
	ws.ForEachChunk(func(_ ChunkPos, data *ChunkData) {
		data.Fill(g.cfg.BaseBlock, g.cfg.BaseBlock)
	})
}

// SurfaceHeights вычисляет высоту поверхности для каждого столбца мира.
// Одинаковый сид всегда даёт одинаковые высоты.
func (g *WorldGenerator) SurfaceHeights(seed int64) []int {
	noise := util.NewNoise(seed)
	base := float64(WorldBlockSize.Y - g.cfg.SurfaceOffset)

	heights := make([]int, WorldBlockSize.X)
	for x := range heights {
		v := noise.Noise1D(float64(x)/g.cfg.SurfaceLength)*g.cfg.SurfaceHeight + base
		h := int(math.Floor(v))
		if h < 1 {
			h = 1
		}
		if h > WorldBlockSize.Y-2 {
			h = WorldBlockSize.Y - 2
		}
		heights[x] = h
	}
	return heights
}

// CarveSurface ставит траву на высоте поверхности и вырезает воздух над ней
func (g *WorldGenerator) CarveSurface(ws *WorldStorage, seed int64) []int {
	heights := g.SurfaceHeights(seed)

	for x, h := range heights {
		ws.SetBlock(vec.Vec2{X: x, Y: h}, block.GrassBlockID)
		ws.SetWall(vec.Vec2{X: x, Y: h}, block.DirtBlockID)
		for y := h + 1; y < WorldBlockSize.Y; y++ {
			pos := vec.Vec2{X: x, Y: y}
			ws.SetBlock(pos, block.AirBlockID)
			ws.SetWall(pos, block.AirBlockID)
		}
	}
	return heights
}

// stoneTop верхняя граница сплошного камня в столбце
func (g *WorldGenerator) stoneTop(x, surface int) int {
	s := g.cfg.Stone
	wave := 0.0
	if s.Period > 0 {
		wave = s.Amplitude * math.Cos(2*math.Pi*float64(x)/s.Period)
	}
	top := surface - s.Depth + int(math.Round(wave))
	if top > surface-1 {
		top = surface - 1
	}
	return top
}

// FillStoneBand заполняет камнем всё ниже косинусной границы.
// В полосе толщиной Jitter над границей камень ставится случайно.
// Должен выполняться после CarveSurface.
func (g *WorldGenerator) FillStoneBand(ws *WorldStorage, heights []int, rng *rand.Rand) int {
	jitter := g.cfg.Stone.Jitter
	count := 0

	for x, h := range heights {
		top := g.stoneTop(x, h)
		for y := 0; y <= top+jitter && y < h; y++ {
			if y > top && rng.Intn(2) == 0 {
				continue
			}
			pos := vec.Vec2{X: x, Y: y}
			ws.SetBlock(pos, block.StoneBlockID)
			ws.SetWall(pos, block.StoneBlockID)
			count++
		}
	}
	return count
}

// CarveCaves вырезает пещеры в камне по порогу 2D шума.
// Стены остаются, меняется только передний план. Должен выполняться после FillStoneBand.
func (g *WorldGenerator) CarveCaves(ws *WorldStorage, seed int64) int {
	noise := util.NewNoise(seed + 1)
	scale := g.cfg.Caves.Scale
	carved := 0

	for y := 0; y < WorldBlockSize.Y; y++ {
		for x := 0; x < WorldBlockSize.X; x++ {
			pos := vec.Vec2{X: x, Y: y}
			if id, _ := ws.GetBlock(pos); id != block.StoneBlockID {
				continue
			}
			if noise.Noise2D01(float64(x)/scale, float64(y)/scale) > g.cfg.Caves.Threshold {
				ws.SetBlock(pos, block.AirBlockID)
				carved++
			}
		}
	}
	return carved
}

// PlaceBorder ставит неразрушимые блоки по внешнему периметру мира
func (g *WorldGenerator) PlaceBorder(ws *WorldStorage) {
	maxX := WorldBlockSize.X - 1
	maxY := WorldBlockSize.Y - 1
	for x := 0; x <= maxX; x++ {
		ws.SetBlock(vec.Vec2{X: x, Y: 0}, block.BorderBlockID)
		ws.SetBlock(vec.Vec2{X: x, Y: maxY}, block.BorderBlockID)
	}
	for y := 0; y <= maxY; y++ {
		ws.SetBlock(vec.Vec2{X: 0, Y: y}, block.BorderBlockID)
		ws.SetBlock(vec.Vec2{X: maxX, Y: y}, block.BorderBlockID)
	}
}

// ScatterFlips расставляет случайные косметические отражения тайлов
func (g *WorldGenerator) ScatterFlips(ws *WorldStorage, rng *rand.Rand) {
	ws.ForEachChunk(func(_ ChunkPos, data *ChunkData) {
		for i := range data.flips {
			data.flips[i] = Flip{X: rng.Intn(2) == 0, Y: rng.Intn(2) == 0}
		}
	})
}
