package world

import (
	"context"
	"sort"
	"time"

	"github.com/annel0/tileworld/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Handle непрозрачный идентификатор объекта презентации
type Handle uint64

// NoHandle нулевой дескриптор, никогда не выдаётся презентацией
const NoHandle Handle = 0

// Presenter слой презентации, создающий и удаляющий тайловые слои чанков
type Presenter interface {
	SpawnChunk(pos ChunkPos, data *ChunkData) Handle
	SpawnWallChunk(pos ChunkPos, data *ChunkData) Handle
	Despawn(h Handle)
}

// StreamMetrics получатель метрик стриминга
type StreamMetrics interface {
	ObserveMesh(d time.Duration, regions int)
	ChunkReloaded(kind string)
	SetLoaded(chunks, regions int)
}

// Виды перезагрузки для метрик
const (
	ReloadKindFull   = "full"
	ReloadKindSingle = "single"
)

// LoadedChunk пара дескрипторов загруженного чанка: передний план и стены
type LoadedChunk struct {
	Foreground Handle
	Wall       Handle
}

// ChunkStreamer держит материализованным окно чанков вокруг игрока
// и перестраивает регионы коллизий при каждой материализации.
type ChunkStreamer struct {
	storage   *WorldStorage
	index     *RegionIndex
	presenter Presenter
	radius    int

	loaded    map[ChunkPos]LoadedChunk
	center    ChunkPos
	hasCenter bool

	metrics StreamMetrics
	tracer  trace.Tracer
}

// StreamerOption настройка стримера
type StreamerOption func(*ChunkStreamer)

// WithMetrics подключает метрики
func WithMetrics(m StreamMetrics) StreamerOption {
	return func(s *ChunkStreamer) { s.metrics = m }
}

// WithTracer задаёт трассировщик для спанов перезагрузки
func WithTracer(t trace.Tracer) StreamerOption {
	return func(s *ChunkStreamer) { s.tracer = t }
}

// NewChunkStreamer создаёт стример с окном радиуса radius чанков в каждую сторону
func NewChunkStreamer(storage *WorldStorage, index *RegionIndex, presenter Presenter, radius int, opts ...StreamerOption) *ChunkStreamer {
	if radius < 0 {
		radius = 0
	}
	s := &ChunkStreamer{
		storage:   storage,
		index:     index,
		presenter: presenter,
		radius:    radius,
		loaded:    make(map[ChunkPos]LoadedChunk),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s
}

// Radius возвращает радиус окна
func (s *ChunkStreamer) Radius() int {
	return s.radius
}

// Center возвращает центр окна и признак того, что окно уже загружалось
func (s *ChunkStreamer) Center() (ChunkPos, bool) {
	return s.center, s.hasCenter
}

// Index возвращает индекс регионов
func (s *ChunkStreamer) Index() *RegionIndex {
	return s.index
}

// ReloadAll выгружает все чанки и материализует окно вокруг center.
// Чанки вне мира пропускаются. Возвращает число загруженных чанков.
func (s *ChunkStreamer) ReloadAll(ctx context.Context, center ChunkPos) int {
	_, span := s.tracer.Start(ctx, "world.ReloadAll",
		trace.WithAttributes(attribute.Int("chunk.x", center.X), attribute.Int("chunk.y", center.Y)))
	defer span.End()

	s.UnloadAll()
	s.center = center
	s.hasCenter = true

	for dy := -s.radius; dy <= s.radius; dy++ {
		for dx := -s.radius; dx <= s.radius; dx++ {
			pos := center.Add(dx, dy)
			if !pos.InBounds() {
				continue
			}
			s.materialize(pos)
		}
	}

	span.SetAttributes(
		attribute.Int("chunks.loaded", len(s.loaded)),
		attribute.Int("regions", s.index.RegionCount()),
	)
	if s.metrics != nil {
		s.metrics.ChunkReloaded(ReloadKindFull)
		s.metrics.SetLoaded(len(s.loaded), s.index.RegionCount())
	}
	logging.Debug("Окно чанков вокруг %s перезагружено: %d чанков, %d регионов",
		center, len(s.loaded), s.index.RegionCount())
	return len(s.loaded)
}

// ReloadChunk пересоздаёт один загруженный чанк, не трогая остальные.
// Для незагруженного чанка ничего не делает и возвращает false.
func (s *ChunkStreamer) ReloadChunk(ctx context.Context, pos ChunkPos) bool {
	lc, ok := s.loaded[pos]
	if !ok {
		return false
	}

	_, span := s.tracer.Start(ctx, "world.ReloadChunk",
		trace.WithAttributes(attribute.Int("chunk.x", pos.X), attribute.Int("chunk.y", pos.Y)))
	defer span.End()

	s.presenter.Despawn(lc.Foreground)
	s.presenter.Despawn(lc.Wall)
	delete(s.loaded, pos)
	s.index.Remove(pos)

	s.materialize(pos)

	if s.metrics != nil {
		s.metrics.ChunkReloaded(ReloadKindSingle)
		s.metrics.SetLoaded(len(s.loaded), s.index.RegionCount())
	}
	return true
}

// UpdatePlayerChunk перезагружает окно, если игрок перешёл в другой чанк.
// Первый вызов всегда загружает окно.
func (s *ChunkStreamer) UpdatePlayerChunk(ctx context.Context, pos ChunkPos) bool {
	if s.hasCenter && s.center == pos {
		return false
	}
	s.ReloadAll(ctx, pos)
	return true
}

// materialize создаёт слои презентации и синхронно строит регионы коллизий
func (s *ChunkStreamer) materialize(pos ChunkPos) {
	data, ok := s.storage.ChunkData(pos)
	if !ok {
		logging.Warn("не удалось загрузить чанк %s: нет данных", pos)
		return
	}

	lc := LoadedChunk{
		Foreground: s.presenter.SpawnChunk(pos, data),
		Wall:       s.presenter.SpawnWallChunk(pos, data),
	}

	start := time.Now()
	n := s.index.Rebuild(pos, data)
	if s.metrics != nil {
		s.metrics.ObserveMesh(time.Since(start), n)
	}

	s.loaded[pos] = lc
}

// UnloadAll удаляет все слои презентации и все регионы
func (s *ChunkStreamer) UnloadAll() {
	for _, lc := range s.loaded {
		s.presenter.Despawn(lc.Foreground)
		s.presenter.Despawn(lc.Wall)
	}
	s.loaded = make(map[ChunkPos]LoadedChunk)
	s.index.Clear()
}

// Loaded возвращает дескрипторы загруженного чанка
func (s *ChunkStreamer) Loaded(pos ChunkPos) (LoadedChunk, bool) {
	lc, ok := s.loaded[pos]
	return lc, ok
}

// LoadedChunks возвращает позиции загруженных чанков по строкам
func (s *ChunkStreamer) LoadedChunks() []ChunkPos {
	result := make([]ChunkPos, 0, len(s.loaded))
	for pos := range s.loaded {
		result = append(result, pos)
	}
	sort.Slice(result, func(i, j int) bool { return chunkLess(result[i], result[j]) })
	return result
}

// LoadedCount возвращает число загруженных чанков
func (s *ChunkStreamer) LoadedCount() int {
	return len(s.loaded)
}
