package game

import (
	"context"
	"time"

	"github.com/annel0/tileworld/internal/logging"
	"github.com/annel0/tileworld/internal/physics"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world"
	"github.com/annel0/tileworld/internal/world/block"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Options параметры сессии
type Options struct {
	ChunkRadius  int
	PlayerSpeed  float64 // пикселей/с
	JumpSpeed    float64 // пикселей/с
	PickupRadius float64 // пикселей
	Creative     bool    // Установка блоков без обязательного инвентаря
	Gravity      float64
	MaxSpeed     float64
}

// DefaultOptions возвращает параметры по умолчанию
func DefaultOptions() Options {
	return Options{
		ChunkRadius:  4,
		PlayerSpeed:  128,
		JumpSpeed:    256,
		PickupRadius: 12,
		Creative:     true,
		Gravity:      physics.DefaultGravity,
		MaxSpeed:     physics.DefaultMaxSpeed,
	}
}

// Metrics получатель метрик тика
type Metrics interface {
	world.StreamMetrics
	ObserveTick(d time.Duration)
	ObserveEdit(layer, result string)
}

// TickReport итоги одного тика
type TickReport struct {
	Tick       uint64
	Applied    int
	Rejected   int
	Reloaded   int  // Перезагружено отдельных чанков
	FullReload bool // Перезагружено всё окно
	Impacts    int  // Попадания стрел, отложенные на следующий тик
	PickedUp   int
}

// Session однопоточный драйвер тиков песочницы.
// Порядок тика: намерения, правки мира, перезагрузка чанков, физика,
// попадания стрел, подбор предметов, синхронизация окна с игроком.
type Session struct {
	ID        uuid.UUID
	Storage   *world.WorldStorage
	Index     *world.RegionIndex
	Streamer  *world.ChunkStreamer
	Physics   *physics.Engine
	Player    *physics.Body
	Items     []*Item
	Arrows    []*physics.Body
	Inventory map[block.BlockID]int

	opts    Options
	intents world.EventQueue[Intent]
	changes world.EventQueue[world.ChunkEvent]
	input   PlayerInput
	nextID  uint64
	tick    uint64
	started bool
	metrics Metrics
	tracer  trace.Tracer
}

// SessionOption настройка сессии
type SessionOption func(*Session)

// WithMetrics подключает метрики
func WithMetrics(m Metrics) SessionOption {
	return func(s *Session) { s.metrics = m }
}

// WithTracer задаёт трассировщик
func WithTracer(t trace.Tracer) SessionOption {
	return func(s *Session) { s.tracer = t }
}

// NewSession создаёт сессию над готовым миром. Игрок появляется в spawn (центр, пиксели).
func NewSession(storage *world.WorldStorage, presenter world.Presenter, spawn vec.Vec2Float, opts Options, options ...SessionOption) *Session {
	s := &Session{
		ID:        uuid.New(),
		Storage:   storage,
		Index:     world.NewRegionIndex(),
		Physics:   &physics.Engine{Gravity: opts.Gravity, MaxSpeed: opts.MaxSpeed},
		Inventory: make(map[block.BlockID]int),
		opts:      opts,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("github.com/annel0/tileworld/internal/game")
	}

	streamerOpts := []world.StreamerOption{world.WithTracer(s.tracer)}
	if s.metrics != nil {
		streamerOpts = append(streamerOpts, world.WithMetrics(s.metrics))
	}
	s.Streamer = world.NewChunkStreamer(storage, s.Index, presenter, opts.ChunkRadius, streamerOpts...)
	s.Player = newPlayerBody(s.newID(), spawn)

	logging.Info("🎮 Сессия %s создана, игрок в %v", s.ID, spawn)
	return s
}

// SpawnAboveSurface находит точку появления над самым высоким твёрдым блоком столбца x
func SpawnAboveSurface(storage *world.WorldStorage, x int) vec.Vec2Float {
	collider := physics.ColliderForSize(PlayerSize)
	passable := func(p vec.Vec2) bool {
		return world.BlockInBounds(p) && !storage.IsSolid(p)
	}

	for y := world.WorldBlockSize.Y - 1 - collider.Height; y >= 0; y-- {
		if storage.IsSolid(vec.Vec2{X: x, Y: y}) {
			pos := vec.Vec2{X: x, Y: y + 1}
			if physics.CanMoveToPosition(pos, collider, passable) {
				return playerCenterAt(pos)
			}
			break
		}
	}
	return playerCenterAt(vec.Vec2{X: x, Y: world.WorldBlockSize.Y / 2})
}

// playerCenterAt центр игрока, стоящего ногами на нижней грани блока cell
func playerCenterAt(cell vec.Vec2) vec.Vec2Float {
	base := vec.FromVec2(cell.Mul(world.BlockSize))
	return base.Add(vec.Vec2Float{X: world.BlockSize / 2, Y: PlayerSize.Y / 2})
}

func (s *Session) newID() uint64 {
	s.nextID++
	return s.nextID
}

// TickCount возвращает число обработанных тиков
func (s *Session) TickCount() uint64 {
	return s.tick
}

// PlayerChunk возвращает чанк игрока
func (s *Session) PlayerChunk() world.ChunkPos {
	return world.ChunkPosOf(s.Player.Cell())
}

// Start загружает окно вокруг игрока. Вызывается до первого тика.
func (s *Session) Start(ctx context.Context) {
	s.Streamer.UpdatePlayerChunk(ctx, s.PlayerChunk())
	s.started = true
}

// RequestSetBlock ставит в очередь установку блока переднего плана
func (s *Session) RequestSetBlock(pos vec.Vec2, id block.BlockID) {
	s.intents.Push(newIntent(IntentSetBlock, pos, id))
}

// RequestSetWall ставит в очередь установку стены
func (s *Session) RequestSetWall(pos vec.Vec2, id block.BlockID) {
	s.intents.Push(newIntent(IntentSetWall, pos, id))
}

// Mine ставит в очередь добычу блока
func (s *Session) Mine(pos vec.Vec2) {
	s.intents.Push(newIntent(IntentMine, pos, block.AirBlockID))
}

// Place ставит в очередь установку блока игроком
func (s *Session) Place(pos vec.Vec2, id block.BlockID) {
	s.intents.Push(newIntent(IntentPlace, pos, id))
}

// RequestReloadAll требует перезагрузить всё окно в этом тике
func (s *Session) RequestReloadAll() {
	s.changes.Push(world.ChunkEvent{EventType: world.EventTypeReloadAll})
}

// ShootArrow выпускает стрелу из pos (пиксели) со скоростью velocity
func (s *Session) ShootArrow(pos, velocity vec.Vec2Float) {
	s.Arrows = append(s.Arrows, newArrowBody(s.newID(), pos, velocity))
}

// SetPlayerInput задаёт управление игроком на следующий тик
func (s *Session) SetPlayerInput(in PlayerInput) {
	s.input = in
}

// PendingIntents возвращает число намерений в очереди
func (s *Session) PendingIntents() int {
	return s.intents.Len()
}

// Tick выполняет один шаг симуляции длительностью dt секунд
func (s *Session) Tick(ctx context.Context, dt float64) TickReport {
	start := time.Now()
	s.tick++
	report := TickReport{Tick: s.tick}

	ctx, span := s.tracer.Start(ctx, "game.Tick", trace.WithAttributes(
		attribute.String("session.id", s.ID.String()),
		attribute.Int64("tick", int64(s.tick)),
	))
	defer span.End()

	if !s.started {
		s.Start(ctx)
	}

	// 1-2. Намерения и правки мира
	for _, in := range s.intents.Drain() {
		if reason, ok := s.apply(in); ok {
			report.Applied++
			s.observeEdit(in.Kind, editApplied)
		} else {
			report.Rejected++
			s.observeEdit(in.Kind, editRejected)
			logging.Debug("Отклонено %s в %v: %s", in.Kind, in.Position, reason)
		}
	}

	// 3. Перезагрузка изменённых чанков до физики
	report.Reloaded, report.FullReload = s.processChanges(ctx)

	// 4. Физика
	s.applyInput()
	s.Physics.Step(s.bodies(), s.Index, dt)

	// 5. Попадания стрел становятся намерениями следующего тика
	report.Impacts = s.collectImpacts()

	// 6. Подбор предметов
	report.PickedUp = s.pickupItems()

	// 7. Синхронизация окна с игроком
	if s.Streamer.UpdatePlayerChunk(ctx, s.PlayerChunk()) {
		report.FullReload = true
	}

	span.SetAttributes(
		attribute.Int("edits.applied", report.Applied),
		attribute.Int("edits.rejected", report.Rejected),
	)
	if s.metrics != nil {
		s.metrics.ObserveTick(time.Since(start))
	}
	return report
}

func (s *Session) observeEdit(kind IntentKind, result string) {
	if s.metrics != nil {
		s.metrics.ObserveEdit(kind.layer(), result)
	}
}

// apply применяет намерение к миру. Возвращает причину отказа.
func (s *Session) apply(in Intent) (string, bool) {
	pos := in.Position
	current, ok := s.Storage.GetBlock(pos)
	if !ok {
		return rejectOutOfBounds, false
	}

	switch in.Kind {
	case IntentSetBlock:
		if !block.IsValidBlockID(in.Block) {
			return rejectInvalid, false
		}
		if !s.Storage.SetBlock(pos, in.Block) {
			return rejectUnchanged, false
		}

	case IntentSetWall:
		if !block.IsValidBlockID(in.Block) {
			return rejectInvalid, false
		}
		if !s.Storage.SetWall(pos, in.Block) {
			return rejectUnchanged, false
		}

	case IntentMine, IntentArrowImpact:
		if current == block.AirBlockID {
			return rejectAir, false
		}
		if current == block.BorderBlockID {
			return rejectBorder, false
		}
		s.Storage.SetBlock(pos, block.AirBlockID)
		if in.Kind == IntentMine {
			s.Items = append(s.Items, &Item{Body: newItemBody(s.newID(), pos), Block: current})
		}

	case IntentPlace:
		if in.Block == block.AirBlockID || in.Block == block.BorderBlockID || !block.IsValidBlockID(in.Block) {
			return rejectInvalid, false
		}
		if current != block.AirBlockID {
			return rejectOccupied, false
		}
		if physics.CellBox(pos).Overlaps(s.Player.Box()) {
			return rejectPlayer, false
		}
		// В творческом режиме инвентарь расходуется, пока есть, но не обязателен
		if s.Inventory[in.Block] > 0 {
			s.Inventory[in.Block]--
		} else if !s.opts.Creative {
			return rejectInventory, false
		}
		s.Storage.SetBlock(pos, in.Block)
	}

	s.changes.Push(world.ChunkEvent{EventType: world.EventTypeChunkChanged, Chunk: world.ChunkPosOf(pos)})
	return "", true
}

// processChanges опустошает очередь изменений чанков.
// Каждый изменённый чанк перезагружается один раз за тик.
func (s *Session) processChanges(ctx context.Context) (int, bool) {
	events := s.changes.Drain()
	if len(events) == 0 {
		return 0, false
	}

	for _, ev := range events {
		if ev.EventType == world.EventTypeReloadAll {
			s.Streamer.ReloadAll(ctx, s.PlayerChunk())
			return 0, true
		}
	}

	seen := make(map[world.ChunkPos]struct{}, len(events))
	reloaded := 0
	for _, ev := range events {
		if _, dup := seen[ev.Chunk]; dup {
			continue
		}
		seen[ev.Chunk] = struct{}{}
		if s.Streamer.ReloadChunk(ctx, ev.Chunk) {
			reloaded++
		}
	}
	return reloaded, false
}

func (s *Session) applyInput() {
	s.Player.Velocity.X = float64(s.input.MoveX) * s.opts.PlayerSpeed
	if s.input.Jump && s.Player.Grounded {
		s.Player.Velocity.Y = s.opts.JumpSpeed
		s.Player.Grounded = false
	}
}

// bodies собирает все тела в фиксированном порядке: игрок, предметы, стрелы
func (s *Session) bodies() []*physics.Body {
	bodies := make([]*physics.Body, 0, 1+len(s.Items)+len(s.Arrows))
	bodies = append(bodies, s.Player)
	for _, it := range s.Items {
		bodies = append(bodies, it.Body)
	}
	return append(bodies, s.Arrows...)
}

// collectImpacts убирает воткнувшиеся стрелы и ставит разрушение блока в очередь
func (s *Session) collectImpacts() int {
	impacts := 0
	kept := s.Arrows[:0]
	for _, a := range s.Arrows {
		switch {
		case a.Hit:
			cell := a.HitPoint.Floor(world.BlockSize)
			s.intents.Push(newIntent(IntentArrowImpact, cell, block.AirBlockID))
			impacts++
		case fellOutOfWorld(a):
		default:
			kept = append(kept, a)
		}
	}
	for i := len(kept); i < len(s.Arrows); i++ {
		s.Arrows[i] = nil
	}
	s.Arrows = kept
	return impacts
}

// pickupItems переносит в инвентарь предметы в радиусе подбора
func (s *Session) pickupItems() int {
	if len(s.Items) == 0 {
		return 0
	}

	grid := physics.NewSpatialGrid(world.ChunkSize * world.BlockSize)
	for i, it := range s.Items {
		grid.Insert(i, it.Body.Box())
	}
	near := make(map[int]struct{})
	for _, i := range grid.QueryRange(s.Player.Position, s.opts.PickupRadius) {
		near[i] = struct{}{}
	}

	picked := 0
	kept := s.Items[:0]
	for i, it := range s.Items {
		if _, ok := near[i]; ok {
			s.Inventory[it.Block]++
			picked++
			continue
		}
		if !fellOutOfWorld(it.Body) {
			kept = append(kept, it)
		}
	}
	for i := len(kept); i < len(s.Items); i++ {
		s.Items[i] = nil
	}
	s.Items = kept
	return picked
}
