package physics

import (
	"math"

	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world"
)

// Capabilities флаги возможностей движущегося тела
type Capabilities struct {
	IsPlayer        bool
	IsItem          bool
	IsArrow         bool
	GroundSensitive bool // Отслеживает касание земли
	Friction        bool // При касании останавливается по обеим осям
}

// Body движущееся тело. Позиция - центр в пикселях, ось Y направлена вверх.
type Body struct {
	ID       uint64
	Position vec.Vec2Float
	Size     vec.Vec2Float
	Velocity vec.Vec2Float
	Caps     Capabilities

	Grounded bool
	Hit      bool          // Было столкновение на последнем шаге
	HitDir   vec.Vec2      // Направление движения в момент столкновения
	HitPoint vec.Vec2Float // Точка внутри задетого региона
}

// Box возвращает прямоугольник тела
func (b *Body) Box() AABB {
	return BoxAt(b.Position, b.Size)
}

// Cell возвращает блок, в котором находится центр тела
func (b *Body) Cell() vec.Vec2 {
	return b.Position.Floor(world.BlockSize)
}

// RegionSource источник регионов коллизий
type RegionSource interface {
	ForEachRegion(fn func(anchor, size vec.Vec2))
}

// Параметры по умолчанию
const (
	DefaultGravity  = 512.0
	DefaultMaxSpeed = 512.0
	minSpeed        = 0.01
	contactEpsilon  = 0.5
)

// Engine шаг физики: гравитация, коллизии по осям, интегрирование
type Engine struct {
	Gravity  float64 // пикселей/с²
	MaxSpeed float64 // пикселей/с по каждой оси
}

// NewEngine создаёт движок с параметрами по умолчанию
func NewEngine() *Engine {
	return &Engine{Gravity: DefaultGravity, MaxSpeed: DefaultMaxSpeed}
}

// Step продвигает все тела на dt секунд. Регионы только читаются.
func (e *Engine) Step(bodies []*Body, regions RegionSource, dt float64) {
	if dt <= 0 {
		return
	}

	var boxes []AABB
	grid := NewSpatialGrid(world.ChunkSize * world.BlockSize)
	regions.ForEachRegion(func(anchor, size vec.Vec2) {
		box := RegionBox(anchor, size)
		grid.Insert(len(boxes), box)
		boxes = append(boxes, box)
	})

	var nearby []AABB
	for _, b := range bodies {
		e.applyGravity(b, dt)

		// Только регионы рядом с путём тела, в исходном порядке
		nearby = nearby[:0]
		for _, id := range grid.QueryBox(sweptBox(b.Box(), b.Velocity.Mul(dt))) {
			nearby = append(nearby, boxes[id])
		}
		e.move(b, nearby, dt)
	}
}

// sweptBox прямоугольник, покрывающий тело на всём пути d
func sweptBox(box AABB, d vec.Vec2Float) AABB {
	moved := box.Offset(d.X, d.Y)
	return AABB{
		Min: vec.Vec2Float{X: math.Min(box.Min.X, moved.Min.X) - 1, Y: math.Min(box.Min.Y, moved.Min.Y) - 1},
		Max: vec.Vec2Float{X: math.Max(box.Max.X, moved.Max.X) + 1, Y: math.Max(box.Max.Y, moved.Max.Y) + 1},
	}
}

func (e *Engine) applyGravity(b *Body, dt float64) {
	b.Velocity.Y -= e.Gravity * dt
	b.Velocity.X = clamp(b.Velocity.X, -e.MaxSpeed, e.MaxSpeed)
	b.Velocity.Y = clamp(b.Velocity.Y, -e.MaxSpeed, e.MaxSpeed)
}

// move перемещает тело сначала по вертикали, затем по горизонтали.
// Длинные перемещения дробятся, чтобы тело не проскакивало сквозь блоки.
func (e *Engine) move(b *Body, boxes []AABB, dt float64) {
	dx := b.Velocity.X * dt
	dy := b.Velocity.Y * dt

	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy)) / (world.BlockSize / 2)))
	if steps < 1 {
		steps = 1
	}
	sx, sy := dx/float64(steps), dy/float64(steps)

	box := b.Box()
	grounded := false
	hitX, hitY := false, false
	b.Hit = false

	for i := 0; i < steps && !(hitX && hitY); i++ {
		if !hitY && sy != 0 {
			box, hitY = e.resolveVertical(b, box, boxes, sy, &grounded)
		}
		if !hitX && sx != 0 {
			box, hitX = e.resolveHorizontal(b, box, boxes, sx)
		}
		if b.Caps.Friction && (hitX || hitY) {
			break
		}
	}

	b.Position = box.Center()

	if hitY {
		b.Velocity.Y = 0
		if b.Caps.Friction {
			b.Velocity.X = 0
		}
	}
	if hitX {
		b.Velocity.X = 0
		if b.Caps.Friction {
			b.Velocity.Y = 0
		}
	}
	if math.Abs(b.Velocity.X) < minSpeed {
		b.Velocity.X = 0
	}
	if b.Caps.GroundSensitive {
		b.Grounded = grounded
	}
}

func (e *Engine) resolveVertical(b *Body, box AABB, boxes []AABB, dy float64, grounded *bool) (AABB, bool) {
	next := box.Offset(0, dy)
	hit := false
	for _, r := range boxes {
		if !next.Overlaps(r) {
			continue
		}
		hit = true
		if dy < 0 {
			// Приземление на верх региона
			next = next.withMinY(r.Max.Y)
			*grounded = true
			e.recordHit(b, vec.Vec2{Y: -1}, vec.Vec2Float{X: clampInto(next.Center().X, r.Min.X, r.Max.X), Y: r.Max.Y - contactEpsilon})
		} else {
			next = next.withMinY(r.Min.Y - next.height())
			e.recordHit(b, vec.Vec2{Y: 1}, vec.Vec2Float{X: clampInto(next.Center().X, r.Min.X, r.Max.X), Y: r.Min.Y + contactEpsilon})
		}
	}
	return next, hit
}

func (e *Engine) resolveHorizontal(b *Body, box AABB, boxes []AABB, dx float64) (AABB, bool) {
	next := box.Offset(dx, 0)
	hit := false
	for _, r := range boxes {
		if !next.Overlaps(r) {
			continue
		}
		hit = true
		if dx > 0 {
			next = next.withMinX(r.Min.X - next.width())
			e.recordHit(b, vec.Vec2{X: 1}, vec.Vec2Float{X: r.Min.X + contactEpsilon, Y: clampInto(next.Center().Y, r.Min.Y, r.Max.Y)})
		} else {
			next = next.withMinX(r.Max.X)
			e.recordHit(b, vec.Vec2{X: -1}, vec.Vec2Float{X: r.Max.X - contactEpsilon, Y: clampInto(next.Center().Y, r.Min.Y, r.Max.Y)})
		}
	}
	return next, hit
}

func (e *Engine) recordHit(b *Body, dir vec.Vec2, point vec.Vec2Float) {
	if b.Hit {
		return
	}
	b.Hit = true
	b.HitDir = dir
	b.HitPoint = point
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// clampInto прижимает координату внутрь отрезка [lo, hi) с отступом
func clampInto(v, lo, hi float64) float64 {
	return clamp(v, lo+contactEpsilon, hi-contactEpsilon)
}
