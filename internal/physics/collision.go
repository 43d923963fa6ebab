package physics

import (
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world"
)

// AABB прямоугольник в пикселях: [Min, Max)
type AABB struct {
	Min, Max vec.Vec2Float
}

// BoxAt строит прямоугольник по центру и размеру
func BoxAt(center, size vec.Vec2Float) AABB {
	half := size.Mul(0.5)
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// RegionBox переводит регион в блоках в прямоугольник в пикселях
func RegionBox(anchor, size vec.Vec2) AABB {
	min := vec.FromVec2(anchor.Mul(world.BlockSize))
	return AABB{Min: min, Max: min.Add(vec.FromVec2(size.Mul(world.BlockSize)))}
}

// CellBox прямоугольник одного блока
func CellBox(cell vec.Vec2) AABB {
	return RegionBox(cell, vec.Vec2{X: 1, Y: 1})
}

// Center возвращает центр прямоугольника
func (b AABB) Center() vec.Vec2Float {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Offset сдвигает прямоугольник
func (b AABB) Offset(dx, dy float64) AABB {
	d := vec.Vec2Float{X: dx, Y: dy}
	return AABB{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

func (b AABB) width() float64  { return b.Max.X - b.Min.X }
func (b AABB) height() float64 { return b.Max.Y - b.Min.Y }

// withMinX ставит левую грань точно в x, сохраняя ширину
func (b AABB) withMinX(x float64) AABB {
	w := b.width()
	b.Min.X = x
	b.Max.X = x + w
	return b
}

// withMinY ставит нижнюю грань точно в y, сохраняя высоту
func (b AABB) withMinY(y float64) AABB {
	h := b.height()
	b.Min.Y = y
	b.Max.Y = y + h
	return b
}

// overlapEpsilon допуск, ниже которого касание не считается пересечением
const overlapEpsilon = 1e-6

// Overlaps проверяет пересечение. Касание краями пересечением не считается.
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X < o.Max.X-overlapEpsilon && b.Max.X > o.Min.X+overlapEpsilon &&
		b.Min.Y < o.Max.Y-overlapEpsilon && b.Max.Y > o.Min.Y+overlapEpsilon
}

// Cells возвращает блоки, которые задевает прямоугольник
func (b AABB) Cells() []vec.Vec2 {
	min := b.Min.Floor(world.BlockSize)
	// Правая и верхняя границы открыты
	max := b.Max.Sub(vec.Vec2Float{X: 1e-9, Y: 1e-9}).Floor(world.BlockSize)

	cells := make([]vec.Vec2, 0, (max.X-min.X+1)*(max.Y-min.Y+1))
	for y := min.Y; y <= max.Y; y++ {
		for x := min.X; x <= max.X; x++ {
			cells = append(cells, vec.Vec2{X: x, Y: y})
		}
	}
	return cells
}

// BoxCollider прямоугольный коллайдер в блоках для проверок по сетке
type BoxCollider struct {
	Width  int // Ширина в блоках
	Height int // Высота в блоках
}

// NewBoxCollider создаёт новый коллайдер с указанными размерами
func NewBoxCollider(width, height int) *BoxCollider {
	return &BoxCollider{
		Width:  width,
		Height: height,
	}
}

// ColliderForSize подбирает коллайдер в блоках, покрывающий размер в пикселях
func ColliderForSize(size vec.Vec2Float) *BoxCollider {
	w := int((size.X + world.BlockSize - 1) / world.BlockSize)
	h := int((size.Y + world.BlockSize - 1) / world.BlockSize)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return NewBoxCollider(w, h)
}

// CheckBoxCollision проверяет пересечение двух коллайдеров, заданных нижними левыми блоками
func CheckBoxCollision(pos1 vec.Vec2, collider1 *BoxCollider, pos2 vec.Vec2, collider2 *BoxCollider) bool {
	return pos1.X < pos2.X+collider2.Width &&
		pos1.X+collider1.Width > pos2.X &&
		pos1.Y < pos2.Y+collider2.Height &&
		pos1.Y+collider1.Height > pos2.Y
}

// GetCollisionPoints возвращает все блоки коллайдера с нижним левым блоком в pos
func GetCollisionPoints(pos vec.Vec2, collider *BoxCollider) []vec.Vec2 {
	points := make([]vec.Vec2, 0, collider.Width*collider.Height)
	for y := 0; y < collider.Height; y++ {
		for x := 0; x < collider.Width; x++ {
			points = append(points, vec.Vec2{X: pos.X + x, Y: pos.Y + y})
		}
	}
	return points
}

// CanMoveToPosition проверяет, может ли коллайдер занять позицию.
// isPassable сообщает, проходим ли блок.
func CanMoveToPosition(newPos vec.Vec2, collider *BoxCollider, isPassable func(vec.Vec2) bool) bool {
	for _, point := range GetCollisionPoints(newPos, collider) {
		if !isPassable(point) {
			// Хотя бы один блок занят - позиция недоступна
			return false
		}
	}
	return true
}
