package physics

import (
	"fmt"
	"math"
	"sort"

	"github.com/annel0/tileworld/internal/vec"
)

// SpatialGrid равномерная сетка для быстрого поиска прямоугольников.
// Хранит идентификаторы; прямоугольник попадает во все ячейки, которые задевает.
type SpatialGrid struct {
	cellSize float64
	cells    map[cellKey][]int
	boxes    map[int]AABB
}

// cellKey ключ ячейки сетки
type cellKey struct {
	x, y int
}

// NewSpatialGrid создаёт сетку с размером ячейки в пикселях
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 256 // Чанк в пикселях
	}
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]int),
		boxes:    make(map[int]AABB),
	}
}

// Insert добавляет прямоугольник. Повторная вставка того же id заменяет старый.
func (g *SpatialGrid) Insert(id int, box AABB) {
	if _, exists := g.boxes[id]; exists {
		g.Remove(id)
	}
	g.boxes[id] = box
	for _, key := range g.cellsFor(box) {
		g.cells[key] = append(g.cells[key], id)
	}
}

// Remove удаляет прямоугольник
func (g *SpatialGrid) Remove(id int) {
	box, exists := g.boxes[id]
	if !exists {
		return
	}
	delete(g.boxes, id)
	for _, key := range g.cellsFor(box) {
		ids := g.cells[key]
		for i, other := range ids {
			if other == id {
				ids = append(ids[:i], ids[i+1:]...)
				break
			}
		}
		if len(ids) == 0 {
			delete(g.cells, key)
		} else {
			g.cells[key] = ids
		}
	}
}

// Box возвращает прямоугольник по id
func (g *SpatialGrid) Box(id int) (AABB, bool) {
	box, ok := g.boxes[id]
	return box, ok
}

// QueryBox возвращает id прямоугольников из ячеек, которые задевает box,
// отсортированные по возрастанию. Точную проверку пересечения делает вызывающий.
func (g *SpatialGrid) QueryBox(box AABB) []int {
	seen := make(map[int]struct{})
	var result []int
	for _, key := range g.cellsFor(box) {
		for _, id := range g.cells[key] {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			result = append(result, id)
		}
	}
	sort.Ints(result)
	return result
}

// QueryRange возвращает id прямоугольников, центр которых не дальше radius от center
func (g *SpatialGrid) QueryRange(center vec.Vec2Float, radius float64) []int {
	area := AABB{
		Min: vec.Vec2Float{X: center.X - radius, Y: center.Y - radius},
		Max: vec.Vec2Float{X: center.X + radius, Y: center.Y + radius},
	}
	candidates := g.QueryBox(area)
	result := candidates[:0]
	for _, id := range candidates {
		if g.boxes[id].Center().DistanceTo(center) <= radius {
			result = append(result, id)
		}
	}
	return result
}

// Len возвращает число прямоугольников
func (g *SpatialGrid) Len() int {
	return len(g.boxes)
}

// CellCount возвращает число занятых ячеек
func (g *SpatialGrid) CellCount() int {
	return len(g.cells)
}

// Stats возвращает статистику сетки
func (g *SpatialGrid) Stats() string {
	total, maxPerCell := 0, 0
	for _, ids := range g.cells {
		total += len(ids)
		if len(ids) > maxPerCell {
			maxPerCell = len(ids)
		}
	}
	avg := 0.0
	if len(g.cells) > 0 {
		avg = float64(total) / float64(len(g.cells))
	}
	return fmt.Sprintf("SpatialGrid: %d boxes, %d cells, avg %.2f boxes/cell, max %d boxes/cell",
		len(g.boxes), len(g.cells), avg, maxPerCell)
}

// cellsFor возвращает ключи ячеек, которые пересекает прямоугольник
func (g *SpatialGrid) cellsFor(box AABB) []cellKey {
	minX := int(math.Floor(box.Min.X / g.cellSize))
	minY := int(math.Floor(box.Min.Y / g.cellSize))
	maxX := int(math.Floor(box.Max.X / g.cellSize))
	maxY := int(math.Floor(box.Max.Y / g.cellSize))

	keys := make([]cellKey, 0, (maxX-minX+1)*(maxY-minY+1))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			keys = append(keys, cellKey{x: x, y: y})
		}
	}
	return keys
}
