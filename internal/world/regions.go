package world

import (
	"sort"

	"github.com/annel0/tileworld/internal/vec"
)

// Region прямоугольник из твёрдых блоков для проверки коллизий.
// Anchor - нижний левый блок в глобальных координатах, Size - размер в блоках.
type Region struct {
	Anchor vec.Vec2
	Size   vec.Vec2
}

// Max возвращает верхний правый блок региона (включительно)
func (r Region) Max() vec.Vec2 {
	return vec.Vec2{X: r.Anchor.X + r.Size.X - 1, Y: r.Anchor.Y + r.Size.Y - 1}
}

// Contains проверяет, покрывает ли регион блок
func (r Region) Contains(pos vec.Vec2) bool {
	return pos.X >= r.Anchor.X && pos.X < r.Anchor.X+r.Size.X &&
		pos.Y >= r.Anchor.Y && pos.Y < r.Anchor.Y+r.Size.Y
}

// Cells возвращает все блоки региона
func (r Region) Cells() []vec.Vec2 {
	cells := make([]vec.Vec2, 0, r.Size.X*r.Size.Y)
	for y := r.Anchor.Y; y < r.Anchor.Y+r.Size.Y; y++ {
		for x := r.Anchor.X; x < r.Anchor.X+r.Size.X; x++ {
			cells = append(cells, vec.Vec2{X: x, Y: y})
		}
	}
	return cells
}

// MeshChunk строит регионы коллизий чанка жадным слиянием.
//
// Сначала каждая строка делится на непрерывные отрезки твёрдых блоков. Отрезок
// заканчивается на воздухе, на правом краю чанка или на уже занятой клетке.
// Затем каждый отрезок пробует вырасти вверх ровно на одну строку: если все
// клетки над ним твёрдые и свободные, они помечаются занятыми и высота
// становится 2. Регионы никогда не выходят за границы чанка и не пересекаются.
func MeshChunk(pos ChunkPos, data *ChunkData) []Region {
	var (
		expanded [ChunkArea]bool
		regions  []Region
	)
	origin := pos.Origin()

	free := func(x, y int) bool {
		return data.solidAt(x, y) && !expanded[x+ChunkSize*y]
	}

	for y := 0; y < ChunkSize; y++ {
		x := 0
		for x < ChunkSize {
			if !free(x, y) {
				x++
				continue
			}

			start := x
			for x < ChunkSize && free(x, y) {
				x++
			}

			height := 1
			if y+1 < ChunkSize {
				grow := true
				for i := start; i < x; i++ {
					if !free(i, y+1) {
						grow = false
						break
					}
				}
				if grow {
					for i := start; i < x; i++ {
						expanded[i+ChunkSize*(y+1)] = true
					}
					height = 2
				}
			}

			regions = append(regions, Region{
				Anchor: vec.Vec2{X: origin.X + start, Y: origin.Y + y},
				Size:   vec.Vec2{X: x - start, Y: height},
			})
		}
	}
	return regions
}

// RegionIndex кэш регионов коллизий по загруженным чанкам.
// Набор регионов чанка всегда заменяется целиком.
type RegionIndex struct {
	chunks  map[ChunkPos][]Region
	order   []ChunkPos // Отсортированные ключи для детерминированного обхода
	regions int
}

// NewRegionIndex создаёт пустой индекс
func NewRegionIndex() *RegionIndex {
	return &RegionIndex{chunks: make(map[ChunkPos][]Region)}
}

// Rebuild пересчитывает регионы чанка с нуля. Возвращает число регионов.
func (ri *RegionIndex) Rebuild(pos ChunkPos, data *ChunkData) int {
	regions := MeshChunk(pos, data)

	if old, ok := ri.chunks[pos]; ok {
		ri.regions -= len(old)
	} else {
		ri.insertKey(pos)
	}
	ri.chunks[pos] = regions
	ri.regions += len(regions)
	return len(regions)
}

// Remove удаляет регионы чанка
func (ri *RegionIndex) Remove(pos ChunkPos) {
	old, ok := ri.chunks[pos]
	if !ok {
		return
	}
	ri.regions -= len(old)
	delete(ri.chunks, pos)

	i := sort.Search(len(ri.order), func(i int) bool { return !chunkLess(ri.order[i], pos) })
	if i < len(ri.order) && ri.order[i] == pos {
		ri.order = append(ri.order[:i], ri.order[i+1:]...)
	}
}

// Clear удаляет все регионы
func (ri *RegionIndex) Clear() {
	ri.chunks = make(map[ChunkPos][]Region)
	ri.order = ri.order[:0]
	ri.regions = 0
}

// Regions возвращает регионы чанка
func (ri *RegionIndex) Regions(pos ChunkPos) ([]Region, bool) {
	regions, ok := ri.chunks[pos]
	return regions, ok
}

// ForEachRegion обходит регионы всех загруженных чанков только для чтения
func (ri *RegionIndex) ForEachRegion(fn func(anchor, size vec.Vec2)) {
	for _, pos := range ri.order {
		for _, r := range ri.chunks[pos] {
			fn(r.Anchor, r.Size)
		}
	}
}

// RegionAt находит регион, покрывающий блок
func (ri *RegionIndex) RegionAt(pos vec.Vec2) (Region, bool) {
	for _, r := range ri.chunks[ChunkPosOf(pos)] {
		if r.Contains(pos) {
			return r, true
		}
	}
	return Region{}, false
}

// ChunkCount возвращает число чанков в индексе
func (ri *RegionIndex) ChunkCount() int {
	return len(ri.chunks)
}

// RegionCount возвращает общее число регионов
func (ri *RegionIndex) RegionCount() int {
	return ri.regions
}

func (ri *RegionIndex) insertKey(pos ChunkPos) {
	i := sort.Search(len(ri.order), func(i int) bool { return !chunkLess(ri.order[i], pos) })
	ri.order = append(ri.order, ChunkPos{})
	copy(ri.order[i+1:], ri.order[i:])
	ri.order[i] = pos
}

// chunkLess порядок по строкам: сначала Y, затем X
func chunkLess(a, b ChunkPos) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}
