// Package presentation хранит узлы отображения чанков без привязки к движку рендера.
// Узлы живут в арене и адресуются индексом; дочерний узел хранит только индекс родителя.
package presentation

import (
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world"
	"github.com/annel0/tileworld/internal/world/block"
)

// NodeKind тип узла
type NodeKind uint8

const (
	NodeTilemap NodeKind = iota // Тайловый слой чанка
	NodeTile                    // Отдельный тайл
)

// Layer слой чанка
type Layer uint8

const (
	LayerForeground Layer = iota
	LayerWall
)

// noParent индекс родителя у корневых узлов
const noParent = -1

// Node узел арены
type Node struct {
	Kind   NodeKind
	Parent int // Индекс родителя или -1
	Chunk  world.ChunkPos
	Layer  Layer
	Local  vec.Vec2 // Позиция тайла внутри чанка
	Block  block.BlockID
	Flip   world.Flip
	Alive  bool

	gen   uint32
	tiles []int // Для тайлового слоя: индексы тайлов по Linearize, -1 если пусто
}

// Texture возвращает путь к текстуре тайла
func (n Node) Texture() string {
	return block.TexturePath(n.Block)
}

// Arena хранилище узлов с переиспользованием освобождённых слотов
type Arena struct {
	nodes    []Node
	free     []int
	live     int
	tilemaps int
}

// NewArena создаёт пустую арену
func NewArena() *Arena {
	return &Arena{}
}

// alloc выделяет слот и возвращает его индекс
func (a *Arena) alloc(n Node) int {
	n.Alive = true
	a.live++

	if k := len(a.free); k > 0 {
		idx := a.free[k-1]
		a.free = a.free[:k-1]
		n.gen = a.nodes[idx].gen + 1
		a.nodes[idx] = n
		return idx
	}
	a.nodes = append(a.nodes, n)
	return len(a.nodes) - 1
}

func (a *Arena) release(idx int) {
	n := &a.nodes[idx]
	if !n.Alive {
		return
	}
	n.Alive = false
	n.tiles = nil
	a.free = append(a.free, idx)
	a.live--
}

// handleOf упаковывает индекс и поколение слота
func (a *Arena) handleOf(idx int) world.Handle {
	return world.Handle(uint64(a.nodes[idx].gen)<<32 | uint64(idx+1))
}

// resolve проверяет дескриптор и возвращает индекс живого узла
func (a *Arena) resolve(h world.Handle) (int, bool) {
	idx := int(uint32(h)) - 1
	if idx < 0 || idx >= len(a.nodes) {
		return 0, false
	}
	n := &a.nodes[idx]
	if !n.Alive || n.gen != uint32(uint64(h)>>32) {
		return 0, false
	}
	return idx, true
}

func (a *Arena) newTilemap(pos world.ChunkPos, layer Layer) int {
	tiles := make([]int, world.ChunkArea)
	for i := range tiles {
		tiles[i] = -1
	}
	idx := a.alloc(Node{Kind: NodeTilemap, Parent: noParent, Chunk: pos, Layer: layer, tiles: tiles})
	a.tilemaps++
	return idx
}

func (a *Arena) addTile(tilemap int, local vec.Vec2, id block.BlockID, flip world.Flip) {
	if !block.ShouldFlip(id) {
		flip = world.Flip{}
	}
	parent := a.nodes[tilemap]
	idx := a.alloc(Node{
		Kind:   NodeTile,
		Parent: tilemap,
		Chunk:  parent.Chunk,
		Layer:  parent.Layer,
		Local:  local,
		Block:  id,
		Flip:   flip,
	})
	// alloc мог переразместить срез
	a.nodes[tilemap].tiles[world.Linearize(local)] = idx
}

// SpawnChunk создаёт слой переднего плана: тайл на каждый непустой блок
func (a *Arena) SpawnChunk(pos world.ChunkPos, data *world.ChunkData) world.Handle {
	tm := a.newTilemap(pos, LayerForeground)
	for y := 0; y < world.ChunkSize; y++ {
		for x := 0; x < world.ChunkSize; x++ {
			local := vec.Vec2{X: x, Y: y}
			id, _ := data.Block(local)
			if id == block.AirBlockID {
				continue
			}
			flip, _ := data.Flip(local)
			a.addTile(tm, local, id, flip)
		}
	}
	return a.handleOf(tm)
}

// SpawnWallChunk создаёт слой стен: тайл только там, где передний план пуст
func (a *Arena) SpawnWallChunk(pos world.ChunkPos, data *world.ChunkData) world.Handle {
	tm := a.newTilemap(pos, LayerWall)
	for y := 0; y < world.ChunkSize; y++ {
		for x := 0; x < world.ChunkSize; x++ {
			local := vec.Vec2{X: x, Y: y}
			if front, _ := data.Block(local); front != block.AirBlockID {
				continue
			}
			wall, _ := data.Wall(local)
			if wall == block.AirBlockID {
				continue
			}
			flip, _ := data.Flip(local)
			a.addTile(tm, local, wall, flip)
		}
	}
	return a.handleOf(tm)
}

// Despawn удаляет слой вместе со всеми тайлами. Устаревший дескриптор игнорируется.
func (a *Arena) Despawn(h world.Handle) {
	idx, ok := a.resolve(h)
	if !ok {
		return
	}
	if a.nodes[idx].Kind == NodeTilemap {
		for _, tile := range a.nodes[idx].tiles {
			if tile >= 0 {
				a.release(tile)
			}
		}
		a.tilemaps--
	}
	a.release(idx)
}

// Node возвращает узел по дескриптору
func (a *Arena) Node(h world.Handle) (Node, bool) {
	idx, ok := a.resolve(h)
	if !ok {
		return Node{}, false
	}
	return a.nodes[idx], true
}

// Tile возвращает тайл слоя по локальной позиции
func (a *Arena) Tile(h world.Handle, local vec.Vec2) (Node, bool) {
	idx, ok := a.resolve(h)
	if !ok || a.nodes[idx].Kind != NodeTilemap {
		return Node{}, false
	}
	if local.X < 0 || local.X >= world.ChunkSize || local.Y < 0 || local.Y >= world.ChunkSize {
		return Node{}, false
	}
	tile := a.nodes[idx].tiles[world.Linearize(local)]
	if tile < 0 {
		return Node{}, false
	}
	return a.nodes[tile], true
}

// TileCount возвращает число тайлов в слое
func (a *Arena) TileCount(h world.Handle) int {
	idx, ok := a.resolve(h)
	if !ok {
		return 0
	}
	n := 0
	for _, tile := range a.nodes[idx].tiles {
		if tile >= 0 {
			n++
		}
	}
	return n
}

// LiveNodes возвращает число живых узлов
func (a *Arena) LiveNodes() int {
	return a.live
}

// Tilemaps возвращает число живых тайловых слоёв
func (a *Arena) Tilemaps() int {
	return a.tilemaps
}

// Capacity возвращает число выделенных слотов
func (a *Arena) Capacity() int {
	return len(a.nodes)
}
