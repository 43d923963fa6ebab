package world

import (
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world/block"
)

// Flip косметическое отражение тайла
type Flip struct {
	X, Y bool
}

// ChunkData хранит блоки одного чанка размером ChunkSize x ChunkSize.
// Три параллельных массива индексируются через Linearize: передний план,
// фоновые стены и флаги отражения. Массивы всегда заполнены целиком.
type ChunkData struct {
	blocks [ChunkArea]block.BlockID
	walls  [ChunkArea]block.BlockID
	flips  [ChunkArea]Flip

	changes int // Счетчик реальных изменений
}

// NewChunkData создаёт чанк, заполненный воздухом
func NewChunkData() *ChunkData {
	return &ChunkData{}
}

// Block возвращает блок переднего плана по локальным координатам
func (c *ChunkData) Block(local vec.Vec2) (block.BlockID, bool) {
	if !isLocal(local) {
		return block.AirBlockID, false
	}
	return c.blocks[Linearize(local)], true
}

// SetBlock устанавливает блок переднего плана. Возвращает true, если значение изменилось.
// Неизвестные ID не записываются.
func (c *ChunkData) SetBlock(local vec.Vec2, id block.BlockID) bool {
	if !isLocal(local) || !block.IsValidBlockID(id) {
		return false
	}
	i := Linearize(local)
	if c.blocks[i] == id {
		return false
	}
	c.blocks[i] = id
	c.changes++
	return true
}

// Wall возвращает фоновую стену по локальным координатам
func (c *ChunkData) Wall(local vec.Vec2) (block.BlockID, bool) {
	if !isLocal(local) {
		return block.AirBlockID, false
	}
	return c.walls[Linearize(local)], true
}

// SetWall устанавливает фоновую стену. Возвращает true, если значение изменилось.
func (c *ChunkData) SetWall(local vec.Vec2, id block.BlockID) bool {
	if !isLocal(local) || !block.IsValidBlockID(id) {
		return false
	}
	i := Linearize(local)
	if c.walls[i] == id {
		return false
	}
	c.walls[i] = id
	c.changes++
	return true
}

// Flip возвращает флаги отражения тайла
func (c *ChunkData) Flip(local vec.Vec2) (Flip, bool) {
	if !isLocal(local) {
		return Flip{}, false
	}
	return c.flips[Linearize(local)], true
}

// SetFlip задаёт флаги отражения. Флаги косметические и не считаются изменением чанка.
func (c *ChunkData) SetFlip(local vec.Vec2, f Flip) bool {
	if !isLocal(local) {
		return false
	}
	c.flips[Linearize(local)] = f
	return true
}

// IsSolid сообщает, твёрдый ли блок переднего плана
func (c *ChunkData) IsSolid(local vec.Vec2) bool {
	id, ok := c.Block(local)
	return ok && block.IsSolid(id)
}

// solidAt быстрый доступ для мешера, без проверки границ
func (c *ChunkData) solidAt(x, y int) bool {
	return block.IsSolid(c.blocks[x+ChunkSize*y])
}

// Fill заполняет весь чанк одним блоком и одной стеной
func (c *ChunkData) Fill(front, wall block.BlockID) {
	if !block.IsValidBlockID(front) || !block.IsValidBlockID(wall) {
		return
	}
	for i := range c.blocks {
		c.blocks[i] = front
		c.walls[i] = wall
	}
	c.changes++
}

// SolidCount возвращает количество твёрдых блоков
func (c *ChunkData) SolidCount() int {
	n := 0
	for _, id := range c.blocks {
		if block.IsSolid(id) {
			n++
		}
	}
	return n
}
