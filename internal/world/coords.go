package world

import (
	"fmt"

	"github.com/annel0/tileworld/internal/vec"
)

// Размеры мира
const (
	BlockSize  = 8             // Размер блока в пикселях (только для презентации и физики)
	ChunkSize  = vec.ChunkSize // Блоков на сторону чанка
	ChunkArea  = ChunkSize * ChunkSize
	worldW     = 8
	worldH     = 8
	blocksWide = worldW * ChunkSize
	blocksHigh = worldH * ChunkSize
)

var (
	// WorldChunkSize размер мира в чанках
	WorldChunkSize = vec.Vec2{X: worldW, Y: worldH}
	// WorldBlockSize размер мира в блоках
	WorldBlockSize = vec.Vec2{X: blocksWide, Y: blocksHigh}
)

// ChunkPos координаты чанка в сетке мира
type ChunkPos struct {
	X, Y int
}

// ChunkPosOf возвращает чанк, которому принадлежит блок (деление с округлением вниз)
func ChunkPosOf(blockPos vec.Vec2) ChunkPos {
	c := blockPos.ToChunkCoords()
	return ChunkPos{X: c.X, Y: c.Y}
}

// LocalOf возвращает координаты блока внутри его чанка, в [0, ChunkSize)
func LocalOf(blockPos vec.Vec2) vec.Vec2 {
	return blockPos.LocalInChunk()
}

// Linearize переводит локальные координаты в индекс массива чанка
func Linearize(local vec.Vec2) int {
	return local.X + ChunkSize*local.Y
}

// isLocal проверяет, что координаты лежат внутри одного чанка
func isLocal(local vec.Vec2) bool {
	return local.X >= 0 && local.X < ChunkSize && local.Y >= 0 && local.Y < ChunkSize
}

// InBounds проверяет, что чанк лежит внутри сетки мира
func (c ChunkPos) InBounds() bool {
	return c.X >= 0 && c.X < WorldChunkSize.X && c.Y >= 0 && c.Y < WorldChunkSize.Y
}

// Origin возвращает глобальные координаты нижнего левого блока чанка
func (c ChunkPos) Origin() vec.Vec2 {
	return vec.Vec2{X: c.X * ChunkSize, Y: c.Y * ChunkSize}
}

// BlockPos переводит локальные координаты чанка в глобальные
func (c ChunkPos) BlockPos(local vec.Vec2) vec.Vec2 {
	return c.Origin().Add(local)
}

// Add сдвигает чанк на (dx, dy)
func (c ChunkPos) Add(dx, dy int) ChunkPos {
	return ChunkPos{X: c.X + dx, Y: c.Y + dy}
}

func (c ChunkPos) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// BlockInBounds проверяет, что блок лежит внутри мира
func BlockInBounds(pos vec.Vec2) bool {
	return ChunkPosOf(pos).InBounds()
}
