package world

import (
	"testing"

	"github.com/annel0/tileworld/internal/vec"
	"github.com/stretchr/testify/assert"
)

func TestChunkPosOfFloorsNegative(t *testing.T) {
	cases := []struct {
		pos  vec.Vec2
		want ChunkPos
	}{
		{vec.Vec2{X: 0, Y: 0}, ChunkPos{0, 0}},
		{vec.Vec2{X: 31, Y: 31}, ChunkPos{0, 0}},
		{vec.Vec2{X: 32, Y: 64}, ChunkPos{1, 2}},
		{vec.Vec2{X: -1, Y: -1}, ChunkPos{-1, -1}},
		{vec.Vec2{X: -32, Y: -33}, ChunkPos{-1, -2}},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, ChunkPosOf(c.pos), "позиция %v", c.pos)
	}
}

func TestLocalOfNeverNegative(t *testing.T) {
	for x := -3 * ChunkSize; x < 3*ChunkSize; x += 7 {
		for y := -3 * ChunkSize; y < 3*ChunkSize; y += 5 {
			pos := vec.Vec2{X: x, Y: y}
			local := LocalOf(pos)
			assert.GreaterOrEqual(t, local.X, 0)
			assert.GreaterOrEqual(t, local.Y, 0)
			assert.Less(t, local.X, ChunkSize)
			assert.Less(t, local.Y, ChunkSize)

			// Чанк и локальные координаты однозначно восстанавливают позицию
			assert.Equal(t, pos, ChunkPosOf(pos).BlockPos(local))
		}
	}
}

func TestLinearizeInjective(t *testing.T) {
	seen := make(map[int]vec.Vec2, ChunkArea)
	for y := 0; y < ChunkSize; y++ {
		for x := 0; x < ChunkSize; x++ {
			idx := Linearize(vec.Vec2{X: x, Y: y})
			if prev, dup := seen[idx]; dup {
				t.Fatalf("индекс %d совпадает для %v и (%d,%d)", idx, prev, x, y)
			}
			assert.True(t, idx >= 0 && idx < ChunkArea)
			seen[idx] = vec.Vec2{X: x, Y: y}
		}
	}
	assert.Len(t, seen, ChunkArea)
}

func TestChunkPosInBounds(t *testing.T) {
	assert.True(t, ChunkPos{0, 0}.InBounds())
	assert.True(t, ChunkPos{WorldChunkSize.X - 1, WorldChunkSize.Y - 1}.InBounds())
	assert.False(t, ChunkPos{-1, 0}.InBounds())
	assert.False(t, ChunkPos{0, WorldChunkSize.Y}.InBounds())

	assert.Equal(t, WorldChunkSize.X*ChunkSize, WorldBlockSize.X)
	assert.True(t, BlockInBounds(vec.Vec2{X: WorldBlockSize.X - 1, Y: 0}))
	assert.False(t, BlockInBounds(vec.Vec2{X: WorldBlockSize.X, Y: 0}))
	assert.False(t, BlockInBounds(vec.Vec2{X: -1, Y: 3}))
}

func TestChunkPosString(t *testing.T) {
	assert.Equal(t, "(3,-2)", ChunkPos{3, -2}.String())
}
