package world

import (
	"bytes"
	"testing"

	"github.com/annel0/tileworld/internal/logging"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldStorage_AllChunksAllocated(t *testing.T) {
	ws := NewWorldStorage()

	assert.Equal(t, WorldChunkSize.X*WorldChunkSize.Y, ws.ChunkCount())
	for y := 0; y < WorldChunkSize.Y; y++ {
		for x := 0; x < WorldChunkSize.X; x++ {
			data, ok := ws.ChunkData(ChunkPos{x, y})
			require.True(t, ok, "чанк (%d,%d) должен существовать", x, y)
			assert.Equal(t, 0, data.SolidCount(), "новый чанк заполнен воздухом")
		}
	}

	_, ok := ws.ChunkData(ChunkPos{-1, 0})
	assert.False(t, ok)
}

func TestWorldStorage_BlockRoundTrip(t *testing.T) {
	ws := NewWorldStorage()
	pos := vec.Vec2{X: 70, Y: 33}

	assert.True(t, ws.SetBlock(pos, block.StoneBlockID))
	got, ok := ws.GetBlock(pos)
	require.True(t, ok)
	assert.Equal(t, block.StoneBlockID, got)
	assert.True(t, ws.IsSolid(pos))

	// Запись попала в нужный чанк по нужному индексу
	data, _ := ws.ChunkData(ChunkPos{2, 1})
	local, _ := data.Block(vec.Vec2{X: 6, Y: 1})
	assert.Equal(t, block.StoneBlockID, local)

	assert.True(t, ws.SetWall(pos, block.DirtBlockID))
	wall, ok := ws.GetWall(pos)
	require.True(t, ok)
	assert.Equal(t, block.DirtBlockID, wall)
}

func TestWorldStorage_Idempotence(t *testing.T) {
	once := NewWorldStorage()
	twice := NewWorldStorage()
	pos := vec.Vec2{X: 5, Y: 5}

	once.SetBlock(pos, block.GrassBlockID)
	twice.SetBlock(pos, block.GrassBlockID)
	assert.False(t, twice.SetBlock(pos, block.GrassBlockID), "повтор ничего не меняет")

	once.ForEachChunk(func(cp ChunkPos, a *ChunkData) {
		b, _ := twice.ChunkData(cp)
		assert.Equal(t, a.blocks, b.blocks, "чанк %s", cp)
		assert.Equal(t, a.walls, b.walls, "чанк %s", cp)
	})
}

func TestWorldStorage_OutOfBoundsNeverPanics(t *testing.T) {
	var buf bytes.Buffer
	prev := logging.Default()
	logging.SetDefaultLogger(logging.NewConsoleLogger("world", &buf, logging.WARN))
	defer logging.SetDefaultLogger(prev)

	ws := NewWorldStorage()
	off := []vec.Vec2{{X: -1, Y: 0}, {X: 0, Y: -40}, {X: WorldBlockSize.X, Y: 3}, {X: 3, Y: WorldBlockSize.Y + 100}}

	for _, pos := range off {
		assert.NotPanics(t, func() {
			_, ok := ws.GetBlock(pos)
			assert.False(t, ok)
			assert.False(t, ws.SetBlock(pos, block.StoneBlockID))
			assert.False(t, ws.SetWall(pos, block.StoneBlockID))
			assert.False(t, ws.IsSolid(pos))
		})
	}
	assert.Contains(t, buf.String(), "вне мира")
}

func TestWorldStorage_RejectsUnknownBlock(t *testing.T) {
	var buf bytes.Buffer
	prev := logging.Default()
	logging.SetDefaultLogger(logging.NewConsoleLogger("world", &buf, logging.WARN))
	defer logging.SetDefaultLogger(prev)

	ws := NewWorldStorage()
	pos := vec.Vec2{X: 45, Y: 20}

	assert.False(t, ws.SetBlock(pos, block.BlockID(500)))
	assert.False(t, ws.SetWall(pos, block.BlockID(77)))

	id, ok := ws.GetBlock(pos)
	require.True(t, ok)
	assert.Equal(t, block.AirBlockID, id)
	wall, _ := ws.GetWall(pos)
	assert.Equal(t, block.AirBlockID, wall)
	assert.False(t, ws.IsSolid(pos))
	assert.Contains(t, buf.String(), "недопустимый блок 500")
	assert.Contains(t, buf.String(), "недопустимый блок 77")
}

func TestWorldStorage_SetFlipOutOfBoundsLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := logging.Default()
	logging.SetDefaultLogger(logging.NewConsoleLogger("world", &buf, logging.WARN))
	defer logging.SetDefaultLogger(prev)

	ws := NewWorldStorage()
	assert.False(t, ws.SetFlip(vec.Vec2{X: -1, Y: 5}, Flip{X: true}))
	assert.Contains(t, buf.String(), "не удалось отразить тайл")
	assert.Contains(t, buf.String(), "вне мира")

	assert.True(t, ws.SetFlip(vec.Vec2{X: 1, Y: 5}, Flip{Y: true}))
	flip, ok := ws.GetFlip(vec.Vec2{X: 1, Y: 5})
	require.True(t, ok)
	assert.Equal(t, Flip{Y: true}, flip)
}

func TestWorldStorage_QueryBlocks(t *testing.T) {
	ws := NewWorldStorage()
	ws.SetBlock(vec.Vec2{X: 1, Y: 1}, block.DirtBlockID)

	// Прямоугольник частично вне мира
	blocks := ws.QueryBlocks(vec.Vec2{X: 2, Y: 2}, vec.Vec2{X: -2, Y: -2})
	assert.Len(t, blocks, 9)
	assert.Equal(t, block.DirtBlockID, blocks[vec.Vec2{X: 1, Y: 1}])
	_, has := blocks[vec.Vec2{X: -1, Y: 0}]
	assert.False(t, has)
}

func TestWorldStorage_ForEachChunkOrder(t *testing.T) {
	ws := NewWorldStorage()
	var order []ChunkPos
	ws.ForEachChunk(func(pos ChunkPos, _ *ChunkData) {
		order = append(order, pos)
	})

	require.Len(t, order, ws.ChunkCount())
	assert.Equal(t, ChunkPos{0, 0}, order[0])
	assert.Equal(t, ChunkPos{1, 0}, order[1])
	assert.Equal(t, ChunkPos{WorldChunkSize.X - 1, WorldChunkSize.Y - 1}, order[len(order)-1])
}

func BenchmarkWorldStorage_GetBlock(b *testing.B) {
	ws := NewWorldStorage()
	for i := 0; i < b.N; i++ {
		ws.GetBlock(vec.Vec2{X: i % WorldBlockSize.X, Y: (i / 7) % WorldBlockSize.Y})
	}
}
