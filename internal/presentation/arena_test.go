package presentation

import (
	"context"
	"testing"

	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world"
	"github.com/annel0/tileworld/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Арена реализует интерфейс презентации стримера
var _ world.Presenter = (*Arena)(nil)

func sampleChunk() *world.ChunkData {
	data := world.NewChunkData()
	data.SetBlock(vec.Vec2{X: 0, Y: 0}, block.StoneBlockID)
	data.SetBlock(vec.Vec2{X: 1, Y: 0}, block.GrassBlockID)
	data.SetWall(vec.Vec2{X: 0, Y: 0}, block.DirtBlockID)
	data.SetWall(vec.Vec2{X: 2, Y: 0}, block.DirtBlockID)
	data.SetFlip(vec.Vec2{X: 0, Y: 0}, world.Flip{X: true, Y: true})
	data.SetFlip(vec.Vec2{X: 1, Y: 0}, world.Flip{X: true})
	data.SetFlip(vec.Vec2{X: 2, Y: 0}, world.Flip{Y: true})
	return data
}

func TestArena_SpawnChunkTiles(t *testing.T) {
	a := NewArena()
	h := a.SpawnChunk(world.ChunkPos{X: 1, Y: 2}, sampleChunk())

	require.NotEqual(t, world.NoHandle, h)
	assert.Equal(t, 2, a.TileCount(h))
	assert.Equal(t, 3, a.LiveNodes())

	stone, ok := a.Tile(h, vec.Vec2{X: 0, Y: 0})
	require.True(t, ok)
	assert.Equal(t, block.StoneBlockID, stone.Block)
	assert.Equal(t, world.Flip{X: true, Y: true}, stone.Flip)
	assert.Equal(t, world.ChunkPos{X: 1, Y: 2}, stone.Chunk)
	assert.Equal(t, "tiles/stone.png", stone.Texture())

	grass, ok := a.Tile(h, vec.Vec2{X: 1, Y: 0})
	require.True(t, ok)
	assert.Equal(t, world.Flip{}, grass.Flip, "трава не отражается")

	root, ok := a.Node(h)
	require.True(t, ok)
	assert.Equal(t, NodeTilemap, root.Kind)
	assert.Equal(t, noParent, root.Parent)
	assert.Equal(t, NodeTile, grass.Kind)

	_, ok = a.Tile(h, vec.Vec2{X: 5, Y: 5})
	assert.False(t, ok)
}

func TestArena_WallOnlyBehindAir(t *testing.T) {
	a := NewArena()
	h := a.SpawnWallChunk(world.ChunkPos{}, sampleChunk())

	assert.Equal(t, 1, a.TileCount(h), "стена под камнем не рисуется")
	wall, ok := a.Tile(h, vec.Vec2{X: 2, Y: 0})
	require.True(t, ok)
	assert.Equal(t, block.DirtBlockID, wall.Block)
	assert.Equal(t, LayerWall, wall.Layer)
	assert.Equal(t, world.Flip{Y: true}, wall.Flip)
}

func TestArena_DespawnFreesTilesAndInvalidatesHandle(t *testing.T) {
	a := NewArena()
	fg := a.SpawnChunk(world.ChunkPos{}, sampleChunk())
	wall := a.SpawnWallChunk(world.ChunkPos{}, sampleChunk())
	assert.Equal(t, 2, a.Tilemaps())

	a.Despawn(fg)
	assert.Equal(t, 2, a.LiveNodes(), "остался только слой стен с одним тайлом")
	assert.Equal(t, 1, a.Tilemaps())
	_, ok := a.Node(fg)
	assert.False(t, ok)

	// Слот переиспользуется, старый дескриптор остаётся недействительным
	capacity := a.Capacity()
	again := a.SpawnChunk(world.ChunkPos{}, sampleChunk())
	assert.Equal(t, capacity, a.Capacity())
	assert.NotEqual(t, fg, again)
	_, ok = a.Node(fg)
	assert.False(t, ok)

	a.Despawn(fg)
	assert.Equal(t, 5, a.LiveNodes(), "повторное удаление старого дескриптора ничего не делает")

	a.Despawn(again)
	a.Despawn(wall)
	a.Despawn(world.NoHandle)
	assert.Zero(t, a.LiveNodes())
	assert.Zero(t, a.Tilemaps())
}

func TestArena_WithStreamer(t *testing.T) {
	ws := world.NewWorldStorage()
	ws.SetBlock(vec.Vec2{X: 33, Y: 1}, block.DirtBlockID)
	a := NewArena()
	s := world.NewChunkStreamer(ws, world.NewRegionIndex(), a, 1)
	ctx := context.Background()

	s.ReloadAll(ctx, world.ChunkPos{X: 1, Y: 0})
	assert.Equal(t, 2*s.LoadedCount(), a.Tilemaps())
	assert.Equal(t, 2*s.LoadedCount()+1, a.LiveNodes())

	ws.SetBlock(vec.Vec2{X: 34, Y: 1}, block.DirtBlockID)
	s.ReloadChunk(ctx, world.ChunkPos{X: 1, Y: 0})
	lc, ok := s.Loaded(world.ChunkPos{X: 1, Y: 0})
	require.True(t, ok)
	assert.Equal(t, 2, a.TileCount(lc.Foreground))
	assert.Equal(t, 2*s.LoadedCount()+2, a.LiveNodes())

	s.UnloadAll()
	assert.Zero(t, a.LiveNodes())
}
