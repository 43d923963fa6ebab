package main

import (
	"context"
	"testing"

	"github.com/annel0/tileworld/internal/game"
	"github.com/annel0/tileworld/internal/presentation"
	"github.com/annel0/tileworld/internal/world"
	"github.com/annel0/tileworld/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickBlock(t *testing.T) {
	assert.Equal(t, block.DirtBlockID, pickBlock(nil))
	assert.Equal(t, block.StoneBlockID, pickBlock(map[block.BlockID]int{
		block.DirtBlockID:  1,
		block.StoneBlockID: 3,
	}))
}

func TestAutopilot_RunsGeneratedWorld(t *testing.T) {
	cfg := world.DefaultGeneratorConfig()
	cfg.Seed = 7
	storage, _ := world.NewWorldGenerator(cfg).Generate(context.Background())

	arena := presentation.NewArena()
	opts := game.DefaultOptions()
	opts.ChunkRadius = 1
	s := game.NewSession(storage, arena, game.SpawnAboveSurface(storage, world.WorldBlockSize.X/2), opts)
	s.Start(context.Background())

	pilot := newAutopilot()
	edits := 0
	for tick := uint64(0); tick < 600; tick++ {
		pilot.step(s, tick)
		rep := s.Tick(context.Background(), 1.0/60)
		edits += rep.Applied + rep.Rejected
	}

	assert.Equal(t, uint64(600), s.TickCount())
	assert.NotZero(t, edits, "автопилот должен пытаться менять мир")
	require.Positive(t, s.Streamer.LoadedCount())
	assert.Equal(t, 2*s.Streamer.LoadedCount(), arena.Tilemaps(), "на каждый чанк два слоя")
}
