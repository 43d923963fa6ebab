package physics

import (
	"testing"

	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world"
	"github.com/annel0/tileworld/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = 1.0 / 60.0

// regionList простой источник регионов для тестов
type regionList []world.Region

func (l regionList) ForEachRegion(fn func(anchor, size vec.Vec2)) {
	for _, r := range l {
		fn(r.Anchor, r.Size)
	}
}

func floorAndWall() regionList {
	return regionList{
		{Anchor: vec.Vec2{X: 0, Y: 0}, Size: vec.Vec2{X: 10, Y: 1}},
		{Anchor: vec.Vec2{X: 10, Y: 0}, Size: vec.Vec2{X: 1, Y: 10}},
	}
}

func TestEngine_LandsOnFloor(t *testing.T) {
	e := NewEngine()
	player := &Body{
		Position: vec.Vec2Float{X: 40, Y: 60},
		Size:     vec.Vec2Float{X: 8, Y: 16},
		Caps:     Capabilities{IsPlayer: true, GroundSensitive: true},
	}

	for i := 0; i < 120; i++ {
		e.Step([]*Body{player}, floorAndWall(), dt)
	}

	assert.True(t, player.Grounded)
	assert.InDelta(t, 16.0, player.Position.Y, 1e-9, "низ игрока на верхней грани пола")
	assert.Zero(t, player.Velocity.Y)
	assert.Equal(t, vec.Vec2{Y: -1}, player.HitDir)
}

func TestEngine_StopsAtWall(t *testing.T) {
	e := NewEngine()
	body := &Body{
		Position: vec.Vec2Float{X: 60, Y: 12},
		Size:     vec.Vec2Float{X: 8, Y: 8},
		Caps:     Capabilities{GroundSensitive: true},
	}

	for i := 0; i < 60; i++ {
		body.Velocity.X = 100
		e.Step([]*Body{body}, floorAndWall(), dt)
	}

	assert.InDelta(t, 76.0, body.Position.X, 1e-9)
	assert.InDelta(t, 12.0, body.Position.Y, 1e-9)
	assert.Zero(t, body.Velocity.X)
	assert.True(t, body.Grounded)
}

func TestEngine_FrictionArrowSticks(t *testing.T) {
	e := NewEngine()
	arrow := &Body{
		Position: vec.Vec2Float{X: 40, Y: 40},
		Size:     vec.Vec2Float{X: 2, Y: 8},
		Velocity: vec.Vec2Float{X: 400, Y: 0},
		Caps:     Capabilities{IsArrow: true, Friction: true},
	}

	for i := 0; i < 30 && !arrow.Hit; i++ {
		e.Step([]*Body{arrow}, floorAndWall(), dt)
	}

	require.True(t, arrow.Hit)
	assert.Equal(t, vec.Vec2{X: 1}, arrow.HitDir)
	assert.Equal(t, vec.Vec2Float{}, arrow.Velocity, "трение гасит обе оси")
	assert.Equal(t, 10, arrow.HitPoint.Floor(world.BlockSize).X, "точка удара внутри стены")
}

func TestEngine_NoTunnellingAtMaxSpeed(t *testing.T) {
	e := NewEngine()
	item := &Body{
		Position: vec.Vec2Float{X: 20, Y: 200},
		Size:     vec.Vec2Float{X: 4, Y: 4},
		Velocity: vec.Vec2Float{Y: -10000},
		Caps:     Capabilities{IsItem: true, GroundSensitive: true},
	}

	for i := 0; i < 120; i++ {
		e.Step([]*Body{item}, floorAndWall(), dt)
	}

	assert.InDelta(t, 10.0, item.Position.Y, 1e-9)
	assert.True(t, item.Grounded)
}

func TestEngine_ClampsSpeed(t *testing.T) {
	e := &Engine{Gravity: 0, MaxSpeed: 100}
	b := &Body{Position: vec.Vec2Float{X: 500, Y: 500}, Size: vec.Vec2Float{X: 1, Y: 1}, Velocity: vec.Vec2Float{X: 1000, Y: -1000}}

	e.Step([]*Body{b}, regionList{}, dt)

	assert.Equal(t, 100.0, b.Velocity.X)
	assert.Equal(t, -100.0, b.Velocity.Y)
	assert.False(t, b.Hit)
}

func TestEngine_UsesRegionIndex(t *testing.T) {
	data := world.NewChunkData()
	for x := 0; x < world.ChunkSize; x++ {
		data.SetBlock(vec.Vec2{X: x, Y: 0}, block.StoneBlockID)
	}
	index := world.NewRegionIndex()
	index.Rebuild(world.ChunkPos{X: 1, Y: 0}, data)

	player := &Body{
		Position: vec.Vec2Float{X: 300, Y: 40},
		Size:     vec.Vec2Float{X: 8, Y: 16},
		Caps:     Capabilities{IsPlayer: true, GroundSensitive: true},
	}
	for i := 0; i < 120; i++ {
		NewEngine().Step([]*Body{player}, index, dt)
	}

	assert.True(t, player.Grounded)
	assert.InDelta(t, 16.0, player.Position.Y, 1e-9)
	assert.Equal(t, vec.Vec2{X: 37, Y: 2}, player.Cell())
}
