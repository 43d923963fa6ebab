package physics

import (
	"testing"

	"github.com/annel0/tileworld/internal/vec"
	"github.com/stretchr/testify/assert"
)

func TestAABBOverlapsExcludesTouching(t *testing.T) {
	a := BoxAt(vec.Vec2Float{X: 4, Y: 4}, vec.Vec2Float{X: 8, Y: 8})
	touching := CellBox(vec.Vec2{X: 1, Y: 0})
	inside := CellBox(vec.Vec2{X: 0, Y: 0})

	assert.False(t, a.Overlaps(touching))
	assert.True(t, a.Overlaps(inside))
}

func TestAABBCells(t *testing.T) {
	player := BoxAt(vec.Vec2Float{X: 14, Y: 16}, vec.Vec2Float{X: 8, Y: 16})

	assert.ElementsMatch(t, []vec.Vec2{
		{X: 1, Y: 1}, {X: 2, Y: 1},
		{X: 1, Y: 2}, {X: 2, Y: 2},
	}, player.Cells())

	aligned := BoxAt(vec.Vec2Float{X: 4, Y: 8}, vec.Vec2Float{X: 8, Y: 16})
	assert.ElementsMatch(t, []vec.Vec2{{X: 0, Y: 0}, {X: 0, Y: 1}}, aligned.Cells())
}

func TestRegionBoxScalesByBlockSize(t *testing.T) {
	box := RegionBox(vec.Vec2{X: 2, Y: 3}, vec.Vec2{X: 5, Y: 2})

	assert.Equal(t, vec.Vec2Float{X: 16, Y: 24}, box.Min)
	assert.Equal(t, vec.Vec2Float{X: 56, Y: 40}, box.Max)
	assert.Equal(t, vec.Vec2Float{X: 36, Y: 32}, box.Center())
}

func TestCheckBoxCollision(t *testing.T) {
	c := NewBoxCollider(1, 2)
	cell := NewBoxCollider(1, 1)

	assert.True(t, CheckBoxCollision(vec.Vec2{X: 3, Y: 3}, c, vec.Vec2{X: 3, Y: 4}, cell))
	assert.False(t, CheckBoxCollision(vec.Vec2{X: 3, Y: 3}, c, vec.Vec2{X: 3, Y: 5}, cell))
	assert.False(t, CheckBoxCollision(vec.Vec2{X: 3, Y: 3}, c, vec.Vec2{X: 4, Y: 3}, cell))
}

func TestCanMoveToPosition(t *testing.T) {
	solid := map[vec.Vec2]bool{{X: 5, Y: 5}: true}
	passable := func(p vec.Vec2) bool { return !solid[p] }
	collider := ColliderForSize(vec.Vec2Float{X: 8, Y: 16})

	assert.Equal(t, 1, collider.Width)
	assert.Equal(t, 2, collider.Height)
	assert.True(t, CanMoveToPosition(vec.Vec2{X: 5, Y: 6}, collider, passable))
	assert.False(t, CanMoveToPosition(vec.Vec2{X: 5, Y: 4}, collider, passable))
	assert.Len(t, GetCollisionPoints(vec.Vec2{}, collider), 2)
}
