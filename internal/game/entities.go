package game

import (
	"github.com/annel0/tileworld/internal/physics"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world"
	"github.com/annel0/tileworld/internal/world/block"
)

// Размеры тел в пикселях
var (
	PlayerSize = vec.Vec2Float{X: 8, Y: 16}
	ItemSize   = vec.Vec2Float{X: 4, Y: 4}
	ArrowSize  = vec.Vec2Float{X: 2, Y: 8}
)

// Item выпавший блок, который можно подобрать
type Item struct {
	Body  *physics.Body
	Block block.BlockID
}

// PlayerInput управление игроком на следующий тик
type PlayerInput struct {
	MoveX int  // -1 влево, 0 стоять, 1 вправо
	Jump  bool // Прыжок, если игрок на земле
}

func newPlayerBody(id uint64, pos vec.Vec2Float) *physics.Body {
	return &physics.Body{
		ID:       id,
		Position: pos,
		Size:     PlayerSize,
		Caps:     physics.Capabilities{IsPlayer: true, GroundSensitive: true},
	}
}

func newItemBody(id uint64, cell vec.Vec2) *physics.Body {
	return &physics.Body{
		ID:       id,
		Position: cellCenter(cell),
		Size:     ItemSize,
		Caps:     physics.Capabilities{IsItem: true, GroundSensitive: true},
	}
}

func newArrowBody(id uint64, pos, velocity vec.Vec2Float) *physics.Body {
	return &physics.Body{
		ID:       id,
		Position: pos,
		Size:     ArrowSize,
		Velocity: velocity,
		Caps:     physics.Capabilities{IsArrow: true, Friction: true},
	}
}

// cellCenter центр блока в пикселях
func cellCenter(cell vec.Vec2) vec.Vec2Float {
	return vec.FromVec2(cell.Mul(world.BlockSize)).Add(vec.Vec2Float{X: world.BlockSize / 2, Y: world.BlockSize / 2})
}

// fellOutOfWorld сообщает, что тело ушло ниже мира
func fellOutOfWorld(b *physics.Body) bool {
	return b.Position.Y < -float64(world.ChunkSize*world.BlockSize)
}
