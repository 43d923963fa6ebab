package implementations

import "github.com/annel0/tileworld/internal/world/block"

// StoneBehavior реализует поведение блока камня
type StoneBehavior struct {
	baseBehavior
}

// NewStoneBehavior создаёт поведение камня
func NewStoneBehavior() *StoneBehavior {
	return &StoneBehavior{baseBehavior{id: block.StoneBlockID, name: "stone", solid: true, flip: true}}
}

func init() {
	block.Register(block.StoneBlockID, NewStoneBehavior())
}
