package implementations

import "github.com/annel0/tileworld/internal/world/block"

// DirtBehavior реализует поведение блока земли
type DirtBehavior struct {
	baseBehavior
}

// NewDirtBehavior создаёт поведение земли
func NewDirtBehavior() *DirtBehavior {
	return &DirtBehavior{baseBehavior{id: block.DirtBlockID, name: "dirt", solid: true, flip: true}}
}

func init() {
	block.Register(block.DirtBlockID, NewDirtBehavior())
}
