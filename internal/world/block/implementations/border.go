package implementations

import "github.com/annel0/tileworld/internal/world/block"

// BorderBehavior реализует неразрушаемую границу мира
type BorderBehavior struct {
	baseBehavior
}

// NewBorderBehavior создаёт поведение границы
func NewBorderBehavior() *BorderBehavior {
	return &BorderBehavior{baseBehavior{id: block.BorderBlockID, name: "border", solid: true, flip: true}}
}

func init() {
	block.Register(block.BorderBlockID, NewBorderBehavior())
}
