package implementations

import "github.com/annel0/tileworld/internal/world/block"

// AirBehavior реализует поведение пустого блока (воздуха)
type AirBehavior struct {
	baseBehavior
}

// NewAirBehavior создаёт поведение воздуха: не твёрдый, не отражается
func NewAirBehavior() *AirBehavior {
	return &AirBehavior{baseBehavior{id: block.AirBlockID, name: "air"}}
}

func init() {
	block.Register(block.AirBlockID, NewAirBehavior())
}
