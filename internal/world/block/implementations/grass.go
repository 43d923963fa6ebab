package implementations

import "github.com/annel0/tileworld/internal/world/block"

// GrassBehavior реализует поведение травы.
// Трава не отражается: у текстуры есть верх и низ.
type GrassBehavior struct {
	baseBehavior
}

// NewGrassBehavior создаёт поведение травы
func NewGrassBehavior() *GrassBehavior {
	return &GrassBehavior{baseBehavior{id: block.GrassBlockID, name: "grass", solid: true}}
}

func init() {
	block.Register(block.GrassBlockID, NewGrassBehavior())
}
