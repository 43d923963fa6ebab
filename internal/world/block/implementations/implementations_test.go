package implementations

import (
	"testing"

	"github.com/annel0/tileworld/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisteredCatalog(t *testing.T) {
	all := block.All()
	require.Len(t, all, 5, "должны быть зарегистрированы все пять видов блоков")

	expected := []struct {
		id    block.BlockID
		solid bool
		flip  bool
		tex   string
	}{
		{block.AirBlockID, false, false, "tiles/air.png"},
		{block.GrassBlockID, true, false, "tiles/grass.png"},
		{block.DirtBlockID, true, true, "tiles/dirt.png"},
		{block.StoneBlockID, true, true, "tiles/stone.png"},
		{block.BorderBlockID, true, true, "tiles/border.png"},
	}

	for i, e := range expected {
		assert.Equal(t, e.id, all[i].ID())
		assert.Equal(t, e.solid, block.IsSolid(e.id), "твёрдость %s", e.id)
		assert.Equal(t, e.flip, block.ShouldFlip(e.id), "отражение %s", e.id)
		assert.Equal(t, e.tex, block.TexturePath(e.id))
	}
}
