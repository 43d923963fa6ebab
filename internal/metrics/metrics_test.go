package metrics

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/annel0/tileworld/internal/world"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// WorldMetrics подходит стримеру чанков
var _ world.StreamMetrics = (*WorldMetrics)(nil)

type nopPresenter struct{ next world.Handle }

func (p *nopPresenter) SpawnChunk(world.ChunkPos, *world.ChunkData) world.Handle {
	p.next++
	return p.next
}
func (p *nopPresenter) SpawnWallChunk(pos world.ChunkPos, d *world.ChunkData) world.Handle {
	return p.SpawnChunk(pos, d)
}
func (p *nopPresenter) Despawn(world.Handle) {}

func TestWorldMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWorldMetrics(reg)

	m.ChunkReloaded(world.ReloadKindFull)
	m.ChunkReloaded(world.ReloadKindSingle)
	m.ChunkReloaded(world.ReloadKindSingle)
	m.SetLoaded(9, 40)
	m.ObserveMesh(time.Millisecond, 5)
	m.ObserveEdit("block", EditApplied)
	m.ObserveEdit("block", EditRejected)
	m.ObserveTick(2 * time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.reloads.WithLabelValues(world.ReloadKindFull)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.reloads.WithLabelValues(world.ReloadKindSingle)))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.loadedChunks))
	assert.Equal(t, 40.0, testutil.ToFloat64(m.regions))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.meshedRegions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.edits.WithLabelValues("block", EditRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ticks))

	expected := `
# HELP tileworld_loaded_chunks Количество материализованных чанков в окне игрока.
# TYPE tileworld_loaded_chunks gauge
tileworld_loaded_chunks 9
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "tileworld_loaded_chunks"))
}

func TestWorldMetrics_FromStreamer(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWorldMetrics(reg)
	s := world.NewChunkStreamer(world.NewWorldStorage(), world.NewRegionIndex(), &nopPresenter{}, 1, world.WithMetrics(m))

	s.ReloadAll(context.Background(), world.ChunkPos{X: 4, Y: 4})

	assert.Equal(t, 9.0, testutil.ToFloat64(m.loadedChunks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reloads.WithLabelValues(world.ReloadKindFull)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.regions), "пустой мир без регионов")
	assert.Equal(t, 1, testutil.CollectAndCount(m.meshDuration))
}

func TestWorldMetrics_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewWorldMetrics(reg)
	assert.Panics(t, func() { NewWorldMetrics(reg) })
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "5с", FormatUptime(5*time.Second))
	assert.Equal(t, "2м 3с", FormatUptime(2*time.Minute+3*time.Second))
	assert.Equal(t, "1ч 0м 1с", FormatUptime(time.Hour+time.Second))
	assert.Equal(t, "1д 2ч 0м 0с", FormatUptime(26*time.Hour))
}

func TestProcessSnapshot(t *testing.T) {
	ps := NewProcessStats()
	snap := ps.Snapshot()

	assert.Positive(t, snap.AllocMB)
	assert.Positive(t, snap.Goroutines)
	assert.Contains(t, snap.String(), "goroutines")
	assert.NotEmpty(t, ps.GetUptime())
}
