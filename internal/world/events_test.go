package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventQueue_DrainClears(t *testing.T) {
	var q EventQueue[ChunkEvent]
	q.Push(ChunkEvent{EventType: EventTypeChunkChanged, Chunk: ChunkPos{1, 2}})
	q.Push(ChunkEvent{EventType: EventTypeReloadAll})

	assert.Equal(t, 2, q.Len())
	events := q.Drain()
	assert.Len(t, events, 2)
	assert.Equal(t, ChunkPos{1, 2}, events[0].Chunk)
	assert.Equal(t, EventTypeReloadAll, events[1].GetType())

	assert.Zero(t, q.Len())
	assert.Empty(t, q.Drain())
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "chunk_changed", EventTypeChunkChanged.String())
	assert.Equal(t, "unknown", EventType(99).String())
}
