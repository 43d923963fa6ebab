package world

import (
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world/block"
)

// EventType определяет тип события
type EventType uint8

const (
	EventTypeBlockSet     EventType = iota // Установка блока
	EventTypeWallSet                       // Установка стены
	EventTypeChunkChanged                  // Чанк изменён, нужна перезагрузка
	EventTypeReloadAll                     // Перезагрузка всего окна
)

// String возвращает имя типа события
func (t EventType) String() string {
	switch t {
	case EventTypeBlockSet:
		return "block_set"
	case EventTypeWallSet:
		return "wall_set"
	case EventTypeChunkChanged:
		return "chunk_changed"
	case EventTypeReloadAll:
		return "reload_all"
	default:
		return "unknown"
	}
}

// Event представляет собой интерфейс для всех событий
type Event interface {
	GetType() EventType
}

// BlockEvent запрос на изменение блока или стены
type BlockEvent struct {
	EventType EventType
	Position  vec.Vec2 // Мировые координаты блока
	Block     block.BlockID
}

// GetType возвращает тип события
func (e BlockEvent) GetType() EventType {
	return e.EventType
}

// ChunkEvent сигнал об изменении чанка или о полной перезагрузке
type ChunkEvent struct {
	EventType EventType
	Chunk     ChunkPos
}

// GetType возвращает тип события
func (e ChunkEvent) GetType() EventType {
	return e.EventType
}

// EventQueue очередь событий одного тика. Принадлежит драйверу тика и
// полностью опустошается каждый тик, между тиками ничего не копится.
type EventQueue[T Event] struct {
	events []T
}

// Push добавляет событие в очередь
func (q *EventQueue[T]) Push(e T) {
	q.events = append(q.events, e)
}

// Len возвращает количество событий
func (q *EventQueue[T]) Len() int {
	return len(q.events)
}

// Drain возвращает все события в порядке поступления и очищает очередь
func (q *EventQueue[T]) Drain() []T {
	out := q.events
	q.events = nil
	return out
}
