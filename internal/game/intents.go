package game

import (
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world"
	"github.com/annel0/tileworld/internal/world/block"
)

// IntentKind вид намерения изменить мир
type IntentKind uint8

const (
	IntentSetBlock    IntentKind = iota // Прямая установка блока
	IntentSetWall                       // Прямая установка стены
	IntentMine                          // Добыча блока игроком
	IntentPlace                         // Установка блока игроком
	IntentArrowImpact                   // Попадание стрелы в блок
)

// String возвращает имя вида намерения
func (k IntentKind) String() string {
	switch k {
	case IntentSetBlock:
		return "set_block"
	case IntentSetWall:
		return "set_wall"
	case IntentMine:
		return "mine"
	case IntentPlace:
		return "place"
	case IntentArrowImpact:
		return "arrow_impact"
	default:
		return "unknown"
	}
}

// layer возвращает слой мира, который меняет намерение
func (k IntentKind) layer() string {
	if k == IntentSetWall {
		return "wall"
	}
	return "block"
}

// Intent запрос на изменение мира, обрабатывается в начале тика
type Intent struct {
	world.BlockEvent
	Kind IntentKind
}

func newIntent(kind IntentKind, pos vec.Vec2, id block.BlockID) Intent {
	eventType := world.EventTypeBlockSet
	if kind == IntentSetWall {
		eventType = world.EventTypeWallSet
	}
	return Intent{
		BlockEvent: world.BlockEvent{EventType: eventType, Position: pos, Block: id},
		Kind:       kind,
	}
}

// Результаты правок для метрик
const (
	editApplied  = "applied"
	editRejected = "rejected"
)

// Причины отказа
const (
	rejectOutOfBounds = "вне мира"
	rejectAir         = "пустая клетка"
	rejectBorder      = "неразрушимый блок"
	rejectOccupied    = "клетка занята"
	rejectPlayer      = "пересекается с игроком"
	rejectInventory   = "нет блока в инвентаре"
	rejectUnchanged   = "значение не изменилось"
	rejectInvalid     = "недопустимый блок"
)
