package block

import (
	"fmt"
	"sort"
	"strings"
)

var registry = make(map[BlockID]BlockBehavior)

// Register добавляет поведение блока в регистр
func Register(id BlockID, behavior BlockBehavior) {
	registry[id] = behavior
}

// Get возвращает поведение для указанного ID
func Get(id BlockID) (BlockBehavior, bool) {
	behavior, exists := registry[id]
	return behavior, exists
}

// IsValidBlockID проверяет, входит ли ID в набор известных блоков.
// Не зависит от регистра поведений.
func IsValidBlockID(id BlockID) bool {
	return id < blockCount
}

// All возвращает зарегистрированные поведения, отсортированные по ID
func All() []BlockBehavior {
	result := make([]BlockBehavior, 0, len(registry))
	for _, b := range registry {
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result
}

// BlockID представляет идентификатор блока
type BlockID uint16

// Константы ID блоков. Порядок совпадает с индексами текстур в тайлсете.
const (
	AirBlockID    BlockID = iota // 0
	GrassBlockID                 // 1
	DirtBlockID                  // 2
	StoneBlockID                 // 3
	BorderBlockID                // 4

	blockCount
)

var names = [blockCount]string{"air", "grass", "dirt", "stone", "border"}

// FromUint32 декодирует числовое значение; неизвестные значения становятся воздухом
func FromUint32(v uint32) BlockID {
	if v >= uint32(blockCount) {
		return AirBlockID
	}
	return BlockID(v)
}

// ParseName находит блок по имени (без учёта регистра)
func ParseName(name string) (BlockID, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range names {
		if n == name {
			return BlockID(i), nil
		}
	}
	return AirBlockID, fmt.Errorf("неизвестный блок %q", name)
}

// String возвращает имя блока
func (id BlockID) String() string {
	if behavior, ok := Get(id); ok {
		return behavior.Name()
	}
	if id < blockCount {
		return names[id]
	}
	return fmt.Sprintf("block(%d)", uint16(id))
}

// IsSolid сообщает, твёрдый ли блок. Без зарегистрированного поведения
// твёрдым считается всё, кроме воздуха.
func IsSolid(id BlockID) bool {
	if behavior, ok := Get(id); ok {
		return behavior.IsSolid()
	}
	return id != AirBlockID
}

// ShouldFlip сообщает, можно ли отражать тайл блока
func ShouldFlip(id BlockID) bool {
	if behavior, ok := Get(id); ok {
		return behavior.ShouldFlip()
	}
	return id == DirtBlockID || id == StoneBlockID || id == BorderBlockID
}

// TexturePath возвращает путь к текстуре блока
func TexturePath(id BlockID) string {
	if behavior, ok := Get(id); ok {
		return behavior.TexturePath()
	}
	if id < blockCount {
		return "tiles/" + names[id] + ".png"
	}
	return "tiles/air.png"
}
