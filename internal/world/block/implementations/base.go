package implementations

import "github.com/annel0/tileworld/internal/world/block"

// baseBehavior хранит общие для всех видов блоков свойства
type baseBehavior struct {
	id    block.BlockID
	name  string
	solid bool
	flip  bool
}

// ID возвращает идентификатор блока
func (b *baseBehavior) ID() block.BlockID {
	return b.id
}

// Name возвращает имя блока
func (b *baseBehavior) Name() string {
	return b.name
}

// IsSolid сообщает, участвует ли блок в коллизиях
func (b *baseBehavior) IsSolid() bool {
	return b.solid
}

// ShouldFlip разрешает случайное отражение тайла
func (b *baseBehavior) ShouldFlip() bool {
	return b.flip
}

// TexturePath возвращает путь к текстуре в тайлсете
func (b *baseBehavior) TexturePath() string {
	return "tiles/" + b.name + ".png"
}
