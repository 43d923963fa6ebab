package block

// BlockBehavior описывает неизменяемые свойства вида блока.
// Экземпляры блоков не несут состояния: в мире хранится только BlockID.
type BlockBehavior interface {
	ID() BlockID
	Name() string
	// IsSolid сообщает, участвует ли блок в коллизиях
	IsSolid() bool
	// ShouldFlip разрешает косметическое отражение тайла
	ShouldFlip() bool
	TexturePath() string
}
