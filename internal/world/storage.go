package world

import (
	"github.com/annel0/tileworld/internal/logging"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world/block"
)

// WorldStorage владеет данными всех чанков ограниченного мира.
// Все чанки создаются сразу в конструкторе и живут, пока жив мир.
// Хранилище не потокобезопасно: единственный писатель - тик игры.
type WorldStorage struct {
	chunks map[ChunkPos]*ChunkData
}

// NewWorldStorage создаёт хранилище с чанком для каждой позиции сетки
func NewWorldStorage() *WorldStorage {
	ws := &WorldStorage{
		chunks: make(map[ChunkPos]*ChunkData, WorldChunkSize.X*WorldChunkSize.Y),
	}
	for y := 0; y < WorldChunkSize.Y; y++ {
		for x := 0; x < WorldChunkSize.X; x++ {
			ws.chunks[ChunkPos{X: x, Y: y}] = NewChunkData()
		}
	}
	return ws
}

// ChunkData возвращает данные чанка, если он лежит в пределах мира
func (ws *WorldStorage) ChunkData(pos ChunkPos) (*ChunkData, bool) {
	if !pos.InBounds() {
		return nil, false
	}
	data, ok := ws.chunks[pos]
	if !ok {
		logging.Error("нет данных для чанка %s внутри мира", pos)
		return nil, false
	}
	return data, true
}

// ChunkCount возвращает количество чанков в хранилище
func (ws *WorldStorage) ChunkCount() int {
	return len(ws.chunks)
}

// ForEachChunk обходит чанки по строкам снизу вверх, слева направо
func (ws *WorldStorage) ForEachChunk(fn func(pos ChunkPos, data *ChunkData)) {
	for y := 0; y < WorldChunkSize.Y; y++ {
		for x := 0; x < WorldChunkSize.X; x++ {
			pos := ChunkPos{X: x, Y: y}
			if data, ok := ws.chunks[pos]; ok {
				fn(pos, data)
			}
		}
	}
}

// resolve находит чанк и локальные координаты для глобальной позиции блока
func (ws *WorldStorage) resolve(pos vec.Vec2) (*ChunkData, vec.Vec2, bool) {
	chunkPos := ChunkPosOf(pos)
	if !chunkPos.InBounds() {
		return nil, vec.Vec2{}, false
	}
	data, ok := ws.ChunkData(chunkPos)
	if !ok {
		return nil, vec.Vec2{}, false
	}
	return data, LocalOf(pos), true
}

// GetBlock возвращает блок переднего плана. ok=false вне мира.
func (ws *WorldStorage) GetBlock(pos vec.Vec2) (block.BlockID, bool) {
	data, local, ok := ws.resolve(pos)
	if !ok {
		return block.AirBlockID, false
	}
	return data.Block(local)
}

// SetBlock устанавливает блок переднего плана. Запись вне мира или неизвестного
// блока логируется и игнорируется.
// Пересчёт коллизий не запускается: вызывающий сам сообщает об изменении чанка.
func (ws *WorldStorage) SetBlock(pos vec.Vec2, id block.BlockID) bool {
	if !block.IsValidBlockID(id) {
		logging.Warn("не удалось установить блок в %v: недопустимый блок %d", pos, uint16(id))
		return false
	}
	data, local, ok := ws.resolve(pos)
	if !ok {
		logging.Warn("не удалось установить блок %s в %v: чанк %s вне мира", id, pos, ChunkPosOf(pos))
		return false
	}
	return data.SetBlock(local, id)
}

// GetWall возвращает фоновую стену. ok=false вне мира.
func (ws *WorldStorage) GetWall(pos vec.Vec2) (block.BlockID, bool) {
	data, local, ok := ws.resolve(pos)
	if !ok {
		return block.AirBlockID, false
	}
	return data.Wall(local)
}

// SetWall устанавливает фоновую стену. Запись вне мира или неизвестного
// блока логируется и игнорируется.
func (ws *WorldStorage) SetWall(pos vec.Vec2, id block.BlockID) bool {
	if !block.IsValidBlockID(id) {
		logging.Warn("не удалось установить стену в %v: недопустимый блок %d", pos, uint16(id))
		return false
	}
	data, local, ok := ws.resolve(pos)
	if !ok {
		logging.Warn("не удалось установить стену %s в %v: чанк %s вне мира", id, pos, ChunkPosOf(pos))
		return false
	}
	return data.SetWall(local, id)
}

// GetFlip возвращает флаги отражения тайла
func (ws *WorldStorage) GetFlip(pos vec.Vec2) (Flip, bool) {
	data, local, ok := ws.resolve(pos)
	if !ok {
		return Flip{}, false
	}
	return data.Flip(local)
}

// SetFlip задаёт флаги отражения тайла. Запись вне мира логируется и игнорируется.
func (ws *WorldStorage) SetFlip(pos vec.Vec2, f Flip) bool {
	data, local, ok := ws.resolve(pos)
	if !ok {
		logging.Warn("не удалось отразить тайл в %v: чанк %s вне мира", pos, ChunkPosOf(pos))
		return false
	}
	return data.SetFlip(local, f)
}

// IsSolid сообщает, занята ли клетка твёрдым блоком. Вне мира - false.
func (ws *WorldStorage) IsSolid(pos vec.Vec2) bool {
	id, ok := ws.GetBlock(pos)
	return ok && block.IsSolid(id)
}

// QueryBlocks возвращает блоки прямоугольника [min, max] включительно, только внутри мира
func (ws *WorldStorage) QueryBlocks(min, max vec.Vec2) map[vec.Vec2]block.BlockID {
	if min.X > max.X {
		min.X, max.X = max.X, min.X
	}
	if min.Y > max.Y {
		min.Y, max.Y = max.Y, min.Y
	}

	result := make(map[vec.Vec2]block.BlockID)
	for y := min.Y; y <= max.Y; y++ {
		for x := min.X; x <= max.X; x++ {
			pos := vec.Vec2{X: x, Y: y}
			if id, ok := ws.GetBlock(pos); ok {
				result[pos] = id
			}
		}
	}
	return result
}
