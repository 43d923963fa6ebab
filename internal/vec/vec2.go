package vec

import "math"

// Размер чанка задаётся сдвигом, чтобы деление и остаток для отрицательных
// координат считались через арифметический сдвиг и маску.
const (
	ChunkShift = 5
	ChunkSize  = 1 << ChunkShift // 32 блока
	ChunkMask  = ChunkSize - 1
)

// Vec2 представляет 2D координаты
type Vec2 struct {
	X, Y int
}

// ToChunkCoords преобразует глобальные координаты в координаты чанка.
// Сдвиг округляет к минус бесконечности, поэтому (-1) попадает в чанк -1.
func (v Vec2) ToChunkCoords() Vec2 {
	return Vec2{X: v.X >> ChunkShift, Y: v.Y >> ChunkShift}
}

// LocalInChunk возвращает локальные координаты внутри чанка, всегда в [0, ChunkSize)
func (v Vec2) LocalInChunk() Vec2 {
	return Vec2{X: v.X & ChunkMask, Y: v.Y & ChunkMask}
}

// Add складывает два вектора
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub вычитает вектор
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul умножает вектор на скаляр
func (v Vec2) Mul(scalar int) Vec2 {
	return Vec2{X: v.X * scalar, Y: v.Y * scalar}
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec2) DistanceTo(other Vec2) float64 {
	dx := float64(v.X - other.X)
	dy := float64(v.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
