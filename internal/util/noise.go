package util

import (
	"github.com/aquilax/go-perlin"
)

// Параметры шума по умолчанию
const (
	DefaultAlpha   = 2.0 // Сглаживание шума
	DefaultBeta    = 2.0 // Частота шума
	DefaultOctaves = 3   // Количество октав
)

// Noise обёртка над генератором Перлина с фиксированным сидом.
// Один экземпляр на прогон генерации: одинаковый сид даёт одинаковый мир.
type Noise struct {
	seed   int64
	perlin *perlin.Perlin
}

// NewNoise создаёт генератор шума с параметрами по умолчанию
func NewNoise(seed int64) *Noise {
	return NewNoiseWithParams(seed, DefaultAlpha, DefaultBeta, DefaultOctaves)
}

// NewNoiseWithParams создаёт генератор шума с заданными параметрами
func NewNoiseWithParams(seed int64, alpha, beta float64, octaves int32) *Noise {
	return &Noise{
		seed:   seed,
		perlin: perlin.NewPerlin(alpha, beta, octaves, seed),
	}
}

// Seed возвращает сид генератора
func (n *Noise) Seed() int64 {
	return n.seed
}

// Noise1D возвращает сырое значение шума (примерно от -1 до 1)
func (n *Noise) Noise1D(x float64) float64 {
	return n.perlin.Noise1D(x)
}

// Noise2D возвращает сырое значение шума (примерно от -1 до 1)
func (n *Noise) Noise2D(x, y float64) float64 {
	return n.perlin.Noise2D(x, y)
}

// Noise2D01 возвращает значение шума Перлина, приведённое к диапазону от 0 до 1
func (n *Noise) Noise2D01(x, y float64) float64 {
	v := (n.perlin.Noise2D(x, y) + 1.0) / 2.0
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
