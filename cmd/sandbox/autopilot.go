package main

import (
	"github.com/annel0/tileworld/internal/game"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world/block"
)

// Периоды действий автопилота в тиках
const (
	turnEvery  = 240
	mineEvery  = 60
	placeEvery = 90
	shootEvery = 120
	arrowSpeed = 200.0
)

// autopilot скриптованный игрок: ходит, копает, строит и стреляет
type autopilot struct {
	dir   int
	lastX float64
}

func newAutopilot() *autopilot {
	return &autopilot{dir: 1}
}

// step выдаёт намерения на тик tick
func (a *autopilot) step(s *game.Session, tick uint64) {
	p := s.Player
	if tick > 0 && tick%turnEvery == 0 {
		a.dir = -a.dir
	}

	// Упёрлись в стену - прыгаем
	stuck := tick > 0 && p.Position.X == a.lastX
	a.lastX = p.Position.X
	s.SetPlayerInput(game.PlayerInput{MoveX: a.dir, Jump: stuck})

	cell := p.Cell()
	switch {
	case tick%mineEvery == mineEvery/2:
		s.Mine(vec.Vec2{X: cell.X + a.dir, Y: cell.Y - 1})
	case tick%placeEvery == placeEvery/2:
		s.Place(vec.Vec2{X: cell.X - 2*a.dir, Y: cell.Y}, pickBlock(s.Inventory))
	case tick%shootEvery == 0:
		s.ShootArrow(p.Position.Add(vec.Vec2Float{Y: 8}), vec.Vec2Float{X: float64(a.dir) * arrowSpeed, Y: arrowSpeed / 2})
	}
}

// pickBlock выбирает блок, которого больше всего в инвентаре
func pickBlock(inv map[block.BlockID]int) block.BlockID {
	best, count := block.DirtBlockID, 0
	for _, id := range []block.BlockID{block.GrassBlockID, block.DirtBlockID, block.StoneBlockID} {
		if inv[id] > count {
			best, count = id, inv[id]
		}
	}
	return best
}
