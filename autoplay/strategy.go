package autoplay

import (
	"math/rand/v2"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
)

// Move is the next action the strategy wants to take
type Move struct {
	Row   int
	Col   int
	Flag  bool // flag instead of reveal
	Guess bool // not backed by a deduction
}

// Strategy picks moves from what a player can see: revealed numbers and flags.
// Values of hidden cells are never read.
type Strategy struct {
	rng *rand.Rand
}

// NewStrategy creates a strategy whose guesses are reproducible for a seed
func NewStrategy(seed uint64) *Strategy {
	return &Strategy{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// frontier is a revealed number together with its unresolved neighbours
type frontier struct {
	hidden  []engine.Position
	flagged int
	value   int
}

// Next returns the next move, or false when no hidden cell is left to play
func (s *Strategy) Next(state *engine.GameState) (Move, bool) {
	if state == nil || state.Phase() != engine.Playing {
		return Move{}, false
	}

	fronts := frontiers(state.Grid)

	// Single-cell rules: a satisfied number clears its hidden neighbours, and a
	// number short exactly its hidden count marks them all.
	for _, f := range fronts {
		if f.flagged == f.value {
			p := f.hidden[0]
			return Move{Row: p.Row, Col: p.Col}, true
		}
	}
	for _, f := range fronts {
		if f.value-f.flagged == len(f.hidden) {
			p := f.hidden[0]
			return Move{Row: p.Row, Col: p.Col, Flag: true}, true
		}
	}

	return s.guess(state, fronts)
}

// guess reveals the hidden cell with the lowest estimated mine probability
func (s *Strategy) guess(state *engine.GameState, fronts []frontier) (Move, bool) {
	var unknown []engine.Position
	for r, row := range state.Grid {
		for c, cell := range row {
			if !cell.Revealed && !cell.Flagged {
				unknown = append(unknown, engine.Position{Row: r, Col: c})
			}
		}
	}
	if len(unknown) == 0 {
		return Move{}, false
	}

	global := float64(state.RemainingMines()) / float64(len(unknown))
	risk := make(map[engine.Position]float64, len(unknown))
	for _, f := range fronts {
		local := float64(f.value-f.flagged) / float64(len(f.hidden))
		for _, p := range f.hidden {
			if current, ok := risk[p]; !ok || local > current {
				risk[p] = local
			}
		}
	}

	best := -1.0
	var candidates []engine.Position
	for _, p := range unknown {
		r, ok := risk[p]
		if !ok {
			r = global
		}
		switch {
		case best < 0 || r < best:
			best = r
			candidates = candidates[:0]
			candidates = append(candidates, p)
		case r == best:
			candidates = append(candidates, p)
		}
	}

	p := candidates[s.rng.IntN(len(candidates))]
	return Move{Row: p.Row, Col: p.Col, Guess: true}, true
}

// frontiers lists every revealed number that still touches a hidden cell
// and is not contradicted by its flags
func frontiers(grid engine.Grid) []frontier {
	var out []frontier
	for r, row := range grid {
		for c, cell := range row {
			if !cell.Revealed || cell.Value <= 0 {
				continue
			}
			f := frontier{value: cell.Value}
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					nr, nc := r+dr, c+dc
					if (dr == 0 && dc == 0) || nr < 0 || nr >= grid.Rows() || nc < 0 || nc >= grid.Cols() {
						continue
					}
					switch n := grid[nr][nc]; {
					case n.Flagged:
						f.flagged++
					case !n.Revealed:
						f.hidden = append(f.hidden, engine.Position{Row: nr, Col: nc})
					}
				}
			}
			// More flags than the number means a wrong flag; its hint is unusable
			if len(f.hidden) > 0 && f.flagged <= f.value {
				out = append(out, f)
			}
		}
	}
	return out
}
