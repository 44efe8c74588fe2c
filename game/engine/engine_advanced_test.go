package engine

import (
	"math/rand/v2"
	"testing"
)

// checkInvariants asserts the properties every reachable state must hold
func checkInvariants(t *testing.T, e *GameEngine, values [][]int) {
	t.Helper()
	state := e.GetState()

	if state.GameWon && !state.GameOver {
		t.Fatal("game_won must imply game_over")
	}
	if state.FlagCount != CountFlags(state.Grid) {
		t.Fatalf("flag count %d does not match %d flagged cells", state.FlagCount, CountFlags(state.Grid))
	}
	for r, row := range state.Grid {
		for c, cell := range row {
			if cell.Value != values[r][c] {
				t.Fatalf("cell (%d,%d) value changed from %d to %d", r, c, values[r][c], cell.Value)
			}
		}
	}
}

func snapshotValues(grid Grid) [][]int {
	values := make([][]int, len(grid))
	for r, row := range grid {
		values[r] = make([]int, len(row))
		for c, cell := range row {
			values[r][c] = cell.Value
		}
	}
	return values
}

func TestEngine_RandomPlayKeepsInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for game := 0; game < 50; game++ {
		rows := 1 + rng.IntN(12)
		cols := 1 + rng.IntN(12)
		mines := rng.IntN(rows*cols + 1)

		engine := mustEngine(t, &GameConfig{
			Name:  "random",
			Rows:  rows,
			Cols:  cols,
			Mines: mines,
			Seed:  uint64(game + 1),
		})
		values := snapshotValues(engine.GetGrid())

		for step := 0; step < 200 && !engine.IsGameOver(); step++ {
			r, c := rng.IntN(rows), rng.IntN(cols)
			before := engine.GetState()

			var ok bool
			if rng.IntN(4) == 0 {
				ok = engine.FlagCell(r, c)
				if ok && engine.GetGrid()[r][c].Flagged == before.Grid[r][c].Flagged {
					t.Fatalf("successful flag must toggle (%d,%d)", r, c)
				}
			} else {
				ok = engine.RevealCell(r, c)
				cell := before.Grid[r][c]
				if (cell.Revealed || cell.Flagged) && ok {
					t.Fatalf("reveal of revealed/flagged (%d,%d) must fail", r, c)
				}
				if cell.IsMine() && !cell.Flagged && !cell.Revealed {
					if ok || !engine.IsGameOver() || engine.IsGameWon() {
						t.Fatalf("revealing mine (%d,%d) must lose", r, c)
					}
				}
			}

			checkInvariants(t, engine, values)
		}

		if engine.IsGameOver() && !engine.IsGameWon() {
			grid := engine.GetGrid()
			for r, row := range grid {
				for c, cell := range row {
					if cell.IsMine() && !cell.Revealed {
						t.Fatalf("mine (%d,%d) hidden after loss", r, c)
					}
				}
			}
		}
	}
}

func TestEngine_RevealAllSafeCellsWins(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		engine := mustEngine(t, &GameConfig{Name: "win", Rows: 9, Cols: 9, Mines: 10, Seed: seed})
		grid := engine.GetGrid()

		for r, row := range grid {
			for c, cell := range row {
				if cell.IsMine() {
					continue
				}
				engine.RevealCell(r, c)
			}
		}

		if !engine.IsGameWon() || !engine.IsGameOver() {
			t.Fatalf("seed %d: expected win after revealing every safe cell", seed)
		}
		if engine.RevealCell(0, 0) || engine.FlagCell(0, 0) {
			t.Fatalf("seed %d: expected no operation to succeed after a win", seed)
		}
	}
}

func TestEngine_IndependentInstances(t *testing.T) {
	a := mustEngine(t, createTestConfig())
	b := mustEngine(t, createTestConfig())

	a.RevealCell(0, 0)
	b.FlagCell(1, 1)

	if b.IsGameOver() {
		t.Error("Losing one game must not affect another")
	}
	if a.GetFlagCount() != 0 {
		t.Error("Flagging in one game must not affect another")
	}
}
