package engine

// neighborOffsets lists the Moore neighbourhood
var neighborOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// forEachNeighbor calls fn for every in-bounds Moore neighbour of (row, col)
func forEachNeighbor(rows, cols, row, col int, fn func(r, c int)) {
	for _, d := range neighborOffsets {
		r, c := row+d[0], col+d[1]
		if r >= 0 && r < rows && c >= 0 && c < cols {
			fn(r, c)
		}
	}
}

// generateGrid allocates an empty board and places the configured mines
func (e *GameEngine) generateGrid() Grid {
	rows, cols := e.config.Rows, e.config.Cols
	grid := make(Grid, rows)
	for i := range grid {
		grid[i] = make([]Cell, cols)
	}

	if len(e.config.Layout) > 0 {
		for r, line := range e.config.Layout {
			for c, char := range line {
				if char == LayoutMine {
					placeMine(grid, r, c)
				}
			}
		}
		return grid
	}

	placed := 0
	for placed < e.config.Mines {
		r := e.rng.IntN(rows)
		c := e.rng.IntN(cols)
		if grid[r][c].IsMine() {
			continue
		}
		placeMine(grid, r, c)
		placed++
	}
	return grid
}

// placeMine marks (row, col) as a mine and bumps its non-mine neighbours
func placeMine(grid Grid, row, col int) {
	grid[row][col].Value = MineValue
	forEachNeighbor(grid.Rows(), grid.Cols(), row, col, func(r, c int) {
		if !grid[r][c].IsMine() {
			grid[r][c].Value++
		}
	})
}

// floodReveal reveals (row, col) and spreads across zero-valued cells
func (e *GameEngine) floodReveal(row, col int) {
	grid := e.state.Grid
	stack := []Position{{Row: row, Col: col}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cell := &grid[p.Row][p.Col]
		if cell.Revealed || cell.Flagged {
			continue
		}
		cell.Revealed = true

		if cell.Value != 0 {
			continue
		}
		forEachNeighbor(grid.Rows(), grid.Cols(), p.Row, p.Col, func(r, c int) {
			n := grid[r][c]
			if !n.Revealed && !n.Flagged {
				stack = append(stack, Position{Row: r, Col: c})
			}
		})
	}
}

// revealAllMines discloses every mine after a loss
func (e *GameEngine) revealAllMines() {
	for i := range e.state.Grid {
		for j := range e.state.Grid[i] {
			if e.state.Grid[i][j].IsMine() {
				e.state.Grid[i][j].Revealed = true
			}
		}
	}
}

// allSafeCellsRevealed checks the win condition
func (e *GameEngine) allSafeCellsRevealed() bool {
	for _, row := range e.state.Grid {
		for _, cell := range row {
			if !cell.IsMine() && !cell.Revealed {
				return false
			}
		}
	}
	return true
}
