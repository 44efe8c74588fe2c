package engine

// CountMines counts the mine cells in the grid
func CountMines(grid Grid) int {
	return countCells(grid, func(c Cell) bool { return c.IsMine() })
}

// CountFlags counts the flagged cells in the grid
func CountFlags(grid Grid) int {
	return countCells(grid, func(c Cell) bool { return c.Flagged })
}

// CountRevealed counts the revealed cells in the grid
func CountRevealed(grid Grid) int {
	return countCells(grid, func(c Cell) bool { return c.Revealed })
}

// CountHiddenSafe counts non-mine cells that are still hidden
func CountHiddenSafe(grid Grid) int {
	return countCells(grid, func(c Cell) bool { return !c.IsMine() && !c.Revealed })
}

// AdjacentMines counts the mines in the Moore neighbourhood of (row, col)
func AdjacentMines(grid Grid, row, col int) int {
	count := 0
	forEachNeighbor(grid.Rows(), grid.Cols(), row, col, func(r, c int) {
		if grid[r][c].IsMine() {
			count++
		}
	})
	return count
}

// CellChar renders a cell as a single character as a player would see it.
// When showMines is set, hidden mines are drawn too.
func CellChar(cell Cell, showMines bool) string {
	switch {
	case cell.Revealed && cell.IsMine():
		return "*"
	case cell.Revealed && cell.Value == 0:
		return "."
	case cell.Revealed:
		return string(rune('0' + cell.Value))
	case cell.Flagged:
		return "F"
	case showMines && cell.IsMine():
		return "*"
	default:
		return "#"
	}
}

func countCells(grid Grid, match func(Cell) bool) int {
	count := 0
	for _, row := range grid {
		for _, cell := range row {
			if match(cell) {
				count++
			}
		}
	}
	return count
}
