package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
	"github.com/wricardo/mcp-training/minesweeper/game/service"
)

const instructions = `Minesweeper - Complete Instructions

GAME OBJECTIVE:
Reveal every cell that does not hold a mine.

GAME MECHANICS:
• reveal_cell opens a hidden cell. A number tells how many of its eight
  neighbours hold mines.
• A revealed 0 opens all of its neighbours, spreading through the empty area.
• flag_cell marks a hidden cell you believe holds a mine. Flagged cells cannot
  be revealed; flag again to remove the flag.
• The mine counter shows mines minus flags. It can go negative.
• Revealing a mine ends the game and shows every mine.
• Once the game is over nothing changes until restart_game.

BOARD LEGEND:
  #   hidden cell
  F   flagged cell
  .   revealed, no adjacent mines
  1-8 revealed, number of adjacent mines
  *   mine (shown after a loss)

COORDINATES:
Rows and columns are zero-based; (0, 0) is the top-left cell. The board
printout labels columns across the top and rows down the left side.

STRATEGY TIPS:
• If a number equals its count of hidden neighbours, all of them are mines.
• If a number equals its count of flagged neighbours, the rest are safe.
• describe_cell reports both neighbour counts for any cell.`

// formatGrid renders the board with row and column labels
func formatGrid(grid engine.Grid) string {
	var b strings.Builder

	b.WriteString("    ")
	for col := 0; col < grid.Cols(); col++ {
		fmt.Fprintf(&b, "%3d", col)
	}
	b.WriteString("\n")

	for row, cells := range grid {
		fmt.Fprintf(&b, "%3d ", row)
		for _, cell := range cells {
			fmt.Fprintf(&b, "%3s", engine.CellChar(cell, false))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	fmt.Fprintf(&result, "Board: %dx%d | Mines: %d | Flags: %d | Mines left: %d | Status: %s\n\n",
		state.Rows, state.Cols, state.MineCount, state.FlagCount, state.RemainingMines(), state.Phase())

	result.WriteString(formatGrid(state.Grid))

	switch state.Phase() {
	case engine.Won:
		result.WriteString("\n🎉 VICTORY! Every safe cell is revealed.")
	case engine.Lost:
		result.WriteString("\n💥 GAME OVER. A mine was revealed.")
	}

	return result.String()
}

func formatSessionInfo(session *service.SessionInfo) string {
	var result strings.Builder
	fmt.Fprintf(&result, "Session: %s\nConfig: %s\nCreated: %s\n",
		session.ID, session.ConfigName, session.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&result, "Status: %s | Mines left: %d | Time: %ds | Viewers: %d\n\n",
		session.Phase, session.RemainingMines, session.ElapsedSeconds, session.Subscribers)
	result.WriteString(formatGameState(session.GameState))
	return result.String()
}

func formatActionResult(result *service.ActionResult) string {
	var response strings.Builder

	if result.Success {
		fmt.Fprintf(&response, "✓ %s\n", result.Message)
	} else {
		fmt.Fprintf(&response, "✗ %s\n", result.Message)
	}

	for _, event := range result.Events {
		if event.Message == "" || event.Message == result.Message {
			continue
		}
		fmt.Fprintf(&response, "• %s\n", event.Message)
	}
	fmt.Fprintf(&response, "Time: %ds\n\n", result.ElapsedSeconds)

	response.WriteString(formatGameState(result.GameState))
	return response.String()
}

func formatConfigs(configs []service.ConfigInfo) string {
	var result strings.Builder
	result.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		layout := "random"
		if config.FixedLayout {
			layout = "fixed layout"
		}
		fmt.Fprintf(&result, "• %s (config_id: %s)\n  %s\n  Board: %dx%d, Mines: %d, %s\n\n",
			config.Name, config.ConfigID, config.Description, config.Rows, config.Cols, config.Mines, layout)
	}
	return result.String()
}

func formatCellInfo(info *service.CellInfo) string {
	var state string
	switch {
	case info.Flagged:
		state = "Flagged"
	case !info.Revealed:
		state = "Hidden"
	case info.Value != nil && *info.Value == engine.MineValue:
		state = "Revealed mine"
	case info.Value != nil:
		state = fmt.Sprintf("Revealed, %d adjacent mine(s)", *info.Value)
	default:
		state = "Revealed"
	}

	return fmt.Sprintf(`Cell at (%d, %d):
━━━━━━━━━━━━━━━━━━━━━━━━
Character: %s
State: %s
Hidden neighbours: %d
Flagged neighbours: %d`,
		info.Row, info.Col, info.Char, state, info.HiddenNeighbors, info.FlaggedNeighbors)
}
