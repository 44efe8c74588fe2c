// Package engine provides the core board simulation for the Minesweeper server.
//
// The engine package implements the game mechanics including:
//   - Grid generation and random mine placement
//   - Adjacent mine counts over the Moore neighbourhood
//   - Reveal with flood fill across empty cells
//   - Flag toggling and the remaining-mine counter
//   - Win and loss detection
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState is the aggregate snapshot returned to
// callers, while GameConfig describes the board (rows, cols, mines and an
// optional fixed layout).
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(&engine.GameConfig{
//		Name: "easy", Rows: 8, Cols: 8, Mines: 10,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ok := gameEngine.RevealCell(3, 4)
//	state := gameEngine.GetState()
//
// Game Rules:
//
// Revealing a mine loses the game and discloses every mine. Revealing a safe
// cell with no adjacent mines opens its whole empty region. The game is won
// once every safe cell is revealed. Won and lost games ignore further reveal
// and flag calls until Restart generates a fresh board.
//
// Snapshots:
//
// GetState and GetGrid return deep copies; mutating them never affects the
// engine. GameEngine itself is not synchronized.
package engine
