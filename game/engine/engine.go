package engine

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Mutations
	RevealCell(row, col int) bool
	FlagCell(row, col int) bool
	Restart()

	// Game state queries
	GetState() *GameState
	GetGrid() Grid
	IsGameOver() bool
	IsGameWon() bool
	GetMineCount() int
	GetFlagCount() int
	RemainingMines() int
	Phase() Phase

	// Geometry
	InBounds(row, col int) bool
	CheckBounds(row, col int) error

	// Configuration
	GetConfig() *GameConfig
}

// GameEngine implements the Engine interface. It is not safe for concurrent
// use; callers sharing one instance must serialize access.
type GameEngine struct {
	state  *GameState
	config *GameConfig
	rng    *rand.Rand
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	seed := config.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	engine := &GameEngine{
		config: config,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	engine.state = engine.newState()

	return engine, nil
}

// NewEngineWithDefaults creates a new game engine with the default configuration
func NewEngineWithDefaults() *GameEngine {
	engine, err := NewEngine(DefaultGameConfig())
	if err != nil {
		panic(fmt.Sprintf("default config rejected: %v", err))
	}
	return engine
}

// newState builds a fresh state with a newly generated grid
func (e *GameEngine) newState() *GameState {
	return &GameState{
		Grid:      e.generateGrid(),
		GameOver:  false,
		GameWon:   false,
		MineCount: e.config.Mines,
		FlagCount: 0,
		GameID:    uuid.NewString(),
		Rows:      e.config.Rows,
		Cols:      e.config.Cols,
	}
}

// RevealCell reveals the cell at (row, col). It returns false when the call
// has no effect or when the revealed cell is a mine.
func (e *GameEngine) RevealCell(row, col int) bool {
	if e.state.GameOver || e.state.GameWon {
		return false
	}
	if !e.InBounds(row, col) {
		return false
	}

	cell := &e.state.Grid[row][col]
	if cell.Flagged || cell.Revealed {
		return false
	}

	if cell.IsMine() {
		cell.Revealed = true
		e.state.GameOver = true
		e.revealAllMines()
		return false
	}

	e.floodReveal(row, col)

	if e.allSafeCellsRevealed() {
		e.state.GameWon = true
		e.state.GameOver = true
	}
	return true
}

// FlagCell toggles the flag on an unrevealed cell
func (e *GameEngine) FlagCell(row, col int) bool {
	if e.state.GameOver || e.state.GameWon {
		return false
	}
	if !e.InBounds(row, col) {
		return false
	}

	cell := &e.state.Grid[row][col]
	if cell.Revealed {
		return false
	}

	if cell.Flagged {
		cell.Flagged = false
		e.state.FlagCount--
	} else {
		cell.Flagged = true
		e.state.FlagCount++
	}
	return true
}

// Restart discards the current game and generates a fresh grid with the
// same dimensions and mine count
func (e *GameEngine) Restart() {
	e.state = e.newState()
}

// GetState returns an independent copy of the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state.Clone()
}

// GetGrid returns an independent copy of the grid
func (e *GameEngine) GetGrid() Grid {
	return e.state.Grid.Clone()
}

// IsGameOver returns whether the game is over (won or lost)
func (e *GameEngine) IsGameOver() bool {
	return e.state.GameOver
}

// IsGameWon returns whether the player has won
func (e *GameEngine) IsGameWon() bool {
	return e.state.GameWon
}

// GetMineCount returns the number of mines on the board
func (e *GameEngine) GetMineCount() int {
	return e.state.MineCount
}

// GetFlagCount returns the number of flagged cells
func (e *GameEngine) GetFlagCount() int {
	return e.state.FlagCount
}

// RemainingMines returns mines minus flags
func (e *GameEngine) RemainingMines() int {
	return e.state.RemainingMines()
}

// Phase returns the current lifecycle phase
func (e *GameEngine) Phase() Phase {
	return e.state.Phase()
}

// InBounds reports whether (row, col) addresses a cell on the board
func (e *GameEngine) InBounds(row, col int) bool {
	return row >= 0 && row < e.state.Rows && col >= 0 && col < e.state.Cols
}

// CheckBounds returns ErrOutOfBounds when (row, col) is off the board
func (e *GameEngine) CheckBounds(row, col int) error {
	if !e.InBounds(row, col) {
		return fmt.Errorf("%w: (%d,%d) is outside a %dx%d grid",
			ErrOutOfBounds, row, col, e.state.Rows, e.state.Cols)
	}
	return nil
}

// GetConfig returns the configuration the engine was built from
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}
