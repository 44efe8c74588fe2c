package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig = errors.New("invalid game configuration")
	ErrOutOfBounds   = errors.New("coordinates out of bounds")
)

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	// Any positive size is a valid board; there is no upper bound
	if config.Rows < MinDimension {
		return fmt.Errorf("%w: rows must be at least %d, got %d",
			ErrInvalidConfig, MinDimension, config.Rows)
	}
	if config.Cols < MinDimension {
		return fmt.Errorf("%w: cols must be at least %d, got %d",
			ErrInvalidConfig, MinDimension, config.Cols)
	}

	capacity := config.Rows * config.Cols
	if config.Mines < 0 || config.Mines > capacity {
		return fmt.Errorf("%w: mines must be between 0 and %d for a %dx%d grid, got %d",
			ErrInvalidConfig, capacity, config.Rows, config.Cols, config.Mines)
	}

	if len(config.Layout) == 0 {
		return nil
	}

	if len(config.Layout) != config.Rows {
		return fmt.Errorf("%w: layout must have %d rows, got %d",
			ErrInvalidConfig, config.Rows, len(config.Layout))
	}

	mines := 0
	for i, row := range config.Layout {
		if len(row) != config.Cols {
			return fmt.Errorf("%w: layout row %d must have %d characters, got %d",
				ErrInvalidConfig, i+1, config.Cols, len(row))
		}
		for j, char := range row {
			switch char {
			case LayoutMine:
				mines++
			case LayoutEmpty:
			default:
				return fmt.Errorf("%w: invalid character '%c' at row %d, col %d",
					ErrInvalidConfig, char, i+1, j+1)
			}
		}
	}

	if mines != config.Mines {
		return fmt.Errorf("%w: layout holds %d mines but mines is %d",
			ErrInvalidConfig, mines, config.Mines)
	}

	return nil
}

// DefaultGameConfig returns the easy board from the main menu
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:        "easy",
		Description: "8x8 board with 10 mines",
		Rows:        8,
		Cols:        8,
		Mines:       10,
	}
}
