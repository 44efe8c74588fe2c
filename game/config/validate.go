package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
)

// highDensity is the mine ratio above which a preset is flagged as unplayable
// in practice
const highDensity = 0.5

// ValidationResult captures the outcome of validating a single file.
// Errors make the file invalid; Notes are informational.
type ValidationResult struct {
	File   string   `json:"file"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
	Notes  []string `json:"notes,omitempty"`
}

// ValidateFile loads a preset file and reports whether a game can be built
// from it, with a short analysis of the board
func ValidateFile(path string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(path),
		Valid: true,
	}

	config, err := readConfigFile(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	if config.Name == "" {
		result.Notes = append(result.Notes, "name is empty; the file name will be shown instead")
	}

	cells := config.Rows * config.Cols
	density := float64(config.Mines) / float64(cells)
	result.Notes = append(result.Notes,
		fmt.Sprintf("%dx%d board, %d mines, %d safe cells, density %.1f%%",
			config.Rows, config.Cols, config.Mines, cells-config.Mines, density*100))

	if density > highDensity {
		result.Notes = append(result.Notes, "mine density above 50%; most games end on the first click")
	}
	if config.Mines == cells {
		result.Notes = append(result.Notes, "every cell is a mine; the game cannot be won")
	}

	if len(config.Layout) > 0 {
		eng, err := engine.NewEngine(config)
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, err.Error())
			return result
		}
		zeros := 0
		for _, row := range eng.GetGrid() {
			for _, cell := range row {
				if cell.Value == 0 {
					zeros++
				}
			}
		}
		if zeros == 0 && config.Mines < cells {
			result.Notes = append(result.Notes, "fixed layout has no empty cell; no reveal opens an area")
		} else {
			result.Notes = append(result.Notes, fmt.Sprintf("fixed layout has %d empty cells", zeros))
		}
	}

	return result
}

// ValidateDir validates every .json file in dir, sorted by file name
func ValidateDir(dir string) ([]ValidationResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	results := make([]ValidationResult, 0, len(names))
	for _, name := range names {
		results = append(results, ValidateFile(filepath.Join(dir, name)))
	}
	return results, nil
}
