// Package config provides difficulty presets for the Minesweeper server.
//
// The config package handles:
//   - Loading presets from JSON files
//   - Validation through engine.ValidateGameConfig
//   - Default preset selection
//   - Preset discovery, listing and saving
//
// Configuration Format:
//
// Each preset is a JSON file in the configs directory:
//
//	{
//	  "name": "Easy",
//	  "description": "8x8 board with 10 mines",
//	  "rows": 8,
//	  "cols": 8,
//	  "mines": 10
//	}
//
// An optional "layout" array pins the mines, one string per row using '*'
// for a mine and '.' for a safe cell. An optional "seed" makes random
// placement reproducible.
//
// Available Configurations:
//   - tiny: fixed 4x4 board with 2 mines
//   - easy: 8x8 with 10 mines (the default)
//   - medium: 12x12 with 25 mines
//   - hard: 16x16 with 40 mines
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("hard")
//
// ValidateFile and ValidateDir back the validate command and report
// density and layout notes alongside hard errors.
package config
