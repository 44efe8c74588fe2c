package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
)

func hasNote(result ValidationResult, substr string) bool {
	for _, note := range result.Notes {
		if strings.Contains(note, substr) {
			return true
		}
	}
	return false
}

func TestValidateFile(t *testing.T) {
	dir := createTestConfigDir(t)
	defer os.RemoveAll(dir)

	writeConfigFile(t, dir, "easy", &engine.GameConfig{Name: "Easy", Rows: 8, Cols: 8, Mines: 10})
	writeConfigFile(t, dir, "fixed", createValidConfig())
	writeConfigFile(t, dir, "dense", &engine.GameConfig{Name: "Dense", Rows: 3, Cols: 3, Mines: 8})
	writeConfigFile(t, dir, "full", &engine.GameConfig{Name: "Full", Rows: 2, Cols: 2, Mines: 4})
	writeConfigFile(t, dir, "crowded", &engine.GameConfig{
		Name: "Crowded", Rows: 2, Cols: 3, Mines: 2,
		Layout: []string{"*.*", "..."},
	})
	os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"rows": 3, "cols": 3, "mines": 12}`), 0644)
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{`), 0644)

	tests := []struct {
		file   string
		valid  bool
		errSub string
		note   string
	}{
		{"easy.json", true, "", "8x8 board, 10 mines, 54 safe cells"},
		{"fixed.json", true, "", "fixed layout has 6 empty cells"},
		{"dense.json", true, "", "mine density above 50%"},
		{"full.json", true, "", "cannot be won"},
		{"crowded.json", true, "", "no reveal opens an area"},
		{"bad.json", false, "mines must be between 0 and 9", ""},
		{"broken.json", false, "failed to parse", ""},
		{"missing.json", false, "configuration not found", ""},
	}

	for _, test := range tests {
		t.Run(test.file, func(t *testing.T) {
			result := ValidateFile(filepath.Join(dir, test.file))

			if result.File != test.file {
				t.Errorf("Expected file %s, got %s", test.file, result.File)
			}
			if result.Valid != test.valid {
				t.Fatalf("Expected valid=%v, got %v (errors: %v)", test.valid, result.Valid, result.Errors)
			}
			if test.errSub != "" && (len(result.Errors) == 0 || !strings.Contains(result.Errors[0], test.errSub)) {
				t.Errorf("Expected error containing %q, got %v", test.errSub, result.Errors)
			}
			if test.note != "" && !hasNote(result, test.note) {
				t.Errorf("Expected note containing %q, got %v", test.note, result.Notes)
			}
		})
	}
}

func TestValidateDir(t *testing.T) {
	dir := createTestConfigDir(t)
	defer os.RemoveAll(dir)

	writeConfigFile(t, dir, "b", createValidConfig())
	writeConfigFile(t, dir, "a", &engine.GameConfig{Name: "A", Rows: 2, Cols: 2, Mines: 1})
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644)
	os.Mkdir(filepath.Join(dir, "nested.json"), 0755)

	results, err := ValidateDir(dir)
	if err != nil {
		t.Fatalf("Failed to validate dir: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].File != "a.json" || results[1].File != "b.json" {
		t.Errorf("Expected results sorted by file name, got %s, %s", results[0].File, results[1].File)
	}

	if _, err := ValidateDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestValidateShippedPresets(t *testing.T) {
	results, err := ValidateDir(filepath.Join("..", "..", "configs"))
	if err != nil {
		t.Fatalf("Failed to validate shipped presets: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Expected shipped presets")
	}
	for _, result := range results {
		if !result.Valid {
			t.Errorf("Shipped preset %s is invalid: %v", result.File, result.Errors)
		}
	}
}
