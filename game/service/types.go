package service

import (
	"time"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
)

// Actions recorded by the service
const (
	ActionReveal  = "reveal"
	ActionFlag    = "flag"
	ActionRestart = "restart"
)

// Event types returned with action results
const (
	EventReveal  = "reveal"
	EventFlag    = "flag"
	EventUnflag  = "unflag"
	EventMineHit = "mine_hit"
	EventVictory = "victory"
	EventRestart = "restart"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`

	// HUD
	Phase          engine.Phase `json:"phase"`
	RemainingMines int          `json:"remaining_mines"`
	StartedAt      time.Time    `json:"started_at"`
	FinishedAt     *time.Time   `json:"finished_at,omitempty"`
	ElapsedSeconds int          `json:"elapsed_seconds"`
	Subscribers    int          `json:"subscribers"`
}

// ActionResult contains the result of a reveal or flag
type ActionResult struct {
	Success        bool              `json:"success"`
	Action         string            `json:"action"`
	Position       engine.Position   `json:"position"`
	GameState      *engine.GameState `json:"game_state"`
	Message        string            `json:"message"`
	Events         []GameEvent       `json:"events,omitempty"`
	Phase          engine.Phase      `json:"phase"`
	RemainingMines int               `json:"remaining_mines"`
	ElapsedSeconds int               `json:"elapsed_seconds"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string           `json:"type"` // "reveal", "flag", "unflag", "mine_hit", "victory", "restart"
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Position  *engine.Position `json:"position,omitempty"`
}

// CellInfo describes one cell as a player can see it
type CellInfo struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Char     string `json:"char"`
	Revealed bool   `json:"revealed"`
	Flagged  bool   `json:"flagged"`

	// Value is only disclosed once the cell is revealed
	Value *int `json:"value,omitempty"`

	HiddenNeighbors  int `json:"hidden_neighbors"`
	FlaggedNeighbors int `json:"flagged_neighbors"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	Mines       int    `json:"mines"`
	FixedLayout bool   `json:"fixed_layout"`
}
