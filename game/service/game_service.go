package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
	"github.com/wricardo/mcp-training/minesweeper/game/state"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error
	ExpireSessions(ctx context.Context, maxAge time.Duration) (int, error)

	// Game Operations
	RevealCell(ctx context.Context, sessionID string, row, col int) (*ActionResult, error)
	FlagCell(ctx context.Context, sessionID string, row, col int) (*ActionResult, error)
	Restart(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	DescribeCell(ctx context.Context, sessionID string, row, col int) (*CellInfo, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Broadcaster pushes state snapshots and game events to a session's live
// viewers
type Broadcaster interface {
	BroadcastToSession(sessionID string, state *engine.GameState)
	BroadcastEvent(sessionID string, event string, data interface{})
}

// Recorder receives gameplay measurements
type Recorder interface {
	SessionCreated(configName string)
	SessionDeleted()
	ActionPerformed(action string, success bool)
	GameFinished(phase engine.Phase, elapsed time.Duration)
}

// Session represents an active game session
type Session struct {
	ID             string
	Game           *state.Manager
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time

	// StartedAt is reset by a restart; FinishedAt is zero while playing
	StartedAt  time.Time
	FinishedAt time.Time
}

// Elapsed returns the play time of the current game
func (s *Session) Elapsed(now time.Time) time.Duration {
	end := now
	if !s.FinishedAt.IsZero() {
		end = s.FinishedAt
	}
	if end.Before(s.StartedAt) {
		return 0
	}
	return end.Sub(s.StartedAt)
}
