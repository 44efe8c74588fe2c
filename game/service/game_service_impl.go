package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
	"github.com/wricardo/mcp-training/minesweeper/game/state"
)

// Option configures the game service
type Option func(*gameServiceImpl)

// WithBroadcaster pushes every state change of every session to b
func WithBroadcaster(b Broadcaster) Option {
	return func(s *gameServiceImpl) {
		s.broadcaster = b
	}
}

// WithRecorder reports actions and outcomes to r
func WithRecorder(r Recorder) Option {
	return func(s *gameServiceImpl) {
		s.recorder = r
	}
}

// WithLogger sets the service logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *gameServiceImpl) {
		s.logger = logger
	}
}

// WithClock overrides the time source used for the game clock
func WithClock(now func() time.Time) Option {
	return func(s *gameServiceImpl) {
		s.now = now
	}
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions    SessionManager
	configs     ConfigManager
	broadcaster Broadcaster
	recorder    Recorder
	logger      logrus.FieldLogger
	now         func() time.Time

	// detach removes the observers attached to a session
	detach map[string][]func()
	mu     sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		recorder: nopRecorder{},
		logger:   logrus.StandardLogger(),
		now:      time.Now,
		detach:   make(map[string][]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// stateLogger logs every state change of one session at debug level
type stateLogger struct {
	sessionID string
	logger    logrus.FieldLogger
}

func (l stateLogger) OnStateChange(gs *engine.GameState) {
	l.logger.WithFields(logrus.Fields{
		"session":   l.sessionID,
		"game_id":   gs.GameID,
		"phase":     gs.Phase(),
		"flags":     gs.FlagCount,
		"revealed":  engine.CountRevealed(gs.Grid),
		"remaining": gs.RemainingMines(),
	}).Debug("state changed")
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Load configuration
	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				// Provide helpful error message with available options
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found (available: %v): %w", configName, configIDs, err)
				}
				return nil, fmt.Errorf("config '%s' not found, use /api/configs to list configurations: %w", configName, err)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	session.StartedAt = s.now()

	s.attachObservers(session)

	// Prefer the requested name, otherwise look up the config_id by display name
	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	s.recorder.SessionCreated(configID)
	s.logger.WithFields(logrus.Fields{
		"session": session.ID,
		"config":  configID,
		"rows":    config.Rows,
		"cols":    config.Cols,
		"mines":   config.Mines,
	}).Info("session created")

	info := s.sessionInfo(session)
	info.ConfigName = configID
	return info, nil
}

// attachObservers subscribes the live observers to a new session
func (s *gameServiceImpl) attachObservers(session *Session) {
	id := session.ID
	detach := []func(){
		session.Game.Subscribe(stateLogger{sessionID: id, logger: s.logger}),
	}
	if s.broadcaster != nil {
		detach = append(detach, session.Game.Subscribe(state.ListenerFunc(func(gs *engine.GameState) {
			s.broadcaster.BroadcastToSession(id, gs)
		})))
	}
	s.detach[id] = detach
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// ExpireSessions deletes every session idle for longer than maxAge
func (s *gameServiceImpl) ExpireSessions(ctx context.Context, maxAge time.Duration) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	// Collect idle IDs first; DeleteSession takes the write lock
	cutoff := s.now().Add(-maxAge)

	s.mu.RLock()
	var idle []string
	for _, sess := range s.sessions.List() {
		if sess.LastAccessedAt.Before(cutoff) {
			idle = append(idle, sess.ID)
		}
	}
	s.mu.RUnlock()

	removed := 0
	for _, id := range idle {
		err := s.DeleteSession(ctx, id)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, ErrSessionNotFound):
			// deleted concurrently
		default:
			return removed, err
		}
	}
	return removed, nil
}

// DeleteSession removes a session and detaches its observers
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}
	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}

	// Stop observers before forgetting the session
	for _, unsubscribe := range s.detach[sess.ID] {
		unsubscribe()
	}
	delete(s.detach, sess.ID)

	s.recorder.SessionDeleted()
	s.logger.WithField("session", sess.ID).Info("session deleted")
	return nil
}

// RevealCell reveals a cell in a session's game
func (s *gameServiceImpl) RevealCell(ctx context.Context, sessionID string, row, col int) (*ActionResult, error) {
	return s.act(ctx, sessionID, ActionReveal, row, col)
}

// FlagCell toggles a flag in a session's game
func (s *gameServiceImpl) FlagCell(ctx context.Context, sessionID string, row, col int) (*ActionResult, error) {
	return s.act(ctx, sessionID, ActionFlag, row, col)
}

// act runs one reveal or flag and builds the result from the before and
// after snapshots
func (s *gameServiceImpl) act(ctx context.Context, sessionID, action string, row, col int) (*ActionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	// Update last accessed time
	s.sessions.UpdateLastAccessed(sessionID)

	if err := sess.Game.CheckBounds(row, col); err != nil {
		return nil, err
	}

	// Execute action
	before := sess.Game.GetState()
	var success bool
	switch action {
	case ActionReveal:
		success = sess.Game.RevealCell(row, col)
	case ActionFlag:
		success = sess.Game.FlagCell(row, col)
	default:
		return nil, fmt.Errorf("unknown action %q", action)
	}
	after := sess.Game.GetState()
	now := s.now()

	// Collect events
	pos := engine.Position{Row: row, Col: col}
	events, message := describeAction(action, success, pos, before, after, now)

	if after.GameOver && sess.FinishedAt.IsZero() {
		sess.FinishedAt = now
		s.recorder.GameFinished(after.Phase(), sess.Elapsed(now))
	}
	s.recorder.ActionPerformed(action, success)
	// Push game-ending events to watchers
	if s.broadcaster != nil {
		for _, event := range events {
			if event.Type == EventMineHit || event.Type == EventVictory {
				s.broadcaster.BroadcastEvent(sess.ID, event.Type, event)
			}
		}
	}

	s.logger.WithFields(logrus.Fields{
		"session": sess.ID,
		"action":  action,
		"row":     row,
		"col":     col,
		"success": success,
		"phase":   after.Phase(),
	}).Info("action")

	// Build result
	return &ActionResult{
		Success:        success,
		Action:         action,
		Position:       pos,
		GameState:      after,
		Message:        message,
		Events:         events,
		Phase:          after.Phase(),
		RemainingMines: after.RemainingMines(),
		ElapsedSeconds: int(sess.Elapsed(now).Seconds()),
	}, nil
}

// describeAction derives the events and the player-facing message of an action
func describeAction(action string, success bool, pos engine.Position, before, after *engine.GameState, now time.Time) ([]GameEvent, string) {
	events := []GameEvent{}
	cellBefore := before.Grid[pos.Row][pos.Col]
	cellAfter := after.Grid[pos.Row][pos.Col]

	event := func(typ, msg string) {
		p := pos
		events = append(events, GameEvent{Type: typ, Message: msg, Timestamp: now, Position: &p})
	}

	// Rejected actions carry a message but no event
	switch {
	case before.GameOver:
		return events, "Game is over; restart to play again"
	case action == ActionFlag && cellBefore.Revealed:
		return events, fmt.Sprintf("Cell (%d,%d) is already revealed", pos.Row, pos.Col)
	case action == ActionReveal && cellBefore.Flagged:
		return events, fmt.Sprintf("Cell (%d,%d) is flagged; unflag it first", pos.Row, pos.Col)
	case action == ActionReveal && cellBefore.Revealed:
		return events, fmt.Sprintf("Cell (%d,%d) is already revealed", pos.Row, pos.Col)
	}

	var message string
	switch action {
	case ActionFlag:
		if cellAfter.Flagged {
			message = fmt.Sprintf("Flagged (%d,%d), %d mines remaining", pos.Row, pos.Col, after.RemainingMines())
			event(EventFlag, message)
		} else {
			message = fmt.Sprintf("Unflagged (%d,%d), %d mines remaining", pos.Row, pos.Col, after.RemainingMines())
			event(EventUnflag, message)
		}
	case ActionReveal:
		if !success && cellAfter.IsMine() {
			message = fmt.Sprintf("Mine hit at (%d,%d). Game over!", pos.Row, pos.Col)
			event(EventMineHit, message)
			return events, message
		}
		opened := engine.CountRevealed(after.Grid) - engine.CountRevealed(before.Grid)
		message = fmt.Sprintf("Revealed %d cell(s) from (%d,%d)", opened, pos.Row, pos.Col)
		event(EventReveal, message)
		if after.GameWon {
			message = "Victory! Every safe cell is revealed"
			events = append(events, GameEvent{Type: EventVictory, Message: message, Timestamp: now})
		}
	}
	return events, message
}

// Restart starts a new game in the session
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	// Reset the board and the game clock
	sess.Game.Restart()
	sess.StartedAt = s.now()
	sess.FinishedAt = time.Time{}

	s.recorder.ActionPerformed(ActionRestart, true)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastEvent(sess.ID, EventRestart, GameEvent{
			Type:      EventRestart,
			Message:   "Game restarted",
			Timestamp: sess.StartedAt,
		})
	}
	s.logger.WithField("session", sess.ID).Info("game restarted")

	return sess.Game.GetState(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Game.GetState(), nil
}

// DescribeCell reports what a player can see at (row, col)
func (s *gameServiceImpl) DescribeCell(ctx context.Context, sessionID string, row, col int) (*CellInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	if err := sess.Game.CheckBounds(row, col); err != nil {
		return nil, err
	}

	st := sess.Game.GetState()
	cell := st.Grid[row][col]
	info := &CellInfo{
		Row:      row,
		Col:      col,
		Char:     engine.CellChar(cell, false),
		Revealed: cell.Revealed,
		Flagged:  cell.Flagged,
	}
	if cell.Revealed {
		v := cell.Value
		info.Value = &v
	}

	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			r, c := row+dr, col+dc
			if (dr == 0 && dc == 0) || r < 0 || c < 0 || r >= st.Rows || c >= st.Cols {
				continue
			}
			n := st.Grid[r][c]
			switch {
			case n.Flagged:
				info.FlaggedNeighbors++
			case !n.Revealed:
				info.HiddenNeighbors++
			}
		}
	}

	return info, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// sessionInfo builds the API view of a session
func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	gs := sess.Game.GetState()
	now := s.now()

	info := &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      gs,
		GameConfig:     sess.Config,
		Phase:          gs.Phase(),
		RemainingMines: gs.RemainingMines(),
		StartedAt:      sess.StartedAt,
		ElapsedSeconds: int(sess.Elapsed(now).Seconds()),
		Subscribers:    sess.Game.SubscriberCount(),
	}
	if !sess.FinishedAt.IsZero() {
		finished := sess.FinishedAt
		info.FinishedAt = &finished
	}
	return info
}

type nopRecorder struct{}

func (nopRecorder) SessionCreated(string)                    {}
func (nopRecorder) SessionDeleted()                          {}
func (nopRecorder) ActionPerformed(string, bool)             {}
func (nopRecorder) GameFinished(engine.Phase, time.Duration) {}
