package autoplay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
)

// Options controls a Play run
type Options struct {
	Preset      string        // preset for a new session; empty for the server default
	SessionID   string        // play an existing session instead of creating one
	MaxAttempts int           // games to try before giving up
	MaxMoves    int           // moves per game
	Seed        uint64        // seed for guesses
	Delay       time.Duration // pause between moves
}

// Result summarises a Play run
type Result struct {
	SessionID string
	Won       bool
	Attempts  int
	Moves     int // moves in the last attempt
	Guesses   int // guesses in the last attempt
	State     *engine.GameState
}

// ErrNoEffect is returned when the server ignores a move the strategy chose
var ErrNoEffect = errors.New("move had no effect")

// Player plays games against the API until one is won
type Player struct {
	client   *Client
	strategy *Strategy
	opts     Options
	logger   logrus.FieldLogger
}

// NewPlayer creates a player. Zero limits fall back to one attempt and an
// unbounded number of moves.
func NewPlayer(client *Client, opts Options, logger logrus.FieldLogger) *Player {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Player{
		client:   client,
		strategy: NewStrategy(opts.Seed),
		opts:     opts,
		logger:   logger,
	}
}

// Play restarts the session for every attempt and stops at the first win
func (p *Player) Play(ctx context.Context) (*Result, error) {
	state, err := p.start(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{SessionID: p.client.SessionID()}
	for result.Attempts < p.opts.MaxAttempts {
		result.Attempts++

		if result.Attempts > 1 || state.Phase() != engine.Playing {
			if state, err = p.client.Restart(ctx); err != nil {
				return result, err
			}
			if state == nil {
				return result, errors.New("restart returned no game state")
			}
		}

		log := p.logger.WithFields(logrus.Fields{
			"session": result.SessionID,
			"attempt": result.Attempts,
		})

		state, result.Moves, result.Guesses, err = p.playGame(ctx, state)
		result.State = state
		if err != nil {
			return result, err
		}

		log.WithFields(logrus.Fields{
			"moves":   result.Moves,
			"guesses": result.Guesses,
			"phase":   state.Phase(),
		}).Info("attempt finished")

		if state.Phase() == engine.Won {
			result.Won = true
			return result, nil
		}
	}

	return result, nil
}

func (p *Player) start(ctx context.Context) (*engine.GameState, error) {
	if p.opts.SessionID != "" {
		p.client.UseSession(p.opts.SessionID)
		state, err := p.client.GetState(ctx)
		if err != nil {
			return nil, fmt.Errorf("resume session %s: %w", p.opts.SessionID, err)
		}
		p.logger.WithField("session", p.opts.SessionID).Info("resuming session")
		return state, nil
	}

	state, err := p.client.CreateSession(ctx, p.opts.Preset)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, errors.New("create session returned no game state")
	}
	p.logger.WithFields(logrus.Fields{
		"session": p.client.SessionID(),
		"rows":    state.Rows,
		"cols":    state.Cols,
		"mines":   state.MineCount,
	}).Info("session created")
	return state, nil
}

// playGame makes moves until the game ends or the move limit is reached
func (p *Player) playGame(ctx context.Context, state *engine.GameState) (*engine.GameState, int, int, error) {
	moves, guesses := 0, 0
	for state.Phase() == engine.Playing && (p.opts.MaxMoves <= 0 || moves < p.opts.MaxMoves) {
		if err := ctx.Err(); err != nil {
			return state, moves, guesses, err
		}

		move, ok := p.strategy.Next(state)
		if !ok {
			break
		}

		action := p.client.Reveal
		if move.Flag {
			action = p.client.Flag
		}
		res, err := action(ctx, move.Row, move.Col)
		// A mine hit reports no success but ends the game
		if err == nil && (res.GameState == nil || (!res.Success && res.GameState.Phase() == engine.Playing)) {
			err = ErrNoEffect
		}
		if err != nil {
			return state, moves, guesses, fmt.Errorf("move (%d,%d): %w", move.Row, move.Col, err)
		}

		moves++
		if move.Guess {
			guesses++
		}
		p.logger.WithFields(logrus.Fields{
			"row":   move.Row,
			"col":   move.Col,
			"flag":  move.Flag,
			"guess": move.Guess,
		}).Debug("move")

		state = res.GameState
		if p.opts.Delay > 0 {
			time.Sleep(p.opts.Delay)
		}
	}
	return state, moves, guesses, nil
}
