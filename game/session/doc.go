// Package session stores the live Minesweeper sessions in memory.
//
// Every service.Session wraps its own state.Manager, and through it its own
// board engine, so two sessions never share a board. IDs are four hex
// characters drawn from crypto/rand. Lookups ignore case, and a generated ID
// that collides is redrawn.
//
//	sessions := session.NewManagerWithLogger(logger)
//	sess, err := sessions.Create("", preset)
//	if err != nil {
//		return err
//	}
//	sess.Game.RevealCell(0, 0)
//
// The manager only removes sessions through Delete. Idle sessions are expired
// by service.RunJanitor so that observers are detached with them.
package session
