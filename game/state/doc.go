// Package state wraps a Minesweeper engine with a publish/subscribe channel.
//
// A Manager owns exactly one engine and no state of its own. Every mutating
// call (RevealCell, FlagCell, Restart) is delegated to the engine and then
// every subscriber is called synchronously with a fresh snapshot, whether or
// not the call changed anything. Queries pass straight through.
//
// Usage:
//
//	mgr, err := state.NewFromConfig(cfg)
//	if err != nil {
//		return err
//	}
//
//	unsubscribe := mgr.Subscribe(state.ListenerFunc(func(s *engine.GameState) {
//		render(s)
//	}))
//	defer unsubscribe()
//
//	mgr.RevealCell(0, 0)
//
// Concurrency:
//
// The engine is guarded by a single mutex. Listeners run after the lock is
// released, in registration order, so a listener may call back into the
// manager. A panicking listener is logged and skipped.
package state
