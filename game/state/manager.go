package state

import (
	"reflect"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
)

// Listener receives a snapshot of the game after every mutating call
type Listener interface {
	OnStateChange(state *engine.GameState)
}

// ListenerFunc adapts a plain function to the Listener interface. Function
// values are not comparable, so every Subscribe of a ListenerFunc registers
// a separate listener.
type ListenerFunc func(state *engine.GameState)

// OnStateChange calls f(state)
func (f ListenerFunc) OnStateChange(state *engine.GameState) {
	f(state)
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger used to report listener panics
func WithLogger(logger logrus.FieldLogger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

type subscription struct {
	id       uint64
	listener Listener
}

// token identifies a registration of a non-comparable listener
type token struct{ _ byte }

// Manager wraps one engine and notifies subscribers after each mutation.
// It is safe for concurrent use. Notifications are delivered one mutation at
// a time in mutation order, so a listener's last snapshot is the current
// state. Listeners may query the manager; a listener that mutates it
// deadlocks.
type Manager struct {
	mu        sync.Mutex
	engine    engine.Engine
	listeners map[any]subscription
	nextID    uint64
	seq       uint64 // mutations so far, guarded by mu

	// delivered is the last mutation whose listeners have run
	notifyMu  sync.Mutex
	turn      *sync.Cond
	delivered uint64

	logger logrus.FieldLogger
}

// New creates a state manager around an existing engine
func New(eng engine.Engine, opts ...Option) *Manager {
	m := &Manager{
		engine:    eng,
		listeners: make(map[any]subscription),
		logger:    logrus.StandardLogger(),
	}
	m.turn = sync.NewCond(&m.notifyMu)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewFromConfig builds an engine from config and wraps it
func NewFromConfig(config *engine.GameConfig, opts ...Option) (*Manager, error) {
	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, err
	}
	return New(eng, opts...), nil
}

// Subscribe registers a listener and returns a function that removes it.
// Subscribing a comparable listener that is already registered is a no-op
// and returns a handle for the existing registration. The returned function
// may be called any number of times.
func (m *Manager) Subscribe(listener Listener) func() {
	if listener == nil {
		return func() {}
	}

	// The dynamic value decides: a comparable struct may still hold a func
	var key any = &token{}
	if reflect.ValueOf(listener).Comparable() {
		key = listener
	}

	m.mu.Lock()
	sub, exists := m.listeners[key]
	if !exists {
		m.nextID++
		sub = subscription{id: m.nextID, listener: listener}
		m.listeners[key] = sub
	}
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			// A later re-subscription of the same listener gets a new id
			if cur, ok := m.listeners[key]; ok && cur.id == sub.id {
				delete(m.listeners, key)
			}
		})
	}
}

// SubscriberCount returns the number of registered listeners
func (m *Manager) SubscriberCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listeners)
}

// RevealCell reveals a cell and notifies subscribers
func (m *Manager) RevealCell(row, col int) bool {
	m.mu.Lock()
	ok := m.engine.RevealCell(row, col)
	seq, snapshot, listeners := m.prepareNotify()
	m.mu.Unlock()

	m.notify(seq, snapshot, listeners)
	return ok
}

// FlagCell toggles a flag and notifies subscribers
func (m *Manager) FlagCell(row, col int) bool {
	m.mu.Lock()
	ok := m.engine.FlagCell(row, col)
	seq, snapshot, listeners := m.prepareNotify()
	m.mu.Unlock()

	m.notify(seq, snapshot, listeners)
	return ok
}

// Restart starts a fresh game and notifies subscribers
func (m *Manager) Restart() {
	m.mu.Lock()
	m.engine.Restart()
	seq, snapshot, listeners := m.prepareNotify()
	m.mu.Unlock()

	m.notify(seq, snapshot, listeners)
}

// prepareNotify numbers the mutation and captures the snapshot and listener
// list under the lock
func (m *Manager) prepareNotify() (uint64, *engine.GameState, []subscription) {
	m.seq++
	if len(m.listeners) == 0 {
		return m.seq, nil, nil
	}

	subs := make([]subscription, 0, len(m.listeners))
	for _, sub := range m.listeners {
		subs = append(subs, sub)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].id < subs[j].id })

	return m.seq, m.engine.GetState(), subs
}

// notify waits until every earlier mutation has been delivered, then runs
// listeners in registration order, each with its own copy
func (m *Manager) notify(seq uint64, snapshot *engine.GameState, subs []subscription) {
	m.notifyMu.Lock()
	for m.delivered != seq-1 {
		m.turn.Wait()
	}
	m.notifyMu.Unlock()

	for _, sub := range subs {
		m.deliver(sub, snapshot.Clone())
	}

	m.notifyMu.Lock()
	m.delivered = seq
	m.turn.Broadcast()
	m.notifyMu.Unlock()
}

func (m *Manager) deliver(sub subscription, snapshot *engine.GameState) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.WithFields(logrus.Fields{
				"listener": sub.id,
				"game_id":  snapshot.GameID,
				"panic":    r,
			}).Error("state listener panicked")
		}
	}()
	sub.listener.OnStateChange(snapshot)
}

// GetState returns an independent copy of the current game state
func (m *Manager) GetState() *engine.GameState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.GetState()
}

// GetGrid returns an independent copy of the grid
func (m *Manager) GetGrid() engine.Grid {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.GetGrid()
}

func (m *Manager) IsGameOver() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.IsGameOver()
}

func (m *Manager) IsGameWon() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.IsGameWon()
}

func (m *Manager) GetMineCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.GetMineCount()
}

func (m *Manager) GetFlagCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.GetFlagCount()
}

func (m *Manager) RemainingMines() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.RemainingMines()
}

func (m *Manager) Phase() engine.Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.Phase()
}

func (m *Manager) InBounds(row, col int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.InBounds(row, col)
}

func (m *Manager) CheckBounds(row, col int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.CheckBounds(row, col)
}

// GetConfig returns the configuration of the wrapped engine
func (m *Manager) GetConfig() *engine.GameConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.GetConfig()
}
