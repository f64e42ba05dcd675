package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/five82/shopfront/internal/catalog"
)

// Listener is notified with the new snapshot after every dispatch. It runs on
// the dispatching goroutine and must not call Dispatch synchronously.
type Listener func(State)

// Hook observes every reducer application before listeners are notified.
// Persistence and metrics attach here.
type Hook func(prev, next State, action Action)

// Result reports the outcome of one FetchAll.
type Result struct {
	RequestID string
	Items     []catalog.Item
	Err       error
}

// OK reports whether the fetch was fulfilled.
func (r Result) OK() bool {
	return r.Err == nil
}

// Store is the single-writer state container. All transitions go through
// Dispatch, which serializes reducer applications; readers load the current
// snapshot without locking.
type Store struct {
	fetcher catalog.Fetcher
	logger  *slog.Logger
	newID   func() string

	dispatchMu sync.Mutex
	current    atomic.Pointer[State]

	obsMu     sync.Mutex
	nextObsID int
	listeners []listenerEntry
	hooks     []hookEntry
}

type listenerEntry struct {
	id int
	fn Listener
}

type hookEntry struct {
	id int
	fn Hook
}

// Option customises a Store.
type Option func(*Store)

// WithInitialState seeds the store, typically with rehydrated fields.
func WithInitialState(s State) Option {
	return func(st *Store) { st.current.Store(&s) }
}

// WithLogger sets the logger used for fetch lifecycle messages.
func WithLogger(l *slog.Logger) Option {
	return func(st *Store) {
		if l != nil {
			st.logger = l
		}
	}
}

// WithRequestIDs overrides the request id generator.
func WithRequestIDs(gen func() string) Option {
	return func(st *Store) {
		if gen != nil {
			st.newID = gen
		}
	}
}

// WithHook registers a hook at construction time so it observes the very
// first dispatch.
func WithHook(h Hook) Option {
	return func(st *Store) { st.AddHook(h) }
}

// New builds a Store that loads products through fetcher.
func New(fetcher catalog.Fetcher, opts ...Option) *Store {
	s := &Store{
		fetcher: fetcher,
		logger:  slog.Default(),
		newID:   uuid.NewString,
	}
	initial := Initial()
	s.current.Store(&initial)
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "state")
	return s
}

// GetState returns the current snapshot.
func (s *Store) GetState() State {
	return *s.current.Load()
}

// Dispatch applies a to the current state, runs hooks, then notifies
// listeners. It returns once every observer has run.
func (s *Store) Dispatch(a Action) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	s.apply(a)
}

func (s *Store) apply(a Action) {
	prev := *s.current.Load()
	next := Reduce(prev, a)
	s.current.Store(&next)

	hooks, listeners := s.observers()
	for _, h := range hooks {
		h(prev, next, a)
	}
	for _, l := range listeners {
		l(next)
	}
}

// Subscribe registers l and returns a function that removes it. The
// returned function is safe to call more than once.
func (s *Store) Subscribe(l Listener) func() {
	if l == nil {
		return func() {}
	}
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.nextObsID++
	id := s.nextObsID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: l})
	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		for i, e := range s.listeners {
			if e.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// AddHook registers a post-mutation hook and returns a function removing it.
func (s *Store) AddHook(h Hook) func() {
	if h == nil {
		return func() {}
	}
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.nextObsID++
	id := s.nextObsID
	s.hooks = append(s.hooks, hookEntry{id: id, fn: h})
	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		for i, e := range s.hooks {
			if e.id == id {
				s.hooks = append(s.hooks[:i:i], s.hooks[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) observers() ([]Hook, []Listener) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	hooks := make([]Hook, len(s.hooks))
	for i, e := range s.hooks {
		hooks[i] = e.fn
	}
	listeners := make([]Listener, len(s.listeners))
	for i, e := range s.listeners {
		listeners[i] = e.fn
	}
	return hooks, listeners
}

// ToggleFavorite is shorthand for Dispatch(ToggleFavorite(id)).
func (s *Store) ToggleFavorite(id int64) {
	s.Dispatch(ToggleFavorite(id))
}

// FetchAll loads the product list. It dispatches pending, blocks on the
// gateway, then dispatches exactly one of fulfilled or rejected. Overlapping
// calls are not fenced: whichever outcome is dispatched last wins.
func (s *Store) FetchAll(ctx context.Context) Result {
	id := s.newID()
	s.Dispatch(FetchPending(id))
	return s.complete(ctx, id)
}

// LoadIfIdle starts a fetch only when nothing has been loaded or attempted
// yet. The idle check and the pending dispatch happen atomically, so repeated
// first-render triggers issue at most one request.
func (s *Store) LoadIfIdle(ctx context.Context) (Result, bool) {
	s.dispatchMu.Lock()
	if s.current.Load().Status != StatusIdle {
		s.dispatchMu.Unlock()
		return Result{}, false
	}
	id := s.newID()
	s.apply(FetchPending(id))
	s.dispatchMu.Unlock()
	return s.complete(ctx, id), true
}

func (s *Store) complete(ctx context.Context, id string) Result {
	started := time.Now()
	s.logger.Debug("fetch started", "request_id", id)

	items, err := s.fetch(ctx)
	if err != nil {
		s.logger.Warn("fetch failed", "request_id", id, "error", err, "elapsed", time.Since(started))
		s.Dispatch(FetchRejected(id, err.Error()))
		return Result{RequestID: id, Err: err}
	}
	if items == nil {
		items = []catalog.Item{}
	}
	s.logger.Debug("fetch succeeded", "request_id", id, "items", len(items), "elapsed", time.Since(started))
	s.Dispatch(FetchFulfilled(id, items))
	return Result{RequestID: id, Items: items}
}

func (s *Store) fetch(ctx context.Context) (items []catalog.Item, err error) {
	defer func() {
		if r := recover(); r != nil {
			items, err = nil, fmt.Errorf("fetch panicked: %v", r)
		}
	}()
	if s.fetcher == nil {
		return nil, errors.New("no product fetcher configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return s.fetcher.FetchProducts(ctx)
}
