package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/five82/shopfront/internal/catalog"
	"github.com/five82/shopfront/internal/kvstore"
	"github.com/five82/shopfront/internal/state"
)

const (
	DefaultDebounce     = 250 * time.Millisecond
	defaultWriteTimeout = 5 * time.Second
	maxRetryDelay       = 30 * time.Second
)

// ErrClosed is returned by Flush after Close.
var ErrClosed = errors.New("persist: wrapper closed")

// Load outcomes reported to the Observer.
const (
	LoadHit     = "hit"
	LoadMiss    = "miss"
	LoadCorrupt = "corrupt"
	LoadError   = "error"
)

// Observer receives persistence outcomes, typically for metrics.
type Observer interface {
	ObserveLoad(outcome string)
	ObserveWrite(err error)
}

// Options configure a Wrapper.
type Options struct {
	Key      string    // empty uses DefaultKey
	Version  int       // zero uses CurrentVersion
	Fields   Whitelist // nil uses DefaultWhitelist
	Debounce time.Duration
	Logger   *slog.Logger
	Observer Observer
}

// Wrapper shadows a state.Store: it rehydrates whitelisted fields before the
// store is built and writes them back after every mutation that touches them.
type Wrapper struct {
	kv       kvstore.Store
	key      string
	version  int
	fields   Whitelist
	debounce time.Duration
	logger   *slog.Logger
	observer Observer

	mu      sync.Mutex
	pending []byte
	closed  bool

	wake    chan struct{}
	flushes chan chan error
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

// New starts the writer goroutine. Call Close to drain and stop it.
func New(kv kvstore.Store, opts Options) *Wrapper {
	w := &Wrapper{
		kv:       kv,
		key:      opts.Key,
		version:  opts.Version,
		fields:   opts.Fields,
		debounce: opts.Debounce,
		logger:   opts.Logger,
		observer: opts.Observer,
		wake:     make(chan struct{}, 1),
		flushes:  make(chan chan error),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	if w.key == "" {
		w.key = DefaultKey
	}
	if w.version == 0 {
		w.version = CurrentVersion
	}
	if w.fields == nil {
		w.fields = DefaultWhitelist
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	w.logger = w.logger.With("component", "persist", "key", w.key)
	go w.run()
	return w
}

// Fields returns the active whitelist.
func (w *Wrapper) Fields() Whitelist {
	return w.fields
}

// Load reads and validates the envelope. Absent, corrupt or mismatched data
// yields ok=false and is never reported as an error: the caller simply
// starts from the default state.
func (w *Wrapper) Load(ctx context.Context) (Partial, bool) {
	data, err := w.kv.Get(ctx, w.key)
	switch {
	case errors.Is(err, kvstore.ErrNotFound):
		w.logger.Debug("no persisted state")
		w.observeLoad(LoadMiss)
		return Partial{}, false
	case err != nil:
		w.logger.Warn("read persisted state failed", "error", err)
		w.observeLoad(LoadError)
		return Partial{}, false
	}

	p, err := decode(data, w.key, w.version, w.fields)
	if err != nil {
		w.logger.Warn("discarding persisted state", "error", err)
		w.observeLoad(LoadCorrupt)
		return Partial{}, false
	}
	w.logger.Debug("rehydrated", "favorites", len(p.Favorites), "items", len(p.Items))
	w.observeLoad(LoadHit)
	return p, true
}

// Boot rehydrates, then builds the store with the restored fields and the
// save hook already attached. No consumer can observe the store before
// rehydration finished because the store does not exist until then.
func (w *Wrapper) Boot(ctx context.Context, fetcher catalog.Fetcher, opts ...state.Option) (*state.Store, bool) {
	initial := state.Initial()
	p, ok := w.Load(ctx)
	if ok {
		initial = p.Apply(initial)
	}
	all := make([]state.Option, 0, len(opts)+2)
	all = append(all, state.WithInitialState(initial), state.WithHook(w.Hook()))
	all = append(all, opts...)
	return state.New(fetcher, all...), ok
}

// Hook returns the post-mutation hook that schedules saves. It only reacts
// when a whitelisted field changed identity.
func (w *Wrapper) Hook() state.Hook {
	return func(prev, next state.State, _ state.Action) {
		if !w.touched(prev, next) {
			return
		}
		w.Schedule(next)
	}
}

func (w *Wrapper) touched(prev, next state.State) bool {
	if !state.SameFavorites(prev.Favorites, next.Favorites) {
		return true
	}
	return w.fields.Has(FieldItems) && !state.SameItems(prev.Items, next.Items)
}

// Schedule queues s for writing. Pending saves coalesce: only the latest
// snapshot is written when the debounce window elapses.
func (w *Wrapper) Schedule(s state.State) {
	data, err := encode(w.key, w.version, w.fields, s)
	if err != nil {
		w.logger.Error("encode state failed", "error", err)
		w.observeWrite(err)
		return
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Warn("save scheduled after close; dropped")
		return
	}
	w.pending = data
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Flush writes any pending snapshot now and reports the write error.
func (w *Wrapper) Flush(ctx context.Context) error {
	reply := make(chan error, 1)
	select {
	case w.flushes <- reply:
	case <-w.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes the pending snapshot and stops the writer. It is safe to
// call more than once.
func (w *Wrapper) Close(ctx context.Context) error {
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.stop)
	})
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the single writer. Saves never overlap or reorder because only
// this goroutine talks to the store. A failed write re-arms the timer with a
// capped backoff so the snapshot lands once the backend recovers, even if
// nothing else is dispatched.
func (w *Wrapper) run() {
	defer close(w.done)

	var timer *time.Timer
	var fire <-chan time.Time
	failures := 0
	arm := func(d time.Duration) {
		timer = time.NewTimer(d)
		fire = timer.C
	}
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
		fire = nil
	}
	settle := func(err error) {
		if err == nil {
			failures = 0
			return
		}
		failures++
		if fire == nil {
			arm(retryDelay(failures, w.debounce))
		}
	}

	for {
		select {
		case <-w.wake:
			if fire == nil {
				arm(w.debounce)
			}
		case <-fire:
			fire = nil
			settle(w.writePending())
		case reply := <-w.flushes:
			stopTimer()
			err := w.writePending()
			settle(err)
			reply <- err
		case <-w.stop:
			stopTimer()
			_ = w.writePending()
			return
		}
	}
}

// retryDelay doubles base per consecutive failure, capped at maxRetryDelay.
func retryDelay(failures int, base time.Duration) time.Duration {
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return d
}

func (w *Wrapper) writePending() error {
	w.mu.Lock()
	data := w.pending
	w.pending = nil
	w.mu.Unlock()
	if data == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultWriteTimeout)
	defer cancel()
	err := w.kv.Set(ctx, w.key, data)
	w.observeWrite(err)
	if err != nil {
		w.logger.Warn("save persisted state failed", "error", err, "bytes", len(data))
		// Keep it for the next flush unless a newer snapshot arrived meanwhile.
		w.mu.Lock()
		if w.pending == nil {
			w.pending = data
		}
		w.mu.Unlock()
		return fmt.Errorf("save %s: %w", w.key, err)
	}
	w.logger.Debug("saved persisted state", "bytes", len(data))
	return nil
}

func (w *Wrapper) observeLoad(outcome string) {
	if w.observer != nil {
		w.observer.ObserveLoad(outcome)
	}
}

func (w *Wrapper) observeWrite(err error) {
	if w.observer != nil {
		w.observer.ObserveWrite(err)
	}
}
