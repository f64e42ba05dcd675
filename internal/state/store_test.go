package state

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/five82/shopfront/internal/catalog"
)

func staticFetcher(items []catalog.Item, err error) catalog.Fetcher {
	return catalog.FetcherFunc(func(context.Context) ([]catalog.Item, error) {
		return items, err
	})
}

func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string {
		return "req-" + strconv.FormatInt(n.Add(1), 10)
	}
}

func TestStore_FetchAllLifecycleOrdering(t *testing.T) {
	payload := []catalog.Item{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}
	s := New(staticFetcher(payload, nil), WithRequestIDs(sequentialIDs()))

	var statuses []Status
	var requestIDs []string
	s.AddHook(func(_, _ State, a Action) { requestIDs = append(requestIDs, a.RequestID) })
	s.Subscribe(func(st State) { statuses = append(statuses, st.Status) })

	res := s.FetchAll(context.Background())
	if !res.OK() || res.RequestID != "req-1" {
		t.Fatalf("FetchAll result = %#v, want ok req-1", res)
	}

	want := []Status{StatusLoading, StatusSucceeded}
	if len(statuses) != len(want) || statuses[0] != want[0] || statuses[1] != want[1] {
		t.Fatalf("statuses = %v, want %v", statuses, want)
	}
	if requestIDs[0] != "req-1" || requestIDs[1] != "req-1" {
		t.Fatalf("request ids = %v, want both req-1", requestIDs)
	}

	got := s.GetState()
	if len(got.Items) != 2 || got.Items[0].ID != 1 || got.Items[1].ID != 2 {
		t.Fatalf("items = %#v, want payload", got.Items)
	}
	if got.Error != "" {
		t.Fatalf("Error = %q, want empty", got.Error)
	}
}

func TestStore_FetchFailurePreservesItems(t *testing.T) {
	prior := []catalog.Item{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}
	s := New(staticFetcher(nil, errors.New("api /products returned status 503")),
		WithInitialState(State{Items: prior, Status: StatusSucceeded}))

	res := s.FetchAll(context.Background())
	if res.OK() {
		t.Fatalf("FetchAll result OK, want error")
	}

	got := s.GetState()
	if got.Status != StatusFailed {
		t.Fatalf("Status = %q, want failed", got.Status)
	}
	if !strings.Contains(got.Error, "503") {
		t.Fatalf("Error = %q, want reason from gateway", got.Error)
	}
	if !SameItems(got.Items, prior) {
		t.Fatalf("items = %#v, want prior items untouched", got.Items)
	}
}

func TestStore_RetryAfterFailure(t *testing.T) {
	var calls atomic.Int32
	f := catalog.FetcherFunc(func(context.Context) ([]catalog.Item, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("offline")
		}
		return []catalog.Item{{ID: 5}}, nil
	})
	s := New(f)

	s.FetchAll(context.Background())
	if !s.GetState().Failed() {
		t.Fatalf("first fetch status = %q, want failed", s.GetState().Status)
	}
	s.FetchAll(context.Background())
	got := s.GetState()
	if got.Status != StatusSucceeded || got.Error != "" || len(got.Items) != 1 {
		t.Fatalf("retry state = %#v, want succeeded with 1 item", got)
	}
}

func TestStore_FetchPanicBecomesRejected(t *testing.T) {
	f := catalog.FetcherFunc(func(context.Context) ([]catalog.Item, error) {
		panic("boom")
	})
	s := New(f)

	res := s.FetchAll(context.Background())
	if res.OK() || !strings.Contains(res.Err.Error(), "panicked") {
		t.Fatalf("FetchAll err = %v, want panic converted to error", res.Err)
	}
	if st := s.GetState(); st.Status != StatusFailed || st.Error == "" {
		t.Fatalf("state = %#v, want failed with reason", st)
	}
}

func TestStore_NilFetcherRejects(t *testing.T) {
	s := New(nil)
	if res := s.FetchAll(context.Background()); res.OK() {
		t.Fatalf("FetchAll with nil fetcher succeeded")
	}
	if !s.GetState().Failed() {
		t.Fatalf("status = %q, want failed", s.GetState().Status)
	}
}

func TestStore_CancelledContextRejects(t *testing.T) {
	f := catalog.FetcherFunc(func(ctx context.Context) ([]catalog.Item, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	s := New(f)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := s.FetchAll(ctx)
	if !errors.Is(res.Err, context.Canceled) {
		t.Fatalf("FetchAll err = %v, want context.Canceled", res.Err)
	}
	if !s.GetState().Failed() {
		t.Fatalf("status = %q, want failed", s.GetState().Status)
	}
}

// blockingFetcher hands each call its own release channel so tests can
// choose the order in which overlapping fetches resolve.
type blockingFetcher struct {
	called  chan int
	release []chan []catalog.Item
	n       atomic.Int32
}

func newBlockingFetcher(calls int) *blockingFetcher {
	b := &blockingFetcher{called: make(chan int, calls)}
	for range calls {
		b.release = append(b.release, make(chan []catalog.Item, 1))
	}
	return b
}

func (b *blockingFetcher) FetchProducts(ctx context.Context) ([]catalog.Item, error) {
	idx := int(b.n.Add(1)) - 1
	b.called <- idx
	select {
	case items := <-b.release[idx]:
		return items, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func waitCalled(t *testing.T, b *blockingFetcher) {
	t.Helper()
	select {
	case <-b.called:
	case <-time.After(2 * time.Second):
		t.Fatalf("fetcher was not called")
	}
}

func TestStore_OverlappingFetchesLastDispatchWins(t *testing.T) {
	b := newBlockingFetcher(2)
	s := New(b)

	var wg sync.WaitGroup
	results := make([]Result, 2)
	wg.Add(1)
	go func() { defer wg.Done(); results[0] = s.FetchAll(context.Background()) }()
	waitCalled(t, b)
	wg.Add(1)
	go func() { defer wg.Done(); results[1] = s.FetchAll(context.Background()) }()
	waitCalled(t, b)

	// The newer request resolves first; the slow older one lands last.
	b.release[1] <- []catalog.Item{{ID: 2, Title: "fresh"}}
	deadline := time.After(2 * time.Second)
	for s.GetState().Status != StatusSucceeded {
		select {
		case <-deadline:
			t.Fatalf("newer fetch never applied")
		case <-time.After(5 * time.Millisecond):
		}
	}
	b.release[0] <- []catalog.Item{{ID: 1, Title: "stale"}}
	wg.Wait()

	got := s.GetState()
	if len(got.Items) != 1 || got.Items[0].Title != "stale" {
		t.Fatalf("items = %#v, want the last dispatched (stale) payload", got.Items)
	}
	if results[0].RequestID == results[1].RequestID {
		t.Fatalf("overlapping fetches share request id %q", results[0].RequestID)
	}
}

func TestStore_LoadIfIdleFetchesOnce(t *testing.T) {
	b := newBlockingFetcher(1)
	s := New(b)

	done := make(chan bool, 1)
	go func() {
		_, started := s.LoadIfIdle(context.Background())
		done <- started
	}()
	waitCalled(t, b)

	if _, started := s.LoadIfIdle(context.Background()); started {
		t.Fatalf("second LoadIfIdle started a fetch while one was outstanding")
	}
	b.release[0] <- []catalog.Item{{ID: 1}}
	if started := <-done; !started {
		t.Fatalf("first LoadIfIdle did not start a fetch")
	}
	if _, started := s.LoadIfIdle(context.Background()); started {
		t.Fatalf("LoadIfIdle started a fetch after success")
	}
	if n := b.n.Load(); n != 1 {
		t.Fatalf("fetcher calls = %d, want 1", n)
	}
}

func TestStore_SubscribeAndUnsubscribe(t *testing.T) {
	s := New(nil)
	var calls int
	unsubscribe := s.Subscribe(func(State) { calls++ })

	s.ToggleFavorite(1)
	unsubscribe()
	unsubscribe()
	s.ToggleFavorite(1)

	if calls != 1 {
		t.Fatalf("listener calls = %d, want 1", calls)
	}
	if nop := s.Subscribe(nil); nop == nil {
		t.Fatalf("Subscribe(nil) returned nil unsubscribe")
	}
}

func TestStore_HooksRunBeforeListeners(t *testing.T) {
	var order []string
	var sawPrev, sawNext bool
	s := New(nil, WithHook(func(prev, next State, a Action) {
		order = append(order, "hook")
		sawPrev = !prev.Favorites.Contains(3)
		sawNext = next.Favorites.Contains(3) && a.Type == ActionToggleFavorite
	}))
	s.Subscribe(func(State) { order = append(order, "listener") })

	s.ToggleFavorite(3)

	if len(order) != 2 || order[0] != "hook" || order[1] != "listener" {
		t.Fatalf("order = %v, want [hook listener]", order)
	}
	if !sawPrev || !sawNext {
		t.Fatalf("hook did not see prev/next correctly")
	}
}

func TestStore_ListenerSeesCompleteSnapshot(t *testing.T) {
	s := New(nil)
	s.Subscribe(func(st State) {
		if got := s.GetState(); !SameFavorites(got.Favorites, st.Favorites) {
			t.Errorf("GetState inside listener disagrees with notified snapshot")
		}
	})
	s.ToggleFavorite(1)
	s.ToggleFavorite(2)
}

func TestStore_ConcurrentTogglesAreSerialized(t *testing.T) {
	s := New(nil)
	var wg sync.WaitGroup
	for id := range int64(50) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.ToggleFavorite(id)
		}()
	}
	wg.Wait()
	if n := len(s.GetState().Favorites); n != 50 {
		t.Fatalf("favorites = %d, want 50", n)
	}
}
