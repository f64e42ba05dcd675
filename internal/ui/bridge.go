package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shopfront/internal/state"
)

// storeWatcher forwards store notifications into the Bubble Tea loop. Store
// listeners run under the dispatch lock, so the listener never blocks: it
// keeps only the newest snapshot in a one-slot mailbox.
type storeWatcher struct {
	ch          chan state.State
	done        chan struct{}
	unsubscribe func()
	once        sync.Once
}

func watchStore(s *state.Store) *storeWatcher {
	w := &storeWatcher{
		ch:   make(chan state.State, 1),
		done: make(chan struct{}),
	}
	w.unsubscribe = s.Subscribe(w.offer)
	return w
}

func (w *storeWatcher) offer(st state.State) {
	for {
		select {
		case w.ch <- st:
			return
		default:
		}
		// Drop the stale snapshot and try again.
		select {
		case <-w.ch:
		default:
		}
	}
}

func (w *storeWatcher) stop() {
	w.once.Do(func() {
		w.unsubscribe()
		close(w.done)
	})
}

// stateMsg carries a store snapshot into Update.
type stateMsg state.State

// wait returns a command that blocks until the next snapshot.
func (w *storeWatcher) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case st := <-w.ch:
			return stateMsg(st)
		case <-w.done:
			return nil
		}
	}
}
