package state

import (
	"strings"

	"github.com/five82/shopfront/internal/catalog"
)

// Reduce applies a to s and returns the next state. It is pure and total:
// unknown action types return s unchanged. Fields the action does not touch
// keep their identity so selectors and persistence can detect change cheaply.
func Reduce(s State, a Action) State {
	switch a.Type {
	case ActionFetchPending:
		s.Status = StatusLoading
		s.Error = ""
	case ActionFetchFulfilled:
		s.Status = StatusSucceeded
		// An overlapping fetch may have failed first; succeeded never carries an error.
		s.Error = ""
		s.Items = a.Items
		if s.Items == nil {
			s.Items = []catalog.Item{}
		}
	case ActionFetchRejected:
		s.Status = StatusFailed
		s.Error = strings.TrimSpace(a.Reason)
		if s.Error == "" {
			s.Error = DefaultFailureReason
		}
	case ActionToggleFavorite:
		s.Favorites = s.Favorites.Toggle(a.ID)
	}
	return s
}
