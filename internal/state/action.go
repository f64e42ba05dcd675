package state

import "github.com/five82/shopfront/internal/catalog"

// ActionType names a reducer transition.
type ActionType string

const (
	ActionFetchPending   ActionType = "products/fetch/pending"
	ActionFetchFulfilled ActionType = "products/fetch/fulfilled"
	ActionFetchRejected  ActionType = "products/fetch/rejected"
	ActionToggleFavorite ActionType = "products/toggleFavorite"
)

// Action is a dispatched state transition. Only the fields relevant to Type
// are populated.
type Action struct {
	Type ActionType

	// RequestID ties the three actions of one FetchAll together. The reducer
	// ignores it; callers that want to drop stale responses compare it.
	RequestID string
	Items     []catalog.Item
	Reason    string

	ID int64
}

// FetchPending marks the start of a fetch.
func FetchPending(requestID string) Action {
	return Action{Type: ActionFetchPending, RequestID: requestID}
}

// FetchFulfilled carries a successful payload.
func FetchFulfilled(requestID string, items []catalog.Item) Action {
	return Action{Type: ActionFetchFulfilled, RequestID: requestID, Items: items}
}

// FetchRejected carries a human-readable failure reason.
func FetchRejected(requestID, reason string) Action {
	return Action{Type: ActionFetchRejected, RequestID: requestID, Reason: reason}
}

// ToggleFavorite flips membership of id in the favorites set.
func ToggleFavorite(id int64) Action {
	return Action{Type: ActionToggleFavorite, ID: id}
}
