// Package selectors derives display views from the canonical state.
//
// Projections are plain functions. FavoriteItems is memoized on the identity
// of its two inputs so frequently re-rendered views get the same slice back
// until items or favorites actually change.
package selectors

import (
	"strings"
	"sync"

	"github.com/five82/shopfront/internal/catalog"
	"github.com/five82/shopfront/internal/state"
)

// Items returns the product list in server order.
func Items(s state.State) []catalog.Item {
	return s.Items
}

// FavoriteIDs returns the favorites set.
func FavoriteIDs(s state.State) state.FavoriteIDs {
	return s.Favorites
}

// IsFavorite reports whether id is favorited.
func IsFavorite(s state.State, id int64) bool {
	return s.Favorites.Contains(id)
}

// ItemByID finds an item by id.
func ItemByID(s state.State, id int64) (catalog.Item, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return catalog.Item{}, false
}

// FavoriteItemsSelector memoizes the favorites join. The zero value is ready
// to use and safe for concurrent callers.
type FavoriteItemsSelector struct {
	mu        sync.Mutex
	primed    bool
	items     []catalog.Item
	favorites state.FavoriteIDs
	out       []catalog.Item
	computes  int
}

// NewFavoriteItems returns an empty memoized selector.
func NewFavoriteItems() *FavoriteItemsSelector {
	return &FavoriteItemsSelector{}
}

// Select returns the favorited items in items order (not toggle order). The
// result is recomputed only when the items or favorites slice changed.
func (f *FavoriteItemsSelector) Select(s state.State) []catalog.Item {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.primed && state.SameItems(f.items, s.Items) && state.SameFavorites(f.favorites, s.Favorites) {
		return f.out
	}
	f.items, f.favorites = s.Items, s.Favorites
	f.out = joinFavorites(s.Items, s.Favorites)
	f.primed = true
	f.computes++
	return f.out
}

// Computes reports how many times the join actually ran.
func (f *FavoriteItemsSelector) Computes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.computes
}

func joinFavorites(items []catalog.Item, favorites state.FavoriteIDs) []catalog.Item {
	if len(items) == 0 || len(favorites) == 0 {
		return []catalog.Item{}
	}
	lookup := favorites.Lookup()
	out := make([]catalog.Item, 0, min(len(items), len(favorites)))
	for _, item := range items {
		if _, ok := lookup[item.ID]; ok {
			out = append(out, item)
		}
	}
	return out
}

// Search filters items whose title or category contains query, ignoring
// case. A blank query returns items unchanged (same slice).
func Search(items []catalog.Item, query string) []catalog.Item {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	out := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), q) ||
			strings.Contains(strings.ToLower(item.Category), q) {
			out = append(out, item)
		}
	}
	return out
}
