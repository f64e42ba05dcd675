// Package ui is the Bubble Tea terminal front end for shopfront.
//
// The model never owns product state. It reads snapshots from state.Store,
// derives what to show through the selectors package and dispatches favorite
// toggles and fetches back into the store.
//
// Store notifications arrive through a one-slot mailbox (storeWatcher): the
// store's listener runs under the dispatch lock, so it only replaces the
// pending snapshot and never waits on the UI goroutine.
//
// Views:
//
//   - Products: searchable list (title or category), refresh with r
//   - Favorites: favorited products in list order, with a count badge in the tab
//   - Detail: opened with enter; loading, error and not-found states
//
// The first render triggers Store.LoadIfIdle, so a rehydrated store that has
// not fetched yet loads exactly once. Theme and last tab are saved to prefs.
package ui
