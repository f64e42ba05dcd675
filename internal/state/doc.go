// Package state provides the canonical state container for Shopfront.
//
// # Overview
//
// This package owns the product list, the favorites set and the fetch
// lifecycle. It is the only place where application state changes: every
// transition is an Action applied by the pure Reduce function through
// Store.Dispatch. The UI, persistence and metrics layers only observe.
//
// # Core Types
//
// State:
//   - Items: product list in server order, replaced wholesale on success
//   - Favorites: duplicate-free ids, independent of Items
//   - Status: idle, loading, succeeded or failed
//   - Error: reason of the last rejected fetch, empty otherwise
//
// Store:
//   - Dispatch / GetState / Subscribe, plus AddHook for post-mutation hooks
//   - FetchAll runs the three-action fetch lifecycle
//   - LoadIfIdle is the first-render trigger that never double-fetches
//
// # Transitions
//
//	fetch/pending            status=loading   error=""
//	fetch/fulfilled(items)   status=succeeded error=""  items=payload
//	fetch/rejected(reason)   status=failed    error=reason ("Failed to load" if blank)
//	toggleFavorite(id)       favorites ^= {id}
//
// Reduce is total: unknown actions are ignored. A rejected fetch keeps the
// previous Items so stale data stays on screen while an error banner offers a
// retry. Retrying is just another FetchAll.
//
// # Concurrency Model
//
//	Producers (UI keys, fetch goroutines)     Consumers (UI, persistence)
//	┌────────────────────────┐               ┌──────────────────────┐
//	│ store.Dispatch(action) │──dispatchMu──→│ hooks(prev, next, a) │
//	│   Reduce(prev, action) │               │ listeners(next)      │
//	│   current.Store(&next) │               └──────────────────────┘
//	└────────────────────────┘
//	         ↑ GetState() reads the atomic pointer without locking
//
// A single mutex serializes reducer applications, which gives the same
// run-to-completion guarantee as a single-threaded event loop. Each dispatch
// publishes a complete new snapshot, so readers never see a torn update.
// Hooks and listeners run on the dispatching goroutine while the mutex is
// held; they must hand work off instead of dispatching synchronously.
//
// # Overlapping Fetches
//
// Two FetchAll calls may overlap (initial load plus a manual refresh). Each
// is valid on its own and the last outcome dispatched wins, even if it
// belongs to the older request. Every action carries the fetch's RequestID
// so a caller that cares can discard stale results itself.
//
// # Snapshot Sharing
//
// GetState returns slices shared with the store. The reducer never mutates
// a slice in place, so sharing is safe as long as callers do not write to
// them, and slice identity doubles as a cheap change detector (see
// SameItems and SameFavorites).
package state
