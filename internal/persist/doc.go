// Package persist keeps part of the application state across restarts.
//
// A Wrapper shadows a state.Store. At startup Boot reads the envelope stored
// under "products", overlays the whitelisted fields onto the initial state
// and only then constructs the Store, so nothing can observe pre-rehydration
// state. Afterwards a post-mutation hook schedules a save whenever a
// whitelisted field changed identity.
//
// Saves are handled by a single writer goroutine. Snapshots arriving within
// the debounce window coalesce into one write of the latest snapshot, and
// writes never reorder. Flush forces the pending write; Close flushes and
// stops the writer.
//
// Persisted record:
//
//	{"key":"products","version":1,"payload":{"favorites":[2,3],"items":[...]}}
//
// Items are only written when whitelisted. Status and Error never are.
// Missing, corrupt or mismatched records are treated as "no data".
package persist
