// Package app is the composition root for shopfront.
//
// # Startup
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()        Read ~/.config/shopfront/config.toml
//	       ├─────> logging.Open()       slog handler (file or stderr)
//	       ├─────> kvstore.Open()       file | sqlite | redis | memory
//	       ├─────> catalog.NewClient()  Rate-limited HTTP gateway
//	       ├─────> persist.New()        Debounced writer + rehydration
//	       ├─────> Wrapper.Boot()       Load, then construct state.Store
//	       ├─────> metrics.Serve()      Optional /metrics endpoint
//	       ├─────> StartRefresher()     Optional background refetch
//	       └─────> ui.Run()             TUI (blocks)
//
// The store is built only after rehydration, so the UI never renders the
// pre-restore default state. On exit the persistence writer is closed with a
// timeout so the last favorite toggle reaches storage.
//
// # Error Handling
//
// Fatal (returned from Run): invalid config, unknown storage kind,
// unopenable storage backend, invalid API base URL.
//
// Recoverable (logged): fetch failures, persistence read and write failures,
// prefs load and save failures, metrics listener failures.
//
// # Background Refresh
//
// With refresh_every_s > 0 the product list is refetched on that cadence.
// Consecutive failures double the wait up to five minutes; a success resets
// it.
//
// # Headless Mode
//
// Options.Headless skips the TUI: it fetches once and prints a table of
// products with favorites marked, which is handy for scripts and smoke
// tests.
package app
