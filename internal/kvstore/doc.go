// Package kvstore provides the durable key-value stores behind persistence.
//
// All backends satisfy Store: Get/Set/Delete of opaque byte blobs keyed by
// string, with ErrNotFound signalling absence. The persistence layer only
// ever uses one key ("products"), so the backends favour simplicity over
// throughput.
//
// Backends:
//
//   - memory: map guarded by a RWMutex; nothing survives a restart
//   - file:   one file per key under data_dir, atomic temp+rename writes
//   - sqlite: kv table in <data_dir>/shopfront.db via modernc.org/sqlite
//   - redis:  plain string values, optional "<prefix>:" namespace
//
// Open picks a backend from Options; the zero Kind means file.
package kvstore
