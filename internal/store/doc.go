// Package store provides SQLite-backed durable storage for aisync state.
//
// The store holds:
//   - Artifacts: the latest scanned truth per source system
//   - Sync State: per (artifact, target system) ledger of what was synced
//   - Sync Jobs / Results: append-only audit trail of sync invocations
//   - Mapping Rules: declarative placement/transform rules per system pair
//   - Settings and Systems: small key/value and system registry tables
//
// # Transactions
//
// Schema creation, version stamping and default seeding run inside a single
// transaction when the store is opened. Every other method is an independent
// statement or transaction. There is no cross-call locking: the store assumes
// a single writer per database file.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity (sync state cascades with its artifact)
package store
