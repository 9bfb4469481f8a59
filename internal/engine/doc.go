// Package engine reconciles artifacts from one source system into any number
// of target systems.
//
// A sync run is a single, synchronous pass:
//
//  1. A job row is created (status=running) before anything else happens.
//  2. The source adapter is scanned and every artifact is upserted into the
//     store. This refresh happens even under dry-run.
//  3. Each target is reconciled in turn: capability check, mapping rule,
//     idempotence check against the ledger, optional transform, then a
//     safety-gated write. Artifacts are handled strictly one after another.
//  4. With SyncDeletions, ledger entries whose source artifact disappeared
//     are removed from the target.
//  5. The job is finalized with per-operation counters.
//
// Failure isolation: a failing artifact never stops its target; a failing
// target never stops the others; only an unusable source fails the whole job.
//
// Directory safety: a destination that is a real directory the engine did
// not produce is never replaced unless Force is set. See PathOrigin.
//
// The engine assumes a single writer per project root. Callers that may run
// concurrently must serialize externally (the CLI takes a file lock).
package engine
