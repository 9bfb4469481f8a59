// Package model defines the artifact data model shared by the store, the
// adapters and the sync engine.
//
// This package contains type definitions and pure helpers only. Every other
// internal package imports model; model imports nothing internal.
//
// Key constraints:
//   - Artifact IDs are a deterministic function of source system, type and
//     normalized name, so rescans of an unchanged artifact yield the same ID.
//   - Checksums change if and only if content changes; drift detection never
//     compares bytes.
//   - Capability matrices are total over ArtifactType: every type resolves to
//     an explicit Capability value, never a missing map key.
package model
