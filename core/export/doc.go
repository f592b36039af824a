// Package export pushes pending mirror changes to the downstream governance
// catalog through its asynchronous, job-based bulk-import API.
//
// The downstream API offers no cross-call transactionality: each submitted
// batch becomes an opaque job that can only be polled for completion. The
// engine is built around that constraint.
//
// # Two-phase protocol
//
// A dataset split into batches can contain relations whose target lives in a
// different batch or a still-running job. Importing full entities batch by
// batch therefore races against "target not found". For asset types that can
// reference their own kind, the Exporter first imports every entity with an
// empty relation set (Phase 1), and only after all Phase-1 chunks reach
// terminal success re-imports the original relation-bearing entities (Phase 2)
// under the downstream's update-in-place policy. Every possible relation
// target then already exists, so Phase 2 cannot fail for "target missing"
// reasons regardless of how entities were chunked or how job timing
// overlapped. Types without self-relations import in a single phase, halving
// API calls.
//
// # Ordering is a heuristic, correctness is not
//
// The Planner orders entities without same-kind references ahead of entities
// that carry them. This is a single-level heuristic, not a topological sort;
// the two-phase protocol alone guarantees relation safety.
//
// # Deferred deletions
//
// Downstream deletions collected during a run are executed only after every
// asset type has finished its import pass, so a deletion can never break a
// forward reference that another type's import still needs.
package export
