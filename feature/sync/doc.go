// Package sync orchestrates a full synchronization run: reconcile every asset
// kind in every configured scope against the source catalog, export pending
// changes to the downstream catalog, then execute the deferred deletions.
//
// A run never aborts as a whole. Failures are recorded in the run report per
// listing, per export chunk and per deletion; everything else proceeds.
//
// # Ordering
//
// Reconciliation walks kinds parents-first so a cascade always sees its
// children already mirrored. Exports run in the registry's dependency waves
// (see mirror.Registry.ExportStages), with bounded concurrency inside each
// wave. Deletions are queued children-first and drained only after every
// import finished, so a deletion can never break a relation another kind's
// import still references.
package sync
