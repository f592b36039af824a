// Package mirror maintains the local copy of the source catalog's asset graph.
//
// One generic SyncEntity record represents any mirrored asset kind; the
// per-kind variation (hierarchy parent, relation descriptors) lives in data, in
// the TypeDescriptor registry, rather than in parallel types. This keeps the
// lifecycle logic in exactly one place.
//
// # Identity
//
// An entity is identified by (entity type, external id, scope). The scope
// disambiguates entities across tenants or sites; the same external id may
// legitimately exist in two scopes. Re-ingesting an identity updates the
// existing row in place, never duplicates it.
//
// # Reconciliation
//
// The Reconciler consumes one full source listing per (type, scope) pair,
// fingerprints every entity, classifies it through core/lifecycle, projects the
// propagation status, and persists the result. Entities previously seen but
// absent from the listing are marked DELETED; when the vanished entity's type
// has children in the hierarchy, the CascadeDeleter marks the whole reachable
// subtree inside a single transaction.
//
// # Soft deletion
//
// Rows are never physically removed. DELETED is a status value, preserving
// audit history and letting the downstream catalog catch up even for assets
// the source has already dropped.
package mirror
