// Package lifecycle implements the two state machines that drive change
// tracking for mirrored catalog entities.
//
// # Status classification
//
// Every entity carries a primary lifecycle status (NEW, ACTIVE, UPDATED,
// DELETED). Classify derives the next status from the stored fingerprint, the
// freshly computed fingerprint, and the current status. A DELETED status is
// sticky: once an entity is classified as deleted, later fingerprint matches
// never silently revive it.
//
// # Propagation projection
//
// The secondary propagation status (NOT_SYNCED, SYNCED, PENDING_UPDATE,
// PENDING_DELETE) tracks whether a change has been pushed to the downstream
// catalog. Project derives the next propagation status from the freshly
// classified lifecycle status. Projection never advances to SYNCED on its own;
// that transition happens only when the export engine confirms success.
//
// Both functions are pure: no I/O, no clock, no hidden state.
package lifecycle
