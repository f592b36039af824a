// Package source provides the read-only HTTP client for the external source
// catalog. A listing is always the complete inventory of one asset kind in one
// scope; the reconciliation pass derives deletions from absence, so partial
// listings would be indistinguishable from mass deletion and are never
// requested.
package source
