// Package catalog provides the HTTP client for the downstream catalog's bulk
// import API. It implements the export package's Client and Deleter surfaces:
// batch submission returning an opaque job id, job status polling, and
// per-entity deletion.
package catalog
