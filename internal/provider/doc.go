// Package provider defines the catalog adapter contract and the registry
// that merges several mutually incompatible music catalogs behind one API.
//
// # Adapters
//
// Each catalog (NetEase, QQ, Kugou) implements Provider. Optional
// capabilities, a cheap playability probe and extra track detail, are modeled
// as separate interfaces that the registry type-asserts once at registration
// time.
//
// # Failure isolation
//
// Registry.SearchAll calls each selected adapter under its own timeout and
// error boundary: a catalog that errors or times out contributes zero
// candidates and is logged and skipped, never failing the merged search.
// Results are deduplicated by candidate ID with the first occurrence winning,
// which preserves the configured priority order.
//
// # Track routing
//
// Candidate IDs carry a source prefix ("netrack_", "qqtrack_", "kgtrack_"),
// so lyric, detail and download-URL calls route back to the owning adapter
// by ID alone.
package provider
