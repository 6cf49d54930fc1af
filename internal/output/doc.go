// Package output delivers completed downloads.
//
// Three aggregators cover the three output modes:
//
//   - LocalWriter writes each item to its own file under the downloads
//     directory.
//   - Archiver buffers items into fixed-size batches and packages each
//     batch as a zip archive, with packaging serialized on a single
//     background goroutine so appends never wait on compression.
//   - Uploader sends each item to a StorageGateway and records the
//     returned retrieval location.
//
// All three satisfy the Aggregator interface consumed by the fetch
// orchestrator. ForSettings picks the right one for a run's settings
// and fails fast when the destination is unusable.
package output
