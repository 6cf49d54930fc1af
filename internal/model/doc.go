// Package model defines the core data types shared by the songfetch pipeline.
//
// The two central types are:
//
//   - QueryRow: one (title, artist) query from the input list together with
//     its lifecycle status. Rows are created once per run, mutated only by the
//     worker that currently owns them, and become immutable once they reach
//     StatusDone or StatusFailed.
//
//   - Candidate: a track record returned by a catalog adapter, considered as
//     a possible match for a row. Candidates are never mutated after creation.
//     Their IDs are provider-qualified (e.g. "qqtrack_001Q5zRr2sc1x5") and
//     globally unique across catalogs.
//
// The package also owns output file naming: OutputFileName builds the
// sanitized "{title}-{artist}.mp3" name used for local files, archive members
// and uploads.
package model
