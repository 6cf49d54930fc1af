// Package match turns an ambiguous free-text query into a single verified
// track.
//
// # Normalization
//
// All comparisons go through Normalize, which applies NFKC, lower-casing and
// separator stripping so that "Song (Live)" and "song live" compare equal.
// SameTitle additionally accepts substring containment either way, which
// tolerates catalog titles with extra qualifiers at the cost of false
// positives on very short titles.
//
// # Tiered resolution
//
// The Resolver first requires a title match (a title mismatch is never
// recoverable), then partitions candidates into exact-artist matches and the
// rest, then scans the mode's candidate ordering for the first candidate
// whose playability the Prober verifies. First match wins; there is no
// scoring.
//
// Manual mode hands the top candidates to a SelectionPort, an injected
// collaborator so the resolver stays independent of any particular UI, and
// falls back to the remaining offered candidates if the user's pick turns
// out to be unplayable.
package match
