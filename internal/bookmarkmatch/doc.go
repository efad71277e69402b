// Package bookmarkmatch decides whether a record from a foreign bookmark
// export denotes the same item as a candidate in the target store.
//
// Matching is tiered: exact canonical URL equality is authoritative, an
// exact case-insensitive title match ranks next, and a fuzzy title ratio
// above a configurable threshold is the last resort. URLs that point back
// at the export service itself (locally stored PDFs and similar assets)
// carry no real source address and are canonicalized to absent before
// comparison. The whole candidate list is always scanned so the decision
// is deterministic regardless of candidate order.
//
// The package also detects likely duplicate candidates by comparing title
// term-frequency fingerprints, which keeps all identity-resolution
// concerns in one place.
package bookmarkmatch
