// Package textlocate finds the substring of a long corpus that best
// approximates a short query under Levenshtein distance.
//
// The search is coarse-to-fine: a quick phase estimates the region of the
// corpus likely to contain the query from word occurrences, then refines
// within it with a one-character sliding window. When the word heuristic
// finds nothing (purely numeric or symbolic queries, heavily rewritten
// text), a thorough phase scans the whole corpus in stepped windows,
// narrows to the best window, and walks a descending ladder of n-gram
// lengths inside it. The result is a best-effort answer and may not be
// optimal.
//
// Scoring is data-parallel over independent candidates; the reduction runs
// single-threaded on the caller, so results are identical regardless of the
// worker count.
package textlocate
