// Package textutil provides the text comparison primitives shared by the
// matching engine.
//
// The primary use cases are:
//   - Levenshtein edit distance, normalized distance, and similarity ratio
//     between two strings
//   - Case folding and word tokenization for caseless comparison
//   - Term-frequency fingerprints with cosine similarity for duplicate
//     detection over bookmark titles
//
// All functions are pure and safe for concurrent use. Distance, normalized
// distance, and ratio form one consistent family: Ratio is monotonically
// decreasing in Distance, and identical inputs always yield Ratio 1.0 and
// Distance 0.
package textutil
