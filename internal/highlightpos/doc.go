// Package highlightpos reconstructs character offsets for a highlight
// quote inside the plain-text rendering of a document.
//
// A quote found in one rendering of a document (markdown, raw markup)
// rarely sits at the same offset in another rendering, because the
// renderings diverge in length and structure. The resolver tries direct
// containment in the plain-text and markdown views first, falls back to
// approximate substring location, and finally to anchoring markup links
// for quotes that consist of nothing but a link. Disagreeing estimates
// are reconciled by fractional position; when they disagree badly the
// markdown-derived estimate wins, because plain-text stripping introduces
// the larger and less consistent drift.
package highlightpos
