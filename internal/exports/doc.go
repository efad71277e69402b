// Package exports reads bookmark exports from source applications.
//
// Omnivore exports are directories holding metadata_*_to_*.json record
// batches, a highlights/ directory of per-article markdown files, and a
// content/ directory of captured pages. Pocket exports are a single CSV.
package exports
