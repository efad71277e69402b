// Package render converts stored bookmark content between markup
// representations.
//
// Highlight offsets are expressed against plain text, while exports
// carry markdown quotes and Karakeep stores HTML. Rendering all three
// from the same source keeps their relative positions comparable.
package render
