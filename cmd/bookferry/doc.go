// Command bookferry migrates bookmarks, archive state, and highlights
// from Omnivore and Pocket exports into a Karakeep instance.
package main
