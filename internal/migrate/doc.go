// Package migrate orchestrates bookmark migrations against a Karakeep
// instance.
//
// Each operation matches source export records against the bookmark
// collection, applies changes through the API, and produces a Report.
// Operations hold an exclusive file lock so two migrations cannot write
// to the same instance concurrently.
package migrate
