// Package bookmarkcache persists a local copy of the Karakeep bookmark
// collection in SQLite.
//
// Matching thousands of export records against a rate-limited API is
// impractical, so migrations run against this cache instead. Populate
// refreshes it with a full paginated fetch and verifies the count
// against the server's own statistics.
package bookmarkcache
