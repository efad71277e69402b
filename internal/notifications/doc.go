// Package notifications sends migration status updates via ntfy.
//
// Migrations can take hours against a rate-limited API; a push
// notification on completion or failure beats watching a terminal.
// When no topic is configured every notification is a no-op.
package notifications
