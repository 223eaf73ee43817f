// Package groups maintains the mapping between Telegram chats and the
// Google calendars whose events they receive.
//
// The mapping is held in memory for the process lifetime and is rebuilt
// at startup from an externally supplied snapshot: a base64-encoded JSON
// document, typically stored in a CI secret or environment variable.
// ExportSnapshot produces the same document shape Load accepts, so a
// store can round-trip through the external slot without loss.
package groups
