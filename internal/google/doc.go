// Package google provides service-account authentication for the Google
// APIs used by schedulenudge.
//
// The bot authenticates as a service account whose key is supplied as a
// JSON blob (typically via an environment variable or CI secret). When a
// calendar owner email is configured, the JWT config impersonates that
// user via domain-wide delegation, which is required to read "primary"
// calendars in a Workspace domain.
package google
