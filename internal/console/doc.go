// Package console implements the interactive admin console: the
// long-lived listen mode in which the bot consumes the Telegram update
// stream and answers commands.
//
// Everyone may ask for their chat id and subscription status; mutation
// of the chat/calendar mapping is restricted to the configured admin.
// The mapping lives in process memory only, so every mutation reminds
// the admin to persist the exported snapshot.
package console
