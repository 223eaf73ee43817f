// Package digest renders a week of calendar events into the Markdown
// message body sent to Telegram chats.
//
// Events are bucketed by calendar day in the reference timezone, so a
// source in another offset still lands on the right weekday. Within a
// day, all-day events render first, then timed events by start time.
package digest
