// Package telegram wraps the Telegram Bot API transport used to deliver
// digests and to receive admin commands.
//
// The wrapper is intentionally thin: sending a Markdown message to a
// chat id, a getMe connectivity probe, and the update stream consumed by
// the interactive console. Delivery policy (fan-out, failure isolation,
// reporting) lives in the delivery package.
package telegram
