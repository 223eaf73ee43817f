// Package cmd implements the command-line interface for schedulenudge.
//
// Available commands:
//
//   - send: fetch the upcoming week's events and deliver digests (default)
//   - listen: stay resident, answer bot commands and run on a schedule
//   - groups: inspect the chat/calendar mapping
//   - version: print version information
package cmd
