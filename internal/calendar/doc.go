// Package calendar provides the Google Calendar side of the weekly
// digest pipeline: a thin client over the Calendar API, the week-window
// calculator, and the multi-calendar fetch fan-out.
//
// Events coming back from the API are normalized at this boundary into
// exactly two shapes, timed and all-day; downstream packages never see
// the raw API representation.
//
// Fetching is failure-isolated per calendar: one unreadable calendar
// produces an error entry in the fan-out result and never affects the
// other calendars in the same run.
package calendar
