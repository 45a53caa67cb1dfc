// Package command is the text surface over a session.Session.
//
// A Handler parses one line at a time (see Usage), runs it through the
// session's editor, router and store, and reports the outcome as a Message
// on a Notifier. Destinations are resolved by name first, then as a literal
// live waypoint id.
//
// Errors the user can fix (a tap far from every waypoint, an unknown
// destination, bad syntax) are delivered as warnings and never returned.
// Invariant violations and storage failures are returned from Execute.
package command
