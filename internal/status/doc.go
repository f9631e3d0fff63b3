// Package status runs the poll loop that turns the registered collectors into
// one status line.
//
// Every tick polls each slot once, strictly in registration order. A slot that
// fails falls back to the last text it produced successfully, kept in a
// [StaleCache]; a slot that has nothing to show is left out without touching
// its cached text. The joined line is handed to a [Display].
package status
