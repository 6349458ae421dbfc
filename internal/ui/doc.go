// Package ui renders the `walkerbrain check` report in the terminal.
//
// The interactive [Model] follows bubbletea's Init/Update/View pattern. It starts every check
// through [tasks.RunWithProgress], shows a spinner with the latest progress message while they
// run, and lists the outcomes in a [list.Model] once the run finishes. Press r to run the checks
// again and q to quit.
//
// [Report] writes the same outcomes as plain styled lines for non-interactive output.
package ui
