// Package tasks loads independent parts of a page concurrently with per-part error reporting.
//
// # Sections
//
// A [Section] names one unit of work, typically a single query feeding one chart or table. [Run] executes
// sections on a bounded worker pool and returns a [Result] with one [SectionResult] per section, in input
// order. A failing section never stops the others:
//
//   - an error returned by [Section.Load] is recorded against that section
//   - a panic is recovered and recorded as an error
//   - a cancelled context marks sections that had not started yet
//
// # Progress Reporting
//
// [RunWithProgress] also emits [ProgressUpdate] values as sections start and finish. Updates use select with
// default so a slow or absent reader never blocks the pool. The check command uses this to print probe
// results as they arrive.
package tasks
