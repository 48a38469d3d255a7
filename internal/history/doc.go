// Package history keeps a SQLite journal of sort runs and the moves they
// made, so past runs can be listed and reverted.
//
// Store implements services.Journal. Undoer walks a run's moves in reverse
// and puts each file back where it came from, choosing a suffixed name when
// the original path has since been taken.
package history
