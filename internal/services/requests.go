package services

import "filesorter/internal/domain"

type ScanRequest struct {
	Root      string
	Recursive bool
	// SkipHidden leaves out entries whose name starts with a dot.
	SkipHidden bool
	// Progress, when set, is called every few files and once on completion.
	Progress func(ScanProgress)
}

// ConfirmFunc is asked once, before anything is moved.
type ConfirmFunc func(scan ScanResult) bool

// ProgressFunc observes every processed file; index is 1-based.
type ProgressFunc func(index, total int, outcome MoveOutcome)

type PhaseFunc func(phase Phase)

type SortRequest struct {
	Folder     string
	Recursive  bool
	SkipHidden bool
	Mode       domain.Mode
	Locale     domain.Locale
	Confirm    ConfirmFunc
	Progress   ProgressFunc
	Phase      PhaseFunc
}
