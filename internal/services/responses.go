package services

import (
	"time"

	"filesorter/internal/domain"
)

type ScanResult struct {
	Root            string
	Recursive       bool
	TotalEntries    int
	Files           []domain.FileEntry
	ExtensionCounts map[string]int
	TotalBytes      int64
	// Unreadable lists paths below Root that could not be listed or
	// stat'ed; they are left out of the scan instead of failing it.
	Unreadable []string
	Duration   time.Duration
}

// Dirs is the number of directory entries seen but not sorted.
func (result ScanResult) Dirs() int {
	return result.TotalEntries - len(result.Files)
}

type MoveOutcome struct {
	Source      string
	Destination string
	Unchanged   bool
	Err         error
}

func (outcome MoveOutcome) Moved() bool {
	return outcome.Err == nil && !outcome.Unchanged
}

type MoveFailure struct {
	Name   string
	Path   string
	Reason string
}

type Summary struct {
	RunID     string
	Folder    string
	Moved     int
	Errors    int
	Skipped   int
	Unchanged int
	Total     int
	Failures  []MoveFailure
	Duration  time.Duration
}
