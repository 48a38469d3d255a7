package services

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"filesorter/internal/domain"
)

// FSSorter drives scan, classification and moves for one folder at a time.
type FSSorter struct {
	scanner Scanner
	mover   Mover
	table   domain.CategoryTable
	logger  *slog.Logger
	journal Journal
	lockDir string
}

func NewSorter(scanner Scanner, mover Mover, table domain.CategoryTable, logger *slog.Logger) *FSSorter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FSSorter{scanner: scanner, mover: mover, table: table, logger: logger}
}

func (sorter *FSSorter) WithJournal(journal Journal) *FSSorter {
	sorter.journal = journal
	return sorter
}

// WithLockDir enables a per-folder process lock kept under dir.
func (sorter *FSSorter) WithLockDir(dir string) *FSSorter {
	sorter.lockDir = dir
	return sorter
}

func (sorter *FSSorter) Table() domain.CategoryTable {
	return sorter.table
}

func (sorter *FSSorter) Sort(ctx context.Context, req SortRequest) (Summary, error) {
	start := time.Now()
	summary := Summary{RunID: uuid.NewString(), Folder: req.Folder}
	mode, locale := req.Mode, req.Locale
	if mode == "" {
		mode = domain.ModeExtension
	}
	if locale == "" {
		locale = domain.LocaleEnglish
	}
	logger := sorter.logger.With("run_id", summary.RunID, "folder", req.Folder)

	notify(req.Phase, PhaseScanning)
	scan, err := sorter.scanner.Scan(ctx, ScanRequest{Root: req.Folder, Recursive: req.Recursive, SkipHidden: req.SkipHidden})
	if err != nil {
		notify(req.Phase, PhaseFailed)
		logger.Error("scan failed", "error", err)
		return summary, err
	}
	summary.Folder = scan.Root
	summary.Total = len(scan.Files)
	summary.Skipped = scan.Dirs()
	logger.Debug("scan complete", "files", summary.Total, "dirs", summary.Skipped, "duration", scan.Duration)
	for _, path := range scan.Unreadable {
		logger.Warn("unreadable entry skipped", "path", path)
	}

	if len(scan.Files) == 0 {
		notify(req.Phase, PhaseDone)
		logger.Info("no files to sort")
		summary.Duration = time.Since(start)
		return summary, nil
	}

	notify(req.Phase, PhaseAwaitingConfirmation)
	if req.Confirm != nil && !req.Confirm(scan) {
		notify(req.Phase, PhaseCancelled)
		logger.Info("sort declined")
		return Summary{RunID: summary.RunID, Folder: scan.Root}, ErrCancelled
	}

	if sorter.lockDir != "" {
		lock, err := AcquireRunLock(sorter.lockDir, scan.Root)
		if err != nil {
			notify(req.Phase, PhaseFailed)
			logger.Error("lock failed", "error", err)
			return Summary{RunID: summary.RunID, Folder: scan.Root}, err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("release lock", "error", err)
			}
		}()
	}

	journal := sorter.journal
	if journal != nil {
		run := RunInfo{
			ID:        summary.RunID,
			Folder:    scan.Root,
			Recursive: req.Recursive,
			Mode:      mode,
			Locale:    locale,
			StartedAt: start.UTC(),
		}
		if err := journal.BeginRun(ctx, run); err != nil {
			logger.Warn("history unavailable for this run", "error", err)
			journal = nil
		}
	}

	notify(req.Phase, PhaseMoving)
	for index, entry := range scan.Files {
		label := Classify(entry.Ext, mode, sorter.table, locale)
		destination := filepath.Join(scan.Root, label)

		var outcome MoveOutcome
		if alreadySorted(scan.Root, entry.Path, label, mode) {
			outcome = MoveOutcome{Source: entry.Path, Destination: entry.Path, Unchanged: true}
		} else {
			outcome = sorter.mover.MoveFile(entry.Path, destination)
		}

		switch {
		case outcome.Err != nil:
			summary.Errors++
			summary.Failures = append(summary.Failures, MoveFailure{Name: entry.Name, Path: entry.Path, Reason: outcome.Err.Error()})
			logger.Warn("move failed", "file", entry.Path, "error", outcome.Err)
		case outcome.Unchanged:
			summary.Unchanged++
			logger.Debug("already sorted", "file", entry.Path)
		default:
			summary.Moved++
			logger.Debug("moved", "file", entry.Path, "destination", outcome.Destination)
			if journal != nil {
				if err := journal.RecordMove(ctx, summary.RunID, outcome); err != nil {
					logger.Warn("record move", "file", entry.Path, "error", err)
				}
			}
		}
		if req.Progress != nil {
			req.Progress(index+1, len(scan.Files), outcome)
		}
	}

	summary.Duration = time.Since(start)
	if journal != nil {
		if err := journal.FinishRun(ctx, summary); err != nil {
			logger.Warn("finish history run", "error", err)
		}
	}
	notify(req.Phase, PhaseDone)
	logger.Info("sort complete",
		"moved", summary.Moved,
		"errors", summary.Errors,
		"skipped", summary.Skipped,
		"unchanged", summary.Unchanged,
		"duration", summary.Duration.Round(time.Millisecond),
	)
	return summary, nil
}

// alreadySorted reports whether path already sits in the folder it would be
// moved to. In extension mode a root that is itself named after the label
// counts as sorted, so sorting "pdf/" directly does not produce "pdf/pdf/".
// Category labels are ordinary folder names like "Documents", so that rule
// does not apply to them.
func alreadySorted(root, path, label string, mode domain.Mode) bool {
	dir := filepath.Dir(path)
	if dir == filepath.Join(root, label) {
		return true
	}
	return mode == domain.ModeExtension && dir == root && filepath.Base(root) == label
}

func notify(fn PhaseFunc, phase Phase) {
	if fn != nil {
		fn(phase)
	}
}
