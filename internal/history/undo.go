package history

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"filesorter/internal/services"
)

type UndoResult struct {
	RunID    string
	Restored int
	Renamed  int
	Missing  int
	Errors   int
	Failures []services.MoveFailure
}

// Undoer reverts the moves recorded for a run.
type Undoer struct {
	store  *Store
	fs     afero.Fs
	mover  services.Mover
	logger *slog.Logger
}

func NewUndoer(store *Store, fs afero.Fs, logger *slog.Logger) *Undoer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Undoer{store: store, fs: fs, mover: services.NewFSMover(fs), logger: logger}
}

// Undo reverts runID, or the newest undoable run when runID is empty.
func (undoer *Undoer) Undo(ctx context.Context, runID string) (UndoResult, error) {
	var (
		run Run
		err error
	)
	if runID == "" {
		run, err = undoer.store.LatestUndoable(ctx)
	} else {
		run, err = undoer.store.GetRun(ctx, runID)
	}
	if err != nil {
		return UndoResult{}, err
	}
	if run.Undone() {
		return UndoResult{RunID: run.ID}, fmt.Errorf("%w: %s", ErrAlreadyUndone, run.ID)
	}

	moves, err := undoer.store.Moves(ctx, run.ID)
	if err != nil {
		return UndoResult{RunID: run.ID}, err
	}

	logger := undoer.logger.With("run_id", run.ID, "folder", run.Folder)
	result := UndoResult{RunID: run.ID}
	touched := make(map[string]struct{})
	for index := len(moves) - 1; index >= 0; index-- {
		move := moves[index]
		present, err := services.Exists(undoer.fs, move.Destination)
		if err != nil {
			undoer.fail(&result, move, err)
			continue
		}
		if !present {
			result.Missing++
			logger.Warn("moved file no longer present", "file", move.Destination)
			continue
		}
		touched[filepath.Dir(move.Destination)] = struct{}{}

		restored, renamed, err := undoer.restore(move)
		if err != nil {
			undoer.fail(&result, move, err)
			continue
		}
		if renamed {
			result.Renamed++
			logger.Info("original path taken, restored under new name", "file", restored)
			continue
		}
		result.Restored++
		logger.Debug("restored", "file", restored)
	}

	for dir := range touched {
		if dir == run.Folder {
			continue
		}
		if empty, err := afero.IsEmpty(undoer.fs, dir); err == nil && empty {
			if err := undoer.fs.Remove(dir); err != nil {
				logger.Warn("remove emptied folder", "folder", dir, "error", err)
			}
		}
	}

	if result.Errors > 0 {
		// Left undoable so a later attempt can pick up the failed files;
		// the ones restored now are counted as missing then.
		logger.Warn("undo incomplete, run kept for retry", "restored", result.Restored, "renamed", result.Renamed, "missing", result.Missing, "errors", result.Errors)
		return result, nil
	}
	if err := undoer.store.MarkUndone(ctx, run.ID); err != nil {
		return result, err
	}
	logger.Info("undo complete", "restored", result.Restored, "renamed", result.Renamed, "missing", result.Missing, "errors", result.Errors)
	return result, nil
}

func (undoer *Undoer) restore(move Move) (string, bool, error) {
	taken, err := services.Exists(undoer.fs, move.Source)
	if err != nil {
		return "", false, err
	}
	if !taken {
		if err := undoer.fs.MkdirAll(filepath.Dir(move.Source), 0o755); err != nil {
			return "", false, err
		}
		if err := undoer.fs.Rename(move.Destination, move.Source); err != nil {
			return "", false, err
		}
		return move.Source, false, nil
	}
	outcome := undoer.mover.MoveFile(move.Destination, filepath.Dir(move.Source))
	if outcome.Err != nil {
		return "", false, outcome.Err
	}
	return outcome.Destination, true, nil
}

func (undoer *Undoer) fail(result *UndoResult, move Move, err error) {
	result.Errors++
	result.Failures = append(result.Failures, services.MoveFailure{
		Name:   filepath.Base(move.Destination),
		Path:   move.Destination,
		Reason: err.Error(),
	})
	undoer.logger.Warn("restore failed", "file", move.Destination, "error", err)
}
