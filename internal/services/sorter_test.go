package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"

	"filesorter/internal/config"
	"filesorter/internal/domain"
)

func TestSortCategoriesMovesFilesAndSkipsDirectories(t *testing.T) {
	for _, tc := range []struct {
		locale    domain.Locale
		images    string
		documents string
	}{
		{domain.LocaleEnglish, "Images", "Documents"},
		{domain.LocaleTurkish, "Resimler", "Belgeler"},
	} {
		fs := afero.NewMemMapFs()
		writeFiles(t, fs, "/data/photo.JPG", "/data/notes.txt", "/data/archive/")

		summary, err := newTestSorter(fs).Sort(context.Background(), SortRequest{
			Folder: "/data",
			Mode:   domain.ModeCategory,
			Locale: tc.locale,
		})
		if err != nil {
			t.Fatalf("sort: %v", err)
		}
		if summary.Moved != 2 || summary.Errors != 0 || summary.Skipped != 1 {
			t.Fatalf("unexpected summary %+v", summary)
		}
		assertTree(t, fs, "/data",
			"archive/",
			tc.images+"/", tc.images+"/photo.JPG",
			tc.documents+"/", tc.documents+"/notes.txt",
		)
	}
}

func TestSortEmptyFolderNeverConfirms(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/data/")

	summary, err := newTestSorter(fs).Sort(context.Background(), SortRequest{
		Folder: "/data",
		Confirm: func(ScanResult) bool {
			t.Fatal("confirm must not be called for an empty folder")
			return false
		},
	})
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if summary.Moved != 0 || summary.Errors != 0 || summary.Skipped != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestSortDeclinedLeavesFilesystemUnchanged(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/data/photo.JPG", "/data/notes.txt", "/data/archive/")
	before := tree(t, fs, "/data")

	confirms := 0
	summary, err := newTestSorter(fs).Sort(context.Background(), SortRequest{
		Folder: "/data",
		Mode:   domain.ModeCategory,
		Confirm: func(scan ScanResult) bool {
			confirms++
			if len(scan.Files) != 2 {
				t.Fatalf("confirm saw %d files", len(scan.Files))
			}
			return false
		},
	})
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if confirms != 1 {
		t.Fatalf("confirm called %d times", confirms)
	}
	if summary.Moved != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	assertTree(t, fs, "/data", before...)
}

func TestSortRecursiveSameNameIsRenamed(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/data/a/report.pdf", "/data/b/report.pdf")

	summary, err := newTestSorter(fs).Sort(context.Background(), SortRequest{
		Folder:    "/data",
		Recursive: true,
		Mode:      domain.ModeCategory,
	})
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if summary.Moved != 2 || summary.Skipped != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	assertTree(t, fs, "/data",
		"a/", "b/",
		"Documents/", "Documents/report.pdf", "Documents/report_1.pdf",
	)
	first, _ := afero.ReadFile(fs, "/data/Documents/report.pdf")
	second, _ := afero.ReadFile(fs, "/data/Documents/report_1.pdf")
	if string(first) != "/data/a/report.pdf" || string(second) != "/data/b/report.pdf" {
		t.Fatalf("unexpected arrival order %q, %q", first, second)
	}
}

func TestSortRerunOnSortedFolderIsNoop(t *testing.T) {
	for _, recursive := range []bool{false, true} {
		fs := afero.NewMemMapFs()
		writeFiles(t, fs, "/data/a.txt", "/data/b.jpg", "/data/README")
		sorter := newTestSorter(fs)
		req := SortRequest{Folder: "/data", Recursive: recursive}

		if _, err := sorter.Sort(context.Background(), req); err != nil {
			t.Fatalf("first sort: %v", err)
		}
		sorted := []string{"txt/", "txt/a.txt", "jpg/", "jpg/b.jpg", "no_extension/", "no_extension/README"}
		assertTree(t, fs, "/data", sorted...)

		summary, err := sorter.Sort(context.Background(), req)
		if err != nil {
			t.Fatalf("second sort: %v", err)
		}
		if summary.Moved != 0 || summary.Errors != 0 {
			t.Fatalf("recursive=%v: second run moved files: %+v", recursive, summary)
		}
		if recursive && summary.Unchanged != 3 {
			t.Fatalf("expected 3 unchanged files, got %+v", summary)
		}
		assertTree(t, fs, "/data", sorted...)
	}
}

func TestSortFolderNamedAfterItsExtension(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/data/txt/a.txt", "/data/txt/b.jpg")

	summary, err := newTestSorter(fs).Sort(context.Background(), SortRequest{Folder: "/data/txt"})
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if summary.Unchanged != 1 || summary.Moved != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	assertTree(t, fs, "/data/txt", "a.txt", "jpg/", "jpg/b.jpg")
}

func TestSortCategoryFolderIsNotTreatedAsSorted(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/home/Documents/a.pdf", "/home/Documents/b.txt", "/home/Documents/c.jpg")

	summary, err := newTestSorter(fs).Sort(context.Background(), SortRequest{
		Folder: "/home/Documents",
		Mode:   domain.ModeCategory,
	})
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if summary.Moved != 3 || summary.Unchanged != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	assertTree(t, fs, "/home/Documents",
		"Documents/", "Documents/a.pdf", "Documents/b.txt",
		"Images/", "Images/c.jpg",
	)
}

func TestSortIncludesHiddenEntriesByDefault(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/in/.env", "/in/a.txt", "/in/.cache/")

	summary, err := newTestSorter(fs).Sort(context.Background(), SortRequest{
		Folder:     "/in",
		SkipHidden: !config.DefaultConfig().ShowHidden,
	})
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if summary.Moved != 2 || summary.Skipped != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	assertTree(t, fs, "/in", ".cache/", "no_extension/", "no_extension/.env", "txt/", "txt/a.txt")
}

func TestSortSkipHiddenLeavesDotfiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/in/.env", "/in/a.txt", "/in/.cache/")

	summary, err := newTestSorter(fs).Sort(context.Background(), SortRequest{Folder: "/in", SkipHidden: true})
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if summary.Moved != 1 || summary.Skipped != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	assertTree(t, fs, "/in", ".cache/", ".env", "txt/", "txt/a.txt")
}

func TestSortRecursiveSkipsUnreadableSubfolder(t *testing.T) {
	mem := afero.NewMemMapFs()
	writeFiles(t, mem, "/in/a.txt", "/in/locked/secret.doc", "/in/z.pdf")
	fs := failingFs{Fs: mem, failOpens: map[string]bool{"/in/locked": true}}

	summary, err := newTestSorter(fs).Sort(context.Background(), SortRequest{Folder: "/in", Recursive: true})
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if summary.Moved != 2 || summary.Errors != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	assertTree(t, mem, "/in",
		"locked/", "locked/secret.doc",
		"pdf/", "pdf/z.pdf",
		"txt/", "txt/a.txt",
	)
}

func TestSortReportsProgressAfterEveryFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/data/a.txt", "/data/b.txt", "/data/c.md")

	var indexes []int
	var phases []Phase
	_, err := newTestSorter(fs).Sort(context.Background(), SortRequest{
		Folder: "/data",
		Progress: func(index, total int, outcome MoveOutcome) {
			if total != 3 {
				t.Fatalf("unexpected total %d", total)
			}
			if outcome.Err != nil {
				t.Fatalf("unexpected failure %v", outcome.Err)
			}
			indexes = append(indexes, index)
		},
		Phase: func(phase Phase) {
			phases = append(phases, phase)
		},
	})
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if len(indexes) != 3 || indexes[0] != 1 || indexes[2] != 3 {
		t.Fatalf("unexpected progress indexes %v", indexes)
	}
	want := []Phase{PhaseScanning, PhaseAwaitingConfirmation, PhaseMoving, PhaseDone}
	if len(phases) != len(want) {
		t.Fatalf("unexpected phases %v", phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Fatalf("unexpected phases %v", phases)
		}
	}
}

func TestSortContinuesAfterFailure(t *testing.T) {
	fs := failingFs{Fs: afero.NewMemMapFs(), failRenames: map[string]bool{"b.txt": true}}
	writeFiles(t, fs, "/data/a.txt", "/data/b.txt", "/data/c.txt")

	summary, err := newTestSorter(fs).Sort(context.Background(), SortRequest{Folder: "/data"})
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if summary.Moved != 2 || summary.Errors != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(summary.Failures) != 1 || summary.Failures[0].Name != "b.txt" || summary.Failures[0].Reason == "" {
		t.Fatalf("unexpected failures %+v", summary.Failures)
	}
	assertTree(t, fs, "/data", "b.txt", "txt/", "txt/a.txt", "txt/c.txt")
}

func TestSortMissingFolderFails(t *testing.T) {
	var phases []Phase
	_, err := newTestSorter(afero.NewMemMapFs()).Sort(context.Background(), SortRequest{
		Folder: "/missing",
		Confirm: func(ScanResult) bool {
			t.Fatal("confirm must not be called")
			return true
		},
		Phase: func(phase Phase) { phases = append(phases, phase) },
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if phases[len(phases)-1] != PhaseFailed {
		t.Fatalf("expected failed phase, got %v", phases)
	}
}

func TestSortBusyWhenFolderLocked(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/data/a.txt")
	lockDir := t.TempDir()

	held, err := AcquireRunLock(lockDir, "/data")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer held.Release()

	_, err = newTestSorter(fs).WithLockDir(lockDir).Sort(context.Background(), SortRequest{Folder: "/data"})
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	assertTree(t, fs, "/data", "a.txt")
}

type recordingJournal struct {
	mu       sync.Mutex
	runs     []RunInfo
	moves    []MoveOutcome
	finished []Summary
	failOpen bool
}

func (j *recordingJournal) BeginRun(_ context.Context, run RunInfo) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.failOpen {
		return errors.New("journal offline")
	}
	j.runs = append(j.runs, run)
	return nil
}

func (j *recordingJournal) RecordMove(_ context.Context, _ string, outcome MoveOutcome) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.moves = append(j.moves, outcome)
	return nil
}

func (j *recordingJournal) FinishRun(_ context.Context, summary Summary) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.finished = append(j.finished, summary)
	return nil
}

func TestSortRecordsMovesInJournal(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/data/a.txt", "/data/txt/b.txt")
	journal := &recordingJournal{}

	summary, err := newTestSorter(fs).WithJournal(journal).Sort(context.Background(), SortRequest{
		Folder:    "/data",
		Recursive: true,
		Mode:      domain.ModeExtension,
		Locale:    domain.LocaleEnglish,
	})
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if len(journal.runs) != 1 || journal.runs[0].ID != summary.RunID || journal.runs[0].Folder != "/data" {
		t.Fatalf("unexpected runs %+v", journal.runs)
	}
	if len(journal.moves) != 1 || journal.moves[0].Destination != filepath.Join("/data", "txt", "a.txt") {
		t.Fatalf("expected only the real move to be recorded, got %+v", journal.moves)
	}
	if len(journal.finished) != 1 || journal.finished[0].Moved != 1 || journal.finished[0].Unchanged != 1 {
		t.Fatalf("unexpected finished summaries %+v", journal.finished)
	}
}

func TestSortWithoutJournalWhenBeginFails(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/data/a.txt")
	journal := &recordingJournal{failOpen: true}

	summary, err := newTestSorter(fs).WithJournal(journal).Sort(context.Background(), SortRequest{Folder: "/data"})
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if summary.Moved != 1 || len(journal.moves) != 0 || len(journal.finished) != 0 {
		t.Fatalf("journal should be bypassed: summary=%+v journal=%+v", summary, journal)
	}
}
