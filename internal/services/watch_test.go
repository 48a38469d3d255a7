package services

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

type fakeInfo struct {
	os.FileInfo
	dir bool
}

func (info fakeInfo) IsDir() bool { return info.dir }

func TestRelevantEvent(t *testing.T) {
	stat := func(path string) (os.FileInfo, error) {
		switch filepath.Base(path) {
		case "gone.txt":
			return nil, fs.ErrNotExist
		case "txt":
			return fakeInfo{dir: true}, nil
		default:
			return fakeInfo{}, nil
		}
	}
	cases := []struct {
		name       string
		event      fsnotify.Event
		skipHidden bool
		want       bool
	}{
		{"create file", fsnotify.Event{Name: "/data/a.txt", Op: fsnotify.Create}, false, true},
		{"write file", fsnotify.Event{Name: "/data/a.txt", Op: fsnotify.Write}, false, true},
		{"remove", fsnotify.Event{Name: "/data/a.txt", Op: fsnotify.Remove}, false, false},
		{"chmod", fsnotify.Event{Name: "/data/a.txt", Op: fsnotify.Chmod}, false, false},
		{"hidden", fsnotify.Event{Name: "/data/.env", Op: fsnotify.Create}, false, true},
		{"hidden skipped", fsnotify.Event{Name: "/data/.partial", Op: fsnotify.Create}, true, false},
		{"directory", fsnotify.Event{Name: "/data/txt", Op: fsnotify.Create}, false, false},
		{"nested", fsnotify.Event{Name: "/data/sub/a.txt", Op: fsnotify.Create}, false, false},
		{"already moved", fsnotify.Event{Name: "/data/gone.txt", Op: fsnotify.Create}, false, false},
	}
	for _, tc := range cases {
		if got := relevantEvent("/data", tc.event, tc.skipHidden, stat); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestWatcherSortsNewArrivals(t *testing.T) {
	folder := t.TempDir()
	if err := os.WriteFile(filepath.Join(folder, "existing.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	osFs := afero.NewOsFs()
	watcher := NewWatcher(newTestSorter(osFs), nil, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	summaries := make(chan Summary, 4)
	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx, SortRequest{Folder: folder, Recursive: true}, func(summary Summary) {
			summaries <- summary
		})
	}()

	select {
	case summary := <-summaries:
		if summary.Moved != 1 {
			t.Fatalf("initial sort: unexpected summary %+v", summary)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("initial sort did not report")
	}

	// Event delivery can lag on some platforms, so the arrival is rewritten
	// until a sort reports it.
	deadline := time.After(5 * time.Second)
	arrived := filepath.Join(folder, "new.pdf")
	for {
		if err := os.WriteFile(arrived, []byte("pdf"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		select {
		case summary := <-summaries:
			if summary.Moved != 1 {
				t.Fatalf("arrival sort: unexpected summary %+v", summary)
			}
			if _, err := os.Stat(filepath.Join(folder, "pdf", "new.pdf")); err != nil {
				t.Fatalf("expected arrival sorted: %v", err)
			}
			cancel()
			if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
				t.Fatalf("run: %v", err)
			}
			return
		case <-time.After(500 * time.Millisecond):
		case <-deadline:
			t.Fatal("arrival was not sorted")
		}
	}
}

// arrivingSorter drops a file into the folder right after its first sort,
// as a download finishing mid-sort would.
type arrivingSorter struct {
	Sorter
	arrival string
	once    sync.Once
}

func (sorter *arrivingSorter) Sort(ctx context.Context, req SortRequest) (Summary, error) {
	summary, err := sorter.Sorter.Sort(ctx, req)
	sorter.once.Do(func() {
		_ = os.WriteFile(sorter.arrival, []byte("late"), 0o644)
	})
	return summary, err
}

func TestWatcherCatchesArrivalDuringInitialSort(t *testing.T) {
	folder := t.TempDir()
	if err := os.WriteFile(filepath.Join(folder, "existing.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	sorter := &arrivingSorter{Sorter: newTestSorter(afero.NewOsFs()), arrival: filepath.Join(folder, "late.pdf")}
	watcher := NewWatcher(sorter, nil, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	summaries := make(chan Summary, 4)
	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx, SortRequest{Folder: folder}, func(summary Summary) {
			summaries <- summary
		})
	}()

	for _, want := range []string{filepath.Join("txt", "existing.txt"), filepath.Join("pdf", "late.pdf")} {
		select {
		case summary := <-summaries:
			if summary.Moved != 1 {
				t.Fatalf("unexpected summary %+v", summary)
			}
			if _, err := os.Stat(filepath.Join(folder, want)); err != nil {
				t.Fatalf("expected %s sorted: %v", want, err)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("no sort reported %s", want)
		}
	}
	cancel()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		t.Fatalf("run: %v", err)
	}
}
