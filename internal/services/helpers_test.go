package services

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"filesorter/internal/config"
	"filesorter/internal/logging"
)

var errInjected = errors.New("injected failure")

// failingFs fails renames whose source base name is listed in failRenames
// and opens of the exact paths listed in failOpens.
type failingFs struct {
	afero.Fs
	failRenames map[string]bool
	failOpens   map[string]bool
}

func (fs failingFs) Open(name string) (afero.File, error) {
	if fs.failOpens[name] {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return fs.Fs.Open(name)
}

func (fs failingFs) Rename(oldname, newname string) error {
	if fs.failRenames[filepath.Base(oldname)] {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: errInjected}
	}
	return fs.Fs.Rename(oldname, newname)
}

func newTestSorter(fs afero.Fs) *FSSorter {
	return NewSorter(NewFSScanner(fs), NewFSMover(fs), config.DefaultCategoryTable(), logging.NewNop())
}

func writeFiles(t *testing.T, fs afero.Fs, paths ...string) {
	t.Helper()
	for _, path := range paths {
		if strings.HasSuffix(path, "/") {
			if err := fs.MkdirAll(path, 0o755); err != nil {
				t.Fatalf("mkdir %s: %v", path, err)
			}
			continue
		}
		if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
		}
		if err := afero.WriteFile(fs, path, []byte(path), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

// tree lists every path under root, directories suffixed with a slash.
func tree(t *testing.T, fs afero.Fs, root string) []string {
	t.Helper()
	var paths []string
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		if info.IsDir() {
			rel += "/"
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	sort.Strings(paths)
	return paths
}

func assertTree(t *testing.T, fs afero.Fs, root string, want ...string) {
	t.Helper()
	got := tree(t, fs, root)
	sort.Strings(want)
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected tree under %s\n got: %v\nwant: %v", root, got, want)
	}
}
