package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"filesorter/internal/domain"
)

const scanReportEvery = 50

type ScanProgress struct {
	Path      string
	Scanned   int
	Current   string
	Completed bool
}

// FSScanner inventories folders on an afero filesystem.
type FSScanner struct {
	fs afero.Fs
}

func NewFSScanner(fs afero.Fs) *FSScanner {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FSScanner{fs: fs}
}

func (scanner *FSScanner) Scan(ctx context.Context, req ScanRequest) (ScanResult, error) {
	start := time.Now()
	root := cleanPath(req.Root)
	if root == "" {
		return ScanResult{}, fmt.Errorf("%w: empty path", ErrNotFound)
	}
	info, err := scanner.fs.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ScanResult{}, fmt.Errorf("%w: %s", ErrNotFound, root)
		}
		return ScanResult{}, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return ScanResult{}, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	progress := req.Progress
	result := ScanResult{
		Root:            root,
		Recursive:       req.Recursive,
		ExtensionCounts: make(map[string]int),
	}
	if req.Recursive {
		err = scanner.walk(ctx, root, req.SkipHidden, &result, progress)
	} else {
		err = scanner.list(ctx, root, req.SkipHidden, &result, progress)
	}
	result.Duration = time.Since(start)
	if err != nil {
		return result, err
	}
	if progress != nil {
		progress(ScanProgress{Path: root, Scanned: result.TotalEntries, Completed: true})
	}
	return result, nil
}

func (scanner *FSScanner) list(ctx context.Context, root string, skipHidden bool, result *ScanResult, progress func(ScanProgress)) error {
	entries, err := afero.ReadDir(scanner.fs, root)
	if err != nil {
		return fmt.Errorf("read %s: %w", root, err)
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if skipHidden && isHidden(entry.Name()) {
			continue
		}
		result.TotalEntries++
		if entry.IsDir() {
			continue
		}
		result.add(domain.NewFileEntry(filepath.Join(root, entry.Name()), entry.Size()))
		reportScan(progress, root, result)
	}
	return nil
}

func (scanner *FSScanner) walk(ctx context.Context, root string, skipHidden bool, result *ScanResult, progress func(ScanProgress)) error {
	return afero.Walk(scanner.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			// A folder whose listing fails is reported a second time with
			// the error, after it was already counted.
			result.Unreadable = append(result.Unreadable, path)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if path == root {
			return nil
		}
		if skipHidden && isHidden(info.Name()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		result.TotalEntries++
		if info.IsDir() {
			return nil
		}
		result.add(domain.NewFileEntry(path, info.Size()))
		reportScan(progress, root, result)
		return nil
	})
}

func (result *ScanResult) add(entry domain.FileEntry) {
	result.Files = append(result.Files, entry)
	result.ExtensionCounts[entry.Ext]++
	result.TotalBytes += entry.Size
}

func reportScan(progress func(ScanProgress), root string, result *ScanResult) {
	if progress == nil || len(result.Files)%scanReportEvery != 0 {
		return
	}
	current := result.Files[len(result.Files)-1].Path
	progress(ScanProgress{Path: root, Scanned: result.TotalEntries, Current: current})
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func cleanPath(path string) string {
	if path == "" {
		return path
	}
	clean := filepath.Clean(path)
	abs, err := filepath.Abs(clean)
	if err != nil {
		return clean
	}
	return abs
}

func isWithin(root, path string) bool {
	if root == path {
		return true
	}
	rootWithSep := root + string(filepath.Separator)
	return strings.HasPrefix(path, rootWithSep)
}
