package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"

	"filesorter/internal/domain"
)

// FSMover moves files without ever replacing an existing destination.
type FSMover struct {
	fs afero.Fs
}

func NewFSMover(fs afero.Fs) *FSMover {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FSMover{fs: fs}
}

func (mover *FSMover) MoveFile(source, destinationFolder string) MoveOutcome {
	outcome := MoveOutcome{Source: source}
	if err := mover.fs.MkdirAll(destinationFolder, 0o755); err != nil {
		outcome.Err = fmt.Errorf("create %s: %w", destinationFolder, err)
		return outcome
	}
	target, err := mover.freeName(destinationFolder, filepath.Base(source))
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Destination = target
	if err := mover.move(source, target); err != nil {
		outcome.Err = err
	}
	return outcome
}

// freeName returns the first of name, stem_1.ext, stem_2.ext, ... that does
// not exist in folder.
func (mover *FSMover) freeName(folder, name string) (string, error) {
	candidate := filepath.Join(folder, name)
	stem, suffix := domain.SplitName(name)
	for counter := 1; ; counter++ {
		taken, err := mover.exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = filepath.Join(folder, fmt.Sprintf("%s_%d%s", stem, counter, suffix))
	}
}

func (mover *FSMover) exists(path string) (bool, error) {
	return Exists(mover.fs, path)
}

// Exists reports whether anything occupies path. Symlinks are not followed,
// so a link whose target is gone still counts as taken.
func Exists(fs afero.Fs, path string) (bool, error) {
	var err error
	if lstater, ok := fs.(afero.Lstater); ok {
		_, _, err = lstater.LstatIfPossible(path)
	} else {
		_, err = fs.Stat(path)
	}
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, err)
}

func (mover *FSMover) move(source, target string) error {
	err := mover.fs.Rename(source, target)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := mover.copyFile(source, target); err != nil {
		return err
	}
	return mover.fs.Remove(source)
}

func (mover *FSMover) copyFile(source, target string) error {
	info, err := mover.fs.Stat(source)
	if err != nil {
		return err
	}
	input, err := mover.fs.Open(source)
	if err != nil {
		return err
	}
	defer input.Close()

	output, err := mover.fs.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(output, input); err != nil {
		_ = output.Close()
		_ = mover.fs.Remove(target)
		return err
	}
	if err := output.Close(); err != nil {
		return err
	}
	_ = mover.fs.Chtimes(target, info.ModTime(), info.ModTime())
	return nil
}
