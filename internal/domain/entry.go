package domain

import (
	"path/filepath"
	"strings"
)

// FileEntry is a regular file found by a scan. Ext is lower-cased without the
// leading dot and empty when the name carries no extension.
type FileEntry struct {
	Path string
	Name string
	Ext  string
	Size int64
}

func NewFileEntry(path string, size int64) FileEntry {
	name := filepath.Base(path)
	return FileEntry{
		Path: path,
		Name: name,
		Ext:  ExtensionOf(name),
		Size: size,
	}
}

// ExtensionOf returns the lower-cased extension of name. Dotfiles such as
// ".bashrc" and names ending in a dot have none.
func ExtensionOf(name string) string {
	_, suffix := SplitName(name)
	return strings.ToLower(strings.TrimPrefix(suffix, "."))
}

// SplitName splits a base name into stem and suffix at the last dot,
// keeping leading dots in the stem.
func SplitName(name string) (string, string) {
	trimmed := strings.TrimLeft(name, ".")
	index := strings.LastIndex(trimmed, ".")
	if index < 0 {
		return name, ""
	}
	offset := len(name) - len(trimmed)
	return name[:offset+index], name[offset+index:]
}
