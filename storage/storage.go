// Package storage provides the ledger sources a repository reads from: a
// file on disk or text already held in memory, such as stdin.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// File reads a ledger from disk on every fetch.
type File struct {
	Path string

	mu       sync.Mutex
	modified time.Time
}

// NewFile returns a File for path. Relative paths are made absolute so the
// watcher and the reader agree on the same file.
func NewFile(path string) *File {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &File{Path: path}
}

// FetchLedgerContent reads the whole file and records its modification time.
// A missing file yields an error satisfying errors.Is(err, fs.ErrNotExist).
func (f *File) FetchLedgerContent(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	info, err := os.Stat(f.Path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", f.Path, err)
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Path, err)
	}

	f.mu.Lock()
	f.modified = info.ModTime()
	f.mu.Unlock()

	return string(data), nil
}

// LastModified returns the modification time seen by the latest fetch.
func (f *File) LastModified() (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.modified, !f.modified.IsZero()
}

// Static serves fixed ledger text.
type Static struct {
	Content  string
	Modified time.Time
}

// NewStatic returns a Static holding content. The modification time is left
// unknown.
func NewStatic(content []byte) *Static {
	return &Static{Content: string(content)}
}

// FetchLedgerContent returns the held text.
func (s *Static) FetchLedgerContent(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.Content, nil
}

// LastModified returns the configured modification time, if any.
func (s *Static) LastModified() (time.Time, bool) {
	return s.Modified, !s.Modified.IsZero()
}
