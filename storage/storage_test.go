package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/jointledger/repository"
)

var (
	_ repository.Storage = (*File)(nil)
	_ repository.Storage = (*Static)(nil)
)

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "joint.ledger")
	content := "2024-01-05 Coffee shop\n    joint:expenses:dining  15.00 USD\n    joint:assets:checking\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	mtime := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	assert.NoError(t, os.Chtimes(path, mtime, mtime))

	f := NewFile(path)
	_, ok := f.LastModified()
	assert.False(t, ok)

	got, err := f.FetchLedgerContent(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, content, got)

	modified, ok := f.LastModified()
	assert.True(t, ok)
	assert.True(t, modified.Equal(mtime))
}

func TestFileMissing(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "missing.ledger"))

	_, err := f.FetchLedgerContent(context.Background())
	assert.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestFileRelativePath(t *testing.T) {
	f := NewFile("joint.ledger")
	assert.True(t, filepath.IsAbs(f.Path))
}

func TestStatic(t *testing.T) {
	s := NewStatic([]byte("; empty ledger\n"))

	got, err := s.FetchLedgerContent(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "; empty ledger\n", got)

	_, ok := s.LastModified()
	assert.False(t, ok)

	s.Modified = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, ok = s.LastModified()
	assert.True(t, ok)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStatic(nil).FetchLedgerContent(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRepositoryOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "joint.ledger")
	assert.NoError(t, os.WriteFile(path, []byte("; budget: expenses:dining: 300 monthly\n"), 0o644))

	repo := repository.New(NewFile(path))
	budgets, err := repo.Budgets(context.Background(), false)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(budgets))

	_, ok := repo.LastModified()
	assert.True(t, ok)
}
