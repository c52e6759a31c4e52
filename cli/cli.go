// Package cli implements the jointledger command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/robinvdvleuten/jointledger/config"
	"github.com/robinvdvleuten/jointledger/ledger"
	"github.com/robinvdvleuten/jointledger/output"
	"github.com/robinvdvleuten/jointledger/repository"
	"github.com/robinvdvleuten/jointledger/storage"
	"github.com/robinvdvleuten/jointledger/telemetry"
)

var (
	successSymbol = "✓"
	errorSymbol   = "✗"
	infoSymbol    = "→"

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D7D7", Dark: "#00D7D7"})
)

func printSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		successStyle.Render(successSymbol),
		message,
	)
}

func printError(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		errorStyle.Render(errorSymbol),
		errorStyle.Render(message),
	)
}

func printInfof(w io.Writer, format string, args ...any) {
	formatted := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(w, "%s %s\n",
		infoStyle.Render(infoSymbol),
		formatted,
	)
}

// promptYesNo prompts the user with a yes/no question.
// Returns false by default if stdin is not a terminal.
func promptYesNo(question string) (bool, error) {
	if !isTerminal() {
		return false, nil
	}

	var confirm bool

	form := huh.NewConfirm().
		Title(question).
		WithButtonAlignment(lipgloss.Left).
		Value(&confirm)

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	return confirm, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

const stdinName = "<stdin>"

// FileOrStdin accepts either a file path or "-" for stdin.
// For stdin: Filename="<stdin>", Contents populated.
// For files: Filename set, Contents nil (read through storage).
type FileOrStdin struct {
	Filename string
	Contents []byte
}

// Decode implements kong.MapperValue.
func (f *FileOrStdin) Decode(ctx *kong.DecodeContext) error {
	var filename string
	if err := ctx.Scan.PopValueInto("filename", &filename); err != nil {
		return err
	}

	if filename == "-" || filename == "" {
		return f.readStdin()
	}

	if _, err := os.Stat(filename); err != nil {
		return err
	}
	f.Filename = filename
	f.Contents = nil

	return nil
}

func (f *FileOrStdin) readStdin() error {
	contents, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read from stdin: %w", err)
	}
	f.Filename = stdinName
	f.Contents = contents
	return nil
}

// Resolve fills in the configured ledger file when no argument was given,
// falling back to stdin.
func (f *FileOrStdin) Resolve(cfg *config.Config) error {
	if f.Filename != "" {
		return nil
	}
	if cfg != nil && cfg.File != "" {
		f.Filename = cfg.File
		return nil
	}
	return f.readStdin()
}

// IsStdin reports whether the ledger was read from stdin.
func (f *FileOrStdin) IsStdin() bool {
	return f.Filename == stdinName
}

// GetAbsoluteFilename returns the absolute path, or "<stdin>" for stdin.
func (f *FileOrStdin) GetAbsoluteFilename() string {
	if f.IsStdin() {
		return f.Filename
	}
	absPath, err := filepath.Abs(f.Filename)
	if err != nil {
		return f.Filename
	}
	return absPath
}

// Storage returns the repository storage backing this input.
func (f *FileOrStdin) Storage() repository.Storage {
	if f.IsStdin() {
		return storage.NewStatic(f.Contents)
	}
	return storage.NewFile(f.Filename)
}

// Repository builds a repository over this input.
func (f *FileOrStdin) Repository() *repository.Repository {
	return repository.New(f.Storage(),
		repository.WithFilename(filepath.Base(f.GetAbsoluteFilename())),
		repository.WithLogger(slog.Default()),
	)
}

// loadSnapshot resolves the input and loads it once.
func loadSnapshot(ctx context.Context, file *FileOrStdin, cfg *config.Config) (*repository.Snapshot, error) {
	if err := file.Resolve(cfg); err != nil {
		return nil, err
	}
	snap, err := file.Repository().Snapshot(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return snap, nil
}

// startTelemetry returns a context carrying a timing collector when
// telemetry is enabled. The returned func ends the root timer and prints the
// report; it is safe to call more than once.
func startTelemetry(kctx *kong.Context, globals *Globals, name string) (context.Context, func()) {
	ctx := context.Background()
	if !globals.Telemetry {
		return ctx, func() {}
	}

	collector := telemetry.NewTimingCollector()
	ctx = telemetry.WithCollector(ctx, collector)
	timer := collector.Start(name)

	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			timer.End()
			_, _ = fmt.Fprintln(kctx.Stderr)
			collector.Report(kctx.Stderr, output.NewStyles(kctx.Stderr))
		})
	}
}

// MonthLayout is the format of --month flags.
const MonthLayout = "2006-01"

// parseMonth parses a YYYY-MM flag. An empty value selects the month of now.
func parseMonth(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return ledger.MonthStart(now), nil
	}
	month, err := time.Parse(MonthLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (expected YYYY-MM)", value)
	}
	return month, nil
}
