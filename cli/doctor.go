package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/jointledger/config"
	"github.com/robinvdvleuten/jointledger/output"
	"github.com/robinvdvleuten/jointledger/parser"
)

// DoctorCmd provides doctor utilities for debugging ledger files.
type DoctorCmd struct {
	Lines  LinesCmd        `cmd:"" help:"Show how every line of a ledger file is read."`
	Config DoctorConfigCmd `cmd:"" help:"Show and validate the configuration."`
}

// LinesCmd shows the classification of every line in a ledger file.
type LinesCmd struct {
	File    FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for the configured ledger)." arg:"" optional:""`
	Ignored bool        `help:"Only show lines that are ignored."`
}

// Run executes the lines command.
func (cmd *LinesCmd) Run(ctx *kong.Context, globals *Globals, cfg *config.Config) error {
	if err := cmd.File.Resolve(cfg); err != nil {
		return err
	}

	runCtx, reportTelemetry := startTelemetry(ctx, globals, "doctor lines")
	defer reportTelemetry()

	content, err := cmd.File.Storage().FetchLedgerContent(runCtx)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	// Format: line kind "content"
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; scanner.Scan(); n++ {
		kind := parser.Classify(scanner.Text())
		if cmd.Ignored && kind != parser.Ignored {
			continue
		}
		_, _ = fmt.Fprintf(ctx.Stdout, "%-5d %-8s %q\n", n, kind, scanner.Text())
	}
	return scanner.Err()
}

// DoctorConfigCmd prints the effective configuration.
type DoctorConfigCmd struct{}

// Run executes the config command.
func (cmd *DoctorConfigCmd) Run(ctx *kong.Context, cfg *config.Config) error {
	styles := output.NewStyles(ctx.Stdout)

	t := newTable()
	t.add(config.EnvFile, cfg.File)
	t.add(config.EnvCategories, cfg.CategoriesFile)
	t.add(config.EnvCurrency, cfg.Currency)
	t.add("address", cfg.Addr())
	for i := range t.rows {
		t.styles[[2]int{i, 0}] = styles.Keyword
	}
	if err := t.write(ctx.Stdout); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(ctx.Stdout)

	if err := cfg.Validate(); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			printError(ctx.Stderr, line)
		}
		return NewCommandError(1)
	}
	printSuccess(ctx.Stdout, "configuration is valid")
	return nil
}
