package cli

import (
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/jointledger/ast"
	"github.com/robinvdvleuten/jointledger/config"
	issues "github.com/robinvdvleuten/jointledger/errors"
	"github.com/robinvdvleuten/jointledger/ledger"
)

type CheckCmd struct {
	File FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for the configured ledger)." arg:"" optional:""`
	JSON bool        `help:"Print issues as JSON." name:"json"`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals, cfg *config.Config) error {
	if err := cmd.File.Resolve(cfg); err != nil {
		return err
	}

	runCtx, reportTelemetry := startTelemetry(ctx, globals, fmt.Sprintf("check %s", filepath.Base(cmd.File.Filename)))
	defer reportTelemetry()

	snap, err := loadSnapshot(runCtx, &cmd.File, cfg)
	if err != nil {
		return err
	}

	found := ledger.Check(runCtx, &ast.AST{Transactions: snap.Transactions, Budgets: snap.Budgets})
	errs := make([]error, len(found))
	for i, issue := range found {
		errs[i] = issue
	}

	if cmd.JSON {
		_, _ = fmt.Fprintln(ctx.Stdout, issues.NewJSONFormatter().FormatAll(errs))
		if len(errs) > 0 {
			return NewCommandError(1)
		}
		return nil
	}

	if len(errs) > 0 {
		_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer().RenderAll(errs))
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, fmt.Sprintf("%d issue(s) found", len(errs)))
		reportTelemetry()
		return NewCommandError(1)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("%d transactions, %d budgets, no issues found",
		len(snap.Transactions), len(snap.Budgets)))
	return nil
}
