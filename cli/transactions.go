package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/jointledger/ast"
	"github.com/robinvdvleuten/jointledger/config"
	"github.com/robinvdvleuten/jointledger/ledger"
	"github.com/robinvdvleuten/jointledger/output"
)

type TransactionsCmd struct {
	File    FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for the configured ledger)." arg:"" optional:""`
	Month   string      `help:"Month to list (YYYY-MM), defaults to the current month."`
	Account string      `help:"Only list transactions with a posting whose account contains this text."`
}

func (cmd *TransactionsCmd) Run(ctx *kong.Context, globals *Globals, cfg *config.Config) error {
	runCtx, reportTelemetry := startTelemetry(ctx, globals, "transactions")
	defer reportTelemetry()

	month, err := parseMonth(cmd.Month, globals.Now())
	if err != nil {
		return err
	}
	snap, err := loadSnapshot(runCtx, &cmd.File, cfg)
	if err != nil {
		return err
	}

	txns := ledger.SortByDateDesc(ledger.FilterMonth(snap.Transactions, month))
	styles := output.NewStyles(ctx.Stdout)

	listed := 0
	for _, txn := range txns {
		if cmd.Account != "" && !hasAccount(txn.Postings, cmd.Account) {
			continue
		}
		if listed > 0 {
			_, _ = fmt.Fprintln(ctx.Stdout)
		}
		listed++

		_, _ = fmt.Fprintf(ctx.Stdout, "%s %s\n", styles.Dim(txn.Date.String()), txn.Description)
		t := newTable()
		for i, p := range txn.Postings {
			t.add("  "+p.Account, formatMoney(ledger.EffectiveAmount(txn, i), globals.Currency))
			t.style(0, styles.Account)
			t.style(1, styles.Amount)
		}
		if err := t.write(ctx.Stdout); err != nil {
			return err
		}
	}

	if listed == 0 {
		printInfof(ctx.Stdout, "No transactions in %s", month.Format(MonthLayout))
	}
	return nil
}

func hasAccount(postings []*ast.Posting, needle string) bool {
	for _, p := range postings {
		if strings.Contains(p.Account, needle) {
			return true
		}
	}
	return false
}
