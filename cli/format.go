package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/jointledger/config"
	"github.com/robinvdvleuten/jointledger/formatter"
	"github.com/robinvdvleuten/jointledger/parser"
)

type FormatCmd struct {
	File         FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for the configured ledger)." arg:"" optional:""`
	AmountColumn int         `help:"Column amounts end on (auto-calculated from content if 0)." default:"0"`
	Indent       int         `help:"Posting indentation in spaces." default:"4"`
	Write        bool        `help:"Write the result back to the file instead of stdout." short:"w"`
}

func (cmd *FormatCmd) Run(ctx *kong.Context, globals *Globals, cfg *config.Config) error {
	if err := cmd.File.Resolve(cfg); err != nil {
		return err
	}
	if cmd.Write && cmd.File.IsStdin() {
		return fmt.Errorf("cannot write back when reading from stdin")
	}

	runCtx, reportTelemetry := startTelemetry(ctx, globals, "format")
	defer reportTelemetry()

	content, err := cmd.File.Storage().FetchLedgerContent(runCtx)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	tree := parser.ParseString(runCtx, content)

	var opts []formatter.Option
	if cmd.AmountColumn > 0 {
		opts = append(opts, formatter.WithAmountColumn(cmd.AmountColumn))
	}
	opts = append(opts, formatter.WithIndentation(cmd.Indent))
	f := formatter.New(opts...)

	if !cmd.Write {
		return f.Format(tree, ctx.Stdout)
	}

	var buf strings.Builder
	if err := f.Format(tree, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(cmd.File.Filename, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Formatted %s", pathStyle.Render(cmd.File.Filename)))
	return nil
}
