package cli

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/jointledger/ast"
	"github.com/robinvdvleuten/jointledger/budget"
	"github.com/robinvdvleuten/jointledger/config"
	"github.com/robinvdvleuten/jointledger/ledger"
	"github.com/robinvdvleuten/jointledger/output"
	"github.com/robinvdvleuten/jointledger/report"
)

// FilterFlags are the expense filters shared by the report commands.
type FilterFlags struct {
	Joint       bool `help:"Only include joint accounts."`
	ExcludeRent bool `help:"Leave out rent expenses."`
	Budgeted    bool `help:"Only include categories with a monthly budget."`
}

func (f FilterFlags) options(budgets []*ast.Budget) []report.Option {
	opts := []report.Option{report.WithLogger(slog.Default())}
	if f.Joint {
		opts = append(opts, report.JointOnly())
	}
	if f.ExcludeRent {
		opts = append(opts, report.ExcludeRent())
	}
	if f.Budgeted {
		opts = append(opts, report.BudgetedOnly(budget.NewMatcher(budgets).Categories(ast.Monthly)...))
	}
	return opts
}

func writeSums(ctx *kong.Context, title string, sums report.Sums, currency string) error {
	printInfof(ctx.Stdout, "%s", title)
	if len(sums) == 0 {
		printInfof(ctx.Stdout, "No transactions")
		return nil
	}

	styles := output.NewStyles(ctx.Stdout)
	t := newTable()
	categories := maps.Keys(sums)
	slices.Sort(categories)
	for _, category := range categories {
		t.add(category, formatMoney(sums[category], currency))
		t.style(0, styles.Account)
	}
	t.add("total", formatMoney(sums.Total(), currency))
	t.style(0, styles.Keyword)
	t.style(1, styles.Amount)
	return t.write(ctx.Stdout)
}

type ExpensesCmd struct {
	File       FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for the configured ledger)." arg:"" optional:""`
	Month      string      `help:"Month to report (YYYY-MM), defaults to the current month."`
	Cumulative bool        `help:"Sum from January up to and including the month."`

	FilterFlags
}

func (cmd *ExpensesCmd) Run(ctx *kong.Context, globals *Globals, cfg *config.Config) error {
	runCtx, reportTelemetry := startTelemetry(ctx, globals, "expenses")
	defer reportTelemetry()

	month, err := parseMonth(cmd.Month, globals.Now())
	if err != nil {
		return err
	}
	snap, err := loadSnapshot(runCtx, &cmd.File, cfg)
	if err != nil {
		return err
	}

	title := "Expenses for " + month.Format(MonthLayout)
	txns := ledger.FilterMonth(snap.Transactions, month)
	if cmd.Cumulative {
		title = fmt.Sprintf("Expenses from %d-01 to %s", month.Year(), month.Format(MonthLayout))
		txns = ledger.FilterYearToMonth(snap.Transactions, month)
	}

	return writeSums(ctx, title, report.Expenses(txns, cmd.options(snap.Budgets)...), globals.Currency)
}

type IncomeCmd struct {
	File  FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for the configured ledger)." arg:"" optional:""`
	Month string      `help:"Month to report (YYYY-MM), defaults to the current month."`
	Joint bool        `help:"Only include joint accounts."`
}

func (cmd *IncomeCmd) Run(ctx *kong.Context, globals *Globals, cfg *config.Config) error {
	runCtx, reportTelemetry := startTelemetry(ctx, globals, "income")
	defer reportTelemetry()

	month, err := parseMonth(cmd.Month, globals.Now())
	if err != nil {
		return err
	}
	snap, err := loadSnapshot(runCtx, &cmd.File, cfg)
	if err != nil {
		return err
	}

	var opts []report.Option
	if cmd.Joint {
		opts = append(opts, report.JointOnly())
	}
	sums := report.Income(ledger.FilterMonth(snap.Transactions, month), opts...)
	return writeSums(ctx, "Income for "+month.Format(MonthLayout), sums, globals.Currency)
}

type BudgetCmd struct {
	File  FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for the configured ledger)." arg:"" optional:""`
	Month string      `help:"Month to compare (YYYY-MM), defaults to the current month."`
	Year  int         `help:"Compare a whole year against the yearly budgets instead."`

	FilterFlags
}

func (cmd *BudgetCmd) Run(ctx *kong.Context, globals *Globals, cfg *config.Config) error {
	runCtx, reportTelemetry := startTelemetry(ctx, globals, "budget")
	defer reportTelemetry()

	month, err := parseMonth(cmd.Month, globals.Now())
	if err != nil {
		return err
	}
	snap, err := loadSnapshot(runCtx, &cmd.File, cfg)
	if err != nil {
		return err
	}

	var lines []report.BudgetLine
	if cmd.Year != 0 {
		printInfof(ctx.Stdout, "Yearly budgets for %d", cmd.Year)
		lines = report.CompareYearly(snap.Transactions, snap.Budgets, cmd.Year)
	} else {
		printInfof(ctx.Stdout, "Monthly budgets for %s", month.Format(MonthLayout))
		lines = report.CompareMonthly(snap.Transactions, snap.Budgets, month, cmd.options(snap.Budgets)...)
	}
	if len(lines) == 0 {
		printInfof(ctx.Stdout, "No budgets or expenses")
		return nil
	}

	styles := output.NewStyles(ctx.Stdout)
	t := newTable("category", "spent", "budget", "remaining")
	over := 0
	for _, line := range lines {
		t.add(line.Category,
			formatMoney(line.Spent, globals.Currency),
			formatMoney(line.Budget, globals.Currency),
			formatMoney(line.Remaining(), globals.Currency))
		t.style(0, styles.Account)
		if line.Over() {
			over++
			t.style(3, styles.OverBudget)
		} else {
			t.style(3, styles.UnderBudget)
		}
	}
	if err := t.write(ctx.Stdout); err != nil {
		return err
	}

	if over > 0 {
		_, _ = fmt.Fprintln(ctx.Stdout)
		_, _ = fmt.Fprintln(ctx.Stdout, styles.Warning(fmt.Sprintf("%d categories over budget", over)))
	}
	return nil
}

type TrendsCmd struct {
	File  FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for the configured ledger)." arg:"" optional:""`
	Month string      `help:"Month to compare (YYYY-MM), defaults to the current month."`

	FilterFlags
}

func (cmd *TrendsCmd) Run(ctx *kong.Context, globals *Globals, cfg *config.Config) error {
	runCtx, reportTelemetry := startTelemetry(ctx, globals, "trends")
	defer reportTelemetry()

	month, err := parseMonth(cmd.Month, globals.Now())
	if err != nil {
		return err
	}
	snap, err := loadSnapshot(runCtx, &cmd.File, cfg)
	if err != nil {
		return err
	}

	printInfof(ctx.Stdout, "Trends for %s", month.Format(MonthLayout))
	trends := report.Trends(snap.Transactions, month, cmd.options(snap.Budgets)...)
	if len(trends) == 0 {
		printInfof(ctx.Stdout, "No notable changes")
		return nil
	}

	styles := output.NewStyles(ctx.Stdout)
	t := newTable("category", "current", "average", "change")
	for _, trend := range trends {
		change := "new"
		if !trend.Unbounded {
			change = formatPercent(trend.Percent)
		}
		t.add(trend.Category,
			formatMoney(trend.Current, globals.Currency),
			formatMoney(trend.PreviousAverage, globals.Currency),
			change)
		t.style(0, styles.Account)
		if trend.Unbounded || trend.Percent.IsPositive() {
			t.style(3, styles.OverBudget)
		} else {
			t.style(3, styles.UnderBudget)
		}
	}
	return t.write(ctx.Stdout)
}

type AssetsCmd struct {
	File  FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for the configured ledger)." arg:"" optional:""`
	Joint bool        `help:"Only include joint accounts."`
}

func (cmd *AssetsCmd) Run(ctx *kong.Context, globals *Globals, cfg *config.Config) error {
	runCtx, reportTelemetry := startTelemetry(ctx, globals, "assets")
	defer reportTelemetry()

	categories, err := cfg.AssetCategories()
	if err != nil {
		return err
	}
	snap, err := loadSnapshot(runCtx, &cmd.File, cfg)
	if err != nil {
		return err
	}

	opts := []report.Option{report.WithAssetCategories(categories), report.WithLogger(slog.Default())}
	if cmd.Joint {
		opts = append(opts, report.JointOnly())
	}
	now := globals.Now()
	r := report.Assets(snap.Transactions, now, opts...)

	styles := output.NewStyles(ctx.Stdout)
	currency := globals.Currency
	t := newTable()
	for _, group := range r.Groups {
		t.add(group.Category, formatMoney(group.Total, currency))
		t.style(0, styles.Keyword)
		t.style(1, styles.Amount)
		for _, asset := range group.Assets {
			t.add("  "+asset.Name, formatMoney(asset.Balance, currency))
			t.style(0, styles.Account)
		}
	}
	t.add("total", formatMoney(r.Total, currency))
	t.style(0, styles.Keyword)
	t.style(1, styles.Amount)

	if r.BaselineDate != nil {
		t.add("since "+r.BaselineDate.String(), signed(r.Change, currency))
		t.style(0, styles.Dim)
	}
	if r.HasProjection {
		t.add("projected "+strconv.Itoa(now.Year())+"-12-31", formatMoney(r.Projected, currency))
		t.style(0, styles.Dim)
	}
	return t.write(ctx.Stdout)
}

func signed(amount decimal.Decimal, currency string) string {
	s := formatMoney(amount, currency)
	if amount.IsPositive() {
		return "+" + s
	}
	return s
}

type YoyCmd struct {
	File  FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for the configured ledger)." arg:"" optional:""`
	Month string      `help:"Calendar month to compare (YYYY-MM), defaults to the current month."`

	FilterFlags
}

func (cmd *YoyCmd) Run(ctx *kong.Context, globals *Globals, cfg *config.Config) error {
	runCtx, reportTelemetry := startTelemetry(ctx, globals, "yoy")
	defer reportTelemetry()

	month, err := parseMonth(cmd.Month, globals.Now())
	if err != nil {
		return err
	}
	snap, err := loadSnapshot(runCtx, &cmd.File, cfg)
	if err != nil {
		return err
	}

	r := report.YearOverYearReport(snap.Transactions, month, cmd.options(snap.Budgets)...)
	printInfof(ctx.Stdout, "%s across years", r.Month)
	if len(r.Lines) == 0 {
		printInfof(ctx.Stdout, "No expenses")
		return nil
	}

	header := []string{"category"}
	for _, year := range r.Years {
		header = append(header, strconv.Itoa(year))
	}
	header = append(header, "change")

	styles := output.NewStyles(ctx.Stdout)
	t := newTable(header...)
	for _, line := range r.Lines {
		cells := []string{line.Category}
		for _, amount := range line.Amounts {
			cells = append(cells, formatMoney(amount, globals.Currency))
		}
		change := "-"
		if line.HasChange {
			change = formatPercent(line.Change)
		}
		t.add(append(cells, change)...)
		t.style(0, styles.Account)
	}
	return t.write(ctx.Stdout)
}
