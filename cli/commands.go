package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/jointledger/config"
)

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool   `help:"Show timing telemetry for operations."`
	Verbose   bool   `help:"Enable debug logging." short:"v"`
	Currency  string `help:"Currency used to display amounts." default:"${currency}"`

	// Clock replaces time.Now when set.
	Clock func() time.Time `kong:"-"`
}

// Now returns the current time.
func (g *Globals) Now() time.Time {
	if g.Clock != nil {
		return g.Clock()
	}
	return time.Now()
}

type Commands struct {
	Globals

	Version kong.VersionFlag `help:"Show version information."`

	Check        CheckCmd        `cmd:"" help:"Check a ledger for unbalanced and incomplete transactions."`
	Transactions TransactionsCmd `cmd:"" help:"List the transactions of a month."`
	Expenses     ExpensesCmd     `cmd:"" help:"Show expenses per category."`
	Income       IncomeCmd       `cmd:"" help:"Show income per category."`
	Budget       BudgetCmd       `cmd:"" help:"Compare spending against budgets."`
	Trends       TrendsCmd       `cmd:"" help:"Show categories whose spending changed notably."`
	Assets       AssetsCmd       `cmd:"" help:"Show asset balances with a year-end projection."`
	Yoy          YoyCmd          `cmd:"" name:"yoy" help:"Compare one month across years."`
	Format       FormatCmd       `cmd:"" help:"Format a ledger to align amounts."`
	Doctor       DoctorCmd       `cmd:"" help:"Doctor utilities for debugging ledger files."`
	Web          WebCmd          `cmd:"" help:"Start a web server."`
}

// NewParser builds the kong parser for cmds. Settings from cfg provide the
// flag defaults and are bound for commands that need them.
func NewParser(cmds *Commands, cfg *config.Config, opts ...kong.Option) (*kong.Kong, error) {
	options := []kong.Option{
		kong.Name("jointledger"),
		kong.Description("Reports over a plain-text joint household ledger."),
		kong.UsageOnError(),
		kong.Vars{
			"version":  buildVersion(),
			"currency": cfg.Currency,
			"host":     cfg.Host,
			"port":     strconv.Itoa(cfg.Port),
		},
		kong.Bind(&cmds.Globals, cfg),
	}
	return kong.New(cmds, append(options, opts...)...)
}

func buildVersion() string {
	version := Version
	if version == "" {
		version = "dev"
	}
	if CommitSHA == "" {
		return version
	}
	return fmt.Sprintf("%s (%s)", version, CommitSHA)
}
