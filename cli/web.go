package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/jointledger/config"
	"github.com/robinvdvleuten/jointledger/output"
	"github.com/robinvdvleuten/jointledger/repository"
	"github.com/robinvdvleuten/jointledger/storage"
	"github.com/robinvdvleuten/jointledger/telemetry"
	"github.com/robinvdvleuten/jointledger/web"
)

type WebCmd struct {
	File    string `help:"Ledger file to serve (omit for the configured ledger)." arg:"" optional:""`
	Port    int    `help:"Port to listen on." default:"${port}"`
	Host    string `help:"Host to bind to." default:"${host}"`
	Create  bool   `help:"Automatically create file if it doesn't exist (no confirmation prompt)." short:"c"`
	NoWatch bool   `help:"Do not reload when the file changes."`
}

func (cmd *WebCmd) Run(ctx *kong.Context, globals *Globals, cfg *config.Config) error {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if globals.Telemetry {
		collector := telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr, output.NewStyles(ctx.Stderr))
		}()
	}

	file := cmd.File
	if file == "" {
		file = cfg.File
	}
	if file == "" {
		return fmt.Errorf("no ledger file given and %s is not set", config.EnvFile)
	}

	ledgerFile, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if err := cmd.ensureFile(ctx, ledgerFile); err != nil {
		return err
	}

	categories, err := cfg.AssetCategories()
	if err != nil {
		return err
	}

	repo := repository.New(storage.NewFile(ledgerFile),
		repository.WithFilename(filepath.Base(ledgerFile)),
		repository.WithLogger(slog.Default()),
	)

	server := web.New(cmd.Port, repo)
	server.Host = cmd.Host
	server.Version = buildVersion()
	server.AssetCategories = categories
	if !cmd.NoWatch {
		server.WatchFile = ledgerFile
	}

	printInfof(ctx.Stdout, "Starting server on %s:%d", server.Host, server.Port)
	printInfof(ctx.Stdout, "Serving ledger: %s", pathStyle.Render(ledgerFile))

	return server.Start(runCtx)
}

func (cmd *WebCmd) ensureFile(ctx *kong.Context, ledgerFile string) error {
	_, err := os.Stat(ledgerFile)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access file: %w", err)
	}

	shouldCreate := cmd.Create
	if !shouldCreate {
		confirmed, err := promptYesNo(fmt.Sprintf("File %q does not exist. Create it?", ledgerFile))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		shouldCreate = confirmed
	}

	if !shouldCreate {
		return fmt.Errorf("file does not exist: %s", ledgerFile)
	}

	if err := os.MkdirAll(filepath.Dir(ledgerFile), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}
	if err := os.WriteFile(ledgerFile, []byte(""), 0600); err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	printInfof(ctx.Stdout, "Created empty ledger file: %s", pathStyle.Render(ledgerFile))
	return nil
}
