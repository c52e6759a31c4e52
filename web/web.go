// Package web provides an HTTP server exposing a joint ledger and its
// reports as a JSON API.
//
// SECURITY WARNING: This server has no authentication and should only be
// bound to localhost (127.0.0.1). Do not expose it to untrusted networks.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/robinvdvleuten/jointledger/report"
	"github.com/robinvdvleuten/jointledger/repository"
	"github.com/robinvdvleuten/jointledger/telemetry"
)

type Server struct {
	Port    int
	Host    string
	Version string

	// WatchFile, when set, is watched for changes. Every change forces a
	// refresh of the repository and notifies SSE clients.
	WatchFile string

	// AssetCategories replaces report.DefaultAssetCategories when set.
	AssetCategories []report.AssetCategory

	Logger *slog.Logger

	repo *repository.Repository
	now  func() time.Time

	// SSE clients for broadcasting reload events
	sseClients map[chan string]struct{}
	sseMu      sync.Mutex
}

func New(port int, repo *repository.Repository) *Server {
	return &Server{
		Port:       port,
		Host:       "127.0.0.1",
		Logger:     slog.Default(),
		repo:       repo,
		now:        time.Now,
		sseClients: make(map[chan string]struct{}),
	}
}

// Start loads the ledger, starts the watcher if configured and serves until
// ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start(fmt.Sprintf("web.start %s:%d", s.Host, s.Port))

	loadTimer := timer.Child("web.load_ledger")
	if _, err := s.repo.Snapshot(ctx, false); err != nil {
		loadTimer.End()
		timer.End()
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	loadTimer.End()

	if s.WatchFile != "" {
		if err := s.startWatcher(ctx); err != nil {
			timer.End()
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	setupTimer := timer.Child("web.setup_router")
	mux := s.setupRouter()
	setupTimer.End()
	timer.End()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.Host, s.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) setupRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/transactions", s.handleGetTransactions)
	mux.HandleFunc("GET /api/budgets", s.handleGetBudgets)
	mux.HandleFunc("GET /api/accounts", s.handleGetAccounts)
	mux.HandleFunc("GET /api/balances", s.handleGetBalances)
	mux.HandleFunc("GET /api/check", s.handleGetCheck)
	mux.HandleFunc("GET /api/expenses", s.handleGetExpenses)
	mux.HandleFunc("GET /api/income", s.handleGetIncome)
	mux.HandleFunc("GET /api/reports/budget", s.handleBudgetReport)
	mux.HandleFunc("GET /api/reports/trends", s.handleTrendsReport)
	mux.HandleFunc("GET /api/reports/assets", s.handleAssetsReport)
	mux.HandleFunc("GET /api/reports/yoy", s.handleYearOverYearReport)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/events", s.handleSSE)

	return mux
}

// RefreshResponse is returned by POST /api/refresh.
type RefreshResponse struct {
	Transactions int       `json:"transactions"`
	Budgets      int       `json:"budgets"`
	FetchedAt    time.Time `json:"fetchedAt"`
}

// handleRefresh forces a fetch and notifies SSE clients.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.repo.Refresh(r.Context())
	if err != nil {
		s.Logger.Error("refresh failed", "error", err)
		http.Error(w, "failed to refresh ledger: "+err.Error(), http.StatusBadGateway)
		return
	}

	s.broadcast("reload")
	writeJSONResponse(w, &RefreshResponse{
		Transactions: len(snap.Transactions),
		Budgets:      len(snap.Budgets),
		FetchedAt:    snap.FetchedAt,
	})
}

// startWatcher watches WatchFile and forces a refresh when it changes.
func (s *Server) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	file, err := filepath.Abs(s.WatchFile)
	if err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to resolve %s: %w", s.WatchFile, err)
	}

	if err := watcher.Add(file); err != nil {
		s.Logger.Warn("failed to watch file", "file", file, "error", err)
	}

	go s.runWatcher(ctx, watcher, file)

	return nil
}

// runWatcher processes file system events with debouncing.
func (s *Server) runWatcher(ctx context.Context, watcher *fsnotify.Watcher, file string) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	// Editors often write files in multiple steps.
	const debounceDelay = 100 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			// Remove/Rename are common in atomic saves.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}

			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.handleFileChange(ctx, watcher, file)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.Logger.Warn("file watcher error", "error", err)
		}
	}
}

// handleFileChange refreshes the repository and re-adds the watch, which an
// atomic save drops.
func (s *Server) handleFileChange(ctx context.Context, watcher *fsnotify.Watcher, file string) {
	if _, err := s.repo.Refresh(ctx); err != nil {
		s.Logger.Error("failed to reload ledger", "file", file, "error", err)
		return
	}

	if err := watcher.Add(file); err != nil {
		s.Logger.Warn("failed to watch file", "file", file, "error", err)
	}

	s.broadcast("reload")
}

// handleSSE handles Server-Sent Events connections for real-time updates.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := s.subscribe()
	defer s.unsubscribe(clientChan)

	_, _ = fmt.Fprintf(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-clientChan:
			_, _ = fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

func (s *Server) subscribe() chan string {
	clientChan := make(chan string, 10)
	s.sseMu.Lock()
	s.sseClients[clientChan] = struct{}{}
	s.sseMu.Unlock()
	return clientChan
}

func (s *Server) unsubscribe(clientChan chan string) {
	s.sseMu.Lock()
	delete(s.sseClients, clientChan)
	s.sseMu.Unlock()
}

// broadcast sends an event to all connected SSE clients.
func (s *Server) broadcast(event string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()

	for clientChan := range s.sseClients {
		select {
		case clientChan <- event:
		default:
			// Client buffer full, skip
		}
	}
}
