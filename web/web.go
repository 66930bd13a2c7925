// Package web provides a read-only HTTP view of a processed month.
//
// The server runs the batch over an accounts file and a transactions file and
// exposes the resulting accounts, statements and denials as JSON. With
// watching enabled it processes again whenever an input file changes and
// notifies browsers over Server-Sent Events.
//
// SECURITY WARNING: This server has no authentication and should only be
// bound to localhost (127.0.0.1). Do not expose it to untrusted networks.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robinvdvleuten/cardledger/batch"
	"github.com/robinvdvleuten/cardledger/telemetry"
	"github.com/robinvdvleuten/cardledger/watch"
)

type Server struct {
	Port         int
	Host         string
	Version      string
	CommitSHA    string
	WatchEnabled bool

	input batch.Input

	mu       sync.RWMutex
	result   *batch.Result
	loadedAt time.Time
	metrics  *metrics

	// SSE clients for broadcasting reload events
	sseClients map[chan string]struct{}
	sseMu      sync.Mutex
}

func New(port int, input batch.Input) *Server {
	return NewWithVersion(port, input, "", "")
}

func NewWithVersion(port int, input batch.Input, version, commitSHA string) *Server {
	return &Server{
		Port:       port,
		Host:       "127.0.0.1",
		Version:    version,
		CommitSHA:  commitSHA,
		input:      input,
		metrics:    newMetrics(),
		sseClients: make(map[chan string]struct{}),
	}
}

// Start processes the input, then serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("web.start %s:%d", s.Host, s.Port))

	if s.input.AccountsFile == "" || s.input.TransactionsFile == "" {
		timer.End()
		return fmt.Errorf("accounts and transactions files are required")
	}

	loadTimer := timer.Child(fmt.Sprintf("web.process %s", filepath.Base(s.input.TransactionsFile)))
	if err := s.reload(ctx); err != nil {
		loadTimer.End()
		timer.End()
		return fmt.Errorf("failed to process input: %w", err)
	}
	loadTimer.End()

	if s.WatchEnabled {
		w, err := watch.New([]string{s.input.AccountsFile, s.input.TransactionsFile})
		if err != nil {
			timer.End()
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
		go w.Run(ctx, s.handleFileChange)
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

	mux.HandleFunc("GET /api/status", s.handleGetStatus)
	mux.HandleFunc("GET /api/accounts", s.handleGetAccounts)
	mux.HandleFunc("GET /api/statements", s.handleGetStatements)
	mux.HandleFunc("GET /api/denials", s.handleGetDenials)
	mux.HandleFunc("GET /api/events", s.handleSSE)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	return mux
}

// reload runs the batch and swaps in its result. A failed run keeps the
// previous result.
// Caller must NOT hold the mutex - this method acquires it internally.
func (s *Server) reload(ctx context.Context) error {
	res, err := batch.Run(ctx, s.input)
	if err != nil {
		s.metrics.failed()
		return err
	}

	s.mu.Lock()
	s.result = res
	s.loadedAt = time.Now()
	s.metrics.observe(res)
	s.mu.Unlock()

	return nil
}

// handleFileChange processes the input again and tells clients to refresh.
func (s *Server) handleFileChange(ctx context.Context) {
	if err := s.reload(ctx); err != nil {
		log.Printf("Failed to process input: %v", err)
		return
	}
	s.broadcast("reload")
}

// handleSSE handles Server-Sent Events connections for real-time updates.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	clientChan := make(chan string, 10)

	s.sseMu.Lock()
	s.sseClients[clientChan] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseClients, clientChan)
		s.sseMu.Unlock()
	}()

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
