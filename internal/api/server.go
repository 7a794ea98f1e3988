// Package api exposes the expense tracker over HTTP. It translates
// requests into service calls and maps results and typed failures back
// to JSON responses; no business rules live here.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"gitlab.com/yelinaung/expense-api/internal/gemini"
	"gitlab.com/yelinaung/expense-api/internal/logger"
	"gitlab.com/yelinaung/expense-api/internal/service"
)

// Server is the HTTP façade over the service layer. The suggester is
// optional; when nil the suggestion endpoint answers 503.
type Server struct {
	svc       *service.Service
	suggester *gemini.Client
	httpSrv   *http.Server
}

// New creates a Server listening on the given port.
func New(svc *service.Service, suggester *gemini.Client, port int) *Server {
	s := &Server{
		svc:       svc,
		suggester: suggester,
	}
	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           otelhttp.NewHandler(s.Routes(), "expense-api"),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Routes builds the route table. Split out from New so tests can drive
// the handler stack through httptest without a listening socket.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/categories", s.handleCategories)

	mux.Handle("GET /api/user", s.requireUser(s.handleCurrentUser))
	mux.Handle("GET /api/expenses", s.requireUser(s.handleListExpenses))
	mux.Handle("POST /api/expenses", s.requireUser(s.handleCreateExpense))
	mux.Handle("PUT /api/expenses/{id}", s.requireUser(s.handleUpdateExpense))
	mux.Handle("DELETE /api/expenses/{id}", s.requireUser(s.handleDeleteExpense))
	mux.Handle("GET /api/expenses/export", s.requireUser(s.handleExportCSV))
	mux.Handle("POST /api/expenses/suggest-category", s.requireUser(s.handleSuggestCategory))
	mux.Handle("GET /api/stats", s.requireUser(s.handleStats))
	mux.Handle("GET /api/stats/chart", s.requireUser(s.handleStatsChart))
	mux.Handle("GET /api/receipt", s.requireUser(s.handleReceipt))

	return corsMiddleware(requestLogger(mux))
}

// Start runs the server until the context is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	logger.Log.Info().Str("addr", s.httpSrv.Addr).Msg("HTTP server listening")

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
