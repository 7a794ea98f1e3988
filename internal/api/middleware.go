package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/yelinaung/expense-api/internal/logger"
	"gitlab.com/yelinaung/expense-api/internal/models"
	"gitlab.com/yelinaung/expense-api/internal/service"
)

type contextKey int

const userContextKey contextKey = iota

// userFrom returns the authenticated user stored by requireUser.
func userFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

// requireUser resolves the X-User-Id header through the Access Gate
// and stores the user on the request context. The token is a bare user
// id asserted by the caller; see service.Authenticate.
func (s *Server) requireUser(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-User-Id")
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		user, err := s.svc.Authenticate(r.Context(), token)
		if errors.Is(err, service.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Invalid user")
			return
		}
		if err != nil {
			logger.Log.Error().Err(err).Msg("Identity resolution failed")
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

var requestCounter metric.Int64Counter

func init() {
	var err error
	requestCounter, err = otel.Meter("expense-api").Int64Counter(
		"expense_api.requests",
		metric.WithDescription("Count of handled HTTP requests"),
	)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to create request counter")
	}
}

// requestLogger logs one structured line per request and counts it.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		if requestCounter != nil {
			requestCounter.Add(r.Context(), 1,
				metric.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.Int("http.status_code", rec.status),
				))
		}

		evt := logger.Log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start))
		if sc := trace.SpanContextFromContext(r.Context()); sc.HasTraceID() {
			evt = evt.Str("trace_id", sc.TraceID().String())
		}
		evt.Msg("Request handled")
	})
}

// corsMiddleware mirrors the permissive CORS policy of the original
// deployment: any origin, the x-user-id header allowed, preflight
// short-circuited.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, x-user-id")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
