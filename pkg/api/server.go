package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// DefaultAllowedOrigins is used when the config lists none
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a router with all routes configured
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", h.Status)
		r.Post("/reload", h.Reload)

		r.Route("/staff", func(r chi.Router) {
			r.Get("/", h.ListStaff)
			r.Post("/", h.CreateStaff)
			r.Post("/import", h.ImportStaff)
			r.Delete("/{id}", h.DeleteStaff)
		})

		r.Route("/positions", func(r chi.Router) {
			r.Get("/", h.ListPositions)
			r.Post("/", h.CreatePosition)
			r.Patch("/{id}", h.UpdatePosition)
			r.Delete("/{id}", h.DeletePosition)
		})

		r.Route("/dates", func(r chi.Router) {
			r.Get("/", h.ListDates)
			r.Post("/", h.CreateDate)
			r.Delete("/", h.DeleteDate)
		})

		r.Route("/deployments", func(r chi.Router) {
			r.Get("/", h.ListDeployments)
			r.Post("/", h.CreateDeployment)
			r.Post("/duplicate", h.DuplicateDeployments)
			r.Post("/repeat", h.RepeatDeployments)
			r.Patch("/{id}", h.UpdateDeployment)
			r.Delete("/{id}", h.DeleteDeployment)
		})

		r.Route("/shift-info", func(r chi.Router) {
			r.Get("/", h.GetShiftInfo)
			r.Put("/", h.PutShiftInfo)
			r.Delete("/", h.DeleteShiftInfo)
		})

		r.Route("/sales-records", func(r chi.Router) {
			r.Get("/", h.ListSalesRecords)
			r.Put("/", h.PutSalesRecords)
		})

		r.Route("/sales-data", func(r chi.Router) {
			r.Get("/", h.GetSalesData)
			r.Put("/", h.PutSalesData)
			r.Get("/comparison", h.GetSalesComparison)
		})
		r.Post("/sales/parse", h.ParseSales)

		r.Route("/targets", func(r chi.Router) {
			r.Get("/", h.ListTargets)
			r.Post("/", h.CreateTarget)
			r.Patch("/{id}", h.UpdateTarget)
			r.Delete("/{id}", h.DeleteTarget)
		})

		r.Get("/policy/break", h.BreakTime)
	})

	return r
}

// ListenAndServe serves handler on addr until ctx is cancelled, then shuts
// down gracefully
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("API listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// requestLogger logs one line per request through zap
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Debug("Request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
