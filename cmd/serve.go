package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/brand-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the brand generation API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		env, err := initPipeline(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		router := buildRouter(env.Pipeline.Generate, env.Store, routerConfig{
			CORSOrigins: cfg.Server.CORSOrigins,
			RatePerSec:  cfg.Server.RatePerSec,
			Burst:       cfg.Server.Burst,
		})

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

type routerConfig struct {
	CORSOrigins []string
	RatePerSec  float64
	Burst       int
}

type generateRequest struct {
	URL       string `json:"url"`
	CompanyID string `json:"company_id"`
}

// buildRouter wires the API routes. A nil store disables the company
// routes, which then answer 503.
func buildRouter(generate generateFunc, st store.Store, rc routerConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	origins := rc.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	limit := rate.Limit(rc.RatePerSec)
	if rc.RatePerSec <= 0 {
		limit = rate.Inf
	}
	burst := rc.Burst
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(limit, burst)

	r.With(rateLimit(limiter)).Post("/api/brand/generate", func(w http.ResponseWriter, req *http.Request) {
		var body generateRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		ctx := req.Context()
		res := generate(ctx, body.URL)

		if err := persistResult(ctx, st, body.CompanyID, body.URL, res); err != nil {
			zap.L().Warn("failed to persist result",
				zap.String("run_id", res.RunID),
				zap.String("request_id", middleware.GetReqID(ctx)),
				zap.Error(err),
			)
		}

		status := http.StatusOK
		if !res.Success {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, res)
	})

	r.Route("/api/companies/{companyID}", func(r chi.Router) {
		r.Get("/profile", func(w http.ResponseWriter, req *http.Request) {
			if st == nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "store not configured"})
				return
			}
			companyID := chi.URLParam(req, "companyID")
			p, err := st.GetProfile(req.Context(), companyID)
			if errors.Is(err, store.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
				return
			}
			if err != nil {
				zap.L().Error("get profile failed", zap.String("company_id", companyID), zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
				return
			}
			writeJSON(w, http.StatusOK, p)
		})

		r.Get("/runs", func(w http.ResponseWriter, req *http.Request) {
			if st == nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "store not configured"})
				return
			}
			companyID := chi.URLParam(req, "companyID")
			limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
			runs, err := st.ListRuns(req.Context(), companyID, limit)
			if err != nil {
				zap.L().Error("list runs failed", zap.String("company_id", companyID), zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
		})
	})

	return r
}

// rateLimit rejects requests with 429 once the shared limiter is exhausted.
func rateLimit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				w.Header().Set("Retry-After", "1")
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("write response failed", zap.Error(err))
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
