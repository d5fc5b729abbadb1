package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/reformlab/impact-cli/internal/config"
	"github.com/reformlab/impact-cli/internal/dataset"
	"github.com/reformlab/impact-cli/internal/filter"
	"github.com/reformlab/impact-cli/internal/pipeline"
	"github.com/reformlab/impact-cli/internal/report"
	"github.com/reformlab/impact-cli/internal/selector"
	"github.com/reformlab/impact-cli/internal/waterfall"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the explain API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := loadStore(ctx)
		if err != nil {
			return err
		}
		eng := pipeline.New(store)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(eng, cfg.Server),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func newRouter(eng *pipeline.Engine, sc config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   sc.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	}))
	r.Use(rateLimit(rate.NewLimiter(rate.Limit(sc.RateLimit), sc.RateBurst)))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/dataset", handleDataset(eng))
		r.Get("/components", handleComponents(eng))
		r.Get("/cases", handleCases(eng))
		r.Post("/explain", handleExplain(eng))
	})

	return r
}

func rateLimit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type datasetResponse struct {
	Reform     string        `json:"reform"`
	Source     string        `json:"source"`
	Households int           `json:"households"`
	Stats      dataset.Stats `json:"stats"`
}

func handleDataset(eng *pipeline.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := eng.Store()
		writeJSON(w, http.StatusOK, datasetResponse{
			Reform:     store.Catalog().Reform,
			Source:     store.Source(),
			Households: store.Len(),
			Stats:      store.Stats(),
		})
	}
}

func handleComponents(eng *pipeline.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cat := eng.Store().Catalog()
		names := make([]string, cat.Len())
		for i, c := range cat.Components {
			names[i] = c.Name
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"reform":     cat.Reform,
			"components": names,
		})
	}
}

func handleCases(eng *pipeline.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		crit, err := criteriaFromQuery(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		m := selector.MetricIncomeTotal
		if s := q.Get("metric"); s != "" {
			m, err = selector.ParseMetric(s)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		dir := selector.Largest
		if s := q.Get("direction"); s != "" {
			dir, err = selector.ParseDirection(s)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}

		ranked, err := eng.Cases(crit, m, dir)
		if err != nil {
			writeAPIError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"count": len(ranked),
			"cases": report.NewRankedCaseViews(ranked, m),
		})
	}
}

func handleExplain(eng *pipeline.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pipeline.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		res, err := eng.Explain(req)
		if err != nil {
			writeAPIError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newExplainOutput(res, eng.Store().Catalog(), resolveMetric(req.Metric)))
	}
}

// criteriaFromQuery builds filter criteria from URL query parameters.
// Absent parameters stay nil so they match everything.
func criteriaFromQuery(q url.Values) (filter.Criteria, error) {
	var c filter.Criteria

	if v := q.Get("state"); v != "" {
		c.State = &v
	}
	if v := q.Get("married"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c, eris.Errorf("serve: invalid married value %q", v)
		}
		c.Married = &b
	}
	if v := q.Get("dependents"); v != "" {
		b, err := filter.ParseBucket(v)
		if err != nil {
			return c, err
		}
		c.Dependents = &b
	}

	num := func(key string) (*float64, error) {
		v := q.Get(key)
		if v == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, eris.Errorf("serve: invalid %s value %q", key, v)
		}
		return &f, nil
	}

	var err error
	if c.MinAge, err = num("min_age"); err != nil {
		return c, err
	}
	if c.MaxAge, err = num("max_age"); err != nil {
		return c, err
	}
	if c.MinWeight, err = num("min_weight"); err != nil {
		return c, err
	}
	if c.MinNetIncome, err = num("min_net_income"); err != nil {
		return c, err
	}
	if c.MaxNetIncome, err = num("max_net_income"); err != nil {
		return c, err
	}
	return c, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("serve: write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeAPIError maps domain errors to HTTP status codes. Anything not
// recognized is a 500 with the detail kept server-side.
func writeAPIError(w http.ResponseWriter, err error) {
	switch {
	case eris.Is(err, pipeline.ErrInvalidRequest), eris.Is(err, waterfall.ErrNoTaxType):
		writeError(w, http.StatusBadRequest, err.Error())
	case eris.Is(err, filter.ErrNoMatches), eris.Is(err, selector.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		zap.L().Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
