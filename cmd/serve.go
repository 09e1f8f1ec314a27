package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
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

	"github.com/gurlaesthetic/sourcing-cli/internal/config"
	"github.com/gurlaesthetic/sourcing-cli/internal/engine"
	"github.com/gurlaesthetic/sourcing-cli/internal/model"
	"github.com/gurlaesthetic/sourcing-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP trigger server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env, cfg),
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

func newRouter(env *env, cfg *config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/recommendations/generate", handleGenerate(env))
	r.Get("/api/recommendations", handleList(env))
	r.Post("/api/cron/daily", handleDailyCron(env, cfg))

	return r
}

func handleGenerate(env *env) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			UseCache *bool `json:"use_cache"`
			Limit    int   `json:"limit"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		useCache := true
		if body.UseCache != nil {
			useCache = *body.UseCache
		}

		recs, summary, err := env.Engine.Generate(req.Context(), engine.Options{
			UseCache: useCache,
			Limit:    body.Limit,
			Trigger:  "manual",
		})
		if err != nil {
			zap.L().Error("generation failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error":      err.Error(),
				"suggestion": "retry with use_cache: true to serve the last persisted results",
			})
			return
		}

		// An empty result set is a valid outcome, not an error.
		if recs == nil {
			recs = []model.Recommendation{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"recommendations": recs,
			"summary":         summary,
		})
	}
}

func handleList(env *env) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

		recs, err := env.Store.ListRecommendations(req.Context(), store.RecommendationFilter{
			Limit: limit,
		})
		if err != nil {
			zap.L().Error("list recommendations failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load recommendations"})
			return
		}
		if recs == nil {
			recs = []model.Recommendation{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"recommendations": recs})
	}
}

func handleDailyCron(env *env, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if cfg.Cron.Token == "" || req.Header.Get("Authorization") != "Bearer "+cfg.Cron.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}

		ctx := req.Context()

		recsDeleted, err := env.Store.DeleteOldRecommendations(ctx,
			time.Duration(cfg.Cron.RecommendationMaxAgeDays)*24*time.Hour)
		if err != nil {
			zap.L().Warn("recommendation retention cleanup failed", zap.Error(err))
		}
		staleDeleted, err := env.Store.DeleteStaleSupplierProducts(ctx,
			time.Duration(cfg.Cron.SupplierProductMaxAgeDays)*24*time.Hour)
		if err != nil {
			zap.L().Warn("supplier product retention cleanup failed", zap.Error(err))
		}

		recs, summary, err := env.Engine.Generate(ctx, engine.Options{
			UseCache: false,
			Trigger:  "scheduled",
		})
		if err != nil {
			zap.L().Error("scheduled generation failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error":   err.Error(),
				"cleanup": map[string]int{"recommendations": recsDeleted, "supplier_products": staleDeleted},
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"generated": len(recs),
			"summary":   summary,
			"cleanup":   map[string]int{"recommendations": recsDeleted, "supplier_products": staleDeleted},
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
