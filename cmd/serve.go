package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridian-advisory/renewal-intel/internal/model"
	"github.com/meridian-advisory/renewal-intel/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/api/evaluate", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Customer string `json:"customer"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Customer == "" {
				writeError(w, http.StatusBadRequest, "customer is required")
				return
			}

			result, err := e.Service.EvaluateBook(req.Context(), body.Customer)
			if err != nil {
				zap.L().Error("evaluate failed", zap.String("customer", body.Customer), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "evaluation failed")
				return
			}
			writeJSON(w, http.StatusOK, result)
		})

		r.Get("/api/alerts", func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query()
			alerts, err := e.Store.ListAlerts(req.Context(), store.AlertFilter{
				Customer: q.Get("customer"),
				Status:   model.Status(q.Get("status")),
				Priority: model.Priority(q.Get("priority")),
				Carrier:  q.Get("carrier"),
			})
			if err != nil {
				zap.L().Error("list alerts failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "list alerts failed")
				return
			}
			if alerts == nil {
				alerts = []model.Alert{}
			}
			writeJSON(w, http.StatusOK, alerts)
		})

		r.Get("/api/dashboard/stats", func(w http.ResponseWriter, req *http.Request) {
			customer := req.URL.Query().Get("customer")
			if customer == "" {
				writeError(w, http.StatusBadRequest, "customer is required")
				return
			}
			stats, err := e.Store.GetDashboardStats(req.Context(), customer)
			if err != nil {
				if eris.Is(err, model.ErrNotFound) {
					writeError(w, http.StatusNotFound, "no stats for customer")
					return
				}
				zap.L().Error("get stats failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "get stats failed")
				return
			}
			writeJSON(w, http.StatusOK, stats)
		})

		r.Post("/api/alerts/{id}/snooze", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Days int `json:"days"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			err := e.Store.SnoozeAlert(req.Context(), chi.URLParam(req, "id"), body.Days)
			if err != nil {
				writeLifecycleError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "snoozed"})
		})

		r.Post("/api/alerts/{id}/dismiss", func(w http.ResponseWriter, req *http.Request) {
			err := e.Store.DismissAlert(req.Context(), chi.URLParam(req, "id"))
			if err != nil {
				writeLifecycleError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "dismissed"})
		})

		r.Post("/api/recommendations", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				ClientID string          `json:"client_id"`
				Changes  json.RawMessage `json:"changes,omitempty"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.ClientID == "" {
				writeError(w, http.StatusBadRequest, "client_id is required")
				return
			}

			run, err := e.Service.Recommend(req.Context(), body.ClientID, body.Changes)
			if err != nil {
				if eris.Is(err, model.ErrInvalidInput) {
					writeError(w, http.StatusBadRequest, "invalid changes document")
					return
				}
				zap.L().Error("recommend failed", zap.String("client_id", body.ClientID), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "recommendation failed")
				return
			}
			writeJSON(w, http.StatusOK, run)
		})

		r.Get("/api/recommendations", func(w http.ResponseWriter, req *http.Request) {
			records, err := e.Store.ListRecommendationRuns(req.Context(), req.URL.Query().Get("client_id"), 0)
			if err != nil {
				zap.L().Error("list runs failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "list runs failed")
				return
			}
			if records == nil {
				records = []store.RunRecord{}
			}
			writeJSON(w, http.StatusOK, records)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			drain, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(drain)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeLifecycleError(w http.ResponseWriter, err error) {
	switch {
	case eris.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, "alert not found")
	case eris.Is(err, model.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "snooze days must be between 1 and 90")
	default:
		zap.L().Error("alert lifecycle update failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "update failed")
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
