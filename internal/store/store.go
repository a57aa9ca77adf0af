// Package store persists alerts, their lifecycle, dashboard statistics,
// recommendation runs, and the baseline product catalog. Two backends are
// provided: sqlite for single-advisor desktop use and postgres for shared
// deployments.
package store

import (
	"context"
	"time"

	"github.com/meridian-advisory/renewal-intel/internal/model"
)

// Snooze bounds in days.
const (
	MinSnoozeDays = 1
	MaxSnoozeDays = 90
)

// AlertFilter specifies criteria for listing alerts.
type AlertFilter struct {
	Customer string         `json:"customer,omitempty"`
	Status   model.Status   `json:"status,omitempty"`
	Priority model.Priority `json:"priority,omitempty"`
	Carrier  string         `json:"carrier,omitempty"`
	Limit    int            `json:"limit,omitempty"`
	Offset   int            `json:"offset,omitempty"`
}

// RunRecord is a persisted recommendation run with its storage metadata.
type RunRecord struct {
	ID        string                  `json:"id"`
	ClientID  string                  `json:"client_id"`
	Run       model.RecommendationRun `json:"run"`
	CreatedAt time.Time               `json:"created_at"`
}

// Store defines the persistence interface for the decision engine.
//
// SaveEvaluation upserts the alert batch for a customer; alerts already
// snoozed or dismissed keep their lifecycle state across re-evaluations.
// Listing with status "pending" also surfaces snoozed alerts whose snooze
// window has lapsed.
type Store interface {
	// Alerts
	SaveEvaluation(ctx context.Context, customer string, alerts []model.Alert, stats model.DashboardStats) error
	ListAlerts(ctx context.Context, filter AlertFilter) ([]model.Alert, error)
	GetAlert(ctx context.Context, id string) (*model.Alert, error)
	SnoozeAlert(ctx context.Context, id string, days int) error
	DismissAlert(ctx context.Context, id string) error
	GetDashboardStats(ctx context.Context, customer string) (*model.DashboardStats, error)

	// Recommendation runs
	SaveRecommendationRun(ctx context.Context, run model.RecommendationRun) (*RunRecord, error)
	GetRecommendationRun(ctx context.Context, id string) (*RunRecord, error)
	ListRecommendationRuns(ctx context.Context, clientID string, limit int) ([]RunRecord, error)

	// Baseline catalog
	SaveBaselineProducts(ctx context.Context, products []model.BaselineProduct) (int64, error)
	ListBaselineProducts(ctx context.Context) ([]model.BaselineProduct, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
