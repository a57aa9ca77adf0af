package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/meridian-advisory/renewal-intel/internal/db"
	"github.com/meridian-advisory/renewal-intel/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS alerts (
	id                 TEXT PRIMARY KEY,
	customer           TEXT NOT NULL,
	policy_id          TEXT NOT NULL,
	carrier            TEXT NOT NULL,
	priority           TEXT NOT NULL,
	status             TEXT NOT NULL DEFAULT 'pending',
	days_until_renewal INTEGER NOT NULL,
	payload            JSONB NOT NULL,
	snoozed_until      TIMESTAMPTZ,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS dashboard_stats (
	customer    TEXT PRIMARY KEY,
	total       INTEGER NOT NULL,
	high        INTEGER NOT NULL,
	urgent      INTEGER NOT NULL,
	total_value DOUBLE PRECISION NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS recommendation_runs (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	client_id  TEXT NOT NULL,
	run        JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS baseline_products (
	product_id              TEXT PRIMARY KEY,
	product_name            TEXT NOT NULL,
	carrier                 TEXT NOT NULL,
	current_fixed_rate      DOUBLE PRECISION,
	guaranteed_minimum_rate DOUBLE PRECISION,
	cdsc_years              INTEGER,
	free_withdrawal_percent DOUBLE PRECISION,
	risk_profile            TEXT,
	suitable_for            TEXT,
	key_benefits            TEXT
);

CREATE INDEX IF NOT EXISTS idx_alerts_customer ON alerts(customer);
CREATE INDEX IF NOT EXISTS idx_alerts_status ON alerts(status);
CREATE INDEX IF NOT EXISTS idx_alerts_priority ON alerts(priority);
CREATE INDEX IF NOT EXISTS idx_runs_client_id ON recommendation_runs(client_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveEvaluation(ctx context.Context, customer string, alerts []model.Alert, stats model.DashboardStats) error {
	now := time.Now().UTC()

	for _, a := range alerts {
		payload, err := json.Marshal(a)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal alert")
		}
		// Lifecycle columns (status, snoozed_until) are deliberately left
		// alone on conflict so snoozes and dismissals survive re-evaluation.
		_, err = s.pool.Exec(ctx,
			`INSERT INTO alerts (id, customer, policy_id, carrier, priority, status, days_until_renewal, payload, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 ON CONFLICT (id) DO UPDATE SET
			   customer = EXCLUDED.customer, policy_id = EXCLUDED.policy_id,
			   carrier = EXCLUDED.carrier, priority = EXCLUDED.priority,
			   days_until_renewal = EXCLUDED.days_until_renewal,
			   payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
			a.ID, customer, a.PolicyID, a.Carrier, string(a.Priority), string(a.Status),
			a.DaysUntilRenewal, payload, now, now,
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: upsert alert %s", a.ID)
		}
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO dashboard_stats (customer, total, high, urgent, total_value, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (customer) DO UPDATE SET
		   total = EXCLUDED.total, high = EXCLUDED.high, urgent = EXCLUDED.urgent,
		   total_value = EXCLUDED.total_value, updated_at = EXCLUDED.updated_at`,
		customer, stats.Total, stats.High, stats.Urgent, stats.TotalValue, now,
	)
	return eris.Wrapf(err, "postgres: upsert stats for %s", customer)
}

func (s *PostgresStore) ListAlerts(ctx context.Context, filter AlertFilter) ([]model.Alert, error) {
	query := `SELECT payload, status FROM alerts WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Customer != "" {
		query += fmt.Sprintf(` AND customer = $%d`, argIdx)
		args = append(args, filter.Customer)
		argIdx++
	}
	if filter.Status != "" {
		if filter.Status == model.StatusPending {
			// Lapsed snoozes surface as pending again.
			query += ` AND (status = 'pending' OR (status = 'snoozed' AND snoozed_until <= now()))`
		} else {
			query += fmt.Sprintf(` AND status = $%d`, argIdx)
			args = append(args, string(filter.Status))
			argIdx++
		}
	}
	if filter.Priority != "" {
		query += fmt.Sprintf(` AND priority = $%d`, argIdx)
		args = append(args, string(filter.Priority))
		argIdx++
	}
	if filter.Carrier != "" {
		query += fmt.Sprintf(` AND carrier = $%d`, argIdx)
		args = append(args, filter.Carrier)
		argIdx++
	}
	query += ` ORDER BY days_until_renewal ASC, id ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list alerts")
	}
	defer rows.Close()

	var alerts []model.Alert
	for rows.Next() {
		var payload []byte
		var status string
		if err := rows.Scan(&payload, &status); err != nil {
			return nil, eris.Wrap(err, "postgres: scan alert")
		}
		a, err := unmarshalAlert(string(payload), status)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *a)
	}
	return alerts, eris.Wrap(rows.Err(), "postgres: list alerts iterate")
}

func (s *PostgresStore) GetAlert(ctx context.Context, id string) (*model.Alert, error) {
	var payload []byte
	var status string
	err := s.pool.QueryRow(ctx,
		`SELECT payload, status FROM alerts WHERE id = $1`, id,
	).Scan(&payload, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(model.ErrNotFound, "postgres: alert %s", id)
		}
		return nil, eris.Wrapf(err, "postgres: get alert %s", id)
	}
	return unmarshalAlert(string(payload), status)
}

func (s *PostgresStore) SnoozeAlert(ctx context.Context, id string, days int) error {
	if days < MinSnoozeDays || days > MaxSnoozeDays {
		return eris.Wrapf(model.ErrInvalidInput, "postgres: snooze days %d out of range [%d, %d]", days, MinSnoozeDays, MaxSnoozeDays)
	}

	until := time.Now().UTC().AddDate(0, 0, days)
	tag, err := s.pool.Exec(ctx,
		`UPDATE alerts SET status = $1, snoozed_until = $2, updated_at = $3 WHERE id = $4`,
		string(model.StatusSnoozed), until, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: snooze alert %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(model.ErrNotFound, "alert %s", id)
	}
	return nil
}

func (s *PostgresStore) DismissAlert(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE alerts SET status = $1, snoozed_until = NULL, updated_at = $2 WHERE id = $3`,
		string(model.StatusDismissed), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: dismiss alert %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(model.ErrNotFound, "alert %s", id)
	}
	return nil
}

func (s *PostgresStore) GetDashboardStats(ctx context.Context, customer string) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	err := s.pool.QueryRow(ctx,
		`SELECT total, high, urgent, total_value FROM dashboard_stats WHERE customer = $1`,
		customer,
	).Scan(&stats.Total, &stats.High, &stats.Urgent, &stats.TotalValue)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(model.ErrNotFound, "postgres: stats for %s", customer)
		}
		return nil, eris.Wrapf(err, "postgres: get stats for %s", customer)
	}
	return &stats, nil
}

func (s *PostgresStore) SaveRecommendationRun(ctx context.Context, run model.RecommendationRun) (*RunRecord, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	runJSON, err := json.Marshal(run)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal run")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO recommendation_runs (id, client_id, run, created_at) VALUES ($1, $2, $3, $4)`,
		id, run.ClientID, runJSON, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &RunRecord{ID: id, ClientID: run.ClientID, Run: run, CreatedAt: now}, nil
}

func (s *PostgresStore) GetRecommendationRun(ctx context.Context, id string) (*RunRecord, error) {
	var rec RunRecord
	var runJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, client_id, run, created_at FROM recommendation_runs WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.ClientID, &runJSON, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(model.ErrNotFound, "postgres: run %s", id)
		}
		return nil, eris.Wrapf(err, "postgres: get run %s", id)
	}
	if err := json.Unmarshal(runJSON, &rec.Run); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal run")
	}
	return &rec, nil
}

func (s *PostgresStore) ListRecommendationRuns(ctx context.Context, clientID string, limit int) ([]RunRecord, error) {
	query := `SELECT id, client_id, run, created_at FROM recommendation_runs WHERE true`
	args := []any{}
	argIdx := 1

	if clientID != "" {
		query += fmt.Sprintf(` AND client_id = $%d`, argIdx)
		args = append(args, clientID)
		argIdx++
	}
	if limit <= 0 {
		limit = 50
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, argIdx)
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var runJSON []byte
		if err := rows.Scan(&rec.ID, &rec.ClientID, &runJSON, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		if err := json.Unmarshal(runJSON, &rec.Run); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal run")
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) SaveBaselineProducts(ctx context.Context, products []model.BaselineProduct) (int64, error) {
	if len(products) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(products))
	for _, p := range products {
		rows = append(rows, []any{
			p.ProductID, p.ProductName, p.Carrier, p.CurrentFixedRate,
			p.GuaranteedMinimumRate, p.CDSCYears, p.FreeWithdrawalPercent,
			p.RiskProfile, p.SuitableFor, p.KeyBenefits,
		})
	}

	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table: "baseline_products",
		Columns: []string{
			"product_id", "product_name", "carrier", "current_fixed_rate",
			"guaranteed_minimum_rate", "cdsc_years", "free_withdrawal_percent",
			"risk_profile", "suitable_for", "key_benefits",
		},
		ConflictKeys: []string{"product_id"},
	}, rows)
}

func (s *PostgresStore) ListBaselineProducts(ctx context.Context) ([]model.BaselineProduct, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT product_id, product_name, carrier, current_fixed_rate, guaranteed_minimum_rate, cdsc_years, free_withdrawal_percent, risk_profile, suitable_for, key_benefits
		 FROM baseline_products ORDER BY product_id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list products")
	}
	defer rows.Close()

	var products []model.BaselineProduct
	for rows.Next() {
		var p model.BaselineProduct
		var riskProfile, suitableFor, keyBenefits *string
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.Carrier,
			&p.CurrentFixedRate, &p.GuaranteedMinimumRate, &p.CDSCYears,
			&p.FreeWithdrawalPercent, &riskProfile, &suitableFor, &keyBenefits); err != nil {
			return nil, eris.Wrap(err, "postgres: scan product")
		}
		if riskProfile != nil {
			p.RiskProfile = *riskProfile
		}
		if suitableFor != nil {
			p.SuitableFor = *suitableFor
		}
		if keyBenefits != nil {
			p.KeyBenefits = *keyBenefits
		}
		products = append(products, p)
	}
	return products, eris.Wrap(rows.Err(), "postgres: list products iterate")
}
