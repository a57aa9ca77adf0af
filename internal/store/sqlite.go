package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/meridian-advisory/renewal-intel/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS alerts (
	id                 TEXT PRIMARY KEY,
	customer           TEXT NOT NULL,
	policy_id          TEXT NOT NULL,
	carrier            TEXT NOT NULL,
	priority           TEXT NOT NULL,
	status             TEXT NOT NULL DEFAULT 'pending',
	days_until_renewal INTEGER NOT NULL,
	payload            TEXT NOT NULL,
	snoozed_until      DATETIME,
	created_at         DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at         DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS dashboard_stats (
	customer    TEXT PRIMARY KEY,
	total       INTEGER NOT NULL,
	high        INTEGER NOT NULL,
	urgent      INTEGER NOT NULL,
	total_value REAL NOT NULL,
	updated_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS recommendation_runs (
	id         TEXT PRIMARY KEY,
	client_id  TEXT NOT NULL,
	run        TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS baseline_products (
	product_id              TEXT PRIMARY KEY,
	product_name            TEXT NOT NULL,
	carrier                 TEXT NOT NULL,
	current_fixed_rate      REAL,
	guaranteed_minimum_rate REAL,
	cdsc_years              INTEGER,
	free_withdrawal_percent REAL,
	risk_profile            TEXT,
	suitable_for            TEXT,
	key_benefits            TEXT
);

CREATE INDEX IF NOT EXISTS idx_alerts_customer ON alerts(customer);
CREATE INDEX IF NOT EXISTS idx_alerts_status ON alerts(status);
CREATE INDEX IF NOT EXISTS idx_alerts_priority ON alerts(priority);
CREATE INDEX IF NOT EXISTS idx_runs_client_id ON recommendation_runs(client_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveEvaluation(ctx context.Context, customer string, alerts []model.Alert, stats model.DashboardStats) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, a := range alerts {
		payload, err := json.Marshal(a)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal alert")
		}
		// Lifecycle columns (status, snoozed_until) are deliberately left
		// alone on conflict so snoozes and dismissals survive re-evaluation.
		_, err = tx.ExecContext(ctx,
			`INSERT INTO alerts (id, customer, policy_id, carrier, priority, status, days_until_renewal, payload, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   customer = excluded.customer, policy_id = excluded.policy_id,
			   carrier = excluded.carrier, priority = excluded.priority,
			   days_until_renewal = excluded.days_until_renewal,
			   payload = excluded.payload, updated_at = excluded.updated_at`,
			a.ID, customer, a.PolicyID, a.Carrier, string(a.Priority), string(a.Status),
			a.DaysUntilRenewal, string(payload), now, now,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: upsert alert %s", a.ID)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO dashboard_stats (customer, total, high, urgent, total_value, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(customer) DO UPDATE SET
		   total = excluded.total, high = excluded.high, urgent = excluded.urgent,
		   total_value = excluded.total_value, updated_at = excluded.updated_at`,
		customer, stats.Total, stats.High, stats.Urgent, stats.TotalValue, now,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: upsert stats for %s", customer)
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit evaluation")
}

func (s *SQLiteStore) ListAlerts(ctx context.Context, filter AlertFilter) ([]model.Alert, error) {
	query := `SELECT payload, status FROM alerts WHERE 1=1`
	var args []any

	if filter.Customer != "" {
		query += ` AND customer = ?`
		args = append(args, filter.Customer)
	}
	if filter.Status != "" {
		if filter.Status == model.StatusPending {
			// Lapsed snoozes surface as pending again.
			query += ` AND (status = 'pending' OR (status = 'snoozed' AND snoozed_until <= datetime('now')))`
		} else {
			query += ` AND status = ?`
			args = append(args, string(filter.Status))
		}
	}
	if filter.Priority != "" {
		query += ` AND priority = ?`
		args = append(args, string(filter.Priority))
	}
	if filter.Carrier != "" {
		query += ` AND carrier = ?`
		args = append(args, filter.Carrier)
	}
	query += ` ORDER BY days_until_renewal ASC, id ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list alerts")
	}
	defer rows.Close()

	var alerts []model.Alert
	for rows.Next() {
		var payload, status string
		if err := rows.Scan(&payload, &status); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan alert")
		}
		a, err := unmarshalAlert(payload, status)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *a)
	}
	return alerts, eris.Wrap(rows.Err(), "sqlite: list alerts iterate")
}

func (s *SQLiteStore) GetAlert(ctx context.Context, id string) (*model.Alert, error) {
	var payload, status string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, status FROM alerts WHERE id = ?`, id,
	).Scan(&payload, &status)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(model.ErrNotFound, "sqlite: alert %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get alert %s", id)
	}
	return unmarshalAlert(payload, status)
}

func (s *SQLiteStore) SnoozeAlert(ctx context.Context, id string, days int) error {
	if days < MinSnoozeDays || days > MaxSnoozeDays {
		return eris.Wrapf(model.ErrInvalidInput, "sqlite: snooze days %d out of range [%d, %d]", days, MinSnoozeDays, MaxSnoozeDays)
	}

	until := time.Now().UTC().AddDate(0, 0, days)
	res, err := s.db.ExecContext(ctx,
		`UPDATE alerts SET status = ?, snoozed_until = ?, updated_at = ? WHERE id = ?`,
		string(model.StatusSnoozed), until, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: snooze alert %s", id)
	}
	return checkRowsAffected(res, "alert", id)
}

func (s *SQLiteStore) DismissAlert(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE alerts SET status = ?, snoozed_until = NULL, updated_at = ? WHERE id = ?`,
		string(model.StatusDismissed), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: dismiss alert %s", id)
	}
	return checkRowsAffected(res, "alert", id)
}

func (s *SQLiteStore) GetDashboardStats(ctx context.Context, customer string) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	err := s.db.QueryRowContext(ctx,
		`SELECT total, high, urgent, total_value FROM dashboard_stats WHERE customer = ?`,
		customer,
	).Scan(&stats.Total, &stats.High, &stats.Urgent, &stats.TotalValue)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(model.ErrNotFound, "sqlite: stats for %s", customer)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get stats for %s", customer)
	}
	return &stats, nil
}

func (s *SQLiteStore) SaveRecommendationRun(ctx context.Context, run model.RecommendationRun) (*RunRecord, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	runJSON, err := json.Marshal(run)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal run")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO recommendation_runs (id, client_id, run, created_at) VALUES (?, ?, ?, ?)`,
		id, run.ClientID, string(runJSON), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &RunRecord{ID: id, ClientID: run.ClientID, Run: run, CreatedAt: now}, nil
}

func (s *SQLiteStore) GetRecommendationRun(ctx context.Context, id string) (*RunRecord, error) {
	var rec RunRecord
	var runJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, client_id, run, created_at FROM recommendation_runs WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.ClientID, &runJSON, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(model.ErrNotFound, "sqlite: run %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get run %s", id)
	}
	if err := json.Unmarshal([]byte(runJSON), &rec.Run); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal run")
	}
	return &rec, nil
}

func (s *SQLiteStore) ListRecommendationRuns(ctx context.Context, clientID string, limit int) ([]RunRecord, error) {
	query := `SELECT id, client_id, run, created_at FROM recommendation_runs WHERE 1=1`
	var args []any
	if clientID != "" {
		query += ` AND client_id = ?`
		args = append(args, clientID)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var runJSON string
		if err := rows.Scan(&rec.ID, &rec.ClientID, &runJSON, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		if err := json.Unmarshal([]byte(runJSON), &rec.Run); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal run")
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) SaveBaselineProducts(ctx context.Context, products []model.BaselineProduct) (int64, error) {
	if len(products) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	var n int64
	for _, p := range products {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO baseline_products
			 (product_id, product_name, carrier, current_fixed_rate, guaranteed_minimum_rate, cdsc_years, free_withdrawal_percent, risk_profile, suitable_for, key_benefits)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(product_id) DO UPDATE SET
			   product_name = excluded.product_name, carrier = excluded.carrier,
			   current_fixed_rate = excluded.current_fixed_rate,
			   guaranteed_minimum_rate = excluded.guaranteed_minimum_rate,
			   cdsc_years = excluded.cdsc_years,
			   free_withdrawal_percent = excluded.free_withdrawal_percent,
			   risk_profile = excluded.risk_profile, suitable_for = excluded.suitable_for,
			   key_benefits = excluded.key_benefits`,
			p.ProductID, p.ProductName, p.Carrier, p.CurrentFixedRate, p.GuaranteedMinimumRate,
			p.CDSCYears, p.FreeWithdrawalPercent, p.RiskProfile, p.SuitableFor, p.KeyBenefits,
		)
		if err != nil {
			return n, eris.Wrapf(err, "sqlite: upsert product %s", p.ProductID)
		}
		n++
	}

	return n, eris.Wrap(tx.Commit(), "sqlite: commit products")
}

func (s *SQLiteStore) ListBaselineProducts(ctx context.Context) ([]model.BaselineProduct, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, product_name, carrier, current_fixed_rate, guaranteed_minimum_rate, cdsc_years, free_withdrawal_percent, risk_profile, suitable_for, key_benefits
		 FROM baseline_products ORDER BY product_id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list products")
	}
	defer rows.Close()

	var products []model.BaselineProduct
	for rows.Next() {
		var p model.BaselineProduct
		var riskProfile, suitableFor, keyBenefits sql.NullString
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.Carrier,
			&p.CurrentFixedRate, &p.GuaranteedMinimumRate, &p.CDSCYears,
			&p.FreeWithdrawalPercent, &riskProfile, &suitableFor, &keyBenefits); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan product")
		}
		p.RiskProfile = riskProfile.String
		p.SuitableFor = suitableFor.String
		p.KeyBenefits = keyBenefits.String
		products = append(products, p)
	}
	return products, eris.Wrap(rows.Err(), "sqlite: list products iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(model.ErrNotFound, "%s %s", entity, id)
	}
	return nil
}

func unmarshalAlert(payload, status string) (*model.Alert, error) {
	var a model.Alert
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return nil, eris.Wrap(err, "unmarshal alert payload")
	}
	// The lifecycle column is authoritative over the snapshot payload.
	a.Status = model.Status(status)
	return &a, nil
}
