package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/ivanoskov/lead_bot/internal/model"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS leads (
    id TEXT PRIMARY KEY,
    user_id INTEGER NOT NULL,
    phone TEXT NOT NULL,
    budget TEXT NOT NULL,
    district TEXT NOT NULL,
    timing TEXT NOT NULL,
    credit_status TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leads_user_id ON leads(user_id);
`)
	return err
}

func (r *SQLiteStore) AppendLead(ctx context.Context, lead model.Lead) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO leads(id, user_id, phone, budget, district, timing, credit_status, created_at) VALUES(?,?,?,?,?,?,?,?)`,
		lead.ID, lead.UserID, lead.Phone, lead.Budget, lead.District, lead.Timing, lead.CreditStatus, lead.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *SQLiteStore) Close() error { return r.db.Close() }
