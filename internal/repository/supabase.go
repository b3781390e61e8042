package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/supabase-community/supabase-go"

	"github.com/ivanoskov/lead_bot/internal/model"
)

type SupabaseStore struct {
	client *supabase.Client
	table  string
}

type supabaseLead struct {
	ID           string    `json:"id"`
	UserID       int64     `json:"user_id"`
	Phone        string    `json:"phone"`
	Budget       string    `json:"budget"`
	District     string    `json:"district"`
	Timing       string    `json:"timing"`
	CreditStatus string    `json:"credit_status"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewSupabaseStore(url, key, table string) (*SupabaseStore, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	if table == "" {
		table = "leads"
	}
	return &SupabaseStore{
		client: client,
		table:  table,
	}, nil
}

// AppendLead вставляет строку; postgrest-клиент не принимает ctx,
// таймаут обеспечивает вызывающая сторона
func (r *SupabaseStore) AppendLead(ctx context.Context, lead model.Lead) error {
	row := supabaseLead{
		ID:           lead.ID,
		UserID:       lead.UserID,
		Phone:        lead.Phone,
		Budget:       lead.Budget,
		District:     lead.District,
		Timing:       lead.Timing,
		CreditStatus: lead.CreditStatus,
		CreatedAt:    lead.CreatedAt,
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _, err := r.client.From(r.table).Insert(row, false, "", "minimal", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}
	return nil
}

func (r *SupabaseStore) Close() error { return nil }
