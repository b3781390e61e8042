package repository

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/ivanoskov/lead_bot/internal/config"
	"github.com/ivanoskov/lead_bot/internal/service"
)

// Store - хранилище лидов, которое нужно закрыть при остановке
type Store interface {
	service.LeadStore
	Close() error
}

// NewStore создает хранилище по STORE_DRIVER
func NewStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverSheets:
		return NewSheetsStore(ctx, cfg.SpreadsheetID, cfg.SheetName,
			option.WithCredentialsJSON([]byte(cfg.GoogleCredsJSON)),
			option.WithScopes(sheets.SpreadsheetsScope),
		)
	case config.DriverSupabase:
		return NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseTable)
	case config.DriverSQLite:
		return NewSQLiteStore(ctx, cfg.SQLiteDSN)
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnknownStoreDriver, cfg.StoreDriver)
}
