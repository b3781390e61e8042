package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"google.golang.org/api/option"

	"github.com/ivanoskov/lead_bot/internal/config"
	"github.com/ivanoskov/lead_bot/internal/model"
)

func sampleLead() model.Lead {
	lead := model.Lead{
		UserID:       42,
		Budget:       "50k",
		District:     "Downtown",
		Timing:       "1 month",
		CreditStatus: "yes",
		Phone:        "+15550100",
		CreatedAt:    time.Date(2025, 5, 1, 12, 30, 0, 0, time.UTC),
	}
	lead.GenerateID()
	return lead
}

func TestSQLiteStoreAppend(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "leads.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	lead := sampleLead()
	if err := store.AppendLead(ctx, lead); err != nil {
		t.Fatalf("append: %v", err)
	}

	var phone, budget, credit string
	var userID int64
	row := store.db.QueryRowContext(ctx, `SELECT user_id, phone, budget, credit_status FROM leads WHERE id = ?`, lead.ID)
	if err := row.Scan(&userID, &phone, &budget, &credit); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if userID != 42 || phone != lead.Phone || budget != lead.Budget || credit != lead.CreditStatus {
		t.Fatalf("stored row: %d %q %q %q", userID, phone, budget, credit)
	}

	if err := store.AppendLead(ctx, lead); err == nil {
		t.Fatal("duplicate id should fail")
	}
}

func TestSQLiteStoreReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "leads.db")
	first, err := NewSQLiteStore(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.AppendLead(ctx, sampleLead()); err != nil {
		t.Fatal(err)
	}
	first.Close()

	second, err := NewSQLiteStore(ctx, dsn)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	var n int
	if err := second.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("rows after reopen: %d", n)
	}
}

func TestSheetsStoreAppend(t *testing.T) {
	var gotPath, gotInput string
	var body struct {
		Values [][]string `json:"values"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotInput = r.URL.Query().Get("valueInputOption")
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sid"}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	store, err := NewSheetsStore(ctx, "sid", "Sheet1", option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	lead := sampleLead()
	if err := store.AppendLead(ctx, lead); err != nil {
		t.Fatalf("append: %v", err)
	}

	if !strings.HasSuffix(gotPath, "/spreadsheets/sid/values/Sheet1:append") {
		t.Fatalf("path: %s", gotPath)
	}
	if gotInput != "RAW" {
		t.Fatalf("valueInputOption: %q", gotInput)
	}
	if len(body.Values) != 1 {
		t.Fatalf("rows: %v", body.Values)
	}
	want := lead.Row()
	for i := range want {
		if body.Values[0][i] != want[i] {
			t.Fatalf("cell %d: got %q want %q", i, body.Values[0][i], want[i])
		}
	}
}

func TestSheetsStoreError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"forbidden"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	ctx := context.Background()
	store, err := NewSheetsStore(ctx, "sid", "Sheet1", option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.AppendLead(ctx, sampleLead()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewStoreSQLite(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.DriverSQLite, SQLiteDSN: filepath.Join(t.TempDir(), "x.db")}
	store, err := NewStore(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if _, ok := store.(*SQLiteStore); !ok {
		t.Fatalf("got %T", store)
	}
}

func TestNewStoreUnknown(t *testing.T) {
	if _, err := NewStore(context.Background(), &config.Config{StoreDriver: "csv"}); err == nil {
		t.Fatal("expected error")
	}
}
