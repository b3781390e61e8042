package model

import (
	"testing"
	"time"
)

func TestNewLeadCopiesAnswers(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	answers := map[Field]string{
		FieldBudget:   "50k",
		FieldDistrict: "Downtown",
		FieldTiming:   "1 month",
		FieldCredit:   "yes",
		FieldPhone:    "+15550100",
	}
	lead := NewLead(42, answers, now)

	if lead.ID == "" {
		t.Fatal("expected generated id")
	}
	for _, f := range Fields() {
		if got := lead.Value(f); got != answers[f] {
			t.Fatalf("field %s: got %q want %q", f, got, answers[f])
		}
	}

	answers[FieldBudget] = "changed"
	if lead.Budget != "50k" {
		t.Fatalf("lead must not alias answers map, got %q", lead.Budget)
	}
}

func TestLeadRowOrder(t *testing.T) {
	lead := Lead{
		Budget:       "b",
		District:     "d",
		Timing:       "t",
		CreditStatus: "c",
		Phone:        "p",
		CreatedAt:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	want := []string{"p", "b", "d", "t", "c", "2025-01-02 03:04:05"}
	got := lead.Row()
	if len(got) != len(want) {
		t.Fatalf("row length: got %d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row[%d]: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestGenerateIDKeepsExisting(t *testing.T) {
	lead := Lead{ID: "fixed"}
	lead.GenerateID()
	if lead.ID != "fixed" {
		t.Fatalf("id overwritten: %q", lead.ID)
	}
}
