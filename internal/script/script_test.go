package script

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivanoskov/lead_bot/internal/model"
)

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	if len(s.Budget.Options) != 4 {
		t.Fatalf("budget options: %d", len(s.Budget.Options))
	}
	if s.Phone.ContactButton == "" {
		t.Fatal("expected contact button on phone prompt")
	}
	for _, f := range model.Fields() {
		if s.PromptFor(f).Text == "" {
			t.Fatalf("empty prompt for %s", f)
		}
	}
}

func TestSummaryContainsAllFields(t *testing.T) {
	s := Default()
	lead := model.Lead{Budget: "50k", District: "Downtown", Timing: "1 month", CreditStatus: "yes", Phone: "+15550100"}

	ack := s.Acknowledgment(lead)
	notice := s.LeadNotice(lead)
	for _, want := range []string{"50k", "Downtown", "1 month", "yes", "+15550100"} {
		if !strings.Contains(ack, want) {
			t.Fatalf("acknowledgment misses %q:\n%s", want, ack)
		}
		if !strings.Contains(notice, want) {
			t.Fatalf("notice misses %q:\n%s", want, notice)
		}
	}
	if !strings.HasPrefix(notice, s.LeadHeader) {
		t.Fatalf("notice must start with header:\n%s", notice)
	}
	if !strings.HasPrefix(s.Summary(lead), s.Labels[model.FieldPhone]) {
		t.Fatalf("phone must come first:\n%s", s.Summary(lead))
	}
}

func TestLoadOverride(t *testing.T) {
	doc := `
budget: {text: "Budget?"}
district: {text: "District?"}
timing: {text: "When?"}
credit: {text: "Credit?"}
phone: {text: "Phone?"}
completed: "Thanks!"
cancelled: "Cancelled."
lead_header: "New lead:"
labels: {phone: Phone, budget: Budget, district: District, timing: Timing, credit_status: Credit}
`
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Timing.Text != "When?" || s.Labels[model.FieldCredit] != "Credit" {
		t.Fatalf("unexpected script: %+v", s)
	}
}

func TestLoadRejectsIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	if err := os.WriteFile(path, []byte(`budget: {text: "Budget?"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if s.Cancelled != Default().Cancelled {
		t.Fatalf("got %q", s.Cancelled)
	}
}
