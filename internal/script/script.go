// Package script хранит тексты бота: вопросы, варианты ответов и шаблон сводки.
package script

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ivanoskov/lead_bot/internal/model"
)

//go:embed default.yaml
var defaultYAML []byte

// Prompt - вопрос и подсказки быстрых ответов
type Prompt struct {
	Text          string   `yaml:"text"`
	Options       []string `yaml:"options"`
	ContactButton string   `yaml:"contact_button"`
}

type Script struct {
	Budget     Prompt                 `yaml:"budget"`
	District   Prompt                 `yaml:"district"`
	Timing     Prompt                 `yaml:"timing"`
	Credit     Prompt                 `yaml:"credit"`
	Phone      Prompt                 `yaml:"phone"`
	Completed  string                 `yaml:"completed"`
	Cancelled  string                 `yaml:"cancelled"`
	LeadHeader string                 `yaml:"lead_header"`
	Labels     map[model.Field]string `yaml:"labels"`
}

// Default возвращает встроенный сценарий
func Default() *Script {
	s, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded script is invalid: %v", err))
	}
	return s
}

// Load читает сценарий из файла; пустой путь - встроенный сценарий
func Load(path string) (*Script, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Script) Validate() error {
	prompts := map[model.Field]Prompt{
		model.FieldBudget:   s.Budget,
		model.FieldDistrict: s.District,
		model.FieldTiming:   s.Timing,
		model.FieldCredit:   s.Credit,
		model.FieldPhone:    s.Phone,
	}
	for _, f := range model.Fields() {
		if strings.TrimSpace(prompts[f].Text) == "" {
			return fmt.Errorf("script: prompt for %s is empty", f)
		}
		if strings.TrimSpace(s.Labels[f]) == "" {
			return fmt.Errorf("script: label for %s is empty", f)
		}
	}
	if strings.TrimSpace(s.Completed) == "" || strings.TrimSpace(s.Cancelled) == "" || strings.TrimSpace(s.LeadHeader) == "" {
		return fmt.Errorf("script: completed, cancelled and lead_header are required")
	}
	return nil
}

// PromptFor возвращает вопрос для поля
func (s *Script) PromptFor(f model.Field) Prompt {
	switch f {
	case model.FieldBudget:
		return s.Budget
	case model.FieldDistrict:
		return s.District
	case model.FieldTiming:
		return s.Timing
	case model.FieldCredit:
		return s.Credit
	case model.FieldPhone:
		return s.Phone
	}
	return Prompt{}
}

// Summary - все пять ответов, телефон первым
func (s *Script) Summary(lead model.Lead) string {
	order := []model.Field{model.FieldPhone, model.FieldBudget, model.FieldDistrict, model.FieldTiming, model.FieldCredit}
	lines := make([]string, 0, len(order))
	for _, f := range order {
		lines = append(lines, fmt.Sprintf("%s: %s", s.Labels[f], lead.Value(f)))
	}
	return strings.Join(lines, "\n")
}

// Acknowledgment - ответ пользователю после последнего вопроса
func (s *Script) Acknowledgment(lead model.Lead) string {
	return s.Completed + "\n\n" + s.Summary(lead)
}

// LeadNotice - сообщение для операторов
func (s *Script) LeadNotice(lead model.Lead) string {
	return s.LeadHeader + "\n\n" + s.Summary(lead)
}
