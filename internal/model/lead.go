package model

import (
	"time"

	"github.com/google/uuid"
)

// Field - имя поля анкеты
type Field string

const (
	FieldBudget   Field = "budget"
	FieldDistrict Field = "district"
	FieldTiming   Field = "timing"
	FieldCredit   Field = "credit_status"
	FieldPhone    Field = "phone"
)

// Fields возвращает поля в порядке, в котором их спрашивает бот
func Fields() []Field {
	return []Field{FieldBudget, FieldDistrict, FieldTiming, FieldCredit, FieldPhone}
}

// TimestampLayout - формат времени в строке таблицы
const TimestampLayout = "2006-01-02 15:04:05"

// Lead - итог завершённого диалога. После сборки не изменяется.
type Lead struct {
	ID           string    `json:"id"`
	UserID       int64     `json:"user_id"`
	Budget       string    `json:"budget"`
	District     string    `json:"district"`
	Timing       string    `json:"timing"`
	CreditStatus string    `json:"credit_status"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewLead собирает лид из ответов пользователя
func NewLead(userID int64, answers map[Field]string, now time.Time) Lead {
	lead := Lead{
		UserID:       userID,
		Budget:       answers[FieldBudget],
		District:     answers[FieldDistrict],
		Timing:       answers[FieldTiming],
		CreditStatus: answers[FieldCredit],
		Phone:        answers[FieldPhone],
		CreatedAt:    now,
	}
	lead.GenerateID()
	return lead
}

// GenerateID генерирует новый UUID для лида, если он еще не установлен
func (l *Lead) GenerateID() {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
}

// Value возвращает ответ по имени поля
func (l Lead) Value(f Field) string {
	switch f {
	case FieldBudget:
		return l.Budget
	case FieldDistrict:
		return l.District
	case FieldTiming:
		return l.Timing
	case FieldCredit:
		return l.CreditStatus
	case FieldPhone:
		return l.Phone
	}
	return ""
}

// Row - строка для табличного хранилища:
// телефон, бюджет, район, срок, кредит, время.
func (l Lead) Row() []string {
	return []string{
		l.Phone,
		l.Budget,
		l.District,
		l.Timing,
		l.CreditStatus,
		l.CreatedAt.Format(TimestampLayout),
	}
}
