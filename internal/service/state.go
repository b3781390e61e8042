package service

import "github.com/ivanoskov/lead_bot/internal/model"

// State - шаг анкеты
type State int

const (
	StateBudget State = iota
	StateDistrict
	StateTiming
	StateCredit
	StatePhone
	StateComplete
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateBudget:
		return "budget"
	case StateDistrict:
		return "district"
	case StateTiming:
		return "timing"
	case StateCredit:
		return "credit"
	case StatePhone:
		return "phone"
	case StateComplete:
		return "complete"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Terminal сообщает, что из состояния нет переходов без новой команды start/restart
func (s State) Terminal() bool {
	return s == StateComplete || s == StateCancelled
}

// Field - поле, которое ждёт состояние
func (s State) Field() (model.Field, bool) {
	switch s {
	case StateBudget:
		return model.FieldBudget, true
	case StateDistrict:
		return model.FieldDistrict, true
	case StateTiming:
		return model.FieldTiming, true
	case StateCredit:
		return model.FieldCredit, true
	case StatePhone:
		return model.FieldPhone, true
	}
	return "", false
}

// Команды, которые движок распознаёт в любом нетерминальном состоянии
const (
	CommandStart   = "start"
	CommandRestart = "restart"
	CommandCancel  = "cancel"
)

func recognized(cmd string) bool {
	switch cmd {
	case CommandStart, CommandRestart, CommandCancel:
		return true
	}
	return false
}

// Session - диалог одного пользователя
type Session struct {
	UserID  int64
	State   State
	Answers map[model.Field]string
}

func (s *Session) clone() *Session {
	c := &Session{UserID: s.UserID, State: s.State}
	if s.Answers != nil {
		c.Answers = make(map[model.Field]string, len(s.Answers))
		for k, v := range s.Answers {
			c.Answers[k] = v
		}
	}
	return c
}
