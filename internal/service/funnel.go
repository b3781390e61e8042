package service

import (
	"fmt"
	"strings"
	"sync"
)

// funnelSteps - шаги воронки в порядке прохождения анкеты
var funnelSteps = []State{StateBudget, StateDistrict, StateTiming, StateCredit, StatePhone, StateComplete}

// Funnel считает уникальных пользователей, дошедших до каждого шага.
// Данные живут в памяти процесса вместе с сессиями.
type Funnel struct {
	mu      sync.Mutex
	reached map[State]map[int64]struct{}
}

func NewFunnel() *Funnel {
	return &Funnel{reached: make(map[State]map[int64]struct{})}
}

// Reach реализует FunnelTracker
func (f *Funnel) Reach(userID int64, state State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := f.reached[state]
	if users == nil {
		users = make(map[int64]struct{})
		f.reached[state] = users
	}
	users[userID] = struct{}{}
}

func (f *Funnel) count(state State) int {
	return len(f.reached[state])
}

// GraphData возвращает подписи и значения шагов для графика
func (f *Funnel) GraphData() ([]string, []int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	labels := make([]string, len(funnelSteps))
	values := make([]int, len(funnelSteps))
	for i, st := range funnelSteps {
		labels[i] = st.String()
		values[i] = f.count(st)
	}
	return labels, values
}

// Chart - текстовая воронка, если картинку построить не удалось.
// Конверсия считается от числа начавших анкету.
func (f *Funnel) Chart() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.reached) == 0 {
		return "Funnel is empty"
	}

	started := f.count(StateBudget)
	var b strings.Builder
	fmt.Fprintf(&b, "Funnel, started: %d\n", started)
	for _, st := range funnelSteps {
		n := f.count(st)
		line := fmt.Sprintf("%s: %d", st, n)
		if started > 0 {
			line += fmt.Sprintf(" (%.0f%%)", 100*float64(n)/float64(started))
		}
		b.WriteString(line + "\n")
	}
	if n := f.count(StateCancelled); n > 0 {
		fmt.Fprintf(&b, "%s: %d\n", StateCancelled, n)
	}
	return b.String()
}
