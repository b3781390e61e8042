package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ivanoskov/lead_bot/internal/metrics"
	"github.com/ivanoskov/lead_bot/internal/model"
	"github.com/ivanoskov/lead_bot/internal/script"
)

// Inbound - входящее сообщение от транспорта
type Inbound struct {
	UserID int64
	Text   string
	// Command - имя команды без "/", пусто для обычного текста
	Command string
	// Phone - номер из собственного контакта пользователя
	Phone string
}

// Reply - исходящее сообщение пользователю
type Reply struct {
	Text           string
	Options        []string
	ContactButton  string
	RemoveKeyboard bool
}

// Messenger доставляет ответы пользователю (реализуется Telegram-адаптером)
type Messenger interface {
	Send(ctx context.Context, userID int64, reply Reply) error
}

// LeadStore - табличное хранилище лидов, только добавление
type LeadStore interface {
	AppendLead(ctx context.Context, lead model.Lead) error
}

// LeadNotifier отправляет лид операторам
type LeadNotifier interface {
	NotifyLead(ctx context.Context, lead model.Lead) error
}

// FunnelTracker получает каждый шаг, на который зашёл пользователь
type FunnelTracker interface {
	Reach(userID int64, state State)
}

type transition func(ctx context.Context, s *Session, text string) State

// Engine ведёт анкету для каждого пользователя.
// Сообщения одного пользователя должны приходить последовательно,
// разные пользователи обрабатываются параллельно.
type Engine struct {
	mu       sync.Mutex
	sessions map[int64]*Session

	handlers map[State]transition

	script    *script.Script
	messenger Messenger
	store     LeadStore
	notifier  LeadNotifier
	funnel    FunnelTracker
	metrics   *metrics.Metrics
	logger    *slog.Logger

	sinkTimeout time.Duration
	now         func() time.Time
}

type Option func(*Engine)

func WithFunnel(f FunnelTracker) Option { return func(e *Engine) { e.funnel = f } }

func WithMetrics(m *metrics.Metrics) Option { return func(e *Engine) { e.metrics = m } }

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithSinkTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.sinkTimeout = d
		}
	}
}

func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// NewEngine создает движок анкеты
func NewEngine(sc *script.Script, messenger Messenger, store LeadStore, notifier LeadNotifier, opts ...Option) *Engine {
	e := &Engine{
		sessions:    make(map[int64]*Session),
		script:      sc,
		messenger:   messenger,
		store:       store,
		notifier:    notifier,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		sinkTimeout: 10 * time.Second,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.handlers = map[State]transition{
		StateBudget:   e.handleBudget,
		StateDistrict: e.handleDistrict,
		StateTiming:   e.handleTiming,
		StateCredit:   e.handleCredit,
		StatePhone:    e.handlePhone,
	}
	return e
}

// Handle обрабатывает одно входящее сообщение
func (e *Engine) Handle(ctx context.Context, in Inbound) {
	if recognized(in.Command) {
		switch in.Command {
		case CommandStart, CommandRestart:
			e.begin(ctx, in.UserID)
		case CommandCancel:
			e.cancel(ctx, in.UserID)
		}
		return
	}

	if strings.TrimSpace(in.Text) == "" && in.Phone == "" {
		return
	}
	s := e.active(in.UserID)
	if s == nil {
		e.logger.Debug("message without session ignored", "user_id", in.UserID)
		return
	}
	text := in.Text
	if in.Phone != "" {
		// контакт отвечает только на вопрос о телефоне
		if s.State != StatePhone {
			e.logger.Debug("contact outside phone step ignored", "user_id", in.UserID, "state", s.State.String())
			return
		}
		text = in.Phone
	}
	handle, ok := e.handlers[s.State]
	if !ok {
		return
	}
	next := handle(ctx, s, text)
	s.State = next
	if next.Terminal() {
		s.Answers = nil
	}
	e.put(s)
}

// Session возвращает копию сессии пользователя
func (e *Engine) Session(userID int64) (Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[userID]
	if !ok {
		return Session{}, false
	}
	return *s.clone(), true
}

func (e *Engine) handleBudget(ctx context.Context, s *Session, text string) State {
	return e.capture(ctx, s, model.FieldBudget, text, StateDistrict)
}

func (e *Engine) handleDistrict(ctx context.Context, s *Session, text string) State {
	return e.capture(ctx, s, model.FieldDistrict, text, StateTiming)
}

func (e *Engine) handleTiming(ctx context.Context, s *Session, text string) State {
	return e.capture(ctx, s, model.FieldTiming, text, StateCredit)
}

func (e *Engine) handleCredit(ctx context.Context, s *Session, text string) State {
	return e.capture(ctx, s, model.FieldCredit, text, StatePhone)
}

func (e *Engine) handlePhone(ctx context.Context, s *Session, text string) State {
	s.Answers[model.FieldPhone] = text
	e.complete(ctx, s)
	return StateComplete
}

func (e *Engine) capture(ctx context.Context, s *Session, f model.Field, text string, next State) State {
	s.Answers[f] = text
	e.prompt(ctx, s.UserID, next)
	return next
}

func (e *Engine) prompt(ctx context.Context, userID int64, st State) {
	f, ok := st.Field()
	if !ok {
		return
	}
	p := e.script.PromptFor(f)
	e.send(ctx, userID, Reply{Text: p.Text, Options: p.Options, ContactButton: p.ContactButton})
}

func (e *Engine) begin(ctx context.Context, userID int64) {
	prev := e.put(&Session{UserID: userID, State: StateBudget, Answers: make(map[model.Field]string)})
	if e.metrics != nil {
		e.metrics.Started.Inc()
	}
	e.logger.Info("conversation started", "user_id", userID, "restarted", prev != nil && !prev.State.Terminal())
	e.prompt(ctx, userID, StateBudget)
}

func (e *Engine) cancel(ctx context.Context, userID int64) {
	if e.active(userID) == nil {
		return
	}
	e.put(&Session{UserID: userID, State: StateCancelled})
	if e.metrics != nil {
		e.metrics.Cancelled.Inc()
	}
	e.logger.Info("conversation cancelled", "user_id", userID)
	e.send(ctx, userID, Reply{Text: e.script.Cancelled, RemoveKeyboard: true})
}

func (e *Engine) complete(ctx context.Context, s *Session) {
	lead := model.NewLead(s.UserID, s.Answers, e.now())
	if e.metrics != nil {
		e.metrics.Completed.Inc()
	}
	e.send(ctx, s.UserID, Reply{Text: e.script.Acknowledgment(lead), RemoveKeyboard: true})

	for _, res := range e.deliver(ctx, lead) {
		e.metrics.SinkResult(res.Sink, res.Err)
		if res.Err != nil {
			e.logger.Error("lead delivery failed",
				"sink", res.Sink, "user_id", lead.UserID, "lead_id", lead.ID,
				"duration", res.Duration, "error", res.Err)
			continue
		}
		e.logger.Info("lead delivered", "sink", res.Sink, "user_id", lead.UserID, "lead_id", lead.ID, "duration", res.Duration)
	}
}

func (e *Engine) send(ctx context.Context, userID int64, r Reply) {
	if err := e.messenger.Send(ctx, userID, r); err != nil {
		e.logger.Error("send reply failed", "user_id", userID, "error", err)
	}
}

// active возвращает рабочую копию нетерминальной сессии или nil
func (e *Engine) active(userID int64) *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[userID]
	if !ok || s.State.Terminal() {
		return nil
	}
	return s.clone()
}

// put сохраняет сессию и возвращает предыдущую
func (e *Engine) put(s *Session) *Session {
	e.mu.Lock()
	prev := e.sessions[s.UserID]
	e.sessions[s.UserID] = s
	e.mu.Unlock()

	wasActive := prev != nil && !prev.State.Terminal()
	if e.metrics != nil {
		switch {
		case !wasActive && !s.State.Terminal():
			e.metrics.Active.Inc()
		case wasActive && s.State.Terminal():
			e.metrics.Active.Dec()
		}
	}
	if e.funnel != nil && (prev == nil || prev.State != s.State) {
		e.funnel.Reach(s.UserID, s.State)
	}
	return prev
}
