package bot

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ivanoskov/lead_bot/internal/charts"
	"github.com/ivanoskov/lead_bot/internal/service"
)

const commandFunnel = "funnel"

// Conversation - движок анкеты
type Conversation interface {
	Handle(ctx context.Context, in service.Inbound)
}

// UpdateSource - long polling из tgbotapi.BotAPI
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Bot struct {
	source   UpdateSource
	sender   *Sender
	conv     Conversation
	dispatch *dispatcher
	logger   *slog.Logger

	admins      map[int64]struct{}
	funnel      *service.Funnel
	charts      *charts.ChartGenerator
	pollTimeout int
}

type Option func(*Bot)

func WithAdmins(ids []int64) Option {
	return func(b *Bot) {
		for _, id := range ids {
			b.admins[id] = struct{}{}
		}
	}
}

func WithFunnel(f *service.Funnel, g *charts.ChartGenerator) Option {
	return func(b *Bot) {
		b.funnel = f
		b.charts = g
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Bot) {
		if l != nil {
			b.logger = l
		}
	}
}

func WithPollTimeout(seconds int) Option {
	return func(b *Bot) {
		if seconds > 0 {
			b.pollTimeout = seconds
		}
	}
}

func NewBot(source UpdateSource, sender *Sender, conv Conversation, opts ...Option) *Bot {
	b := &Bot{
		source:      source,
		sender:      sender,
		conv:        conv,
		dispatch:    newDispatcher(),
		logger:      slog.Default(),
		admins:      make(map[int64]struct{}),
		pollTimeout: 60,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start запускает бота в режиме long polling до отмены ctx
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout

	updates := b.source.GetUpdatesChan(u)
	defer b.dispatch.Close()

	for {
		select {
		case <-ctx.Done():
			b.source.StopReceivingUpdates()
			// offset уже подтверждён, поэтому буфер канала дочитываем до закрытия
			for update := range updates {
				b.handleUpdate(ctx, update)
			}
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// Wait перестаёт принимать обновления и ждёт обработки уже принятых.
// В режиме webhook вызывается после остановки HTTP-сервера.
func (b *Bot) Wait() {
	b.dispatch.Close()
}

// HandleWebhook - точка входа для обработки входящих webhook-обновлений
func (b *Bot) HandleWebhook(ctx context.Context, body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return err
	}
	b.handleUpdate(ctx, update)
	return nil
}

// WebhookHandler принимает POST от Telegram
func (b *Bot) WebhookHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := b.HandleWebhook(r.Context(), body); err != nil {
			b.logger.Warn("bad webhook update", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	in, ok := inbound(update.Message)
	if !ok {
		return
	}
	// задача может выполниться после ответа на webhook или во время остановки
	ctx = context.WithoutCancel(ctx)
	if !b.dispatch.Dispatch(in.UserID, func() { b.route(ctx, in) }) {
		b.logger.Warn("update dropped on shutdown", "update_id", update.UpdateID, "user_id", in.UserID)
	}
}

func (b *Bot) route(ctx context.Context, in service.Inbound) {
	if in.Command == commandFunnel && b.isAdmin(in.UserID) {
		b.sendFunnel(ctx, in.UserID)
		return
	}
	b.conv.Handle(ctx, in)
}

// inbound переводит сообщение Telegram во входящее событие; группы игнорируются.
// Контакт принимается только собственный, чужие карточки отбрасываются.
func inbound(m *tgbotapi.Message) (service.Inbound, bool) {
	if m.Chat == nil || !m.Chat.IsPrivate() {
		return service.Inbound{}, false
	}
	in := service.Inbound{UserID: m.Chat.ID, Text: m.Text}
	if c := m.Contact; c != nil && c.PhoneNumber != "" && m.From != nil && c.UserID == m.From.ID {
		in.Phone = c.PhoneNumber
	}
	if m.IsCommand() {
		in.Command = strings.ToLower(m.Command())
	}
	return in, true
}

func (b *Bot) isAdmin(chatID int64) bool {
	_, ok := b.admins[chatID]
	return ok
}

func (b *Bot) sendFunnel(ctx context.Context, chatID int64) {
	if b.funnel == nil {
		b.sendText(ctx, chatID, "Funnel is not available")
		return
	}
	if b.charts == nil {
		b.sendText(ctx, chatID, b.funnel.Chart())
		return
	}
	labels, values := b.funnel.GraphData()
	img, err := b.charts.GenerateFunnel(labels, values)
	if err == nil {
		err = b.sender.SendPhoto(ctx, chatID, "funnel.png", img)
	}
	if err != nil {
		b.logger.Error("funnel chart failed", "chat_id", chatID, "error", err)
		b.sendText(ctx, chatID, b.funnel.Chart())
		return
	}
	b.logger.Info("funnel chart sent", "chat_id", chatID)
}

func (b *Bot) sendText(ctx context.Context, chatID int64, text string) {
	if err := b.sender.SendText(ctx, chatID, text); err != nil {
		b.logger.Error("send failed", "chat_id", chatID, "error", err)
	}
}
