package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/ivanoskov/lead_bot/internal/model"
	"github.com/ivanoskov/lead_bot/internal/script"
	"github.com/ivanoskov/lead_bot/internal/service"
)

// API - часть tgbotapi.BotAPI, нужная для отправки
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Sender отправляет сообщения с ограничением частоты (Telegram режет ~30 msg/s)
type Sender struct {
	api     API
	limiter *rate.Limiter
}

func NewSender(api API, perSecond float64) *Sender {
	return &Sender{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(perSecond), max(1, int(perSecond))),
	}
}

// Send реализует service.Messenger; в личном чате chat id совпадает с user id
func (s *Sender) Send(ctx context.Context, userID int64, r service.Reply) error {
	msg := tgbotapi.NewMessage(userID, r.Text)
	switch {
	case r.RemoveKeyboard:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	case len(r.Options) > 0 || r.ContactButton != "":
		msg.ReplyMarkup = replyKeyboard(r.Options, r.ContactButton)
	}
	return s.send(ctx, msg)
}

func (s *Sender) SendText(ctx context.Context, chatID int64, text string) error {
	return s.send(ctx, tgbotapi.NewMessage(chatID, text))
}

func (s *Sender) SendPhoto(ctx context.Context, chatID int64, name string, data []byte) error {
	return s.send(ctx, tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: data}))
}

func (s *Sender) send(ctx context.Context, c tgbotapi.Chattable) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := s.api.Send(c)
	return err
}

func replyKeyboard(opts []string, contactButton string) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(opts)+1)
	for _, o := range opts {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(o)))
	}
	if contactButton != "" {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonContact(contactButton)))
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.OneTimeKeyboard = true
	kb.ResizeKeyboard = true
	return kb
}

// OperatorNotifier пересылает лид в группу операторов
type OperatorNotifier struct {
	sender *Sender
	chatID int64
	script *script.Script
}

func NewOperatorNotifier(sender *Sender, chatID int64, sc *script.Script) *OperatorNotifier {
	return &OperatorNotifier{sender: sender, chatID: chatID, script: sc}
}

func (n *OperatorNotifier) NotifyLead(ctx context.Context, lead model.Lead) error {
	return n.sender.SendText(ctx, n.chatID, n.script.LeadNotice(lead))
}
