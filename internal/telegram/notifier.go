// Package telegram announces new complaints in the Telegram chat of the team
// responsible for them.
package telegram

import (
	"context"
	"strconv"

	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/localization"
	"complaintdesk/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const queueSize = 100

// Sender is the part of *tgbotapi.BotAPI the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier queues complaint notifications and delivers them from a single
// write pump, so a slow Telegram API never blocks a request.
type Notifier struct {
	Bot       Sender
	Localizer *localization.Localizer
	Lang      string
	Chats     map[string]int64
	Send      chan models.ComplaintView
	Log       logrus.FieldLogger
}

// NewBotAPI authorizes the bot token.
func NewBotAPI(token string, log logrus.FieldLogger) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.WithField("bot", bot.Self.UserName).Info("telegram bot authorized")
	return bot, nil
}

// NewNotifier routes facilities complaints to facilitiesChat and IT complaints
// to itChat. A zero chat id disables that queue.
func NewNotifier(bot Sender, loc *localization.Localizer, facilitiesChat, itChat int64, log logrus.FieldLogger) *Notifier {
	return &Notifier{
		Bot:       bot,
		Localizer: loc,
		Lang:      localization.DefaultLanguage,
		Chats: map[string]int64{
			config.QueueFacilities: facilitiesChat,
			config.QueueIT:         itChat,
		},
		Send: make(chan models.ComplaintView, queueSize),
		Log:  log,
	}
}

// NotifySubmitted queues a notification. When the queue is full the
// notification is dropped.
func (n *Notifier) NotifySubmitted(view models.ComplaintView) {
	select {
	case n.Send <- view:
	default:
		n.Log.WithField("complaint_id", view.ID).Warn("telegram queue full, notification dropped")
	}
}

// Run is the write pump. It delivers queued notifications until ctx is done.
func (n *Notifier) Run(ctx context.Context) {
	defer n.Log.Debug("telegram write pump stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case view := <-n.Send:
			msg, ok := n.Message(view)
			if !ok {
				continue
			}
			if _, err := n.Bot.Send(msg); err != nil {
				n.Log.WithError(err).WithField("complaint_id", view.ID).Error("telegram send failed")
			}
		}
	}
}

// ChatFor returns the chat responsible for view. Complaints whose type was
// deleted go to facilities.
func (n *Notifier) ChatFor(view models.ComplaintView) int64 {
	queue := config.QueueFacilities
	if view.Queue != nil && *view.Queue != "" {
		queue = *view.Queue
	}
	return n.Chats[queue]
}

// Message builds the notification for view; ok is false when its queue has
// no chat configured.
func (n *Notifier) Message(view models.ComplaintView) (tgbotapi.MessageConfig, bool) {
	chatID := n.ChatFor(view)
	if chatID == 0 {
		return tgbotapi.MessageConfig{}, false
	}

	vars := map[string]string{
		"id":       strconv.FormatUint(uint64(view.ID), 10),
		"type":     view.ComplaintTypeName,
		"area":     view.AreaName,
		"building": view.Building,
		"floor":    view.Floor,
		"date":     view.Date.Format(config.DateLayout),
		"details":  view.Details,
	}
	text := n.Localizer.Render(n.Lang, "complaint_submitted_title", vars) + "\n" +
		n.Localizer.Render(n.Lang, "complaint_submitted_body", vars)
	return tgbotapi.NewMessage(chatID, text), true
}
