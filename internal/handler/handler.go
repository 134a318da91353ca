package handler

import (
	"context"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"practice-schedule/internal/service"
)

// Sender - часть BotAPI, через которую уходят ответы
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handler struct {
	sender             Sender
	schedule           *service.ScheduleService
	practitionerChatID int64
	logger             *logrus.Logger
	now                func() time.Time

	mu    sync.Mutex
	views map[int64]*service.CalendarView
}

func NewHandler(sender Sender, schedule *service.ScheduleService, practitionerChatID int64, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		sender:             sender,
		schedule:           schedule,
		practitionerChatID: practitionerChatID,
		logger:             logger,
		now:                time.Now,
		views:              make(map[int64]*service.CalendarView),
	}
}

// HandleUpdates читает обновления до закрытия канала или отмены контекста
func (h *Handler) HandleUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			h.HandleUpdate(ctx, update)
		}
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	// Обработка callback query (для inline кнопок)
	if update.CallbackQuery != nil {
		h.handleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	h.handleMessage(ctx, update.Message)
}

// handleCallbackQuery обрабатывает inline кнопки
func (h *Handler) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID
	data := callback.Data

	// Отвечаем на callback (убираем "часики" у кнопки)
	defer h.answer(callback.ID)

	if !h.authorized(chatID) {
		h.reply(chatID, "⛔ Нет доступа.")
		return
	}

	// Удаляем клавиатуру
	h.send(tgbotapi.NewEditMessageReplyMarkup(chatID, callback.Message.MessageID, tgbotapi.NewInlineKeyboardMarkup()))

	switch {
	case strings.HasPrefix(data, confirmDeleteSlotPrefix):
		h.deleteSlot(ctx, chatID, strings.TrimPrefix(data, confirmDeleteSlotPrefix))
	case data == cancelDeleteSlot:
		h.reply(chatID, "❌ Удаление слота отменено.")
	case strings.HasPrefix(data, confirmDeleteAbsencePrefix):
		h.deleteAbsence(ctx, chatID, strings.TrimPrefix(data, confirmDeleteAbsencePrefix))
	case data == cancelDeleteAbsence:
		h.reply(chatID, "❌ Удаление отсутствия отменено.")
	case data == viewPrevCallback, data == viewNextCallback, data == viewTodayCallback:
		h.navigate(chatID, data)
	default:
		h.logger.WithField("data", data).Warn("Unknown callback")
	}
}

func (h *Handler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	fields := logrus.Fields{"chat_id": message.Chat.ID}
	if message.From != nil {
		fields["user"] = message.From.UserName
	}
	h.logger.WithFields(fields).Info(message.Text)

	if !h.authorized(message.Chat.ID) {
		h.reply(message.Chat.ID, "⛔ Этот бот управляет расписанием одного специалиста. Доступ закрыт.")
		return
	}

	if message.IsCommand() {
		h.handleCommand(ctx, message)
		return
	}

	h.reply(message.Chat.ID, "🤔 Я понимаю только команды. Используйте /help для списка команд.")
}

// authorized - команды принимаются только из чата специалиста
func (h *Handler) authorized(chatID int64) bool {
	return h.practitionerChatID == 0 || chatID == h.practitionerChatID
}

// updateView применяет fn к состоянию календаря чата под блокировкой и возвращает копию
func (h *Handler) updateView(chatID int64, fn func(v *service.CalendarView)) service.CalendarView {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.views[chatID]
	if !ok {
		v = service.NewCalendarView(h.now())
		h.views[chatID] = v
	}
	if fn != nil {
		fn(v)
	}
	return *v
}

func (h *Handler) reply(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.sender.Send(c); err != nil {
		h.logger.WithError(err).Warn("Failed to send telegram message")
	}
}

func (h *Handler) answer(callbackID string) {
	if _, err := h.sender.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		h.logger.WithError(err).Warn("Failed to answer callback")
	}
}
