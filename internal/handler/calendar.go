package handler

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"practice-schedule/internal/service"
)

const (
	viewPrevCallback  = "view_prev"
	viewNextCallback  = "view_next"
	viewTodayCallback = "view_today"
)

// showView переключает режим календаря (/day, /week, /month) и показывает расписание
func (h *Handler) showView(chatID int64, mode string, args string) {
	view := h.updateView(chatID, func(v *service.CalendarView) {
		v.SetMode(service.ViewMode(mode))
		switch strings.ToLower(strings.TrimSpace(args)) {
		case "next":
			v.Next()
		case "prev":
			v.Prev()
		case "today":
			v.Today(h.now())
		}
	})
	h.sendAgenda(chatID, view)
}

// navigate обрабатывает кнопки под расписанием
func (h *Handler) navigate(chatID int64, data string) {
	view := h.updateView(chatID, func(v *service.CalendarView) {
		switch data {
		case viewPrevCallback:
			v.Prev()
		case viewNextCallback:
			v.Next()
		case viewTodayCallback:
			v.Today(h.now())
		}
	})
	h.sendAgenda(chatID, view)
}

func (h *Handler) sendAgenda(chatID int64, view service.CalendarView) {
	window := view.Window()
	occurrences, err := h.schedule.Occurrences(window.Start, window.End)
	if err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to expand schedule")
		h.reply(chatID, userError(err))
		return
	}

	msg := tgbotapi.NewMessage(chatID, formatAgenda(view, occurrences, h.schedule.Appointments()))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️", viewPrevCallback),
			tgbotapi.NewInlineKeyboardButtonData("Сегодня", viewTodayCallback),
			tgbotapi.NewInlineKeyboardButtonData("▶️", viewNextCallback),
		),
	)
	h.send(msg)
}

// listAppointments - записи в окне текущего режима календаря
func (h *Handler) listAppointments(chatID int64) {
	view := h.updateView(chatID, nil)
	window := view.Window()

	var b strings.Builder
	count := 0
	for _, appt := range h.schedule.Appointments() {
		if !window.Contains(appt.Date) {
			continue
		}
		b.WriteString("\n" + formatAppointment(appt))
		count++
	}

	if count == 0 {
		h.reply(chatID, fmt.Sprintf("📭 Записей за %s нет.", formatPeriod(window.Start, window.End)))
		return
	}
	h.reply(chatID, fmt.Sprintf("👥 Записи за %s (%d):\n", formatPeriod(window.Start, window.End), count)+b.String())
}

func (h *Handler) showOccupancy(chatID int64) {
	view := h.updateView(chatID, nil)
	weekStart := view.WeekStart()
	summary, err := h.schedule.WeekOccupancy(weekStart)
	if err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to compute occupancy")
		h.reply(chatID, userError(err))
		return
	}
	h.reply(chatID, formatOccupancy(weekStart, summary))
}
