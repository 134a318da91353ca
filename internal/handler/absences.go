package handler

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	confirmDeleteAbsencePrefix = "confirm_delete_absence_"
	cancelDeleteAbsence        = "cancel_delete_absence"
)

// addAbsence отмечает отпуск, больничный и другие отсутствия
func (h *Handler) addAbsence(ctx context.Context, chatID int64, args string) {
	if strings.TrimSpace(args) == "" {
		h.reply(chatID, `🏖️ Добавление отсутствия

Формат команды:
/absence тип начало конец [ЧЧ:ММ ЧЧ:ММ] [причина]

Примеры:
/absence vacation 01.07.2026 14.07.2026 Отпуск
→ Весь день с 1 по 14 июля

/absence training 20.01 20.01 14:00 18:00 Семинар
→ 20 января с 14:00 до 18:00

💡 Типы: vacation, sick, personal, training, conference, other`)
		return
	}

	absence, err := parseAbsenceArgs(args, h.now())
	if err != nil {
		h.reply(chatID, "❌ Неверный формат: "+err.Error())
		return
	}

	result, err := h.schedule.CreateAbsence(ctx, absence)
	if err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Warn("Failed to add absence")
		h.reply(chatID, userError(err))
		return
	}

	h.reply(chatID, "✅ Отсутствие добавлено!\n\n"+formatAbsence(result.Value)+formatAffected(result.Affected))
}

func (h *Handler) listAbsences(chatID int64) {
	absences := h.schedule.Absences()
	if len(absences) == 0 {
		h.reply(chatID, "📭 Отсутствий нет.")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Отсутствия (%d):\n", len(absences))
	for _, absence := range absences {
		b.WriteString("\n" + formatAbsence(absence))
	}
	h.reply(chatID, b.String())
}

func (h *Handler) confirmDeleteAbsence(chatID int64, args string) {
	id := strings.TrimSpace(args)
	if id == "" {
		h.reply(chatID, "❌ Укажите ID отсутствия: /delabsence ID\nID можно посмотреть в /absences")
		return
	}

	for _, absence := range h.schedule.Absences() {
		if absence.ID != id {
			continue
		}
		msg := tgbotapi.NewMessage(chatID, "❓ Удалить отсутствие?\n\n"+formatAbsence(absence))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Да, удалить", confirmDeleteAbsencePrefix+id),
				tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", cancelDeleteAbsence),
			),
		)
		h.send(msg)
		return
	}
	h.reply(chatID, "❌ Отсутствие не найдено.")
}

func (h *Handler) deleteAbsence(ctx context.Context, chatID int64, id string) {
	if err := h.schedule.DeleteAbsence(ctx, id); err != nil {
		h.logger.WithError(err).WithField("absence_id", id).Warn("Failed to delete absence")
		h.reply(chatID, userError(err))
		return
	}
	h.reply(chatID, "🗑️ Отсутствие удалено.")
}
