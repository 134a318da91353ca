package handler

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const (
	confirmDeleteSlotPrefix = "confirm_delete_slot_"
	cancelDeleteSlot        = "cancel_delete_slot"
)

func (h *Handler) listSlots(chatID int64) {
	slots := h.schedule.Slots()
	if len(slots) == 0 {
		h.reply(chatID, "📭 Слотов доступности пока нет.\nДобавьте первый: /addslot 15.01.2024 19.01.2024 09:00 13:00 daily")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🗓️ Слоты доступности (%d):\n", len(slots))
	for _, slot := range slots {
		b.WriteString("\n" + formatSlot(slot))
	}
	h.reply(chatID, b.String())
}

// addSlot добавляет слот доступности
func (h *Handler) addSlot(ctx context.Context, chatID int64, args string) {
	if strings.TrimSpace(args) == "" {
		h.reply(chatID, `🕘 Добавление слота

Формат команды:
/addslot начало конец ЧЧ:ММ ЧЧ:ММ [повтор] [название]

Примеры:
/addslot 15.01.2024 19.01.2024 09:00 13:00 daily Утренний прием
→ Каждый день с 15 по 19 января, 9:00-13:00

/addslot 20.01 20.01 10:00 14:00
→ Один день, 20 января текущего года`)
		return
	}

	slot, err := parseSlotArgs(args, h.now())
	if err != nil {
		h.reply(chatID, "❌ Неверный формат: "+err.Error())
		return
	}

	result, err := h.schedule.CreateSlot(ctx, slot)
	if err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Warn("Failed to add slot")
		h.reply(chatID, userError(err))
		return
	}

	h.reply(chatID, "✅ Слот добавлен!\n\n"+formatSlot(result.Value)+formatConflicts(result.Conflicts))
}

func (h *Handler) confirmDeleteSlot(chatID int64, args string) {
	id := strings.TrimSpace(args)
	if id == "" {
		h.reply(chatID, "❌ Укажите ID слота: /delslot ID\nID можно посмотреть в /slots")
		return
	}

	for _, slot := range h.schedule.Slots() {
		if slot.ID != id {
			continue
		}
		msg := tgbotapi.NewMessage(chatID, "❓ Удалить слот?\n\n"+formatSlot(slot))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Да, удалить", confirmDeleteSlotPrefix+id),
				tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", cancelDeleteSlot),
			),
		)
		h.send(msg)
		return
	}
	h.reply(chatID, "❌ Слот не найден.")
}

func (h *Handler) deleteSlot(ctx context.Context, chatID int64, id string) {
	if err := h.schedule.DeleteSlot(ctx, id); err != nil {
		h.logger.WithError(err).WithField("slot_id", id).Warn("Failed to delete slot")
		h.reply(chatID, userError(err))
		return
	}
	h.reply(chatID, "🗑️ Слот удален.")
}

// copyWeek копирует все слоты вперед
func (h *Handler) copyWeek(ctx context.Context, chatID int64, args string) {
	offset, err := parseOffset(args)
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	result, err := h.schedule.CopyWeekForward(ctx, offset)
	if err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Warn("Failed to copy week")
		h.reply(chatID, userError(err))
		return
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"copied":  len(result.Value),
	}).Info("Week copied from bot")

	if len(result.Value) == 0 {
		h.reply(chatID, "📭 Копировать нечего: слотов нет.")
		return
	}
	h.reply(chatID, fmt.Sprintf("✅ Скопировано слотов: %d", len(result.Value))+formatConflicts(result.Conflicts))
}
