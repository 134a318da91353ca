package handler

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"practice-schedule/pkg/metrics"
)

func (h *Handler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()
	args := message.CommandArguments()
	chatID := message.Chat.ID
	metrics.RecordBotCommand(command)

	switch command {
	case "start":
		h.sendStartMessage(chatID)
	case "help":
		h.sendHelpMessage(chatID)

	// Слоты доступности
	case "slots":
		h.listSlots(chatID)
	case "addslot":
		h.addSlot(ctx, chatID, args)
	case "delslot":
		h.confirmDeleteSlot(chatID, args)
	case "copyweek":
		h.copyWeek(ctx, chatID, args)

	// Отсутствия
	case "absence":
		h.addAbsence(ctx, chatID, args)
	case "absences":
		h.listAbsences(chatID)
	case "delabsence":
		h.confirmDeleteAbsence(chatID, args)

	// Календарь
	case "day", "week", "month":
		h.showView(chatID, command, args)
	case "appointments":
		h.listAppointments(chatID)
	case "occupancy":
		h.showOccupancy(chatID)

	case "sync":
		h.syncCalendar(ctx, chatID, args)

	default:
		h.sendUnknownCommand(chatID)
	}
}

func (h *Handler) sendUnknownCommand(chatID int64) {
	h.reply(chatID, "❌ Неизвестная команда. Используйте /help для списка команд.")
}

func (h *Handler) sendStartMessage(chatID int64) {
	h.reply(chatID, `👋 Привет! Я веду расписание приема.

Здесь можно задать рабочие слоты, отметить отпуск или больничный,
посмотреть записи клиентов и загрузку недели.

Используйте /help для списка команд.`)
}

func (h *Handler) sendHelpMessage(chatID int64) {
	h.reply(chatID, `📋 Доступные команды:

🕘 Слоты:
/slots - Все слоты доступности
/addslot начало конец ЧЧ:ММ ЧЧ:ММ [повтор] [название] - Новый слот
/delslot ID - Удалить слот
/copyweek [дней] - Скопировать слоты вперед (по умолчанию на 7 дней)

🏖️ Отсутствия:
/absence тип начало конец [ЧЧ:ММ ЧЧ:ММ] [причина] - Отметить отсутствие
/absences - Все отсутствия
/delabsence ID - Удалить отсутствие

📅 Календарь:
/day, /week, /month [next|prev|today] - Расписание за день, неделю или месяц
/appointments - Записи клиентов
/occupancy - Загрузка недели

🔗 Синхронизация:
/sync - Статус внешних календарей
/sync google|outlook|caldav - Подключить или отключить

💡 Даты: ДД.ММ.ГГГГ, ДД.ММ или ГГГГ-ММ-ДД
💡 Повтор: never, daily, weekly, monthly (для отсутствий еще yearly)
💡 Типы отсутствий: vacation, sick, personal, training, conference, other`)
}
