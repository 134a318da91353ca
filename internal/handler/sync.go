package handler

import (
	"context"
	"fmt"
	"strings"

	"practice-schedule/internal/models"
)

var providerLabels = map[models.SyncProvider]string{
	models.ProviderGoogle:  "Google Calendar",
	models.ProviderOutlook: "Outlook",
	models.ProviderCalDAV:  "CalDAV",
}

// syncCalendar без аргумента показывает статусы, с провайдером переключает подключение
func (h *Handler) syncCalendar(ctx context.Context, chatID int64, args string) {
	provider := models.SyncProvider(strings.ToLower(strings.TrimSpace(args)))
	if provider == "" {
		var b strings.Builder
		b.WriteString("🔗 Внешние календари:\n")
		for _, conn := range h.schedule.SyncConnections() {
			b.WriteString("\n" + formatConnection(conn))
		}
		h.reply(chatID, b.String())
		return
	}

	conn, err := h.schedule.ToggleExternalSync(ctx, provider)
	if err != nil {
		h.reply(chatID, userError(err))
		return
	}
	h.reply(chatID, "✅ "+formatConnection(conn))
}

func formatConnection(conn models.SyncConnection) string {
	label, ok := providerLabels[conn.Provider]
	if !ok {
		label = string(conn.Provider)
	}
	if conn.IsConnected() {
		return fmt.Sprintf("🟢 %s: подключен", label)
	}
	return fmt.Sprintf("⚪ %s: отключен", label)
}
