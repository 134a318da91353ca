package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики расписания
var (
	// Метрики изменений
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_mutations_total",
			Help: "Общее количество операций изменения расписания",
		},
		[]string{"operation", "status"},
	)

	MutationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "schedule_mutation_duration_seconds",
			Help:    "Время выполнения операций изменения в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Метрики конфликтов
	ConflictsDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_conflicts_detected_total",
			Help: "Количество записей, оказавшихся в конфликте при изменении",
		},
		[]string{"operation"},
	)

	SlotsCopied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "schedule_slots_copied_total",
			Help: "Количество слотов, скопированных на следующую неделю",
		},
	)

	SyncToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_sync_toggles_total",
			Help: "Переключения внешней синхронизации календаря",
		},
		[]string{"provider", "status"},
	)

	// Текущее состояние
	CollectionSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "schedule_collection_size",
			Help: "Размер коллекций расписания",
		},
		[]string{"collection"}, // slots, absences, appointments
	)

	WeeklyOccupancy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "schedule_weekly_occupancy_percent",
			Help: "Загрузка последней запрошенной недели в процентах",
		},
	)

	// Метрики HTTP сервера
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_http_requests_total",
			Help: "Общее количество HTTP запросов",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "schedule_http_request_duration_seconds",
			Help:    "Время обработки HTTP запросов в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	BotCommands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_bot_commands_total",
			Help: "Команды, полученные Telegram ботом",
		},
		[]string{"command"},
	)
)

// RecordMutation записывает метрику операции изменения
func RecordMutation(operation, status string, seconds float64) {
	MutationsTotal.WithLabelValues(operation, status).Inc()
	MutationDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordConflicts записывает число конфликтующих записей
func RecordConflicts(operation string, count int) {
	if count > 0 {
		ConflictsDetected.WithLabelValues(operation).Add(float64(count))
	}
}

// RecordSlotsCopied записывает метрику копирования недели
func RecordSlotsCopied(count int) {
	SlotsCopied.Add(float64(count))
}

// RecordSyncToggle записывает переключение синхронизации
func RecordSyncToggle(provider, status string) {
	SyncToggles.WithLabelValues(provider, status).Inc()
}

// SetCollectionSizes обновляет размеры коллекций
func SetCollectionSizes(slots, absences, appointments int) {
	CollectionSize.WithLabelValues("slots").Set(float64(slots))
	CollectionSize.WithLabelValues("absences").Set(float64(absences))
	CollectionSize.WithLabelValues("appointments").Set(float64(appointments))
}

// SetWeeklyOccupancy устанавливает загрузку недели
func SetWeeklyOccupancy(percentage int) {
	WeeklyOccupancy.Set(float64(percentage))
}

// RecordHTTPRequest записывает метрику HTTP запроса
func RecordHTTPRequest(method, endpoint, status string, seconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(seconds)
}

// RecordBotCommand записывает метрику команды бота
func RecordBotCommand(command string) {
	BotCommands.WithLabelValues(command).Inc()
}
