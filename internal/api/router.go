package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"practice-schedule/internal/service"
	"practice-schedule/pkg/metrics"
)

type Options struct {
	AllowedOrigins []string
	// RateLimit - запросов в секунду с одного IP, 0 отключает ограничение
	RateLimit int
	Now       func() time.Time
}

// Handler - HTTP поверх фасада расписания
type Handler struct {
	schedule *service.ScheduleService
	logger   *logrus.Logger
	now      func() time.Time
}

// NewRouter собирает маршруты JSON API
func NewRouter(schedule *service.ScheduleService, options Options, logger *logrus.Logger) http.Handler {
	if logger == nil {
		logger = logrus.New()
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if len(options.AllowedOrigins) == 0 {
		options.AllowedOrigins = []string{"*"}
	}
	h := &Handler{schedule: schedule, logger: logger, now: options.Now}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: options.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	if options.RateLimit > 0 {
		router.Use(httprate.LimitByIP(options.RateLimit, time.Second))
	}
	router.Use(h.observe)

	router.Get("/health", h.Health)
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Route("/slots", func(r chi.Router) {
			r.Get("/", h.ListSlots)
			r.Post("/", h.CreateSlot)
			r.Post("/selection", h.CreateSlotFromSelection)
			r.Post("/copy-week", h.CopyWeek)
			r.Put("/{id}", h.UpdateSlot)
			r.Delete("/{id}", h.DeleteSlot)
		})
		r.Route("/absences", func(r chi.Router) {
			r.Get("/", h.ListAbsences)
			r.Post("/", h.CreateAbsence)
			r.Post("/holidays", h.ImportHolidays)
			r.Put("/{id}", h.UpdateAbsence)
			r.Delete("/{id}", h.DeleteAbsence)
		})
		r.Route("/appointments", func(r chi.Router) {
			r.Get("/", h.ListAppointments)
			r.Post("/", h.CreateAppointment)
			r.Post("/{id}/move", h.MoveAppointment)
		})
		r.Get("/occurrences", h.Occurrences)
		r.Get("/occupancy", h.Occupancy)
		r.Get("/sync", h.ListSync)
		r.Post("/sync/{provider}/toggle", h.ToggleSync)
		r.Get("/calendar.ics", h.CalendarICS)
	})

	return router
}

// observe пишет метрики и лог по каждому запросу
func (h *Handler) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			endpoint = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordHTTPRequest(r.Method, endpoint, strconv.Itoa(status), time.Since(started).Seconds())

		h.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"endpoint":   endpoint,
			"status":     status,
			"request_id": middleware.GetReqID(r.Context()),
			"duration":   time.Since(started).String(),
		}).Debug("HTTP request handled")
	})
}
