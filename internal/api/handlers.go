package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"practice-schedule/internal/models"
	"practice-schedule/internal/selection"
	"practice-schedule/internal/service"
	"practice-schedule/pkg/timerange"
)

const (
	maxBodyBytes     = 1 << 20
	defaultFeedWeeks = 4
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": h.schedule.Version(),
	})
}

func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toSlotResponses(h.schedule.Slots()))
}

func (h *Handler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	var req slotRequest
	if !h.decode(w, r, &req) {
		return
	}
	slot, err := req.toModel("")
	if err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.schedule.CreateSlot(r.Context(), slot)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mutationResponse{
		Value:     toSlotResponse(result.Value),
		Conflicts: toConflictResponses(result.Conflicts),
	})
}

func (h *Handler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	var req slotRequest
	if !h.decode(w, r, &req) {
		return
	}
	slot, err := req.toModel(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.schedule.UpdateSlot(r.Context(), slot)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{
		Value:     toSlotResponse(result.Value),
		Conflicts: toConflictResponses(result.Conflicts),
	})
}

func (h *Handler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	if err := h.schedule.DeleteSlot(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateSlotFromSelection принимает выделение ячеек сетки недели
func (h *Handler) CreateSlotFromSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if !h.decode(w, r, &req) {
		return
	}

	weekStart := timerange.Week(h.now()).Start
	if req.WeekStart != "" {
		parsed, err := timerange.ParseDate(req.WeekStart)
		if err != nil {
			h.writeError(w, err)
			return
		}
		weekStart = timerange.Week(parsed).Start
	}

	block, ok := selection.Select(selection.DefaultGrid(),
		selection.Cell{Day: req.From.Day, Hour: req.From.Hour},
		selection.Cell{Day: req.To.Day, Hour: req.To.Hour})
	if !ok {
		h.writeError(w, &models.ValidationError{Field: "selection", Message: "выделение вне сетки"})
		return
	}

	defaults := models.Slot{Title: req.Title, Color: req.Color, Notes: req.Notes, Timezone: req.Timezone}
	result, err := h.schedule.CreateSlotFromSelection(r.Context(), block, weekStart, defaults)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mutationResponse{
		Value:     toSlotResponse(result.Value),
		Conflicts: toConflictResponses(result.Conflicts),
	})
}

func (h *Handler) CopyWeek(w http.ResponseWriter, r *http.Request) {
	var req copyWeekRequest
	if r.ContentLength != 0 && !h.decode(w, r, &req) {
		return
	}

	result, err := h.schedule.CopyWeekForward(r.Context(), req.OffsetDays)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mutationResponse{
		Value:     toSlotResponses(result.Value),
		Conflicts: toConflictResponses(result.Conflicts),
	})
}

func (h *Handler) ListAbsences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toAbsenceResponses(h.schedule.Absences()))
}

func (h *Handler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
	var req absenceRequest
	if !h.decode(w, r, &req) {
		return
	}
	absence, err := req.toModel("")
	if err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.schedule.CreateAbsence(r.Context(), absence)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mutationResponse{
		Value:     toAbsenceResponse(result.Value),
		Conflicts: toConflictResponses(result.Conflicts),
		Affected:  toAppointmentResponses(result.Affected),
	})
}

func (h *Handler) UpdateAbsence(w http.ResponseWriter, r *http.Request) {
	var req absenceRequest
	if !h.decode(w, r, &req) {
		return
	}
	absence, err := req.toModel(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.schedule.UpdateAbsence(r.Context(), absence)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{
		Value:     toAbsenceResponse(result.Value),
		Conflicts: toConflictResponses(result.Conflicts),
		Affected:  toAppointmentResponses(result.Affected),
	})
}

func (h *Handler) DeleteAbsence(w http.ResponseWriter, r *http.Request) {
	if err := h.schedule.DeleteAbsence(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportHolidays принимает производственный календарь в теле запроса
func (h *Handler) ImportHolidays(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, &models.ValidationError{Field: "body", Message: err.Error()})
		return
	}

	result, err := h.schedule.ImportHolidays(r.Context(), body)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mutationResponse{
		Value:     toAbsenceResponses(result.Value),
		Conflicts: toConflictResponses(result.Conflicts),
		Affected:  toAppointmentResponses(result.Affected),
	})
}

func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toAppointmentResponses(h.schedule.Appointments()))
}

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if !h.decode(w, r, &req) {
		return
	}
	appt, err := req.toModel()
	if err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.schedule.CreateAppointment(r.Context(), appt)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mutationResponse{
		Value:     toAppointmentResponse(result.Value),
		Conflicts: toConflictResponses(result.Conflicts),
	})
}

func (h *Handler) MoveAppointment(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !h.decode(w, r, &req) {
		return
	}
	target, err := timerange.Parse(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.schedule.MoveAppointment(r.Context(), chi.URLParam(r, "id"), target)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{
		Value:     toAppointmentResponse(result.Value),
		Conflicts: toConflictResponses(result.Conflicts),
	})
}

// Occurrences - экземпляры слотов и отсутствий в окне ?from=&to= (по умолчанию текущая неделя)
func (h *Handler) Occurrences(w http.ResponseWriter, r *http.Request) {
	window, err := h.window(r, timerange.Week(h.now()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	occurrences, err := h.schedule.Occurrences(window.Start, window.End)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOccurrenceResponses(occurrences))
}

func (h *Handler) Occupancy(w http.ResponseWriter, r *http.Request) {
	week := timerange.Week(h.now())
	if raw := r.URL.Query().Get("week"); raw != "" {
		date, err := timerange.ParseDate(raw)
		if err != nil {
			h.writeError(w, err)
			return
		}
		week = timerange.Week(date)
	}

	summary, err := h.schedule.WeekOccupancy(week.Start)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOccupancyResponse(week.Start, summary))
}

func (h *Handler) ListSync(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.schedule.SyncConnections())
}

func (h *Handler) ToggleSync(w http.ResponseWriter, r *http.Request) {
	provider := models.SyncProvider(chi.URLParam(r, "provider"))
	conn, err := h.schedule.ToggleExternalSync(r.Context(), provider)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conn)
}

// CalendarICS отдает ленту iCalendar, по умолчанию с текущей недели на четыре недели вперед
func (h *Handler) CalendarICS(w http.ResponseWriter, r *http.Request) {
	start := timerange.Week(h.now()).Start
	window, err := h.window(r, timerange.DateSpan{Start: start, End: start.AddDate(0, 0, 7*defaultFeedWeeks-1)})
	if err != nil {
		h.writeError(w, err)
		return
	}

	feed, err := h.schedule.ExportICS(window.Start, window.End)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, feed)
}

func (h *Handler) window(r *http.Request, fallback timerange.DateSpan) (timerange.DateSpan, error) {
	from, to := fallback.Start, fallback.End
	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = timerange.ParseDate(raw); err != nil {
			return timerange.DateSpan{}, err
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if to, err = timerange.ParseDate(raw); err != nil {
			return timerange.DateSpan{}, err
		}
	}
	return timerange.NewSpan(from, to)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		h.writeError(w, &models.ValidationError{Field: "body", Message: err.Error()})
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}

	var rangeErr *timerange.InvalidRangeError
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &rangeErr):
		resp.Field = rangeErr.Field
	case errors.As(err, &validationErr):
		resp.Field = validationErr.Field
	}

	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).Error("Request failed")
		resp.Error = "внутренняя ошибка, изменения не сохранены"
	}
	writeJSON(w, status, resp)
}

func statusFor(err error) int {
	switch {
	case service.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrMutationInFlight):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
