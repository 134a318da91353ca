package api

import (
	"time"

	"practice-schedule/internal/conflict"
	"practice-schedule/internal/models"
	"practice-schedule/internal/occupancy"
	"practice-schedule/pkg/timerange"
)

// Даты в JSON передаются строками YYYY-MM-DD, время - HH:MM

type slotRequest struct {
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	StartTime timerange.Clock `json:"start_time"`
	EndTime   timerange.Clock `json:"end_time"`
	Repeat    models.Repeat   `json:"repeat"`
	Timezone  string          `json:"timezone"`
	Color     string          `json:"color"`
	Title     string          `json:"title"`
	Notes     string          `json:"notes"`
}

func (r slotRequest) toModel(id string) (models.Slot, error) {
	start, err := timerange.ParseDate(r.StartDate)
	if err != nil {
		return models.Slot{}, err
	}
	end, err := timerange.ParseDate(r.EndDate)
	if err != nil {
		return models.Slot{}, err
	}
	return models.Slot{
		ID:        id,
		StartDate: start,
		EndDate:   end,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Repeat:    r.Repeat,
		Timezone:  r.Timezone,
		Color:     r.Color,
		Title:     r.Title,
		Notes:     r.Notes,
	}, nil
}

type slotResponse struct {
	ID        string          `json:"id"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	StartTime timerange.Clock `json:"start_time"`
	EndTime   timerange.Clock `json:"end_time"`
	Repeat    models.Repeat   `json:"repeat"`
	Timezone  string          `json:"timezone"`
	Color     string          `json:"color,omitempty"`
	Title     string          `json:"title,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

func toSlotResponse(s models.Slot) slotResponse {
	return slotResponse{
		ID:        s.ID,
		StartDate: formatDate(s.StartDate),
		EndDate:   formatDate(s.EndDate),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Repeat:    s.Repeat,
		Timezone:  s.Timezone,
		Color:     s.Color,
		Title:     s.Title,
		Notes:     s.Notes,
	}
}

func toSlotResponses(slots []models.Slot) []slotResponse {
	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, toSlotResponse(s))
	}
	return out
}

type absenceRequest struct {
	Type                models.AbsenceType `json:"type"`
	StartDate           string             `json:"start_date"`
	EndDate             string             `json:"end_date"`
	AllDay              bool               `json:"all_day"`
	StartTime           timerange.Clock    `json:"start_time"`
	EndTime             timerange.Clock    `json:"end_time"`
	Repeat              models.Repeat      `json:"repeat"`
	Timezone            string             `json:"timezone"`
	Reason              string             `json:"reason"`
	NotifyClients       bool               `json:"notify_clients"`
	AutoDeclineBookings bool               `json:"auto_decline_bookings"`
}

func (r absenceRequest) toModel(id string) (models.Absence, error) {
	start, err := timerange.ParseDate(r.StartDate)
	if err != nil {
		return models.Absence{}, err
	}
	end, err := timerange.ParseDate(r.EndDate)
	if err != nil {
		return models.Absence{}, err
	}
	return models.Absence{
		ID:                  id,
		Type:                r.Type,
		StartDate:           start,
		EndDate:             end,
		AllDay:              r.AllDay,
		StartTime:           r.StartTime,
		EndTime:             r.EndTime,
		Repeat:              r.Repeat,
		Timezone:            r.Timezone,
		Reason:              r.Reason,
		NotifyClients:       r.NotifyClients,
		AutoDeclineBookings: r.AutoDeclineBookings,
	}, nil
}

type absenceResponse struct {
	ID                   string             `json:"id"`
	Type                 models.AbsenceType `json:"type"`
	StartDate            string             `json:"start_date"`
	EndDate              string             `json:"end_date"`
	AllDay               bool               `json:"all_day"`
	StartTime            *timerange.Clock   `json:"start_time,omitempty"`
	EndTime              *timerange.Clock   `json:"end_time,omitempty"`
	Repeat               models.Repeat      `json:"repeat"`
	Timezone             string             `json:"timezone"`
	Reason               string             `json:"reason,omitempty"`
	NotifyClients        bool               `json:"notify_clients"`
	AutoDeclineBookings  bool               `json:"auto_decline_bookings"`
	AffectedAppointments int                `json:"affected_appointments"`
}

func toAbsenceResponse(a models.Absence) absenceResponse {
	out := absenceResponse{
		ID:                   a.ID,
		Type:                 a.Type,
		StartDate:            formatDate(a.StartDate),
		EndDate:              formatDate(a.EndDate),
		AllDay:               a.AllDay,
		Repeat:               a.Repeat,
		Timezone:             a.Timezone,
		Reason:               a.Reason,
		NotifyClients:        a.NotifyClients,
		AutoDeclineBookings:  a.AutoDeclineBookings,
		AffectedAppointments: a.AffectedAppointments,
	}
	if !a.AllDay {
		start, end := a.StartTime, a.EndTime
		out.StartTime, out.EndTime = &start, &end
	}
	return out
}

func toAbsenceResponses(absences []models.Absence) []absenceResponse {
	out := make([]absenceResponse, 0, len(absences))
	for _, a := range absences {
		out = append(out, toAbsenceResponse(a))
	}
	return out
}

type appointmentRequest struct {
	ID         string                   `json:"id"`
	Date       string                   `json:"date"`
	StartTime  timerange.Clock          `json:"start_time"`
	EndTime    timerange.Clock          `json:"end_time"`
	ClientID   string                   `json:"client_id"`
	ClientName string                   `json:"client_name"`
	Status     models.AppointmentStatus `json:"status"`
}

func (r appointmentRequest) toModel() (models.Appointment, error) {
	date, err := timerange.ParseDate(r.Date)
	if err != nil {
		return models.Appointment{}, err
	}
	return models.Appointment{
		ID:         r.ID,
		Date:       date,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		ClientID:   r.ClientID,
		ClientName: r.ClientName,
		Status:     r.Status,
	}, nil
}

type appointmentResponse struct {
	ID         string                   `json:"id"`
	Date       string                   `json:"date"`
	StartTime  timerange.Clock          `json:"start_time"`
	EndTime    timerange.Clock          `json:"end_time"`
	ClientID   string                   `json:"client_id"`
	ClientName string                   `json:"client_name,omitempty"`
	Status     models.AppointmentStatus `json:"status"`
}

func toAppointmentResponse(a models.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:         a.ID,
		Date:       formatDate(a.Date),
		StartTime:  a.StartTime,
		EndTime:    a.EndTime,
		ClientID:   a.ClientID,
		ClientName: a.ClientName,
		Status:     a.Status,
	}
}

func toAppointmentResponses(appts []models.Appointment) []appointmentResponse {
	out := make([]appointmentResponse, 0, len(appts))
	for _, a := range appts {
		out = append(out, toAppointmentResponse(a))
	}
	return out
}

type moveRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type selectionCell struct {
	Day  int `json:"day"`
	Hour int `json:"hour"`
}

type selectionRequest struct {
	WeekStart string        `json:"week_start"`
	From      selectionCell `json:"from"`
	To        selectionCell `json:"to"`
	Title     string        `json:"title"`
	Color     string        `json:"color"`
	Notes     string        `json:"notes"`
	Timezone  string        `json:"timezone"`
}

type copyWeekRequest struct {
	OffsetDays int `json:"offset_days"`
}

type rangeResponse struct {
	Date      string          `json:"date"`
	StartTime timerange.Clock `json:"start_time"`
	EndTime   timerange.Clock `json:"end_time"`
}

type conflictResponse struct {
	Candidate rangeResponse         `json:"candidate"`
	Conflicts []appointmentResponse `json:"conflicts"`
}

func toConflictResponses(reports []conflict.Report) []conflictResponse {
	out := make([]conflictResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, conflictResponse{
			Candidate: rangeResponse{
				Date:      formatDate(r.Candidate.Date),
				StartTime: r.Candidate.Start,
				EndTime:   r.Candidate.End,
			},
			Conflicts: toAppointmentResponses(r.Conflicts),
		})
	}
	return out
}

// mutationResponse - сохраненное значение и предупреждения
type mutationResponse struct {
	Value     any                   `json:"value"`
	Conflicts []conflictResponse    `json:"conflicts"`
	Affected  []appointmentResponse `json:"affected_appointments,omitempty"`
}

type occurrenceResponse struct {
	TemplateID string                `json:"template_id"`
	Kind       models.OccurrenceKind `json:"kind"`
	Date       string                `json:"date"`
	Through    string                `json:"through,omitempty"`
	StartTime  timerange.Clock       `json:"start_time"`
	EndTime    timerange.Clock       `json:"end_time"`
	AllDay     bool                  `json:"all_day,omitempty"`
}

func toOccurrenceResponses(occurrences []models.Occurrence) []occurrenceResponse {
	out := make([]occurrenceResponse, 0, len(occurrences))
	for _, o := range occurrences {
		item := occurrenceResponse{
			TemplateID: o.TemplateID,
			Kind:       o.Kind,
			Date:       formatDate(o.Date),
			StartTime:  o.StartTime,
			EndTime:    o.EndTime,
			AllDay:     o.AllDay,
		}
		if !o.Through.IsZero() {
			item.Through = formatDate(o.Through)
		}
		out = append(out, item)
	}
	return out
}

type dayOccupancyResponse struct {
	Date       string         `json:"date"`
	Percentage int            `json:"percentage"`
	Band       occupancy.Band `json:"band"`
}

type occupancyResponse struct {
	WeekStart string                  `json:"week_start"`
	PerDay    []dayOccupancyResponse  `json:"per_day"`
	Weekly    occupancy.WeeklySummary `json:"weekly"`
}

func toOccupancyResponse(weekStart time.Time, summary occupancy.WeekOccupancySummary) occupancyResponse {
	out := occupancyResponse{WeekStart: formatDate(weekStart), Weekly: summary.Weekly}
	for i, day := range summary.PerDay {
		out.PerDay = append(out.PerDay, dayOccupancyResponse{
			Date:       formatDate(weekStart.AddDate(0, 0, i)),
			Percentage: day.Percentage,
			Band:       day.Band,
		})
	}
	return out
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func formatDate(t time.Time) string {
	return t.Format(timerange.DateLayout)
}
