package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practice-schedule/internal/models"
	"practice-schedule/pkg/timerange"
)

func appt(id string, day int, start, end timerange.Clock, status models.AppointmentStatus) models.Appointment {
	return models.Appointment{
		ID:        id,
		Date:      timerange.Date(2024, 1, day),
		StartTime: start,
		EndTime:   end,
		ClientID:  "client-" + id,
		Status:    status,
	}
}

func fixture() []models.Appointment {
	return []models.Appointment{
		appt("a", 15, timerange.ClockOf(9, 0), timerange.ClockOf(10, 0), models.StatusUpcoming),
		appt("b", 15, timerange.ClockOf(10, 0), timerange.ClockOf(11, 0), models.StatusCancelled),
		appt("c", 15, timerange.ClockOf(10, 30), timerange.ClockOf(11, 30), models.StatusPending),
		appt("d", 16, timerange.ClockOf(10, 0), timerange.ClockOf(11, 0), models.StatusUpcoming),
		appt("e", 15, timerange.ClockOf(11, 0), timerange.ClockOf(12, 0), models.StatusNoShow),
	}
}

func ids(appts []models.Appointment) []string {
	out := make([]string, 0, len(appts))
	for _, a := range appts {
		out = append(out, a.ID)
	}
	return out
}

func TestFindConflicts(t *testing.T) {
	appts := fixture()
	candidate, err := timerange.New(timerange.Date(2024, 1, 15), timerange.ClockOf(9, 30), timerange.ClockOf(11, 0))
	require.NoError(t, err)

	found := FindConflicts(candidate, appts, "")
	assert.Equal(t, []string{"a", "c"}, ids(found), "cancelled and back-to-back appointments are not conflicts")
}

func TestFindConflictsExcludesEditedAppointment(t *testing.T) {
	appts := fixture()
	candidate := appts[0].Range()

	assert.Equal(t, []string{"a"}, ids(FindConflicts(candidate, appts, "")))
	assert.Empty(t, FindConflicts(candidate, appts, "a"))
}

func TestFindConflictsDoesNotMutateInput(t *testing.T) {
	appts := fixture()
	before := append([]models.Appointment(nil), appts...)
	candidate := appts[2].Range()

	found := FindConflicts(candidate, appts, "")
	require.NotEmpty(t, found)
	found[0].ClientName = "changed"

	assert.Equal(t, before, appts)
}

func TestFindAffectedAppointmentsIgnoresTimeOfDay(t *testing.T) {
	appts := fixture()
	span := timerange.DateSpan{Start: timerange.Date(2024, 1, 15), End: timerange.Date(2024, 1, 15)}

	assert.Equal(t, []string{"a", "c", "e"}, ids(FindAffectedAppointments(span, appts)))

	span.End = timerange.Date(2024, 1, 16)
	assert.Equal(t, []string{"a", "c", "d", "e"}, ids(FindAffectedAppointments(span, appts)))
}

func TestReports(t *testing.T) {
	appts := fixture()
	occurrences := []models.Occurrence{
		{
			TemplateID: "slot",
			Date:       timerange.Date(2024, 1, 15),
			Through:    timerange.Date(2024, 1, 16),
			StartTime:  timerange.ClockOf(8, 0),
			EndTime:    timerange.ClockOf(9, 30),
			Kind:       models.KindAvailability,
		},
		{
			TemplateID: "off",
			Date:       timerange.Date(2024, 1, 16),
			Kind:       models.KindAbsence,
			AllDay:     true,
		},
	}

	reports := Reports(occurrences, appts, "")
	require.Len(t, reports, 2)
	assert.Equal(t, []string{"a"}, ids(reports[0].Conflicts))
	assert.Equal(t, timerange.EndOfDay, reports[1].Candidate.End)
	assert.Equal(t, []string{"d"}, ids(reports[1].Conflicts))
	assert.Equal(t, 2, Count(reports))
}

func TestAffectedByOccurrencesDeduplicates(t *testing.T) {
	appts := fixture()
	occurrences := []models.Occurrence{
		{Date: timerange.Date(2024, 1, 15), Through: timerange.Date(2024, 1, 16)},
		{Date: timerange.Date(2024, 1, 16)},
	}
	assert.Equal(t, []string{"a", "c", "d", "e"}, ids(AffectedByOccurrences(occurrences, appts)))
}
