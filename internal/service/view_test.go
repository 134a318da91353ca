package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practice-schedule/internal/models"
	"practice-schedule/pkg/timerange"
)

func TestCalendarViewNavigation(t *testing.T) {
	view := NewCalendarView(timerange.Date(2024, 1, 17))
	assert.Equal(t, ViewWeek, view.Mode)
	assert.Equal(t, timerange.Date(2024, 1, 15), view.WeekStart())

	view.Next()
	assert.Equal(t, timerange.Date(2024, 1, 22), view.WeekStart())
	view.Prev()
	view.Prev()
	assert.Equal(t, timerange.Date(2024, 1, 8), view.WeekStart())

	require.True(t, view.SetMode(ViewMonth))
	assert.False(t, view.SetMode("year"))
	view.Today(timerange.Date(2024, 1, 31))
	view.Next()
	assert.Equal(t, timerange.Date(2024, 2, 1), view.Selected)
	assert.Equal(t, timerange.DateSpan{Start: timerange.Date(2024, 2, 1), End: timerange.Date(2024, 2, 29)}, view.Window())

	view.SetMode(ViewDay)
	view.Prev()
	assert.Equal(t, timerange.DateSpan{Start: timerange.Date(2024, 1, 31), End: timerange.Date(2024, 1, 31)}, view.Window())

	open := view.SidebarOpen
	view.ToggleSidebar()
	assert.NotEqual(t, open, view.SidebarOpen)
}

type stubCopier struct {
	calls  int
	offset int
	err    error
}

func (c *stubCopier) CopyWeekForward(ctx context.Context, offsetDays int) (MutationResult[[]models.Slot], error) {
	c.calls++
	c.offset = offsetDays
	return MutationResult[[]models.Slot]{Value: []models.Slot{{ID: "copy"}}}, c.err
}

func TestAutoCopierRunOnce(t *testing.T) {
	copier := &stubCopier{}
	auto := NewAutoCopier(copier, "", quietLogger())

	auto.RunOnce(context.Background())
	assert.Equal(t, 1, copier.calls)
	assert.Equal(t, DefaultCopyOffsetDays, copier.offset)

	copier.err = ErrMutationInFlight
	auto.RunOnce(context.Background())
	assert.Equal(t, 2, copier.calls)
}

func TestAutoCopierStart(t *testing.T) {
	disabled := NewAutoCopier(&stubCopier{}, "", quietLogger())
	require.NoError(t, disabled.Start(context.Background()))
	disabled.Stop()

	broken := NewAutoCopier(&stubCopier{}, "every friday", quietLogger())
	assert.Error(t, broken.Start(context.Background()))

	scheduled := NewAutoCopier(&stubCopier{}, "0 18 * * FRI", quietLogger())
	require.NoError(t, scheduled.Start(context.Background()))
	scheduled.Stop()
}

func TestAutoCopierAgainstService(t *testing.T) {
	f := newFakeRepos()
	f.slots.items["orig"] = weekdaySlot("orig")
	svc := newTestService(f)
	require.NoError(t, svc.Load(context.Background()))

	NewAutoCopier(svc, "", quietLogger()).RunOnce(context.Background())
	assert.Len(t, svc.Slots(), 2)
}
