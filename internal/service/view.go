package service

import (
	"time"

	"practice-schedule/pkg/timerange"
)

type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

func (m ViewMode) Valid() bool {
	return m == ViewDay || m == ViewWeek || m == ViewMonth
}

// CalendarView - состояние календаря одной сессии: выбранная дата, режим, боковая панель
type CalendarView struct {
	Selected    time.Time
	Mode        ViewMode
	SidebarOpen bool
}

func NewCalendarView(today time.Time) *CalendarView {
	return &CalendarView{Selected: timerange.Day(today), Mode: ViewWeek, SidebarOpen: true}
}

// Next сдвигает выбранную дату на один период текущего режима
func (v *CalendarView) Next() {
	v.shift(1)
}

func (v *CalendarView) Prev() {
	v.shift(-1)
}

func (v *CalendarView) Today(now time.Time) {
	v.Selected = timerange.Day(now)
}

// SetMode меняет режим, неизвестный режим игнорируется
func (v *CalendarView) SetMode(mode ViewMode) bool {
	if !mode.Valid() {
		return false
	}
	v.Mode = mode
	return true
}

func (v *CalendarView) ToggleSidebar() {
	v.SidebarOpen = !v.SidebarOpen
}

// WeekStart - понедельник выбранной недели
func (v *CalendarView) WeekStart() time.Time {
	return timerange.Week(v.Selected).Start
}

// Window - видимый диапазон дат для текущего режима
func (v *CalendarView) Window() timerange.DateSpan {
	switch v.Mode {
	case ViewDay:
		return timerange.DateSpan{Start: v.Selected, End: v.Selected}
	case ViewMonth:
		first := timerange.Date(v.Selected.Year(), v.Selected.Month(), 1)
		return timerange.DateSpan{Start: first, End: first.AddDate(0, 1, -1)}
	default:
		return timerange.Week(v.Selected)
	}
}

func (v *CalendarView) shift(n int) {
	switch v.Mode {
	case ViewDay:
		v.Selected = v.Selected.AddDate(0, 0, n)
	case ViewMonth:
		// к первому числу, чтобы 31 января не превратилось в 3 марта
		first := timerange.Date(v.Selected.Year(), v.Selected.Month(), 1)
		v.Selected = first.AddDate(0, n, 0)
	default:
		v.Selected = v.Selected.AddDate(0, 0, 7*n)
	}
}
