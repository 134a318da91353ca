package occupancy

import (
	"math"
)

// Band - категория загрузки дня
type Band string

const (
	BandFree       Band = "free"
	BandAvailable  Band = "available"
	BandModerate   Band = "moderate"
	BandBusy       Band = "busy"
	BandOverloaded Band = "overloaded"
)

// Entry - свободные и занятые часы за один день
type Entry struct {
	AvailableHours float64 `json:"available_hours"`
	BookedHours    float64 `json:"booked_hours"`
}

type DayOccupancy struct {
	Percentage int  `json:"percentage"`
	Band       Band `json:"band"`
}

type WeeklySummary struct {
	AveragePercentage int     `json:"average_percentage"`
	TotalBooked       float64 `json:"total_booked"`
	TotalAvailable    float64 `json:"total_available"`
}

// WeekOccupancySummary - дни с понедельника по воскресенье и итог недели
type WeekOccupancySummary struct {
	PerDay [7]DayOccupancy `json:"per_day"`
	Weekly WeeklySummary   `json:"weekly"`
}

// Percent возвращает округленную долю занятых часов, 0 если часов нет
func Percent(booked, available float64) int {
	total := booked + available
	if total <= 0 {
		return 0
	}
	return int(math.Round(booked / total * 100))
}

// BandFor - нижние границы 25, 50, 75, 90 включаются в следующую категорию
func BandFor(percentage int) Band {
	switch {
	case percentage < 25:
		return BandFree
	case percentage < 50:
		return BandAvailable
	case percentage < 75:
		return BandModerate
	case percentage < 90:
		return BandBusy
	default:
		return BandOverloaded
	}
}

func PerDay(e Entry) DayOccupancy {
	p := Percent(e.BookedHours, e.AvailableHours)
	return DayOccupancy{Percentage: p, Band: BandFor(p)}
}

// Weekly считает среднюю загрузку по суммам часов, а не по среднему дневных процентов
func Weekly(entries [7]Entry) WeeklySummary {
	var summary WeeklySummary
	for _, e := range entries {
		summary.TotalBooked += e.BookedHours
		summary.TotalAvailable += e.AvailableHours
	}
	summary.AveragePercentage = Percent(summary.TotalBooked, summary.TotalAvailable)
	return summary
}

func Summarize(entries [7]Entry) WeekOccupancySummary {
	var out WeekOccupancySummary
	for i, e := range entries {
		out.PerDay[i] = PerDay(e)
	}
	out.Weekly = Weekly(entries)
	return out
}
