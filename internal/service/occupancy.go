package service

import (
	"time"

	"practice-schedule/internal/occupancy"
	"practice-schedule/pkg/metrics"
	"practice-schedule/pkg/timerange"
)

// WeekOccupancy считает загрузку недели, содержащей weekStart.
// Результат кешируется до следующего изменения коллекций.
func (s *ScheduleService) WeekOccupancy(weekStart time.Time) (occupancy.WeekOccupancySummary, error) {
	snap := s.current.Load()
	week := timerange.Week(weekStart)
	key := occupancyKey{version: snap.version, week: week.Start}

	s.memoMu.Lock()
	if cached, ok := s.memo[key]; ok {
		s.memoMu.Unlock()
		return cached, nil
	}
	s.memoMu.Unlock()

	occurrences, err := s.occurrences(snap, week.Start, week.End)
	if err != nil {
		return occupancy.WeekOccupancySummary{}, err
	}
	summary := occupancy.Summarize(occupancy.Derive(week.Start, occurrences, snap.appointments))

	s.memoMu.Lock()
	for k := range s.memo {
		if k.version != snap.version {
			delete(s.memo, k)
		}
	}
	s.memo[key] = summary
	s.memoMu.Unlock()

	metrics.SetWeeklyOccupancy(summary.Weekly.AveragePercentage)
	return summary, nil
}
