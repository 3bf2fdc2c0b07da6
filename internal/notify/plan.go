package notify

import (
	"github.com/nhle/dayplan/internal/day"
	"github.com/nhle/dayplan/internal/model"
)

const (
	// intermediateSpacing is the window length that earns one intermediate
	// reminder.
	intermediateSpacing = 180
	maxIntermediate     = 3

	// oneHourBefore is the lead time of the final reminder, in minutes.
	oneHourBefore = 60

	// minGapToFinalReminder keeps intermediates away from slot 3.
	minGapToFinalReminder = 30
)

// Slot is one planned notification time.
type Slot struct {
	ID       int
	Category model.NotificationCategory
	Time     day.ClockTime
}

// BuildPlan lays out the day's notifications between start and end.
// A window with end at or before start runs past midnight.
func BuildPlan(start, end day.ClockTime) []Slot {
	final := day.FromMinutes(end.Minutes() - oneHourBefore)
	slots := []Slot{
		{ID: model.NotificationStartOfDay, Category: model.CategoryStartOfDay, Time: start},
		{ID: model.NotificationEndOfDay, Category: model.CategoryEndOfDay, Time: end},
		{ID: model.NotificationOneHourBefore, Category: model.CategoryOneHourBefore, Time: final},
	}

	total := WindowMinutes(start, end)
	n := min(maxIntermediate, total/intermediateSpacing)
	if n == 0 {
		return slots
	}

	step := total / (n + 1)
	for i := 1; i <= n; i++ {
		t := day.FromMinutes(start.Minutes() + i*step)
		if circularDistance(t.Minutes(), final.Minutes()) <= minGapToFinalReminder {
			continue
		}
		slots = append(slots, Slot{
			ID:       model.NotificationOneHourBefore + i,
			Category: model.CategoryIntermediate,
			Time:     t,
		})
	}
	return slots
}

// WindowMinutes returns the length of the day window in minutes.
func WindowMinutes(start, end day.ClockTime) int {
	total := end.Minutes() - start.Minutes()
	if total <= 0 {
		total += day.MinutesPerDay
	}
	return total
}

func circularDistance(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	return min(d, day.MinutesPerDay-d)
}
