package schedule

import (
	"testing"
	"time"

	"github.com/julianstephens/habyss/internal/models"
)

func testHabit(days models.WeekdaySet) models.Habit {
	return models.Habit{
		ID:        "h1",
		Name:      "Stretch",
		Category:  models.CategoryBody,
		Days:      days,
		StartDate: "2024-01-01",
	}
}

func TestIsDue_EmptyScheduleNeverDue(t *testing.T) {
	h := testHabit(0)
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 14; i++ {
		d := start.AddDate(0, 0, i)
		if IsDue(h, d) {
			t.Errorf("IsDue(%s) = true for empty schedule", d.Format("2006-01-02"))
		}
	}
}

func TestIsDue(t *testing.T) {
	weekdays := models.NewWeekdaySet(time.Monday, time.Wednesday, time.Friday)

	tests := []struct {
		name   string
		habit  func() models.Habit
		date   time.Time
		expect bool
	}{
		{
			name:   "scheduled weekday",
			habit:  func() models.Habit { return testHabit(weekdays) },
			date:   time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC), // Wednesday
			expect: true,
		},
		{
			name:   "unscheduled weekday",
			habit:  func() models.Habit { return testHabit(weekdays) },
			date:   time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC), // Thursday
			expect: false,
		},
		{
			name:   "sunday is bit zero",
			habit:  func() models.Habit { return testHabit(models.NewWeekdaySet(time.Sunday)) },
			date:   time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
			expect: true,
		},
		{
			name:   "before start date",
			habit:  func() models.Habit { return testHabit(models.EveryDay) },
			date:   time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC),
			expect: false,
		},
		{
			name: "on end date",
			habit: func() models.Habit {
				h := testHabit(models.EveryDay)
				h.EndDate = "2024-01-10"
				return h
			},
			date:   time.Date(2024, 1, 10, 23, 59, 0, 0, time.UTC),
			expect: true,
		},
		{
			name: "after end date",
			habit: func() models.Habit {
				h := testHabit(models.EveryDay)
				h.EndDate = "2024-01-10"
				return h
			},
			date:   time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC),
			expect: false,
		},
		{
			name: "goals are never due",
			habit: func() models.Habit {
				h := testHabit(models.EveryDay)
				h.IsGoal = true
				return h
			},
			date:   time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			expect: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDue(tt.habit(), tt.date); got != tt.expect {
				t.Errorf("IsDue() = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestIsDue_UsesDateLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	h := testHabit(models.NewWeekdaySet(time.Tuesday))
	// Monday 20:00 UTC is already Tuesday in Tokyo.
	instant := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	if IsDue(h, instant) {
		t.Error("IsDue() in UTC = true, want false")
	}
	if !IsDue(h, instant.In(tokyo)) {
		t.Error("IsDue() in Tokyo = false, want true")
	}
}

func TestIsDueOn_Malformed(t *testing.T) {
	if IsDueOn(testHabit(models.EveryDay), "01/02/2024") {
		t.Error("IsDueOn() = true for malformed day")
	}
}

func TestDueOn(t *testing.T) {
	archivedAt := time.Now()
	daily := testHabit(models.EveryDay)
	archived := testHabit(models.EveryDay)
	archived.ID = "archived"
	archived.ArchivedAt = &archivedAt
	goal := testHabit(models.EveryDay)
	goal.ID = "goal"
	goal.IsGoal = true
	weekend := testHabit(models.NewWeekdaySet(time.Saturday, time.Sunday))
	weekend.ID = "weekend"

	due := DueOn([]models.Habit{daily, archived, goal, weekend}, time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC))
	if len(due) != 1 || due[0].ID != "h1" {
		t.Errorf("DueOn() = %+v, want only h1", due)
	}
}

func TestScheduledDays(t *testing.T) {
	h := testHabit(models.NewWeekdaySet(time.Monday, time.Thursday))

	tests := []struct {
		name     string
		from, to string
		want     int
	}{
		{"one week", "2024-01-01", "2024-01-07", 2},
		{"two weeks", "2024-01-01", "2024-01-14", 4},
		{"clipped by start date", "2023-12-25", "2024-01-03", 1},
		{"single day", "2024-01-04", "2024-01-04", 1},
		{"inverted range", "2024-01-07", "2024-01-01", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScheduledDays(h, tt.from, tt.to)
			if err != nil {
				t.Fatalf("ScheduledDays() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ScheduledDays(%s, %s) = %d, want %d", tt.from, tt.to, got, tt.want)
			}
		})
	}

	if _, err := ScheduledDays(h, "bad", "2024-01-01"); err == nil {
		t.Error("ScheduledDays() with bad day returned nil error")
	}
}
