package stats

import (
	"testing"

	"github.com/julianstephens/habyss/internal/models"
)

func completionsOn(days ...string) []models.Completion {
	completions := make([]models.Completion, 0, len(days))
	for i, d := range days {
		completions = append(completions, models.Completion{
			ID:      string(rune('a' + i)),
			HabitID: "h1",
			Day:     d,
			Value:   1,
		})
	}
	return completions
}

func TestCurrentStreak(t *testing.T) {
	const today = "2024-03-10"

	tests := []struct {
		name        string
		completions []models.Completion
		want        int
	}{
		{
			name:        "no completions",
			completions: nil,
			want:        0,
		},
		{
			name:        "today yesterday and the day before",
			completions: completionsOn("2024-03-10", "2024-03-09", "2024-03-08"),
			want:        3,
		},
		{
			name:        "unordered input",
			completions: completionsOn("2024-03-08", "2024-03-10", "2024-03-09"),
			want:        3,
		},
		{
			name:        "only three days ago",
			completions: completionsOn("2024-03-07"),
			want:        0,
		},
		{
			name:        "ends yesterday",
			completions: completionsOn("2024-03-09", "2024-03-08"),
			want:        2,
		},
		{
			name:        "gap stops the walk",
			completions: completionsOn("2024-03-10", "2024-03-09", "2024-03-07", "2024-03-06"),
			want:        2,
		},
		{
			name:        "duplicate day counts once",
			completions: completionsOn("2024-03-10", "2024-03-10", "2024-03-09"),
			want:        2,
		},
		{
			name:        "future completions ignored",
			completions: completionsOn("2024-03-12", "2024-03-11"),
			want:        0,
		},
		{
			name:        "pre-filled tomorrow keeps the streak",
			completions: completionsOn("2024-03-11", "2024-03-10", "2024-03-09"),
			want:        2,
		},
		{
			name:        "across month boundary",
			completions: completionsOn("2024-03-02", "2024-03-01", "2024-02-29", "2024-02-28"),
			want:        0,
		},
		{
			name:        "malformed day skipped",
			completions: completionsOn("2024-03-10", "not-a-day"),
			want:        1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentStreak(tt.completions, today); got != tt.want {
				t.Errorf("CurrentStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCurrentStreak_LeapDay(t *testing.T) {
	completions := completionsOn("2024-03-01", "2024-02-29", "2024-02-28")
	if got := CurrentStreak(completions, "2024-03-01"); got != 3 {
		t.Errorf("CurrentStreak() = %d, want 3", got)
	}
}

func TestCurrentStreak_InvalidToday(t *testing.T) {
	if got := CurrentStreak(completionsOn("2024-03-10"), "10/03/2024"); got != 0 {
		t.Errorf("CurrentStreak() = %d, want 0", got)
	}
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name        string
		completions []models.Completion
		want        int
	}{
		{"empty", nil, 0},
		{"single day", completionsOn("2024-01-01"), 1},
		{"longest in the past", completionsOn("2024-01-01", "2024-01-02", "2024-01-03", "2024-01-10", "2024-01-11"), 3},
		{"duplicates collapse", completionsOn("2024-01-01", "2024-01-01", "2024-01-02"), 2},
		{"year boundary", completionsOn("2023-12-31", "2024-01-01"), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LongestStreak(tt.completions); got != tt.want {
				t.Errorf("LongestStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}
