package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habyss/internal/constants"
)

var (
	ErrEmptyName        = errors.New("habit name cannot be empty")
	ErrInvalidCategory  = errors.New("invalid habit category")
	ErrInvalidDateRange = errors.New("end date is before start date")
	ErrInvalidDay       = errors.New("invalid day (expected YYYY-MM-DD)")
	ErrNameTooLong      = errors.New("habit name is too long")
	ErrInvalidType      = errors.New("invalid habit type")
)

type Category string

const (
	CategoryBody   Category = "body"
	CategoryWealth Category = "wealth"
	CategoryHeart  Category = "heart"
	CategoryMind   Category = "mind"
	CategorySoul   Category = "soul"
	CategoryPlay   Category = "play"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryBody,
	CategoryWealth,
	CategoryHeart,
	CategoryMind,
	CategorySoul,
	CategoryPlay,
}

// ParseCategory accepts a category name in any case.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type HabitType string

const (
	HabitTypeBuild HabitType = "build"
	HabitTypeQuit  HabitType = "quit"
)

// ParseHabitType accepts "build" or "quit" in any case.
func ParseHabitType(s string) (HabitType, error) {
	t := HabitType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

func (t HabitType) Valid() bool {
	return t == HabitTypeBuild || t == HabitTypeQuit
}

// Habit is a recurring activity tracked on specific weekdays. A Habit with
// IsGoal set is a goal; plain habits may point at a goal through GoalID.
type Habit struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Details   string     `json:"details,omitempty"`
	Icon      string     `json:"icon,omitempty"`
	Category  Category   `json:"category"`
	Type      HabitType  `json:"type"`
	Color     string     `json:"color"`
	Days      WeekdaySet `json:"days"`
	StartDate string     `json:"start_date"`         // YYYY-MM-DD
	EndDate   string     `json:"end_date,omitempty"` // YYYY-MM-DD, empty means unbounded
	GoalValue int        `json:"goal_value"`
	Unit      string     `json:"unit"`

	IsGoal     bool   `json:"is_goal"`
	GoalID     string `json:"goal_id,omitempty"`     // parent goal for linked habits
	TargetDate string `json:"target_date,omitempty"` // YYYY-MM-DD, goals only

	CreatedAt  time.Time  `json:"created_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

// NewHabit returns a habit with every optional field defaulted. The caller
// still owns ID assignment so stores and tests can control identity.
func NewHabit(name string, now time.Time) Habit {
	return Habit{
		Name:      strings.TrimSpace(name),
		Category:  Category(constants.DefaultCategory),
		Type:      HabitType(constants.DefaultType),
		Color:     constants.DefaultColor,
		StartDate: now.Format(constants.DateFormat),
		GoalValue: 1,
		Unit:      constants.DefaultUnit,
		CreatedAt: now,
	}
}

func (h Habit) Archived() bool {
	return h.ArchivedAt != nil
}

// Validate checks the fields a habit must carry before it is stored.
func (h Habit) Validate() error {
	name := strings.TrimSpace(h.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > constants.MaxHabitNameLength {
		return fmt.Errorf("%w: %d characters (max %d)", ErrNameTooLong, len(name), constants.MaxHabitNameLength)
	}
	if !h.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, h.Category)
	}
	if h.Type != "" && !h.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, h.Type)
	}

	start, err := parseOptionalDay(h.StartDate)
	if err != nil {
		return fmt.Errorf("start date: %w", err)
	}
	end, err := parseOptionalDay(h.EndDate)
	if err != nil {
		return fmt.Errorf("end date: %w", err)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return ErrInvalidDateRange
	}
	if _, err := parseOptionalDay(h.TargetDate); err != nil {
		return fmt.Errorf("target date: %w", err)
	}
	return nil
}

func parseOptionalDay(day string) (time.Time, error) {
	if day == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}
	return t, nil
}
