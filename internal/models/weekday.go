package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidWeekday = errors.New("invalid weekday")

// WeekdaySet is a set of weekdays stored as a bitmask. Bit i corresponds to
// time.Weekday(i), so the mapping is Sunday-first and independent of locale.
type WeekdaySet uint8

// EveryDay has all seven weekdays set.
const EveryDay WeekdaySet = 1<<7 - 1

var weekdaySymbols = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

var weekdayNames = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"tue":       time.Tuesday,
	"tuesday":   time.Tuesday,
	"wed":       time.Wednesday,
	"wednesday": time.Wednesday,
	"thu":       time.Thursday,
	"thursday":  time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
}

// NewWeekdaySet builds a set from individual weekdays. Duplicates collapse.
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.Add(d)
	}
	return s
}

// ParseWeekdays parses a comma-separated list of weekday names or numbers
// (0=Sunday, 6=Saturday). "daily" and "all" select every day.
func ParseWeekdays(s string) (WeekdaySet, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, nil
	}
	if s == "daily" || s == "all" {
		return EveryDay, nil
	}

	var set WeekdaySet
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if wd, ok := weekdayNames[part]; ok {
			set = set.Add(wd)
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 || num > 6 {
			return 0, fmt.Errorf("%w: %s", ErrInvalidWeekday, part)
		}
		set = set.Add(time.Weekday(num))
	}
	return set, nil
}

func (s WeekdaySet) Add(d time.Weekday) WeekdaySet {
	if d < time.Sunday || d > time.Saturday {
		return s
	}
	return s | 1<<uint(d)
}

func (s WeekdaySet) Remove(d time.Weekday) WeekdaySet {
	if d < time.Sunday || d > time.Saturday {
		return s
	}
	return s &^ (1 << uint(d))
}

func (s WeekdaySet) Has(d time.Weekday) bool {
	if d < time.Sunday || d > time.Saturday {
		return false
	}
	return s&(1<<uint(d)) != 0
}

func (s WeekdaySet) Empty() bool {
	return s&EveryDay == 0
}

// Days returns the members in Sunday-first order.
func (s WeekdaySet) Days() []time.Weekday {
	var days []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

// Symbols returns the lowercase three-letter symbols of the members.
func (s WeekdaySet) Symbols() []string {
	symbols := []string{}
	for _, d := range s.Days() {
		symbols = append(symbols, weekdaySymbols[d])
	}
	return symbols
}

func (s WeekdaySet) String() string {
	switch {
	case s.Empty():
		return "none"
	case s&EveryDay == EveryDay:
		return "daily"
	default:
		return strings.Join(s.Symbols(), ",")
	}
}

// MarshalJSON encodes the set as a list of weekday symbols.
func (s WeekdaySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Symbols())
}

// UnmarshalJSON accepts a list of weekday names or numbers.
func (s *WeekdaySet) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("weekdays must be a list: %w", err)
	}

	var set WeekdaySet
	for _, item := range raw {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("%w: empty weekday", ErrInvalidWeekday)
			}
			parsed, err := ParseWeekdays(name)
			if err != nil {
				return err
			}
			set |= parsed
			continue
		}
		var num int
		if err := json.Unmarshal(item, &num); err != nil || num < 0 || num > 6 {
			return fmt.Errorf("%w: %s", ErrInvalidWeekday, string(item))
		}
		set = set.Add(time.Weekday(num))
	}
	*s = set
	return nil
}
