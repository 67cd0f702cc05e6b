package models

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestHabit_Validate(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		modify  func(h *Habit)
		wantErr error
	}{
		{name: "defaults are valid", modify: func(h *Habit) {}},
		{name: "blank name", modify: func(h *Habit) { h.Name = "   " }, wantErr: ErrEmptyName},
		{name: "long name", modify: func(h *Habit) { h.Name = strings.Repeat("a", 121) }, wantErr: ErrNameTooLong},
		{name: "bad category", modify: func(h *Habit) { h.Category = "work" }, wantErr: ErrInvalidCategory},
		{name: "bad type", modify: func(h *Habit) { h.Type = "keep" }, wantErr: ErrInvalidType},
		{name: "malformed start", modify: func(h *Habit) { h.StartDate = "03/10/2024" }, wantErr: ErrInvalidDay},
		{name: "end before start", modify: func(h *Habit) { h.EndDate = "2024-03-09" }, wantErr: ErrInvalidDateRange},
		{name: "end on start", modify: func(h *Habit) { h.EndDate = "2024-03-10" }},
		{name: "malformed target", modify: func(h *Habit) { h.TargetDate = "2024-13-01" }, wantErr: ErrInvalidDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHabit("Read", now)
			tt.modify(&h)
			err := h.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewHabit(t *testing.T) {
	now := time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)
	h := NewHabit("  Read  ", now)
	if h.Name != "Read" {
		t.Errorf("Name = %q", h.Name)
	}
	if h.StartDate != "2024-03-10" || h.GoalValue != 1 || h.Archived() {
		t.Errorf("unexpected defaults: %+v", h)
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Mind ")
	if err != nil || c != CategoryMind {
		t.Errorf("ParseCategory() = %q, %v", c, err)
	}
	if _, err := ParseCategory("work"); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("ParseCategory(work) error = %v", err)
	}
	if _, err := ParseHabitType("QUIT"); err != nil {
		t.Errorf("ParseHabitType(QUIT) error = %v", err)
	}
}
