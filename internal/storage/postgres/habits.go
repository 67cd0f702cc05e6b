package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/julianstephens/habyss/internal/models"
	"github.com/julianstephens/habyss/internal/storage"
)

const habitColumns = `id, name, details, icon, category, type, color, days, start_date, end_date,
	goal_value, unit, is_goal, goal_id, target_date, created_at, archived_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var category, habitType string
	var days int
	var endDate, goalID, targetDate sql.NullString
	var archivedAt sql.NullTime

	err := row.Scan(&h.ID, &h.Name, &h.Details, &h.Icon, &category, &habitType, &h.Color, &days,
		&h.StartDate, &endDate, &h.GoalValue, &h.Unit, &h.IsGoal, &goalID, &targetDate, &h.CreatedAt, &archivedAt)
	if err != nil {
		return models.Habit{}, err
	}

	h.Category = models.Category(category)
	h.Type = models.HabitType(habitType)
	h.Days = models.WeekdaySet(days)
	h.EndDate = endDate.String
	h.GoalID = goalID.String
	h.TargetDate = targetDate.String
	if archivedAt.Valid {
		t := archivedAt.Time
		h.ArchivedAt = &t
	}
	return h, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func (s *Store) AddHabit(habit models.Habit) error {
	if err := habit.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		habit.ID, habit.Name, habit.Details, habit.Icon, string(habit.Category), string(habit.Type),
		habit.Color, int(habit.Days), habit.StartDate, nullString(habit.EndDate), habit.GoalValue,
		habit.Unit, habit.IsGoal, nullString(habit.GoalID), nullString(habit.TargetDate),
		habit.CreatedAt, nullTime(habit.ArchivedAt))
	if err != nil {
		return fmt.Errorf("failed to insert habit %q: %w", habit.Name, err)
	}
	return nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = $1`, id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetHabitByName(name string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE name = $1 ORDER BY created_at LIMIT 1`, name)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %q: %w", name, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) ListHabits(q storage.HabitQuery) ([]models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE TRUE`
	var args []any
	if !q.IncludeArchived {
		query += " AND archived_at IS NULL"
	}
	switch q.Kind {
	case storage.KindHabits:
		query += " AND NOT is_goal"
	case storage.KindGoals:
		query += " AND is_goal"
	}
	if q.GoalID != "" {
		args = append(args, q.GoalID)
		query += " AND goal_id = $" + strconv.Itoa(len(args))
	}
	if q.Sort == storage.SortByName {
		query += " ORDER BY lower(name), id"
	} else {
		query += " ORDER BY created_at, id"
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	if err := habit.Validate(); err != nil {
		return err
	}
	result, err := s.db.Exec(`
		UPDATE habits SET
			name = $1, details = $2, icon = $3, category = $4, type = $5, color = $6, days = $7,
			start_date = $8, end_date = $9, goal_value = $10, unit = $11, is_goal = $12, goal_id = $13,
			target_date = $14, archived_at = $15
		WHERE id = $16`,
		habit.Name, habit.Details, habit.Icon, string(habit.Category), string(habit.Type), habit.Color,
		int(habit.Days), habit.StartDate, nullString(habit.EndDate), habit.GoalValue, habit.Unit, habit.IsGoal,
		nullString(habit.GoalID), nullString(habit.TargetDate), nullTime(habit.ArchivedAt), habit.ID)
	if err != nil {
		return fmt.Errorf("failed to update habit %q: %w", habit.Name, err)
	}
	return expectOneRow(result, "habit "+habit.ID)
}

func (s *Store) ArchiveHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET archived_at = $1 WHERE id = $2 AND archived_at IS NULL`,
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return expectOneRow(result, "active habit "+id)
}

func (s *Store) UnarchiveHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET archived_at = NULL WHERE id = $1 AND archived_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	return expectOneRow(result, "archived habit "+id)
}

// DeleteHabit relies on ON DELETE CASCADE for completions and ON DELETE SET
// NULL for habits linked to a deleted goal.
func (s *Store) DeleteHabit(id string) error {
	result, err := s.db.Exec(`DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete habit %s: %w", id, err)
	}
	return expectOneRow(result, "habit "+id)
}

func expectOneRow(result sql.Result, what string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	return nil
}
