package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
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
	var category, habitType, createdAt string
	var days int
	var isGoal int
	var endDate, goalID, targetDate, archivedAt sql.NullString

	err := row.Scan(&h.ID, &h.Name, &h.Details, &h.Icon, &category, &habitType, &h.Color, &days,
		&h.StartDate, &endDate, &h.GoalValue, &h.Unit, &isGoal, &goalID, &targetDate, &createdAt, &archivedAt)
	if err != nil {
		return models.Habit{}, err
	}

	h.Category = models.Category(category)
	h.Type = models.HabitType(habitType)
	h.Days = models.WeekdaySet(days)
	h.IsGoal = isGoal != 0
	h.EndDate = endDate.String
	h.GoalID = goalID.String
	h.TargetDate = targetDate.String

	h.CreatedAt, err = time.Parse(timestampLayout, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
	}
	if archivedAt.Valid {
		t, err := time.Parse(timestampLayout, archivedAt.String)
		if err != nil {
			return models.Habit{}, fmt.Errorf("failed to parse archived_at for habit %s: %w", h.ID, err)
		}
		h.ArchivedAt = &t
	}
	return h, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func (s *Store) AddHabit(habit models.Habit) error {
	if err := habit.Validate(); err != nil {
		return err
	}
	var archivedAt sql.NullString
	if habit.ArchivedAt != nil {
		archivedAt = nullString(formatTimestamp(*habit.ArchivedAt))
	}

	isGoal := 0
	if habit.IsGoal {
		isGoal = 1
	}

	_, err := s.db.Exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.Name, habit.Details, habit.Icon, string(habit.Category), string(habit.Type),
		habit.Color, int(habit.Days), habit.StartDate, nullString(habit.EndDate), habit.GoalValue,
		habit.Unit, isGoal, nullString(habit.GoalID), nullString(habit.TargetDate),
		formatTimestamp(habit.CreatedAt), archivedAt)
	if err != nil {
		return fmt.Errorf("failed to insert habit %q: %w", habit.Name, err)
	}
	return nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetHabitByName(name string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE name = ? ORDER BY created_at LIMIT 1`, name)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %q: %w", name, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) ListHabits(q storage.HabitQuery) ([]models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE 1=1`
	var args []any
	if !q.IncludeArchived {
		query += " AND archived_at IS NULL"
	}
	switch q.Kind {
	case storage.KindHabits:
		query += " AND is_goal = 0"
	case storage.KindGoals:
		query += " AND is_goal = 1"
	}
	if q.GoalID != "" {
		query += " AND goal_id = ?"
		args = append(args, q.GoalID)
	}
	if q.Sort == storage.SortByName {
		query += " ORDER BY name COLLATE NOCASE, id"
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
	var archivedAt sql.NullString
	if habit.ArchivedAt != nil {
		archivedAt = nullString(formatTimestamp(*habit.ArchivedAt))
	}
	isGoal := 0
	if habit.IsGoal {
		isGoal = 1
	}

	result, err := s.db.Exec(`
		UPDATE habits SET
			name = ?, details = ?, icon = ?, category = ?, type = ?, color = ?, days = ?,
			start_date = ?, end_date = ?, goal_value = ?, unit = ?, is_goal = ?, goal_id = ?,
			target_date = ?, archived_at = ?
		WHERE id = ?`,
		habit.Name, habit.Details, habit.Icon, string(habit.Category), string(habit.Type), habit.Color,
		int(habit.Days), habit.StartDate, nullString(habit.EndDate), habit.GoalValue, habit.Unit, isGoal,
		nullString(habit.GoalID), nullString(habit.TargetDate), archivedAt, habit.ID)
	if err != nil {
		return fmt.Errorf("failed to update habit %q: %w", habit.Name, err)
	}
	return expectOneRow(result, "habit "+habit.ID)
}

func (s *Store) ArchiveHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET archived_at = ? WHERE id = ? AND archived_at IS NULL`,
		formatTimestamp(time.Now()), id)
	if err != nil {
		return err
	}
	return expectOneRow(result, "active habit "+id)
}

func (s *Store) UnarchiveHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET archived_at = NULL WHERE id = ? AND archived_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	return expectOneRow(result, "archived habit "+id)
}

func (s *Store) DeleteHabit(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM completions WHERE habit_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete completions of habit %s: %w", id, err)
	}
	if _, err := tx.Exec(`UPDATE habits SET goal_id = NULL WHERE goal_id = ?`, id); err != nil {
		return fmt.Errorf("failed to unlink habits from goal %s: %w", id, err)
	}
	result, err := tx.Exec(`DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete habit %s: %w", id, err)
	}
	if err := expectOneRow(result, "habit "+id); err != nil {
		return err
	}
	return tx.Commit()
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
