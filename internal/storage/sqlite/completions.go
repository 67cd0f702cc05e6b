package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habyss/internal/models"
	"github.com/julianstephens/habyss/internal/storage"
)

const completionColumns = `id, habit_id, day, value, created_at`

func scanCompletion(row rowScanner) (models.Completion, error) {
	var c models.Completion
	var createdAt string
	if err := row.Scan(&c.ID, &c.HabitID, &c.Day, &c.Value, &createdAt); err != nil {
		return models.Completion{}, err
	}
	t, err := time.Parse(timestampLayout, createdAt)
	if err != nil {
		return models.Completion{}, fmt.Errorf("failed to parse created_at for completion %s: %w", c.ID, err)
	}
	c.CreatedAt = t
	return c, nil
}

func (s *Store) queryCompletions(query string, args ...any) ([]models.Completion, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completions := []models.Completion{}
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

func (s *Store) GetCompletion(habitID, day string) (models.Completion, error) {
	row := s.db.QueryRow(`SELECT `+completionColumns+` FROM completions WHERE habit_id = ? AND day = ?`, habitID, day)
	c, err := scanCompletion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Completion{}, fmt.Errorf("completion of %s on %s: %w", habitID, day, storage.ErrNotFound)
	}
	return c, err
}

func (s *Store) GetCompletions(habitID string) ([]models.Completion, error) {
	return s.queryCompletions(`
		SELECT `+completionColumns+` FROM completions
		WHERE habit_id = ? ORDER BY day DESC`, habitID)
}

func (s *Store) GetCompletionsInRange(habitID, startDay, endDay string) ([]models.Completion, error) {
	return s.queryCompletions(`
		SELECT `+completionColumns+` FROM completions
		WHERE habit_id = ? AND day >= ? AND day <= ?
		ORDER BY day DESC`, habitID, startDay, endDay)
}

func (s *Store) GetCompletionsForDay(day string) ([]models.Completion, error) {
	return s.queryCompletions(`
		SELECT `+completionColumns+` FROM completions
		WHERE day = ? ORDER BY created_at`, day)
}

func (s *Store) GetAllCompletions() ([]models.Completion, error) {
	return s.queryCompletions(`
		SELECT ` + completionColumns + ` FROM completions ORDER BY habit_id, day`)
}

func (s *Store) AddCompletion(c models.Completion) error {
	result, err := s.db.Exec(`
		INSERT INTO completions (`+completionColumns+`)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(habit_id, day) DO NOTHING`,
		c.ID, c.HabitID, c.Day, c.Value, formatTimestamp(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert completion: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%s on %s: %w", c.HabitID, c.Day, storage.ErrDuplicateCompletion)
	}
	return nil
}

func (s *Store) DeleteCompletion(id string) error {
	result, err := s.db.Exec(`DELETE FROM completions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOneRow(result, "completion "+id)
}

func (s *Store) ToggleCompletion(c models.Completion) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`DELETE FROM completions WHERE habit_id = ? AND day = ?`, c.HabitID, c.Day)
	if err != nil {
		return false, fmt.Errorf("failed to remove completion: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	completed := false
	if removed == 0 {
		if _, err := tx.Exec(`
			INSERT INTO completions (`+completionColumns+`)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(habit_id, day) DO NOTHING`,
			c.ID, c.HabitID, c.Day, c.Value, formatTimestamp(c.CreatedAt)); err != nil {
			return false, fmt.Errorf("failed to insert completion: %w", err)
		}
		completed = true
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return completed, nil
}
