package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/habyss/internal/models"
	"github.com/julianstephens/habyss/internal/storage"
)

const completionColumns = `id, habit_id, day, value, created_at`

func scanCompletion(row rowScanner) (models.Completion, error) {
	var c models.Completion
	if err := row.Scan(&c.ID, &c.HabitID, &c.Day, &c.Value, &c.CreatedAt); err != nil {
		return models.Completion{}, err
	}
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
	row := s.db.QueryRow(`SELECT `+completionColumns+` FROM completions WHERE habit_id = $1 AND day = $2`, habitID, day)
	c, err := scanCompletion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Completion{}, fmt.Errorf("completion of %s on %s: %w", habitID, day, storage.ErrNotFound)
	}
	return c, err
}

func (s *Store) GetCompletions(habitID string) ([]models.Completion, error) {
	return s.queryCompletions(`
		SELECT `+completionColumns+` FROM completions
		WHERE habit_id = $1 ORDER BY day DESC`, habitID)
}

func (s *Store) GetCompletionsInRange(habitID, startDay, endDay string) ([]models.Completion, error) {
	return s.queryCompletions(`
		SELECT `+completionColumns+` FROM completions
		WHERE habit_id = $1 AND day >= $2 AND day <= $3
		ORDER BY day DESC`, habitID, startDay, endDay)
}

func (s *Store) GetCompletionsForDay(day string) ([]models.Completion, error) {
	return s.queryCompletions(`
		SELECT `+completionColumns+` FROM completions
		WHERE day = $1 ORDER BY created_at`, day)
}

func (s *Store) GetAllCompletions() ([]models.Completion, error) {
	return s.queryCompletions(`
		SELECT ` + completionColumns + ` FROM completions ORDER BY habit_id, day`)
}

func (s *Store) AddCompletion(c models.Completion) error {
	result, err := s.db.Exec(`
		INSERT INTO completions (`+completionColumns+`)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (habit_id, day) DO NOTHING`,
		c.ID, c.HabitID, c.Day, c.Value, c.CreatedAt)
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
	result, err := s.db.Exec(`DELETE FROM completions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(result, "completion "+id)
}

// ToggleCompletion deletes first and inserts only when nothing was deleted.
// A concurrent insert for the same day is absorbed by ON CONFLICT, leaving
// the habit completed either way.
func (s *Store) ToggleCompletion(c models.Completion) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`DELETE FROM completions WHERE habit_id = $1 AND day = $2`, c.HabitID, c.Day)
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
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (habit_id, day) DO NOTHING`,
			c.ID, c.HabitID, c.Day, c.Value, c.CreatedAt); err != nil {
			return false, fmt.Errorf("failed to insert completion: %w", err)
		}
		completed = true
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return completed, nil
}
