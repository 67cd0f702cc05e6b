package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/habyss/internal/logger"
	"github.com/julianstephens/habyss/internal/models"
)

const (
	ExitFailure    = 1
	ExitValidation = 2
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// IsValidation reports whether err comes from rejected user input rather
// than a failing store or environment.
func IsValidation(err error) bool {
	for _, target := range []error{
		models.ErrEmptyName,
		models.ErrInvalidCategory,
		models.ErrInvalidDateRange,
		models.ErrInvalidDay,
		models.ErrNameTooLong,
		models.ErrInvalidType,
		models.ErrInvalidWeekday,
	} {
		if stderrors.Is(err, target) {
			return true
		}
	}
	return false
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsValidation(err):
		return ExitValidation
	default:
		return ExitFailure
	}
}

// Fatal logs an error and exits the program
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(ExitCode(err))
	}
}
