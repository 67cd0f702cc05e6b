package api

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/julianstephens/habyss/internal/errors"
	"github.com/julianstephens/habyss/internal/logger"
	"github.com/julianstephens/habyss/internal/stats"
	"github.com/julianstephens/habyss/internal/storage"
	"github.com/julianstephens/habyss/internal/tracker"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to encode response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrDuplicateCompletion):
		return http.StatusConflict
	case apperrors.IsValidation(err),
		errors.Is(err, stats.ErrNotAGoal),
		errors.Is(err, tracker.ErrGoalOfGoal),
		errors.Is(err, tracker.ErrNilHabit):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondWithStoreError writes err with the matching status. Internal
// errors are logged and hidden from the client.
func respondWithStoreError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respondWithError(w, code, "Internal server error")
		return
	}
	respondWithError(w, code, err.Error())
}
