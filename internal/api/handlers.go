package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/julianstephens/habyss/internal/constants"
	"github.com/julianstephens/habyss/internal/logger"
	"github.com/julianstephens/habyss/internal/models"
	"github.com/julianstephens/habyss/internal/stats"
	"github.com/julianstephens/habyss/internal/storage"
	"github.com/julianstephens/habyss/internal/tracker"
	"github.com/julianstephens/habyss/internal/utils"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.GetSettings(); err != nil {
		logger.Warn("Health check failed", "error", err)
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  "store unavailable",
		})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": constants.AppName,
		"version": constants.Version,
	})
}

// habitFromPath loads the habit named by the {id} route variable, writing
// the error response itself when that fails.
func (s *Server) habitFromPath(w http.ResponseWriter, r *http.Request) (models.Habit, bool) {
	habit, err := s.store.GetHabit(mux.Vars(r)["id"])
	if err != nil {
		respondWithStoreError(w, r, err)
		return models.Habit{}, false
	}
	return habit, true
}

// dateParam reads ?date=YYYY-MM-DD in the tracker's timezone, defaulting to now.
func (s *Server) dateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return s.tracker.Now(), true
	}
	date, err := utils.ParseDateInLocation(raw, s.tracker.Location())
	if err != nil {
		respondWithStoreError(w, r, err)
		return time.Time{}, false
	}
	return date, true
}

func (s *Server) windowParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("window")
	if raw == "" {
		return s.defaultWindow(), true
	}
	window, err := strconv.Atoi(raw)
	if err != nil || window <= 0 || window > constants.MaxConsistencyWindow {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("window must be between 1 and %d days", constants.MaxConsistencyWindow))
		return 0, false
	}
	return window, true
}

func (s *Server) defaultWindow() int {
	if s.opts.WindowDays > 0 {
		return s.opts.WindowDays
	}
	settings, err := s.store.GetSettings()
	if err != nil || settings.ConsistencyWindowDays <= 0 {
		return constants.DefaultConsistencyWindow
	}
	return settings.ConsistencyWindowDays
}

func (s *Server) listHabits(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := storage.HabitQuery{
		Kind:   storage.ParseHabitKind(params.Get("kind")),
		Sort:   storage.ParseSortOrder(params.Get("sort")),
		GoalID: params.Get("goal"),
	}
	if raw := params.Get("archived"); raw != "" {
		archived, err := strconv.ParseBool(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "archived must be true or false")
			return
		}
		query.IncludeArchived = archived
	}

	habits, err := s.store.ListHabits(query)
	if err != nil {
		respondWithStoreError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, habits)
}

type habitRequest struct {
	Name       string             `json:"name"`
	Details    string             `json:"details"`
	Icon       string             `json:"icon"`
	Category   string             `json:"category"`
	Type       string             `json:"type"`
	Color      string             `json:"color"`
	Days       *models.WeekdaySet `json:"days"`
	StartDate  string             `json:"start_date"`
	EndDate    string             `json:"end_date"`
	GoalValue  int                `json:"goal_value"`
	Unit       string             `json:"unit"`
	IsGoal     bool               `json:"is_goal"`
	GoalID     string             `json:"goal_id"`
	TargetDate string             `json:"target_date"`
}

// habit builds a new habit from the request. Omitted days schedule the
// habit every day; an explicit empty list is kept and never falls due.
func (req habitRequest) habit(now time.Time, defaultColor string) (models.Habit, error) {
	h := models.NewHabit(req.Name, now)
	h.ID = uuid.New().String()
	h.Details = strings.TrimSpace(req.Details)
	h.Icon = req.Icon
	h.Days = models.EveryDay
	if defaultColor != "" {
		h.Color = defaultColor
	}

	if req.Category != "" {
		c, err := models.ParseCategory(req.Category)
		if err != nil {
			return models.Habit{}, err
		}
		h.Category = c
	}
	if req.Type != "" {
		t, err := models.ParseHabitType(req.Type)
		if err != nil {
			return models.Habit{}, err
		}
		h.Type = t
	}
	if req.Color != "" {
		h.Color = req.Color
	}
	if req.Days != nil {
		h.Days = *req.Days
	}
	if req.StartDate != "" {
		h.StartDate = req.StartDate
	}
	h.EndDate = req.EndDate
	if req.GoalValue > 0 {
		h.GoalValue = req.GoalValue
	}
	if req.Unit != "" {
		h.Unit = req.Unit
	}
	h.IsGoal = req.IsGoal
	h.TargetDate = req.TargetDate
	if h.IsGoal && req.GoalID != "" {
		return models.Habit{}, tracker.ErrGoalOfGoal
	}
	h.GoalID = req.GoalID

	if len(h.Details) > constants.MaxHabitDetailsLength {
		return models.Habit{}, fmt.Errorf("details exceed %d characters", constants.MaxHabitDetailsLength)
	}
	return h, h.Validate()
}

func (s *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	var req habitRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var defaultColor string
	if settings, err := s.store.GetSettings(); err == nil {
		defaultColor = settings.DefaultColor
	}
	habit, err := req.habit(s.tracker.Now(), defaultColor)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if habit.GoalID != "" {
		if _, err := s.tracker.Goal(habit.GoalID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				respondWithError(w, http.StatusBadRequest, fmt.Sprintf("goal %s does not exist", habit.GoalID))
				return
			}
			respondWithStoreError(w, r, err)
			return
		}
	}

	if err := s.store.AddHabit(habit); err != nil {
		respondWithStoreError(w, r, err)
		return
	}
	logger.Info("Created habit", "id", habit.ID, "name", habit.Name, "goal", habit.IsGoal)
	respondWithJSON(w, http.StatusCreated, habit)
}

func (s *Server) getHabit(w http.ResponseWriter, r *http.Request) {
	habit, ok := s.habitFromPath(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, habit)
}

func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.DeleteHabit(id); err != nil {
		respondWithStoreError(w, r, err)
		return
	}
	logger.Info("Deleted habit", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) archiveHabit(w http.ResponseWriter, r *http.Request) {
	s.setArchived(w, r, s.store.ArchiveHabit)
}

func (s *Server) unarchiveHabit(w http.ResponseWriter, r *http.Request) {
	s.setArchived(w, r, s.store.UnarchiveHabit)
}

func (s *Server) setArchived(w http.ResponseWriter, r *http.Request, apply func(id string) error) {
	id := mux.Vars(r)["id"]
	if err := apply(id); err != nil {
		respondWithStoreError(w, r, err)
		return
	}
	habit, err := s.store.GetHabit(id)
	if err != nil {
		respondWithStoreError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, habit)
}

type toggleResponse struct {
	HabitID   string `json:"habit_id"`
	Day       string `json:"day"`
	Completed bool   `json:"completed"`
}

func (s *Server) toggleHabit(w http.ResponseWriter, r *http.Request) {
	habit, ok := s.habitFromPath(w, r)
	if !ok {
		return
	}
	if habit.IsGoal {
		respondWithError(w, http.StatusBadRequest, "goals are completed through their linked habits")
		return
	}
	date, ok := s.dateParam(w, r)
	if !ok {
		return
	}
	value := constants.DefaultCompletionValue
	if raw := r.URL.Query().Get("value"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			respondWithError(w, http.StatusBadRequest, "value must be a positive number")
			return
		}
		value = v
	}

	completed, err := s.tracker.ToggleValue(&habit, date, value)
	if err != nil {
		respondWithStoreError(w, r, err)
		return
	}
	s.metrics.observeToggle(completed)
	respondWithJSON(w, http.StatusOK, toggleResponse{
		HabitID:   habit.ID,
		Day:       s.tracker.Day(date),
		Completed: completed,
	})
}

func (s *Server) habitStats(w http.ResponseWriter, r *http.Request) {
	habit, ok := s.habitFromPath(w, r)
	if !ok {
		return
	}
	window, ok := s.windowParam(w, r)
	if !ok {
		return
	}
	result, err := s.tracker.Stats(&habit, window)
	if err != nil {
		respondWithStoreError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// habitCompletions lists completions newest first, optionally bounded by
// ?from= and ?to= (inclusive).
func (s *Server) habitCompletions(w http.ResponseWriter, r *http.Request) {
	habit, ok := s.habitFromPath(w, r)
	if !ok {
		return
	}
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from == "" && to == "" {
		completions, err := s.store.GetCompletions(habit.ID)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, completions)
		return
	}

	if from == "" {
		from = habit.StartDate
	}
	if to == "" {
		to = s.tracker.Today()
	}
	for _, day := range []string{from, to} {
		if _, err := utils.ParseDay(day); err != nil {
			respondWithStoreError(w, r, err)
			return
		}
	}
	completions, err := s.store.GetCompletionsInRange(habit.ID, from, to)
	if err != nil {
		respondWithStoreError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, completions)
}

type todayResponse struct {
	Day     string               `json:"day"`
	Items   []tracker.AgendaItem `json:"items"`
	Balance stats.DayBalance     `json:"balance"`
}

func (s *Server) today(w http.ResponseWriter, r *http.Request) {
	date, ok := s.dateParam(w, r)
	if !ok {
		return
	}
	items, err := s.tracker.Agenda(date, storage.ParseSortOrder(r.URL.Query().Get("sort")))
	if err != nil {
		respondWithStoreError(w, r, err)
		return
	}
	balance, err := s.tracker.Balance(date)
	if err != nil {
		respondWithStoreError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, todayResponse{
		Day:     s.tracker.Day(date),
		Items:   items,
		Balance: balance,
	})
}

func (s *Server) overview(w http.ResponseWriter, r *http.Request) {
	window, ok := s.windowParam(w, r)
	if !ok {
		return
	}
	result, err := s.tracker.Overview(window)
	if err != nil {
		respondWithStoreError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (s *Server) goalProgress(w http.ResponseWriter, r *http.Request) {
	goal, ok := s.habitFromPath(w, r)
	if !ok {
		return
	}
	progress, err := s.tracker.GoalProgress(&goal)
	if err != nil {
		respondWithStoreError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, progress)
}
