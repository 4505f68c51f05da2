package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/PeterK0/Quintry/internal/history"
	"github.com/PeterK0/Quintry/internal/model"
	"github.com/PeterK0/Quintry/internal/quiz"
	"github.com/PeterK0/Quintry/internal/report"
)

// HistoryStore is the persistence port for quiz history. Failures are
// logged at the boundary and never surfaced into grading.
type HistoryStore interface {
	SaveHistory(entry model.QuizHistoryEntry) error
	ListHistory() ([]model.QuizHistoryEntry, error)
	HistoryCount() (int, error)
	ClearHistory() error
}

// ListStore is the persistence port for user-created port lists.
type ListStore interface {
	SaveList(list model.PortList) error
	ListLists() ([]model.PortList, error)
	DeleteList(id string) error
}

// Handler holds shared dependencies for the quiz API.
type Handler struct {
	builder *quiz.Builder
	builtIn model.PortList
	hist    HistoryStore
	lists   ListStore
	info    model.DatasetInfo

	mu       sync.Mutex
	sessions map[string]*activeSession
}

// activeSession is a built quiz waiting for answers. The answer key
// stays server-side until submit.
type activeSession struct {
	session   *quiz.Session
	startedAt time.Time
	submitted bool
}

// New creates a new Handler.
func New(b *quiz.Builder, builtIn model.PortList, hist HistoryStore, lists ListStore, info model.DatasetInfo) *Handler {
	return &Handler{
		builder:  b,
		builtIn:  builtIn,
		hist:     hist,
		lists:    lists,
		info:     info,
		sessions: make(map[string]*activeSession),
	}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/api/meta", h.handleMeta)
	r.Get("/api/ports", h.handlePorts)
	r.Get("/api/lists", h.handleListLists)
	r.Post("/api/lists", h.handleSaveList)
	r.Delete("/api/lists/{listID}", h.handleDeleteList)
	r.Post("/api/quiz", h.handleBuildQuiz)
	r.Post("/api/quiz/{quizID}/retry", h.handleRetry)
	r.Post("/api/quiz/{quizID}/submit", h.handleSubmit)
	r.Get("/api/history", h.handleHistory)
	r.Delete("/api/history", h.handleClearHistory)
	r.Get("/api/stats", h.handleStats)
	r.Get("/api/stats/report", h.handleReport)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func (h *Handler) handleMeta(w http.ResponseWriter, r *http.Request) {
	recorded, err := h.hist.HistoryCount()
	if err != nil {
		slog.Error("count quiz history", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"datasetPath":     h.info.Path,
		"portCount":       h.info.PortCount,
		"listMatched":     h.info.ListMatched,
		"listTotal":       h.info.ListTotal,
		"quizzesRecorded": recorded,
		"regions":         quiz.Regions(),
		"difficulties":    []model.Difficulty{model.DifficultyEasy, model.DifficultyNormal, model.DifficultyHard},
	})
}

// filterConfigFromQuery reads list/regions/countries filter parameters.
func filterConfigFromQuery(r *http.Request) model.QuizConfig {
	q := r.URL.Query()
	cfg := model.QuizConfig{ListID: q.Get("list")}
	if v := q.Get("regions"); v != "" {
		cfg.Regions = strings.Split(v, ",")
	}
	if v := q.Get("countries"); v != "" {
		cfg.Countries = strings.Split(v, ",")
	}
	return cfg
}

func (h *Handler) handlePorts(w http.ResponseWriter, r *http.Request) {
	cfg := filterConfigFromQuery(r)
	list, ok := h.resolveList(cfg.ListID)
	if !ok {
		http.Error(w, "unknown list: "+cfg.ListID, http.StatusBadRequest)
		return
	}

	pool, available, cfg := h.builder.Filter(cfg, list)
	writeJSON(w, http.StatusOK, map[string]any{
		"ports":              pool,
		"availableCountries": available,
		"countries":          cfg.Countries,
		"filteredPortsCount": len(pool),
	})
}

// resolveList maps a list id to the built-in list, a stored custom list,
// or nil for "no list filter". Store failures degrade to built-in only.
func (h *Handler) resolveList(id string) (*model.PortList, bool) {
	if id == "" {
		return nil, true
	}
	if id == h.builtIn.ID {
		return &h.builtIn, true
	}
	lists, err := h.lists.ListLists()
	if err != nil {
		slog.Error("load custom lists", "error", err)
		return nil, false
	}
	for i := range lists {
		if lists[i].ID == id {
			return &lists[i], true
		}
	}
	return nil, false
}

func (h *Handler) handleListLists(w http.ResponseWriter, r *http.Request) {
	lists := []model.PortList{h.builtIn}
	custom, err := h.lists.ListLists()
	if err != nil {
		slog.Error("load custom lists", "error", err)
	} else {
		lists = append(lists, custom...)
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *Handler) handleSaveList(w http.ResponseWriter, r *http.Request) {
	var list model.PortList
	if err := json.NewDecoder(r.Body).Decode(&list); err != nil {
		http.Error(w, "invalid list payload", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(list.Name) == "" {
		http.Error(w, "list name is required", http.StatusBadRequest)
		return
	}
	if list.ID == "" {
		list.ID = uuid.NewString()
	}
	if list.ID == h.builtIn.ID {
		http.Error(w, "cannot overwrite the built-in list", http.StatusBadRequest)
		return
	}
	list.IsBuiltIn = false

	if err := h.lists.SaveList(list); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "listID")
	if id == h.builtIn.ID {
		http.Error(w, "built-in lists cannot be deleted", http.StatusBadRequest)
		return
	}
	if err := h.lists.DeleteList(id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// marker is the per-label payload handed to the map collaborator. The
// port's identity stays hidden until the quiz is submitted.
type marker struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

func (h *Handler) sessionResponse(id string, s *quiz.Session) map[string]any {
	markers := make([]marker, 0, len(s.Ports))
	for _, label := range s.Labels() {
		p := s.Markers[label]
		markers = append(markers, marker{Label: label, Lat: p.Lat, Lng: p.Lng})
	}
	return map[string]any{
		"id":                 id,
		"markers":            markers,
		"options":            s.Options(),
		"portCount":          len(s.Ports),
		"filteredPortsCount": s.FilteredCount,
		"availableCountries": s.AvailableCountries,
		"countries":          s.Config.Countries,
		"difficulty":         s.Config.Difficulty,
	}
}

func (h *Handler) handleBuildQuiz(w http.ResponseWriter, r *http.Request) {
	var cfg model.QuizConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid quiz config", http.StatusBadRequest)
		return
	}
	if cfg.PortCount < 1 {
		http.Error(w, "portCount must be at least 1", http.StatusBadRequest)
		return
	}
	if cfg.Difficulty == "" {
		cfg.Difficulty = model.DifficultyEasy
	}
	if !cfg.Difficulty.Valid() {
		http.Error(w, "unknown difficulty: "+string(cfg.Difficulty), http.StatusBadRequest)
		return
	}
	list, ok := h.resolveList(cfg.ListID)
	if !ok {
		http.Error(w, "unknown list: "+cfg.ListID, http.StatusBadRequest)
		return
	}

	s := h.builder.Build(cfg, list)
	id := uuid.NewString()

	// Render the response before the session is published; once it is in
	// the map a concurrent retry may relabel it.
	resp := h.sessionResponse(id, s)

	h.mu.Lock()
	h.sessions[id] = &activeSession{session: s, startedAt: time.Now()}
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleRetry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "quizID")

	h.mu.Lock()
	active, ok := h.sessions[id]
	if !ok {
		h.mu.Unlock()
		http.Error(w, "unknown quiz", http.StatusNotFound)
		return
	}
	h.builder.Relabel(active.session)
	active.startedAt = time.Now()
	active.submitted = false
	resp := h.sessionResponse(id, active.session)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

type submitRequest struct {
	Answers map[string]string `json:"answers"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "quizID")

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid submission", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	active, ok := h.sessions[id]
	if !ok {
		h.mu.Unlock()
		http.Error(w, "unknown quiz", http.StatusNotFound)
		return
	}
	if active.submitted {
		h.mu.Unlock()
		http.Error(w, "quiz already submitted", http.StatusBadRequest)
		return
	}
	active.submitted = true

	// Grade while holding the lock: a concurrent retry on the same id
	// relabels the session and resets startedAt.
	s := active.session
	results, score := quiz.Grade(s, req.Answers)
	cfg := s.Config
	duration := int(time.Since(active.startedAt).Seconds())
	h.mu.Unlock()

	total := len(results)
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(score) / float64(total) * 100
	}

	entry := model.QuizHistoryEntry{
		ID:         "quiz-" + uuid.NewString(),
		Date:       time.Now(),
		Score:      score,
		Total:      total,
		Accuracy:   accuracy,
		Duration:   duration,
		Difficulty: cfg.Difficulty,
		Regions:    cfg.Regions,
		Countries:  cfg.Countries,
	}
	for _, res := range results {
		entry.Results = append(entry.Results, model.PortResult{
			Port:      res.CorrectPort,
			IsCorrect: res.IsCorrect,
		})
	}

	// History persistence must never block returning the score.
	if err := h.hist.SaveHistory(entry); err != nil {
		slog.Error("save quiz history", "error", err, "quiz", id)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results":  results,
		"score":    score,
		"total":    total,
		"accuracy": accuracy,
		"duration": duration,
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.hist.ListHistory()
	if err != nil {
		slog.Error("load quiz history", "error", err)
		entries = nil
	}
	if entries == nil {
		entries = []model.QuizHistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.hist.ClearHistory(); err != nil {
		slog.Error("clear quiz history", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	limit := history.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := h.hist.ListHistory()
	if err != nil {
		slog.Error("load quiz history", "error", err)
		entries = nil
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalQuizzes": len(entries),
		"averageScore": history.AverageScore(entries),
		"byDifficulty": history.ByDifficulty(entries),
		"portStats":    history.Stats(entries),
		"weakest":      history.Weakest(entries, limit),
		"strongest":    history.Strongest(entries, limit),
	})
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	entries, err := h.hist.ListHistory()
	if err != nil {
		slog.Error("load quiz history", "error", err)
		entries = nil
	}

	pdf, err := report.Generate(entries, time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="quiz-report.pdf"`)
	if _, err := w.Write(pdf); err != nil {
		slog.Error("write report", "error", err)
	}
}
