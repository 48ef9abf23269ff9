package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"stackmaster-quiz-service/internal/app"
	"stackmaster-quiz-service/internal/domain"
	"stackmaster-quiz-service/internal/quizgen"
)

// APIHandler serves the REST surface: catalog, progression, history,
// results, and the admin content evaluator.
type APIHandler struct {
	service   *app.QuizService
	evaluator *quizgen.Evaluator
	auth      *Authenticator
}

func NewAPIHandler(service *app.QuizService, evaluator *quizgen.Evaluator, auth *Authenticator) *APIHandler {
	return &APIHandler{service: service, evaluator: evaluator, auth: auth}
}

// Register wires the REST routes into the mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/quizzes", h.listQuizzes)
	mux.HandleFunc("GET /api/quizzes/{id}/progress", h.progress)
	mux.HandleFunc("GET /api/history", h.history)
	mux.HandleFunc("GET /api/activity", h.activity)
	mux.HandleFunc("GET /api/results/latest", h.latestResult)
	mux.HandleFunc("GET /api/results/{id}", h.resultByID)
	mux.HandleFunc("POST /api/admin/evaluate", h.evaluateContent)
}

func (h *APIHandler) listQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.service.Quizzes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

type progressResponse struct {
	PassedLevels       []int  `json:"passedLevels"`
	HighestPassedLevel int    `json:"highestPassedLevel"`
	UnlockedSection    string `json:"unlockedSection"`
	SelectableLevels   []int  `json:"selectableLevels"`
}

func (h *APIHandler) progress(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	progress, err := h.service.Progress(r.Context(), identity.UID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := progressResponse{
		PassedLevels:       make([]int, 0, len(progress.PassedLevels)),
		HighestPassedLevel: progress.HighestPassedLevel,
		UnlockedSection:    progress.UnlockedSection,
		SelectableLevels:   make([]int, 0),
	}
	for level := domain.MinDifficultyLevel; level <= domain.MaxDifficultyLevel; level++ {
		if progress.PassedLevels[level] {
			resp.PassedLevels = append(resp.PassedLevels, level)
		}
		if progress.Selectable(level) {
			resp.SelectableLevels = append(resp.SelectableLevels, level)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *APIHandler) history(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}
	entries, err := h.service.History(r.Context(), identity.UID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *APIHandler) activity(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}
	days, err := h.service.Activity(r.Context(), identity.UID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// latestResult consumes the transient slot. 204 means no pending result:
// the client treats the flow as expired and returns to the dashboard.
func (h *APIHandler) latestResult(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}
	summary, err := h.service.Result(r.Context(), identity.UID, "")
	if errors.Is(err, domain.ErrNoPendingResult) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *APIHandler) resultByID(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}
	summary, err := h.service.Result(r.Context(), identity.UID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *APIHandler) evaluateContent(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireIdentity(w, r); !ok {
		return
	}

	var input quizgen.EvaluationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid request body"})
		return
	}
	evaluation, err := h.evaluator.EvaluateContent(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, evaluation)
}

func (h *APIHandler) requireIdentity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	identity := h.auth.FromRequest(r)
	if identity.IsZero() {
		writeJSON(w, http.StatusUnauthorized, errorPayload{Message: domain.ErrAuthRequired.Error()})
		return domain.Identity{}, false
	}
	return identity, true
}

type errorPayload struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound), errors.Is(err, domain.ErrResultNotFound):
		writeJSON(w, http.StatusNotFound, errorPayload{Message: err.Error()})
	case errors.Is(err, domain.ErrLevelLocked):
		writeJSON(w, http.StatusForbidden, errorPayload{Message: err.Error()})
	case errors.Is(err, domain.ErrAuthRequired):
		writeJSON(w, http.StatusUnauthorized, errorPayload{Message: err.Error()})
	case errors.Is(err, quizgen.ErrEvaluationInput):
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: err.Error()})
	case errors.Is(err, quizgen.ErrGeneration):
		writeJSON(w, http.StatusBadGateway, errorPayload{Message: err.Error()})
	default:
		log.Printf("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorPayload{Message: "internal error"})
	}
}
