package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	appI18n "github.com/unicampus/examgen/internal/i18n"
	"github.com/unicampus/examgen/internal/model"
	"github.com/unicampus/examgen/internal/session"
)

// sessionState is the taker's view of an in-progress session.
type sessionState struct {
	SessionID      string        `json:"sessionId"`
	ExamID         string        `json:"examId"`
	Title          string        `json:"title"`
	State          session.State `json:"state"`
	Cursor         int           `json:"cursor"`
	Question       *questionView `json:"question,omitempty"`
	Answered       []string      `json:"answered"`
	ElapsedSeconds int           `json:"elapsedSeconds"`
}

func (h *Handler) handleStartSession(w http.ResponseWriter, r *http.Request) {
	exam, ok := h.loadExam(w, r)
	if !ok {
		return
	}

	var req struct {
		SubjectID string `json:"subjectId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SubjectID == "" {
		http.Error(w, "subjectId is required", http.StatusBadRequest)
		return
	}

	sess := session.New(*exam, req.SubjectID, h.clock)
	if err := sess.Start(); err != nil {
		// Unreachable for a fresh session; surface it anyway.
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	id := uuid.NewString()
	h.mu.Lock()
	h.sessions[id] = &takeSession{sess: sess}
	h.mu.Unlock()

	slog.Info("exam session started", "session_id", id, "exam_id", exam.ID, "subject", req.SubjectID)
	respondJSON(w, http.StatusCreated, h.stateView(id, sess))
}

func (h *Handler) handleSessionState(w http.ResponseWriter, r *http.Request) {
	id, ts, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	respondJSON(w, http.StatusOK, h.stateView(id, ts.sess))
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	id, ts, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	var req struct {
		QuestionID string `json:"questionId"`
		Selected   *int   `json:"selected,omitempty"`
		Text       string `json:"text,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QuestionID == "" {
		http.Error(w, "questionId is required", http.StatusBadRequest)
		return
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()
	if err := ts.sess.Answer(req.QuestionID, model.Answer{Selected: req.Selected, Text: req.Text}); err != nil {
		respondStateError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.stateView(id, ts.sess))
}

func (h *Handler) handleAdvance(w http.ResponseWriter, r *http.Request) {
	id, ts, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	dir := session.Forward
	if req.Direction == "backward" {
		dir = session.Backward
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.sess.Advance(dir)
	respondJSON(w, http.StatusOK, h.stateView(id, ts.sess))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id, ts, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	ts.mu.Lock()
	attempt, err := ts.sess.Submit()
	ts.mu.Unlock()
	if err != nil {
		respondStateError(w, err)
		return
	}

	if err := h.store.PutAttempt(attempt); err != nil {
		slog.Error("store attempt", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.mu.Lock()
	delete(h.sessions, id)
	h.mu.Unlock()

	slog.Info("exam submitted",
		"session_id", id,
		"exam_id", attempt.ExamID,
		"score", attempt.Score,
		"max_score", attempt.MaxScore,
	)
	respondJSON(w, http.StatusOK, attempt)
}

func (h *Handler) lookupSession(w http.ResponseWriter, r *http.Request) (string, *takeSession, bool) {
	id := chi.URLParam(r, "sessionID")
	h.mu.Lock()
	ts := h.sessions[id]
	h.mu.Unlock()
	if ts == nil {
		http.Error(w, appI18n.T(r.Context(), "SessionNotFound"), http.StatusNotFound)
		return "", nil, false
	}
	return id, ts, true
}

func (h *Handler) stateView(id string, sess *session.Session) sessionState {
	exam := sess.Exam()
	state := sessionState{
		SessionID:      id,
		ExamID:         exam.ID,
		Title:          exam.Title,
		State:          sess.State(),
		Cursor:         sess.Cursor(),
		Answered:       sess.Answered(),
		ElapsedSeconds: int(sess.Elapsed().Seconds()),
	}
	if q, ok := sess.Current(); ok {
		view := redactQuestion(q, sess.Cursor(), len(exam.Questions))
		state.Question = &view
	}
	return state
}

func respondStateError(w http.ResponseWriter, err error) {
	var ise *session.InvalidStateError
	if errors.As(err, &ise) {
		http.Error(w, ise.Error(), http.StatusConflict)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
