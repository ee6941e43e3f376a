// Package handler exposes the exam pipeline as a JSON API for the campus
// portal SPA. Exam payloads served to takers have canonical answers
// redacted; the full exam (answer key included) requires authentication.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/unicampus/examgen/internal/genai"
	"github.com/unicampus/examgen/internal/genai/prompts"
	"github.com/unicampus/examgen/internal/generate"
	appI18n "github.com/unicampus/examgen/internal/i18n"
	"github.com/unicampus/examgen/internal/model"
	"github.com/unicampus/examgen/internal/session"
	"github.com/unicampus/examgen/internal/store"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store *store.Store
	gen   *generate.Generator
	ai    *genai.Client
	clock session.Clock

	mu       sync.Mutex
	sessions map[string]*takeSession
}

// takeSession wraps a core session with its own lock. The state machine
// itself is single-writer; concurrent HTTP requests for the same session
// are serialized here, at the boundary.
type takeSession struct {
	mu   sync.Mutex
	sess *session.Session
}

// New creates a new Handler. A nil clock defaults to the system clock.
func New(s *store.Store, gen *generate.Generator, ai *genai.Client, clock session.Clock) *Handler {
	if clock == nil {
		clock = session.SystemClock()
	}
	return &Handler{
		store:    s,
		gen:      gen,
		ai:       ai,
		clock:    clock,
		sessions: make(map[string]*takeSession),
	}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)

	r.Get("/ai/status", h.handleAIStatus)
	r.Post("/assist/study-plan", h.handleStudyPlan)
	r.Post("/assist/question", h.handleTutorQuestion)

	r.Route("/exams", func(r chi.Router) {
		r.Get("/", h.handleListExams)
		r.Get("/{examID}", h.handleGetExam)
		r.Post("/{examID}/sessions", h.handleStartSession)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Post("/", h.handleCreateExam)
			r.Post("/{examID}/publish", h.handlePublishExam)
			r.Get("/{examID}/download", h.handleDownloadExam)
			r.Get("/{examID}/attempts", h.handleListAttempts)
		})
	})

	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.handleSessionState)
		r.Post("/answers", h.handleAnswer)
		r.Post("/advance", h.handleAdvance)
		r.Post("/submit", h.handleSubmit)
	})
}

type createExamRequest struct {
	Title         string   `json:"title"`
	CourseID      string   `json:"courseId"`
	Difficulty    string   `json:"difficulty"`
	QuestionCount int      `json:"questionCount"`
	Content       string   `json:"content"`
	SubjectHints  []string `json:"subjectHints"`
	CreatedBy     string   `json:"createdBy"`
}

func (h *Handler) handleCreateExam(w http.ResponseWriter, r *http.Request) {
	var req createExamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Content == "" {
		http.Error(w, "title and content are required", http.StatusBadRequest)
		return
	}
	if req.QuestionCount < 1 {
		req.QuestionCount = 10
	}

	exam := h.gen.Generate(r.Context(), model.GenerationRequest{
		Content:       req.Content,
		QuestionCount: req.QuestionCount,
		Difficulty:    model.ParseDifficulty(req.Difficulty),
		SubjectHints:  req.SubjectHints,
	}, generate.Meta{
		Title:     req.Title,
		CourseID:  req.CourseID,
		CreatedBy: req.CreatedBy,
	})

	if err := h.store.PutExam(exam); err != nil {
		slog.Error("store exam", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, exam)
}

func (h *Handler) handleListExams(w http.ResponseWriter, r *http.Request) {
	exams, err := h.store.ListExams()
	if err != nil {
		slog.Error("list exams", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	summaries := make([]examSummary, 0, len(exams))
	for _, e := range exams {
		summaries = append(summaries, summarize(e))
	}
	respondJSON(w, http.StatusOK, summaries)
}

func (h *Handler) handleGetExam(w http.ResponseWriter, r *http.Request) {
	exam, ok := h.loadExam(w, r)
	if !ok {
		return
	}
	if h.authed(r) {
		respondJSON(w, http.StatusOK, exam)
		return
	}
	respondJSON(w, http.StatusOK, redactExam(*exam))
}

func (h *Handler) handlePublishExam(w http.ResponseWriter, r *http.Request) {
	exam, err := h.store.PublishExam(chi.URLParam(r, "examID"))
	if err != nil {
		http.Error(w, appI18n.T(r.Context(), "ExamNotFound"), http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, exam)
}

func (h *Handler) handleDownloadExam(w http.ResponseWriter, r *http.Request) {
	exam, ok := h.loadExam(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exam.ID+`.txt"`)
	_, _ = w.Write([]byte(model.RenderText(r.Context(), *exam)))
}

func (h *Handler) handleListAttempts(w http.ResponseWriter, r *http.Request) {
	attempts, err := h.store.ListAttempts(chi.URLParam(r, "examID"))
	if err != nil {
		slog.Error("list attempts", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if attempts == nil {
		attempts = []model.Attempt{}
	}
	respondJSON(w, http.StatusOK, attempts)
}

func (h *Handler) handleAIStatus(w http.ResponseWriter, r *http.Request) {
	configured, preview := h.ai.KeyStatus()
	respondJSON(w, http.StatusOK, map[string]any{
		"configured": configured,
		"keyPreview": preview,
	})
}

func (h *Handler) handleStudyPlan(w http.ResponseWriter, r *http.Request) {
	var req prompts.StudyPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, h.ai.GenerateStudyPlan(r.Context(), req))
}

func (h *Handler) handleTutorQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
		Context  string `json:"context"`
		Subject  string `json:"subject"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}
	answer := h.ai.AnswerQuestion(r.Context(), req.Question, req.Context, req.Subject)
	respondJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func (h *Handler) loadExam(w http.ResponseWriter, r *http.Request) (*model.Exam, bool) {
	exam, err := h.store.GetExam(chi.URLParam(r, "examID"))
	if err != nil {
		slog.Error("get exam", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	if exam == nil {
		http.Error(w, appI18n.T(r.Context(), "ExamNotFound"), http.StatusNotFound)
		return nil, false
	}
	return exam, true
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
