// Package generate implements the exam generation pipeline: prompt
// construction, completion call, response parsing, fallback synthesis, and
// exam assembly. The pipeline's contract is "always produces an exam";
// completion failures are recovered, never surfaced.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/unicampus/examgen/internal/genai/prompts"
	"github.com/unicampus/examgen/internal/model"
)

// Completer is the completion service boundary. *genai.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, p prompts.PromptSpec) (string, error)
}

// Generator orchestrates the exam generation pipeline.
type Generator struct {
	client Completer
	now    func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithNow overrides the clock, for deterministic tests.
func WithNow(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New creates a Generator backed by the given completion client.
func New(client Completer, opts ...Option) *Generator {
	g := &Generator{client: client, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs the pipeline for one request and returns a draft exam with
// exactly req.QuestionCount questions. Every completion failure is caught
// here and converted into a fallback result; the exam's Provenance records
// which path produced it.
func (g *Generator) Generate(ctx context.Context, req model.GenerationRequest, meta Meta) model.Exam {
	if req.QuestionCount < 1 {
		req.QuestionCount = 1
	}
	if req.Difficulty == "" {
		req.Difficulty = model.DifficultyMedium
	}
	meta.Difficulty = req.Difficulty

	questions, provenance := g.produceQuestions(ctx, req)
	questions = enforceCount(questions, req)
	meta.Provenance = provenance

	exam := Assemble(meta, questions, g.now())
	slog.Info("exam generated",
		"exam_id", exam.ID,
		"questions", len(exam.Questions),
		"total_points", exam.TotalWeight,
		"provenance", exam.Provenance,
	)
	return exam
}

func (g *Generator) produceQuestions(ctx context.Context, req model.GenerationRequest) ([]model.Question, model.Provenance) {
	raw, err := g.client.Complete(ctx, prompts.BuildExam(req))
	if err != nil {
		slog.Warn("completion failed, falling back to local generation", "error", err)
		return Fallback(req.Content, req.QuestionCount, req.Difficulty), model.ProvenanceFallback
	}

	questions, fromResponse := Parse(raw, req.QuestionCount, req.Difficulty)
	if !fromResponse {
		slog.Warn("completion response yielded no questions, falling back")
		return questions, model.ProvenanceFallback
	}
	return questions, model.ProvenanceAI
}

// enforceCount pins the question list to exactly the requested count:
// extras are truncated, shortfalls are topped up from the fallback
// generator. IDs are reassigned sequentially so they stay unique.
func enforceCount(questions []model.Question, req model.GenerationRequest) []model.Question {
	if len(questions) > req.QuestionCount {
		questions = questions[:req.QuestionCount]
	}
	if missing := req.QuestionCount - len(questions); missing > 0 {
		extra := Fallback(req.Content, missing, req.Difficulty)
		questions = append(questions, extra...)
	}
	for i := range questions {
		questions[i].ID = fmt.Sprintf("q%d", i+1)
	}
	return questions
}
