package model

import (
	"fmt"
	"time"
)

// Difficulty represents exam difficulty level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// defaultWeights maps difficulty to the per-question point value used when
// the generation service does not supply one.
var defaultWeights = map[Difficulty]int{
	DifficultyEasy:   2,
	DifficultyMedium: 5,
	DifficultyHard:   10,
}

// DefaultWeight returns the point value for a question of the given
// difficulty. Unknown difficulties get the medium weight.
func DefaultWeight(d Difficulty) int {
	if w, ok := defaultWeights[d]; ok {
		return w
	}
	return defaultWeights[DifficultyMedium]
}

// ParseDifficulty normalizes a difficulty string, defaulting to medium.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s)
	}
	return DifficultyMedium
}

// QuestionKind represents the type of an exam question.
type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "multiple_choice"
	KindShortAnswer    QuestionKind = "short_answer"
	KindEssay          QuestionKind = "essay"
)

// ExamStatus represents the lifecycle state of a generated exam.
type ExamStatus string

const (
	StatusDraft     ExamStatus = "draft"
	StatusPublished ExamStatus = "published"
)

// Provenance records which path produced an exam's questions.
type Provenance string

const (
	// ProvenanceAI marks questions parsed from a completion service response.
	ProvenanceAI Provenance = "ai"
	// ProvenanceFallback marks questions synthesized locally.
	ProvenanceFallback Provenance = "fallback"
)

// Question is one gradable exam item. Multiple-choice questions carry
// Options and AnswerIndex; the other kinds carry AnswerText. Use the
// constructors below so the kind-specific fields stay consistent.
type Question struct {
	ID          string       `json:"id"`
	Kind        QuestionKind `json:"type"`
	Prompt      string       `json:"question"`
	Options     []string     `json:"options,omitempty"`
	AnswerIndex int          `json:"answerIndex,omitempty"`
	AnswerText  string       `json:"answerText,omitempty"`
	Weight      int          `json:"points"`
	Explanation string       `json:"explanation,omitempty"`
}

// NewMultipleChoice builds a multiple-choice question. It enforces the
// invariant that options are non-empty (at least two) and the correct
// index is in range.
func NewMultipleChoice(prompt string, options []string, correct, weight int) (Question, error) {
	if len(options) < 2 {
		return Question{}, fmt.Errorf("multiple choice question needs at least 2 options, got %d", len(options))
	}
	if correct < 0 || correct >= len(options) {
		return Question{}, fmt.Errorf("correct answer index %d out of range [0,%d)", correct, len(options))
	}
	return Question{
		Kind:        KindMultipleChoice,
		Prompt:      prompt,
		Options:     options,
		AnswerIndex: correct,
		Weight:      weight,
	}, nil
}

// NewShortAnswer builds a short-answer question.
func NewShortAnswer(prompt, answer string, weight int) Question {
	return Question{
		Kind:       KindShortAnswer,
		Prompt:     prompt,
		AnswerText: answer,
		Weight:     weight,
	}
}

// NewEssay builds an essay question.
func NewEssay(prompt, answer string, weight int) Question {
	return Question{
		Kind:       KindEssay,
		Prompt:     prompt,
		AnswerText: answer,
		Weight:     weight,
	}
}

// Exam is an immutable generated set of questions plus metadata. Only
// Status changes after assembly, via the explicit publish action.
type Exam struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	CourseID    string     `json:"courseId"`
	Difficulty  Difficulty `json:"difficulty"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	Questions   []Question `json:"questions"`
	TotalWeight int        `json:"totalPoints"`
	Status      ExamStatus `json:"status"`
	Provenance  Provenance `json:"provenance"`
}

// Answer is a submitted answer value: a selected option index for
// multiple-choice questions, or free text for the other kinds. The session
// does not validate the value against the question kind; a mismatched
// value simply never grades as correct.
type Answer struct {
	Selected *int   `json:"selected,omitempty"`
	Text     string `json:"text,omitempty"`
}

// SelectedIndex builds a multiple-choice answer.
func SelectedIndex(i int) Answer {
	return Answer{Selected: &i}
}

// TextAnswer builds a free-text answer.
func TextAnswer(s string) Answer {
	return Answer{Text: s}
}

// Attempt is the scored record of one subject completing one exam.
// It is created once on submission and never mutated.
type Attempt struct {
	ID             string            `json:"id"`
	ExamID         string            `json:"examId"`
	SubjectID      string            `json:"subjectId"`
	Answers        map[string]Answer `json:"answers"`
	Score          int               `json:"score"`
	MaxScore       int               `json:"maxScore"`
	Percentage     float64           `json:"percentage"`
	SubmittedAt    time.Time         `json:"submittedAt"`
	ElapsedSeconds int               `json:"elapsedSeconds"`
}

// GenerationRequest holds the inputs for one exam generation run.
// It is consumed once by the pipeline and not persisted.
type GenerationRequest struct {
	Content       string     `json:"content"`
	QuestionCount int        `json:"questionCount"`
	Difficulty    Difficulty `json:"difficulty"`
	SubjectHints  []string   `json:"subjectHints,omitempty"`
}
