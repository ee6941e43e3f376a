package handler

import "github.com/unicampus/examgen/internal/model"

// examSummary is the list view of an exam: metadata only, no questions.
type examSummary struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	CourseID    string           `json:"courseId"`
	Difficulty  model.Difficulty `json:"difficulty"`
	Questions   int              `json:"questions"`
	TotalPoints int              `json:"totalPoints"`
	Status      model.ExamStatus `json:"status"`
	Provenance  model.Provenance `json:"provenance"`
}

func summarize(e model.Exam) examSummary {
	return examSummary{
		ID:          e.ID,
		Title:       e.Title,
		CourseID:    e.CourseID,
		Difficulty:  e.Difficulty,
		Questions:   len(e.Questions),
		TotalPoints: e.TotalWeight,
		Status:      e.Status,
		Provenance:  e.Provenance,
	}
}

// questionView is a question as presented to a taker: the canonical answer
// and explanation are stripped.
type questionView struct {
	ID       string             `json:"id"`
	Kind     model.QuestionKind `json:"type"`
	Prompt   string             `json:"question"`
	Options  []string           `json:"options,omitempty"`
	Points   int                `json:"points"`
	Position int                `json:"position"`
	Total    int                `json:"total"`
}

func redactQuestion(q model.Question, position, total int) questionView {
	return questionView{
		ID:       q.ID,
		Kind:     q.Kind,
		Prompt:   q.Prompt,
		Options:  q.Options,
		Points:   q.Weight,
		Position: position,
		Total:    total,
	}
}

// redactedExam is an exam with all questions redacted for takers.
type redactedExam struct {
	examSummary
	QuestionList []questionView `json:"questionList"`
}

func redactExam(e model.Exam) redactedExam {
	views := make([]questionView, 0, len(e.Questions))
	for i, q := range e.Questions {
		views = append(views, redactQuestion(q, i, len(e.Questions)))
	}
	return redactedExam{examSummary: summarize(e), QuestionList: views}
}
