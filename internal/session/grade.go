package session

import "github.com/unicampus/examgen/internal/model"

// Grade compares submitted answers to canonical answers and computes the
// aggregate score. Matching is binary exact-match with no partial credit;
// free-text kinds compare verbatim. The caller fills in attempt identity
// and timing.
func Grade(exam model.Exam, answers map[string]model.Answer) model.Attempt {
	score := 0
	for _, q := range exam.Questions {
		a, ok := answers[q.ID]
		if ok && answerMatches(q, a) {
			score += q.Weight
		}
	}

	maxScore := exam.TotalWeight
	percentage := 0.0
	if maxScore > 0 {
		percentage = 100 * float64(score) / float64(maxScore)
	}

	return model.Attempt{
		ExamID:     exam.ID,
		Answers:    answers,
		Score:      score,
		MaxScore:   maxScore,
		Percentage: percentage,
	}
}

func answerMatches(q model.Question, a model.Answer) bool {
	if q.Kind == model.KindMultipleChoice {
		return a.Selected != nil && *a.Selected == q.AnswerIndex
	}
	return a.Selected == nil && a.Text == q.AnswerText
}
