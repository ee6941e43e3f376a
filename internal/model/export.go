package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	appI18n "github.com/unicampus/examgen/internal/i18n"
)

// StoreExport is the top-level JSON structure produced by `examgen export`.
type StoreExport struct {
	ExportedAt time.Time `json:"exported_at"`
	Exams      []Exam    `json:"exams"`
	Attempts   []Attempt `json:"attempts"`
}

// RenderText renders an exam in the printable download format, answer key
// included. Labels are localized through the context's localizer.
func RenderText(ctx context.Context, exam Exam) string {
	var sb strings.Builder

	sb.WriteString(exam.Title + "\n")
	sb.WriteString(appI18n.T(ctx, "Course") + ": " + exam.CourseID + "\n")
	sb.WriteString(appI18n.T(ctx, "Difficulty") + ": " + string(exam.Difficulty) + "\n")
	sb.WriteString(fmt.Sprintf("%s: %d\n", appI18n.T(ctx, "TotalPoints"), exam.TotalWeight))
	sb.WriteString(fmt.Sprintf("%s: %d\n", appI18n.T(ctx, "Questions"), len(exam.Questions)))
	sb.WriteString(appI18n.T(ctx, "Generated") + ": " + exam.CreatedAt.Format(time.RFC1123) + "\n\n")
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	for i, q := range exam.Questions {
		sb.WriteString(fmt.Sprintf("%s %d (%s):\n%s\n\n",
			appI18n.T(ctx, "Question"), i+1,
			appI18n.Tp(ctx, "Points", q.Weight),
			q.Prompt))

		if q.Kind == KindMultipleChoice {
			for j, opt := range q.Options {
				sb.WriteString(fmt.Sprintf("   %c. %s\n", 'A'+j, opt))
			}
			sb.WriteString("\n")
			sb.WriteString(fmt.Sprintf("%s: %c\n\n", appI18n.T(ctx, "CorrectAnswer"), 'A'+q.AnswerIndex))
		} else {
			sb.WriteString(fmt.Sprintf("%s: %s\n\n", appI18n.T(ctx, "CorrectAnswer"), q.AnswerText))
		}
		sb.WriteString(strings.Repeat("-", 30) + "\n\n")
	}

	return sb.String()
}
