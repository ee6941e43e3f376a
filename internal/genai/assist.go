package genai

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/unicampus/examgen/internal/genai/prompts"
)

// StudyPlan is a generated study plan. Sections names the parts the plan
// content is organized into.
type StudyPlan struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created"`
	Sections  []string  `json:"sections"`
}

// GenerateStudyPlan produces a personalized study plan. Service failures
// degrade to a generic locally-composed plan; the call never fails.
func (c *Client) GenerateStudyPlan(ctx context.Context, req prompts.StudyPlanRequest) StudyPlan {
	raw, err := c.Complete(ctx, prompts.BuildStudyPlan(req))
	if err != nil {
		slog.Warn("study plan completion failed, using fallback", "error", err)
		return fallbackStudyPlan(req)
	}
	return StudyPlan{
		Title:     "AI-Generated Study Plan",
		Content:   raw,
		CreatedAt: time.Now(),
		Sections:  []string{"Weekly Schedule", "Priority Topics", "Study Techniques", "Milestones", "Resources"},
	}
}

// AnswerQuestion answers a single student question. On failure it returns
// an apologetic placeholder instead of an error.
func (c *Client) AnswerQuestion(ctx context.Context, question, background, subject string) string {
	raw, err := c.Complete(ctx, prompts.BuildTutor(question, background, subject))
	if err != nil {
		slog.Warn("tutor completion failed", "error", err)
		return "I apologize, but I cannot provide an answer at this time. Please check your internet connection or try again later."
	}
	return raw
}

func fallbackStudyPlan(req prompts.StudyPlanRequest) StudyPlan {
	return StudyPlan{
		Title: "Basic Study Plan",
		Content: "Study Plan for " + strings.Join(req.Subjects, ", ") + "\n\n" +
			"Weekly Time: " + strconv.Itoa(req.HoursPerWeek) + " hours\n\n" +
			"Recommended schedule:\n" +
			"- Distribute time evenly across subjects\n" +
			"- Include regular review sessions\n" +
			"- Take breaks every 90 minutes\n" +
			"- Practice active recall techniques",
		CreatedAt: time.Now(),
		Sections:  []string{"Schedule", "Subjects", "Techniques", "Goals"},
	}
}
