// Package prompts builds chat-completion instructions for the generation
// service. Builders are pure: they embed the caller's content verbatim and
// never fail. Size and abuse limits are the service boundary's concern.
package prompts

import (
	"fmt"
	"strings"

	"github.com/unicampus/examgen/internal/model"
)

// PromptSpec is a structured instruction for the completion service.
type PromptSpec struct {
	System string
	User   string
}

// BuildExam builds the exam generation prompt. The response is requested
// in a fixed JSON shape so it can be decoded by the parser.
func BuildExam(req model.GenerationRequest) PromptSpec {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Based on the following study material, generate %d exam questions at %s difficulty level.\n",
		req.QuestionCount, req.Difficulty)
	if len(req.SubjectHints) > 0 {
		sb.WriteString("Focus on subjects: " + strings.Join(req.SubjectHints, ", ") + "\n")
	}
	sb.WriteString("\nStudy Material:\n")
	sb.WriteString(req.Content)
	sb.WriteString("\n\nRequirements:\n")
	sb.WriteString("- Include a mix of multiple choice, short answer, and essay questions\n")
	sb.WriteString("- Ensure questions test understanding, not just memorization\n")
	sb.WriteString("- Provide correct answers for all questions\n")
	fmt.Fprintf(&sb, "- Questions should be appropriately challenging for %s level\n", req.Difficulty)
	sb.WriteString("\nFormat the response as JSON with this structure:\n")
	sb.WriteString(`{
  "questions": [
    {
      "id": "q1",
      "type": "multiple_choice|short_answer|essay",
      "question": "Question text",
      "options": ["A", "B", "C", "D"] (for multiple choice only),
      "correctAnswer": "Answer or option index",
      "points": number,
      "explanation": "Brief explanation of the answer"
    }
  ]
}`)

	return PromptSpec{
		System: "You are an expert educator and exam creator. Generate high-quality, diverse exam questions based on the provided content.",
		User:   sb.String(),
	}
}

// StudyPlanRequest holds the inputs for a personalized study plan.
type StudyPlanRequest struct {
	StudentLevel string   `json:"studentLevel"`
	Subjects     []string `json:"subjects"`
	HoursPerWeek int      `json:"hoursPerWeek"`
	Goals        []string `json:"goals"`
}

// BuildStudyPlan builds the study plan prompt.
func BuildStudyPlan(req StudyPlanRequest) PromptSpec {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Create a personalized study plan for a %s student.\n", req.StudentLevel)
	sb.WriteString("Subjects: " + strings.Join(req.Subjects, ", ") + "\n")
	fmt.Fprintf(&sb, "Time available per week: %d hours\n", req.HoursPerWeek)
	sb.WriteString("Goals: " + strings.Join(req.Goals, ", ") + "\n\n")
	sb.WriteString("Please provide:\n")
	sb.WriteString("1. Weekly schedule breakdown\n")
	sb.WriteString("2. Priority subjects and topics\n")
	sb.WriteString("3. Recommended study techniques\n")
	sb.WriteString("4. Milestone checkpoints\n")
	sb.WriteString("5. Resource suggestions\n")

	return PromptSpec{
		System: "You are an expert academic advisor. Create comprehensive, personalized study plans.",
		User:   sb.String(),
	}
}

// BuildTutor builds the tutoring prompt for a single student question.
func BuildTutor(question, context, subject string) PromptSpec {
	var sb strings.Builder

	sb.WriteString("Student Question: " + question + "\n")
	if context != "" {
		sb.WriteString("Context: " + context + "\n")
	}
	if subject != "" {
		sb.WriteString("Subject: " + subject + "\n")
	}
	sb.WriteString("\nPlease provide a clear, educational answer that helps the student understand the concept.")

	return PromptSpec{
		System: "You are a knowledgeable tutor. Provide clear, educational explanations that help students learn.",
		User:   sb.String(),
	}
}
