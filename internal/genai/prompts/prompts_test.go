package prompts

import (
	"strings"
	"testing"

	"github.com/unicampus/examgen/internal/model"
)

func TestBuildExam(t *testing.T) {
	req := model.GenerationRequest{
		Content:       "Binary trees are hierarchical. Stacks follow LIFO.",
		QuestionCount: 7,
		Difficulty:    model.DifficultyHard,
		SubjectHints:  []string{"CS101", "data structures"},
	}
	spec := BuildExam(req)

	if !strings.Contains(spec.System, "exam creator") {
		t.Error("system prompt should set the exam creator role")
	}
	if !strings.Contains(spec.User, req.Content) {
		t.Error("user prompt should embed the study content verbatim")
	}
	if !strings.Contains(spec.User, "generate 7 exam questions") {
		t.Error("user prompt should state the requested count")
	}
	if !strings.Contains(spec.User, "hard difficulty") {
		t.Error("user prompt should state the difficulty")
	}
	if !strings.Contains(spec.User, "CS101, data structures") {
		t.Error("user prompt should list the subject hints")
	}
	if !strings.Contains(spec.User, `"questions"`) || !strings.Contains(spec.User, `"correctAnswer"`) {
		t.Error("user prompt should request the JSON response shape")
	}
}

func TestBuildExamNoHints(t *testing.T) {
	spec := BuildExam(model.GenerationRequest{
		Content:       "Some material.",
		QuestionCount: 3,
		Difficulty:    model.DifficultyEasy,
	})
	if strings.Contains(spec.User, "Focus on subjects") {
		t.Error("prompt should omit the subjects line when no hints are given")
	}
}

func TestBuildStudyPlan(t *testing.T) {
	spec := BuildStudyPlan(StudyPlanRequest{
		StudentLevel: "sophomore",
		Subjects:     []string{"algebra", "physics"},
		HoursPerWeek: 12,
		Goals:        []string{"pass finals"},
	})
	if !strings.Contains(spec.User, "sophomore student") {
		t.Error("prompt should name the student level")
	}
	if !strings.Contains(spec.User, "algebra, physics") {
		t.Error("prompt should list the subjects")
	}
	if !strings.Contains(spec.User, "12 hours") {
		t.Error("prompt should state the weekly hours")
	}
}

func TestBuildTutor(t *testing.T) {
	spec := BuildTutor("What is a closure?", "", "programming")
	if !strings.Contains(spec.User, "What is a closure?") {
		t.Error("prompt should contain the question")
	}
	if strings.Contains(spec.User, "Context:") {
		t.Error("prompt should omit the context line when empty")
	}
	if !strings.Contains(spec.User, "Subject: programming") {
		t.Error("prompt should contain the subject")
	}
}
