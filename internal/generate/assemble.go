package generate

import (
	"time"

	"github.com/google/uuid"

	"github.com/unicampus/examgen/internal/model"
)

// defaultCourseID is used when the caller leaves the course blank.
const defaultCourseID = "default-course"

// Meta carries the caller-supplied exam metadata into assembly.
type Meta struct {
	Title      string
	CourseID   string
	Difficulty model.Difficulty
	CreatedBy  string
	Provenance model.Provenance
}

// Assemble combines questions into an immutable draft exam with a fresh
// identifier, a creation timestamp, and the computed total weight. An empty
// question list yields a total weight of 0; it is not rejected, upstream
// guarantees non-emptiness.
func Assemble(meta Meta, questions []model.Question, now time.Time) model.Exam {
	total := 0
	for _, q := range questions {
		total += q.Weight
	}

	courseID := meta.CourseID
	if courseID == "" {
		courseID = defaultCourseID
	}

	return model.Exam{
		ID:          uuid.NewString(),
		Title:       meta.Title,
		CourseID:    courseID,
		Difficulty:  meta.Difficulty,
		CreatedBy:   meta.CreatedBy,
		CreatedAt:   now,
		Questions:   questions,
		TotalWeight: total,
		Status:      model.StatusDraft,
		Provenance:  meta.Provenance,
	}
}
