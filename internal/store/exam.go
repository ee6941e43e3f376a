package store

import (
	"encoding/json"
	"fmt"

	"github.com/unicampus/examgen/internal/model"
)

const (
	examPrefix    = "exam:"
	attemptPrefix = "attempt:"
)

func examKey(id string) string { return examPrefix + id }

func attemptKey(examID, attemptID string) string {
	return attemptPrefix + examID + ":" + attemptID
}

// PutExam stores an exam as JSON.
func (s *Store) PutExam(exam model.Exam) error {
	data, err := json.Marshal(exam)
	if err != nil {
		return fmt.Errorf("marshal exam %s: %w", exam.ID, err)
	}
	return s.Set(examKey(exam.ID), data)
}

// GetExam returns an exam by ID, or nil when not found.
func (s *Store) GetExam(id string) (*model.Exam, error) {
	data, err := s.Get(examKey(id))
	if err != nil || data == nil {
		return nil, err
	}
	var exam model.Exam
	if err := json.Unmarshal(data, &exam); err != nil {
		return nil, fmt.Errorf("unmarshal exam %s: %w", id, err)
	}
	return &exam, nil
}

// ListExams returns all stored exams ordered by key.
func (s *Store) ListExams() ([]model.Exam, error) {
	pairs, err := s.GetByPrefix(examPrefix)
	if err != nil {
		return nil, err
	}
	var exams []model.Exam
	for _, kv := range pairs {
		var exam model.Exam
		if err := json.Unmarshal(kv.Value, &exam); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", kv.Key, err)
		}
		exams = append(exams, exam)
	}
	return exams, nil
}

// PublishExam moves an exam from draft to published. Publishing an already
// published exam is a no-op.
func (s *Store) PublishExam(id string) (*model.Exam, error) {
	exam, err := s.GetExam(id)
	if err != nil {
		return nil, err
	}
	if exam == nil {
		return nil, fmt.Errorf("exam %s not found", id)
	}
	if exam.Status == model.StatusPublished {
		return exam, nil
	}
	exam.Status = model.StatusPublished
	if err := s.PutExam(*exam); err != nil {
		return nil, err
	}
	return exam, nil
}

// PutAttempt stores a completed attempt as JSON.
func (s *Store) PutAttempt(a model.Attempt) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal attempt %s: %w", a.ID, err)
	}
	return s.Set(attemptKey(a.ExamID, a.ID), data)
}

// ListAttempts returns all attempts for an exam ordered by key.
func (s *Store) ListAttempts(examID string) ([]model.Attempt, error) {
	pairs, err := s.GetByPrefix(attemptPrefix + examID + ":")
	if err != nil {
		return nil, err
	}
	var attempts []model.Attempt
	for _, kv := range pairs {
		var a model.Attempt
		if err := json.Unmarshal(kv.Value, &a); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", kv.Key, err)
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}

// ListAllAttempts returns every stored attempt, for export.
func (s *Store) ListAllAttempts() ([]model.Attempt, error) {
	pairs, err := s.GetByPrefix(attemptPrefix)
	if err != nil {
		return nil, err
	}
	var attempts []model.Attempt
	for _, kv := range pairs {
		var a model.Attempt
		if err := json.Unmarshal(kv.Value, &a); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", kv.Key, err)
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}
