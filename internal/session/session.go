// Package session implements the exam-taking state machine and the grading
// engine. A Session is single-writer: it serves exactly one subject's one
// attempt and holds no state shared with other sessions. Synchronization,
// where needed, is the caller's concern.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/unicampus/examgen/internal/model"
)

// Clock supplies wall-clock time. Injecting it keeps elapsed-time behavior
// testable without real timers.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real wall clock.
func SystemClock() Clock { return systemClock{} }

// State is the lifecycle state of a session.
type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateSubmitted  State = "submitted"
)

// Direction moves the presentation cursor.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// InvalidStateError reports a state-machine contract violation: an
// operation called from a state that does not permit it. It is the only
// hard failure in this package.
type InvalidStateError struct {
	Op    string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state: cannot %s while %s", e.Op, e.State)
}

// Session governs one subject taking one exam: presenting one question at
// a time, collecting answers, tracking elapsed time, and producing a
// scored attempt on submission.
type Session struct {
	exam      model.Exam
	subjectID string
	clock     Clock

	state     State
	answers   map[string]model.Answer
	cursor    int
	startedAt time.Time
}

// New creates a session for the given exam and subject in the NotStarted
// state. A nil clock defaults to the system clock.
func New(exam model.Exam, subjectID string, clock Clock) *Session {
	if clock == nil {
		clock = SystemClock()
	}
	return &Session{
		exam:      exam,
		subjectID: subjectID,
		clock:     clock,
		state:     StateNotStarted,
	}
}

// Exam returns the exam this session presents.
func (s *Session) Exam() model.Exam { return s.exam }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Start records the start timestamp, initializes the answer map, and moves
// the session to InProgress. Starting twice is a contract violation.
func (s *Session) Start() error {
	if s.state != StateNotStarted {
		return &InvalidStateError{Op: "start", State: s.state}
	}
	s.startedAt = s.clock.Now()
	s.answers = make(map[string]model.Answer)
	s.cursor = 0
	s.state = StateInProgress
	return nil
}

// Answer upserts the subject's answer for a question. The value is not
// validated against the question kind; a mismatched value is accepted and
// simply never grades as correct.
func (s *Session) Answer(questionID string, a model.Answer) error {
	if s.state != StateInProgress {
		return &InvalidStateError{Op: "answer", State: s.state}
	}
	s.answers[questionID] = a
	return nil
}

// Advance moves the presentation cursor one step in the given direction,
// clamped to the question range. Out-of-range moves are not errors.
func (s *Session) Advance(d Direction) int {
	switch d {
	case Forward:
		s.cursor++
	case Backward:
		s.cursor--
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
	if max := len(s.exam.Questions) - 1; s.cursor > max {
		s.cursor = max
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
	return s.cursor
}

// Cursor returns the presentation cursor position.
func (s *Session) Cursor() int { return s.cursor }

// Current returns the question under the cursor, if any.
func (s *Session) Current() (model.Question, bool) {
	if s.cursor < 0 || s.cursor >= len(s.exam.Questions) {
		return model.Question{}, false
	}
	return s.exam.Questions[s.cursor], true
}

// Answered reports which question IDs have answers recorded.
func (s *Session) Answered() []string {
	ids := make([]string, 0, len(s.answers))
	for _, q := range s.exam.Questions {
		if _, ok := s.answers[q.ID]; ok {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

// Elapsed returns wall-clock time since Start, recomputed on demand. It is
// zero before the session starts.
func (s *Session) Elapsed() time.Duration {
	if s.state == StateNotStarted {
		return 0
	}
	return s.clock.Now().Sub(s.startedAt)
}

// Submit grades the collected answers and moves the session to its
// terminal Submitted state. Submitting before starting, or twice, is a
// contract violation.
func (s *Session) Submit() (model.Attempt, error) {
	if s.state != StateInProgress {
		return model.Attempt{}, &InvalidStateError{Op: "submit", State: s.state}
	}

	attempt := Grade(s.exam, s.answers)
	attempt.ID = uuid.NewString()
	attempt.SubjectID = s.subjectID
	attempt.SubmittedAt = s.clock.Now()
	attempt.ElapsedSeconds = int(s.Elapsed().Seconds())

	s.state = StateSubmitted
	return attempt, nil
}
