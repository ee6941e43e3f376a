package store

import (
	"testing"
	"time"

	"github.com/unicampus/examgen/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestKVRoundtrip(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set("k1", []byte("v1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get("k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v1" {
		t.Errorf("expected v1, got %q", got)
	}

	// Upsert overwrites.
	if err := s.Set("k1", []byte("v2")); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, _ = s.Get("k1")
	if string(got) != "v2" {
		t.Errorf("expected v2 after upsert, got %q", got)
	}
}

func TestGetMissingKey(t *testing.T) {
	s := newTestStore(t)
	got, err := s.Get("absent")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("missing key should return nil, got %q", got)
	}
}

func TestGetByPrefix(t *testing.T) {
	s := newTestStore(t)
	for _, k := range []string{"exam:b", "exam:a", "attempt:x", "exam:c"} {
		if err := s.Set(k, []byte(k)); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}

	pairs, err := s.GetByPrefix("exam:")
	if err != nil {
		t.Fatalf("GetByPrefix: %v", err)
	}
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(pairs))
	}
	want := []string{"exam:a", "exam:b", "exam:c"}
	for i, kv := range pairs {
		if kv.Key != want[i] {
			t.Errorf("pair %d: expected key %q, got %q", i, want[i], kv.Key)
		}
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	if err := s.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := s.Get("k"); got != nil {
		t.Error("key should be gone after delete")
	}
	if err := s.Delete("k"); err != nil {
		t.Errorf("deleting a missing key must not error: %v", err)
	}
}

func TestMeta(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetMeta("admin_hash", "bcrypt-digest"); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}
	got, err := s.GetMeta("admin_hash")
	if err != nil {
		t.Fatalf("GetMeta: %v", err)
	}
	if got != "bcrypt-digest" {
		t.Errorf("expected stored value, got %q", got)
	}
	if got, _ := s.GetMeta("absent"); got != "" {
		t.Errorf("missing meta should be empty, got %q", got)
	}
}

func testStoreExam(t *testing.T, id string) model.Exam {
	t.Helper()
	q, err := model.NewMultipleChoice("Which?", []string{"a", "b"}, 0, 5)
	if err != nil {
		t.Fatalf("NewMultipleChoice: %v", err)
	}
	q.ID = "q1"
	return model.Exam{
		ID:          id,
		Title:       "Sample",
		CourseID:    "CS101",
		Difficulty:  model.DifficultyMedium,
		CreatedAt:   time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC),
		Questions:   []model.Question{q},
		TotalWeight: 5,
		Status:      model.StatusDraft,
		Provenance:  model.ProvenanceFallback,
	}
}

func TestExamRoundtrip(t *testing.T) {
	s := newTestStore(t)
	exam := testStoreExam(t, "e1")

	if err := s.PutExam(exam); err != nil {
		t.Fatalf("PutExam: %v", err)
	}
	got, err := s.GetExam("e1")
	if err != nil {
		t.Fatalf("GetExam: %v", err)
	}
	if got == nil {
		t.Fatal("expected exam, got nil")
	}
	if got.Title != exam.Title || got.TotalWeight != 5 || len(got.Questions) != 1 {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
	if got.Questions[0].AnswerIndex != 0 || got.Questions[0].Kind != model.KindMultipleChoice {
		t.Errorf("question roundtrip mismatch: %+v", got.Questions[0])
	}

	missing, err := s.GetExam("nope")
	if err != nil {
		t.Fatalf("GetExam missing: %v", err)
	}
	if missing != nil {
		t.Error("missing exam should be nil")
	}
}

func TestListExams(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"e2", "e1"} {
		if err := s.PutExam(testStoreExam(t, id)); err != nil {
			t.Fatalf("PutExam %s: %v", id, err)
		}
	}
	exams, err := s.ListExams()
	if err != nil {
		t.Fatalf("ListExams: %v", err)
	}
	if len(exams) != 2 || exams[0].ID != "e1" || exams[1].ID != "e2" {
		t.Errorf("expected exams ordered by key, got %+v", exams)
	}
}

func TestPublishExam(t *testing.T) {
	s := newTestStore(t)
	if err := s.PutExam(testStoreExam(t, "e1")); err != nil {
		t.Fatalf("PutExam: %v", err)
	}

	pub, err := s.PublishExam("e1")
	if err != nil {
		t.Fatalf("PublishExam: %v", err)
	}
	if pub.Status != model.StatusPublished {
		t.Errorf("expected published, got %q", pub.Status)
	}

	// Idempotent.
	again, err := s.PublishExam("e1")
	if err != nil {
		t.Fatalf("PublishExam twice: %v", err)
	}
	if again.Status != model.StatusPublished {
		t.Errorf("republish changed status to %q", again.Status)
	}

	if _, err := s.PublishExam("nope"); err == nil {
		t.Error("publishing a missing exam must error")
	}
}

func TestAttempts(t *testing.T) {
	s := newTestStore(t)
	a1 := model.Attempt{ID: "a1", ExamID: "e1", SubjectID: "s1", Score: 5, MaxScore: 10, Percentage: 50}
	a2 := model.Attempt{ID: "a2", ExamID: "e1", SubjectID: "s2", Score: 10, MaxScore: 10, Percentage: 100}
	other := model.Attempt{ID: "a3", ExamID: "e2", SubjectID: "s1", Score: 0, MaxScore: 10}

	for _, a := range []model.Attempt{a1, a2, other} {
		if err := s.PutAttempt(a); err != nil {
			t.Fatalf("PutAttempt %s: %v", a.ID, err)
		}
	}

	got, err := s.ListAttempts("e1")
	if err != nil {
		t.Fatalf("ListAttempts: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 attempts for e1, got %d", len(got))
	}
	if got[0].ID != "a1" || got[1].ID != "a2" {
		t.Errorf("unexpected attempt order: %+v", got)
	}

	all, err := s.ListAllAttempts()
	if err != nil {
		t.Fatalf("ListAllAttempts: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 attempts total, got %d", len(all))
	}
}

func TestAuthSessionLifecycle(t *testing.T) {
	s := newTestStore(t)

	token, err := s.CreateAuthSession()
	if err != nil {
		t.Fatalf("CreateAuthSession: %v", err)
	}
	if len(token) != 64 {
		t.Errorf("expected 64-char hex token, got %d chars", len(token))
	}

	ok, err := s.ValidAuthSession(token)
	if err != nil {
		t.Fatalf("ValidAuthSession: %v", err)
	}
	if !ok {
		t.Error("fresh session should be valid")
	}

	if ok, _ := s.ValidAuthSession("bogus"); ok {
		t.Error("unknown token must be invalid")
	}
	if ok, _ := s.ValidAuthSession(""); ok {
		t.Error("empty token must be invalid")
	}

	if err := s.DeleteAuthSession(token); err != nil {
		t.Fatalf("DeleteAuthSession: %v", err)
	}
	if ok, _ := s.ValidAuthSession(token); ok {
		t.Error("deleted session must be invalid")
	}
}
