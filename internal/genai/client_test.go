package genai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/unicampus/examgen/internal/genai/prompts"
)

const testKey = "sk-test-0123456789abcdefghij"

var testPrompt = prompts.PromptSpec{System: "system", User: "user"}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return New(Config{BaseURL: ts.URL + "/v1", APIKey: testKey, Model: "test-model"}), ts
}

func completionResponse(content string) string {
	return `{"id":"cmpl-1","object":"chat.completion","created":1,"model":"test-model",` +
		`"choices":[{"index":0,"message":{"role":"assistant","content":` + `"` + content + `"` + `},"finish_reason":"stop"}],` +
		`"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`
}

func TestCompleteNotConfigured(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"empty key", ""},
		{"short key", "sk-short"},
		{"placeholder key", "sk-proj-your-openai-api-key-here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Config{APIKey: tt.key, Model: "test-model"})
			_, err := c.Complete(context.Background(), testPrompt)
			if !errors.Is(err, ErrNotConfigured) {
				t.Errorf("expected ErrNotConfigured, got %v", err)
			}
		})
	}
}

func TestKeyStatus(t *testing.T) {
	c := New(Config{APIKey: testKey})
	configured, preview := c.KeyStatus()
	if !configured {
		t.Fatal("expected configured")
	}
	if !strings.HasPrefix(preview, "sk-test") || !strings.HasSuffix(preview, "ghij") {
		t.Errorf("unexpected preview %q", preview)
	}
	if strings.Contains(preview, testKey[8:len(testKey)-4]) {
		t.Error("preview must not expose the full key")
	}

	c = New(Config{APIKey: "sk-proj-your-openai-api-key-here"})
	if configured, _ := c.KeyStatus(); configured {
		t.Error("placeholder key must not count as configured")
	}
}

func TestCompleteSuccess(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testKey {
			t.Errorf("missing bearer credential, got %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionResponse("generated text")))
	})

	got, err := c.Complete(context.Background(), testPrompt)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "generated text" {
		t.Errorf("expected raw reply text, got %q", got)
	}
}

func TestCompleteServiceError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	})

	_, err := c.Complete(context.Background(), testPrompt)
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected ServiceError, got %v", err)
	}
	if svcErr.Status != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", svcErr.Status)
	}
}

func TestCompleteMalformedResponse(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-1","object":"chat.completion","choices":[]}`))
	})

	_, err := c.Complete(context.Background(), testPrompt)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestCompleteTransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := New(Config{BaseURL: url + "/v1", APIKey: testKey, Model: "test-model"})
	_, err := c.Complete(context.Background(), testPrompt)
	var trErr *TransportError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestCompleteTimeout(t *testing.T) {
	slow := func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionResponse("too late")))
	}
	ts := httptest.NewServer(http.HandlerFunc(slow))
	t.Cleanup(ts.Close)

	c := New(Config{BaseURL: ts.URL + "/v1", APIKey: testKey, Model: "test-model", Timeout: 50 * time.Millisecond})
	_, err := c.Complete(context.Background(), testPrompt)
	var trErr *TransportError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected TransportError on timeout, got %v", err)
	}
}

func TestStudyPlanFallback(t *testing.T) {
	c := New(Config{APIKey: ""})
	plan := c.GenerateStudyPlan(context.Background(), prompts.StudyPlanRequest{
		Subjects:     []string{"math", "history"},
		HoursPerWeek: 8,
	})
	if plan.Title != "Basic Study Plan" {
		t.Errorf("expected fallback plan, got %q", plan.Title)
	}
	if !strings.Contains(plan.Content, "math, history") {
		t.Error("fallback plan should name the subjects")
	}
	if !strings.Contains(plan.Content, "8 hours") {
		t.Error("fallback plan should state the weekly hours")
	}
}

func TestAnswerQuestionFallback(t *testing.T) {
	c := New(Config{APIKey: ""})
	got := c.AnswerQuestion(context.Background(), "What is Go?", "", "")
	if !strings.Contains(got, "cannot provide an answer") {
		t.Errorf("expected apologetic fallback, got %q", got)
	}
}
