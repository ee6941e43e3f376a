package generate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/unicampus/examgen/internal/model"
)

// placeholderAnswer is the canonical answer synthesized for questions
// recovered by line-oriented extraction.
const placeholderAnswer = "Sample answer based on course material"

var ordinalMarker = regexp.MustCompile(`^(\d+\.|Question \d+:?)\s*`)

// wireQuestion mirrors the JSON shape requested from the completion
// service. correctAnswer may be an option index or free text, so it is
// decoded lazily.
type wireQuestion struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Question      string          `json:"question"`
	Options       []string        `json:"options"`
	CorrectAnswer json.RawMessage `json:"correctAnswer"`
	Points        int             `json:"points"`
	Explanation   string          `json:"explanation"`
}

type wireEnvelope struct {
	Questions []wireQuestion `json:"questions"`
}

// Parse extracts questions from the raw completion text. It is total:
// malformed JSON falls through to line-oriented extraction, and when that
// yields nothing the content-free fallback generator supplies exactly
// count questions. The boolean reports whether the questions were derived
// from the response text rather than synthesized.
func Parse(raw string, count int, difficulty model.Difficulty) ([]model.Question, bool) {
	if qs := parseJSON(raw, difficulty); len(qs) > 0 {
		return qs, true
	}
	if qs := parseLines(raw, difficulty); len(qs) > 0 {
		return qs, true
	}
	return Fallback("", count, difficulty), false
}

// parseJSON decodes the first balanced brace span of raw into the expected
// envelope. A missing or truncated span returns nil.
func parseJSON(raw string, difficulty model.Difficulty) []model.Question {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil
	}

	var env wireEnvelope
	if err := json.Unmarshal([]byte(raw[start:end+1]), &env); err != nil {
		return nil
	}

	var questions []model.Question
	for _, wq := range env.Questions {
		q := mapWireQuestion(wq, difficulty)
		q.ID = wq.ID
		if q.ID == "" {
			q.ID = fmt.Sprintf("q%d", len(questions)+1)
		}
		questions = append(questions, q)
	}
	return questions
}

// mapWireQuestion converts one wire entry to a Question. Unknown kinds
// become short answers; multiple-choice entries that violate the options
// invariant are demoted to short answer rather than rejected.
func mapWireQuestion(wq wireQuestion, difficulty model.Difficulty) model.Question {
	weight := wq.Points
	if weight <= 0 {
		weight = model.DefaultWeight(difficulty)
	}

	prompt := wq.Question
	if prompt == "" {
		prompt = "Question"
	}

	if model.QuestionKind(wq.Type) == model.KindMultipleChoice {
		if idx, ok := answerIndex(wq.CorrectAnswer); ok {
			if q, err := model.NewMultipleChoice(prompt, wq.Options, idx, weight); err == nil {
				q.Explanation = wq.Explanation
				return q
			}
		}
	}

	answer := answerText(wq.CorrectAnswer)
	var q model.Question
	if model.QuestionKind(wq.Type) == model.KindEssay {
		q = model.NewEssay(prompt, answer, weight)
	} else {
		q = model.NewShortAnswer(prompt, answer, weight)
	}
	q.Explanation = wq.Explanation
	return q
}

// answerIndex decodes a correctAnswer value as an option index. Numeric
// strings such as "2" are accepted.
func answerIndex(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var idx int
	if err := json.Unmarshal(raw, &idx); err == nil {
		return idx, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if idx, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return idx, true
		}
	}
	return 0, false
}

// answerText decodes a correctAnswer value as free text.
func answerText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// parseLines recovers questions from plain text: each line starting with
// an ordinal marker ("1." or "Question 1") begins a new short-answer
// question with the marker stripped. Duplicate ordinals are kept; IDs are
// reassigned sequentially regardless of the source numbering.
func parseLines(raw string, difficulty model.Difficulty) []model.Question {
	var questions []model.Question
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !ordinalMarker.MatchString(line) {
			continue
		}
		prompt := ordinalMarker.ReplaceAllString(line, "")
		q := model.NewShortAnswer(prompt, placeholderAnswer, model.DefaultWeight(difficulty))
		q.ID = fmt.Sprintf("q%d", len(questions)+1)
		q.Explanation = "This question tests understanding of key concepts from the study material."
		questions = append(questions, q)
	}
	return questions
}
