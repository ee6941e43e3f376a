package generate

import (
	"fmt"
	"strings"

	"github.com/unicampus/examgen/internal/model"
)

// minFragmentLen filters out sentence fragments too short to carry a topic.
const minFragmentLen = 15

// maxTopicLen bounds how much of a topic sentence ends up in a prompt.
const maxTopicLen = 80

// genericTopics substitutes for content that yields no usable sentences.
var genericTopics = []string{
	"fundamental concepts and principles",
	"key theories and applications",
	"practical implementations and examples",
	"advanced topics and methodologies",
	"problem-solving techniques",
	"real-world applications",
	"critical analysis and evaluation",
	"comparative studies and research",
}

// kindCycle is the question kind rotation: question i gets kindCycle[i%3].
var kindCycle = []model.QuestionKind{
	model.KindMultipleChoice,
	model.KindShortAnswer,
	model.KindEssay,
}

var questionStarters = map[model.QuestionKind][]string{
	model.KindMultipleChoice: {
		"Which of the following best describes",
		"What is the primary purpose of",
		"According to the material, which statement is correct regarding",
		"The most important characteristic of",
		"Which approach is recommended for",
	},
	model.KindShortAnswer: {
		"Briefly explain the concept of",
		"Define and provide an example of",
		"What are the main advantages of",
		"How does this relate to",
		"Summarize the key points about",
	},
	model.KindEssay: {
		"Analyze and discuss in detail",
		"Compare and contrast",
		"Critically evaluate the importance of",
		"Examine the relationship between",
		"Provide a comprehensive overview of",
	},
}

// Fallback deterministically synthesizes exactly count questions from the
// study content. It uses no random source: topic, kind, and starter are all
// index-selected, and the multiple-choice answer index is always 0, so two
// calls with identical inputs produce identical questions.
func Fallback(content string, count int, difficulty model.Difficulty) []model.Question {
	topics := extractTopics(content)
	weight := model.DefaultWeight(difficulty)

	questions := make([]model.Question, 0, count)
	for i := 0; i < count; i++ {
		kind := kindCycle[i%len(kindCycle)]
		topic := strings.TrimSpace(topics[i%len(topics)])
		starters := questionStarters[kind]
		starter := starters[i%len(starters)]
		prompt := starter + " " + truncate(topic, maxTopicLen) + "?"

		var q model.Question
		if kind == model.KindMultipleChoice {
			q = fallbackChoice(prompt, topic, weight)
		} else {
			answer := fmt.Sprintf("A comprehensive answer should include discussion of %s... "+
				"Key points to cover would be the theoretical foundation, practical applications, "+
				"and relevant examples from the course material.", truncate(topic, 50))
			if kind == model.KindEssay {
				q = model.NewEssay(prompt, answer, weight)
			} else {
				q = model.NewShortAnswer(prompt, answer, weight)
			}
		}
		q.ID = fmt.Sprintf("q%d", i+1)
		questions = append(questions, q)
	}
	return questions
}

// extractTopics splits content on sentence-terminal punctuation and keeps
// fragments long enough to name a topic. Empty results substitute the
// generic topic list.
func extractTopics(content string) []string {
	var topics []string
	for _, frag := range strings.FieldsFunc(content, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if len(strings.TrimSpace(frag)) > minFragmentLen {
			topics = append(topics, frag)
		}
	}
	if len(topics) == 0 {
		return genericTopics
	}
	return topics
}

// fallbackChoice synthesizes four options from the topic's leading words.
// The correct index is fixed at 0 to keep the generator deterministic.
func fallbackChoice(prompt, topic string, weight int) model.Question {
	words := strings.Fields(topic)
	if len(words) > 3 {
		words = words[:3]
	}
	key := strings.Join(words, " ")

	options := []string{
		key + " involves primarily theoretical aspects",
		key + " focuses on practical implementation",
		key + " combines both theory and practice",
		key + " is mainly used for research purposes",
	}
	q, err := model.NewMultipleChoice(prompt, options, 0, weight)
	if err != nil {
		// Unreachable: options and index are synthesized in range.
		return model.NewShortAnswer(prompt, options[0], weight)
	}
	return q
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
