package intent

import (
	"regexp"
	"strings"
)

// Label is a closed-set classification of a user message.
type Label string

const (
	PersonalInfo Label = "personal_info"
	GoalSetting  Label = "goal_setting"
	Question     Label = "question"
	Greeting     Label = "greeting"
	General      Label = "general"
)

type category struct {
	label    Label
	keywords []string
	patterns []*regexp.Regexp
}

// Classifier maps free text to an intent label via keyword and pattern
// matching. Categories are evaluated in a fixed priority order; personal-info
// disclosure deliberately outranks a trailing question mark.
type Classifier struct {
	categories []category
}

// NewClassifier builds the classifier with its fixed category set.
func NewClassifier() *Classifier {
	return &Classifier{
		categories: []category{
			{
				label:    PersonalInfo,
				keywords: []string{"my", "i am", "i weigh", "my height", "my weight", "my age", "i'm"},
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`\bi(?:'m| am)\s+\d`),
					regexp.MustCompile(`\bmy\s+(?:height|weight|age|name)\s+is\b`),
					regexp.MustCompile(`\bi\s+weigh\b`),
				},
			},
			{
				label:    GoalSetting,
				keywords: []string{"want to", "goal", "trying to", "hoping to", "plan to"},
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`\b(?:want|trying|hoping|plan(?:ning)?)\s+to\b`),
					regexp.MustCompile(`\bmy goals?\b`),
				},
			},
			{
				label:    Question,
				keywords: []string{"how", "what", "when", "where", "why", "can you", "should i", "is it"},
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`\?\s*$`),
					regexp.MustCompile(`^(?:how|what|when|where|why|can|could|should|is|are|do|does)\b`),
				},
			},
			{
				label:    Greeting,
				keywords: []string{"hello", "hi", "hey", "good morning", "good afternoon"},
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`^(?:hello|hi|hey|howdy|good\s+(?:morning|afternoon|evening))\b`),
				},
			},
		},
	}
}

// Classify returns the first category whose keywords or patterns match the
// lower-cased input, or General when nothing matches.
func (c *Classifier) Classify(text string) Label {
	lowered := strings.ToLower(strings.TrimSpace(text))
	for _, cat := range c.categories {
		for _, kw := range cat.keywords {
			if strings.Contains(lowered, kw) {
				return cat.label
			}
		}
		for _, p := range cat.patterns {
			if p.MatchString(lowered) {
				return cat.label
			}
		}
	}
	return General
}
