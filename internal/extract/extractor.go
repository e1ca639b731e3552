package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Field identifies a profile attribute an extractor can pull from text.
type Field string

const (
	FieldHeight Field = "height"
	FieldWeight Field = "weight"
	FieldAge    Field = "age"
	FieldName   Field = "name"
)

// Result is one extracted field value.
type Result struct {
	Field Field
	Value string
}

// Matcher attempts extraction of a single field from lower-cased text.
type Matcher interface {
	Field() Field
	Match(text string) (Result, bool)
}

type patternMatcher struct {
	field    Field
	patterns []*regexp.Regexp
}

func (m *patternMatcher) Field() Field { return m.field }

// Match tries the ordered pattern list and returns the first hit. A pattern
// capturing two groups is the feet+inches height form and is normalized to
// a combined representation; otherwise the first captured group is taken as
// the raw value, with no unit conversion.
func (m *patternMatcher) Match(text string) (Result, bool) {
	for _, p := range m.patterns {
		sub := p.FindStringSubmatch(text)
		if sub == nil {
			continue
		}
		if len(sub) >= 3 && sub[2] != "" {
			return Result{Field: m.field, Value: feetInches(sub[1], sub[2])}, true
		}
		return Result{Field: m.field, Value: sub[1]}, true
	}
	return Result{}, false
}

// Extractor runs an ordered list of independent field matchers. Fields are
// independent; a message may yield zero, one, or several at once.
type Extractor struct {
	matchers []Matcher
}

// New builds the extractor with its fixed matcher set.
func New() *Extractor {
	return &Extractor{
		matchers: []Matcher{
			&patternMatcher{
				field: FieldHeight,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`(\d+)\s*(?:feet|ft|')\s*(\d+)\s*(?:inches|in|")`),
					regexp.MustCompile(`(\d+)\s*(?:feet|ft|')`),
					regexp.MustCompile(`(\d+\.?\d*)\s*(?:cm|centimeters)`),
					regexp.MustCompile(`my height is (\d+\.?\d*)`),
					regexp.MustCompile(`i am (\d+\.?\d*)\s*(?:feet|ft|cm|tall)`),
				},
			},
			&patternMatcher{
				field: FieldWeight,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`(\d+\.?\d*)\s*(?:lbs|pounds|lb)`),
					regexp.MustCompile(`(\d+\.?\d*)\s*(?:kg|kilograms)`),
					regexp.MustCompile(`i weigh (\d+\.?\d*)`),
					regexp.MustCompile(`my weight is (\d+\.?\d*)`),
				},
			},
			&patternMatcher{
				field: FieldAge,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`i am (\d+)\s*(?:years old|years|yrs)`),
					regexp.MustCompile(`i'm (\d+)\s*(?:years old|years|yrs)`),
					regexp.MustCompile(`my age is (\d+)`),
					regexp.MustCompile(`(\d+)\s*years old`),
				},
			},
			// The name matcher is intentionally permissive and matches almost
			// any leading word. Callers updating profiles must ignore it; name
			// capture goes through OnboardingName instead.
			&patternMatcher{
				field: FieldName,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?:my name is|i'm|call me)?\s*(\w+)`),
				},
			},
		},
	}
}

// Extract returns the fields found in text, keyed by field name.
func (e *Extractor) Extract(text string) map[Field]string {
	lowered := strings.ToLower(text)
	extracted := make(map[Field]string)
	for _, m := range e.matchers {
		if res, ok := m.Match(lowered); ok {
			extracted[res.Field] = res.Value
		}
	}
	return extracted
}

var onboardingNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bmy name is\s+(\w+)`),
	regexp.MustCompile(`\bi'?m\s+(\w+)`),
	regexp.MustCompile(`\bcall me\s+(\w+)`),
}

// OnboardingName scans text with the strict name-capture patterns used while
// no user is active. The first non-empty capture in pattern-priority order
// wins and is capitalized.
func OnboardingName(text string) (string, bool) {
	lowered := strings.ToLower(strings.TrimSpace(text))
	for _, p := range onboardingNamePatterns {
		if sub := p.FindStringSubmatch(lowered); sub != nil && sub[1] != "" {
			return capitalize(sub[1]), true
		}
	}
	return "", false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func feetInches(feetStr, inchesStr string) string {
	feet, _ := strconv.Atoi(feetStr)
	inches, _ := strconv.Atoi(inchesStr)
	total := feet*12 + inches
	return fmt.Sprintf(`%d'%d" (%d inches)`, feet, inches, total)
}
