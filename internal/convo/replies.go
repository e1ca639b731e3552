package convo

import (
	"fmt"
	"strings"

	"fitpro/internal/profile"
)

const (
	askNameReply    = "Hi there! I'd love to get to know you. What's your name?"
	generalReply    = "I can help with fitness tips, nutrition, or workouts! Ask me anything."
	farewellReply   = "Goodbye! Keep moving and stay hydrated. 💪"
	resetReply      = "All cleared! Let's start fresh. What's your name?"
	emptyReply      = "Please type a message so I can help!"
	apologyReply    = "Sorry, something went wrong on my end. Please try again."
	gateReply       = "Before I answer, could you tell me your age and weight? That helps me tailor advice to you."
	goalPromptReply = "Tell me more about your goals, like losing weight or building strength!"
	infoPromptReply = "Tell me more about your height, weight, age, or goals!"
	rateLimitReply  = "You've asked a lot of great questions! Give me a few minutes before the next one."
)

// goalPhrases are the recognized fitness goals, scanned as substrings.
var goalPhrases = []string{
	"lose weight",
	"gain muscle",
	"get fit",
	"build strength",
	"improve endurance",
}

func meetReply(name string) string {
	return fmt.Sprintf("Nice to meet you, %s! How can I help you today?", name)
}

func greetingReply(name string) string {
	return fmt.Sprintf("Hello %s! 👋 How can I help you with your fitness journey today?", name)
}

func goalsReply(goals []string) string {
	return fmt.Sprintf("Great goals! I've noted that you want to %s.", strings.Join(goals, ", "))
}

// updateReply acknowledges stored fields and either asks for whichever of age
// and weight is still missing or invites fitness questions.
func updateReply(updated []string, prof profile.Profile) string {
	var b strings.Builder
	b.WriteString("Got it! I've updated your ")
	b.WriteString(strings.Join(updated, ", "))
	b.WriteString(".")

	var missing []string
	if prof.Age == "" {
		missing = append(missing, "age")
	}
	if prof.Weight == "" {
		missing = append(missing, "weight")
	}
	if len(missing) > 0 {
		b.WriteString(" Could you also tell me your ")
		b.WriteString(strings.Join(missing, " and "))
		b.WriteString("?")
	} else {
		b.WriteString(" Feel free to ask me any fitness questions!")
	}
	return b.String()
}
