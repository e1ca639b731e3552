package intent

import "testing"

func TestClassify(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name string
		text string
		want Label
	}{
		{"greeting hello", "hello", Greeting},
		{"greeting good morning", "good morning", Greeting},
		{"greeting with trailing text", "hey there friend", Greeting},
		{"personal info i am", "I am 25 years old", PersonalInfo},
		{"personal info my weight", "my weight is 180 lbs", PersonalInfo},
		{"personal info contraction", "i'm 6 feet tall", PersonalInfo},
		{"goal want to", "I want to lose weight", GoalSetting},
		{"goal trying to", "trying to build strength", GoalSetting},
		{"question how", "How much water should I drink?", Question},
		{"question should i", "should i stretch before running", Question},
		{"question pattern only", "is running good for the knees", Question},
		{"question mark pattern", "benefits of yoga?", Question},
		{"general", "tell me more", General},
		{"empty", "", General},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// Personal-info disclosure outranks a trailing question mark; priority order
// is fixed, not score-based.
func TestClassifyPriority(t *testing.T) {
	c := NewClassifier()

	if got := c.Classify("my weight is 80 kg?"); got != PersonalInfo {
		t.Errorf("Classify personal info with question mark = %q, want %q", got, PersonalInfo)
	}
	if got := c.Classify("I want to know how squats work"); got != GoalSetting {
		t.Errorf("goal keywords should outrank question keywords, got %q", got)
	}
	if got := c.Classify("hi, how are you today?"); got != Question {
		t.Errorf("question keywords should outrank greeting keywords, got %q", got)
	}
}
