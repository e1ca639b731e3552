package profile

import (
	"slices"
	"time"
)

// historyCap bounds persisted chat history; only the most recent entries are
// ever consulted.
const historyCap = 50

// Profile is one user's persisted state, keyed by name.
type Profile struct {
	Name         string            `json:"name"`
	Height       string            `json:"height"`
	Weight       string            `json:"weight"`
	Age          string            `json:"age"`
	FitnessGoals []string          `json:"fitness_goals"`
	Preferences  map[string]string `json:"preferences"`
	ChatHistory  []string          `json:"chat_history"`
	LastUpdated  time.Time         `json:"last_updated"`
}

func newProfile(name string) *Profile {
	return &Profile{
		Name:         name,
		FitnessGoals: []string{},
		Preferences:  map[string]string{},
		ChatHistory:  []string{},
		LastUpdated:  time.Now(),
	}
}

// AddGoals appends goals not already present, preserving insertion order.
func (p *Profile) AddGoals(goals []string) {
	for _, g := range goals {
		if !slices.Contains(p.FitnessGoals, g) {
			p.FitnessGoals = append(p.FitnessGoals, g)
		}
	}
}

// AppendHistory records a reply shown to the user, trimming to the newest
// historyCap entries.
func (p *Profile) AppendHistory(reply string) {
	p.ChatHistory = append(p.ChatHistory, reply)
	if len(p.ChatHistory) > historyCap {
		p.ChatHistory = p.ChatHistory[len(p.ChatHistory)-historyCap:]
	}
}

// RecentHistory returns up to the last n history entries.
func (p *Profile) RecentHistory(n int) []string {
	if len(p.ChatHistory) <= n {
		return p.ChatHistory
	}
	return p.ChatHistory[len(p.ChatHistory)-n:]
}

func (p *Profile) clone() Profile {
	out := *p
	out.FitnessGoals = slices.Clone(p.FitnessGoals)
	out.ChatHistory = slices.Clone(p.ChatHistory)
	out.Preferences = make(map[string]string, len(p.Preferences))
	for k, v := range p.Preferences {
		out.Preferences[k] = v
	}
	return out
}
