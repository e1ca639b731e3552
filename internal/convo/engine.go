package convo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"fitpro/internal/cache"
	"fitpro/internal/extract"
	"fitpro/internal/intent"
	"fitpro/internal/metrics"
	"fitpro/internal/profile"
	"fitpro/internal/retrieval"
	"fitpro/internal/transcript"
)

// session is the dialogue state for one session ID. An empty user means the
// session is still onboarding.
type session struct {
	mu   sync.Mutex
	user string
}

func (s *session) current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *session) set(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = name
}

// Engine routes inbound messages through classification, extraction and
// retrieval, mutating the profile store and producing a textual reply for
// every input.
type Engine struct {
	store      *profile.Store
	classifier *intent.Classifier
	extractor  *extract.Extractor
	retriever  *retrieval.Engine
	transcript *transcript.Repo
	cache      *cache.Redis
	metrics    *metrics.Metrics
	logger     *slog.Logger
	rateLimit  int64
	rateWindow time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

// New creates a conversation engine. transcriptRepo and redisCache may be nil.
func New(store *profile.Store, retriever *retrieval.Engine, transcriptRepo *transcript.Repo, redisCache *cache.Redis, m *metrics.Metrics, logger *slog.Logger, rateLimit int64, rateWindow time.Duration) *Engine {
	return &Engine{
		store:      store,
		classifier: intent.NewClassifier(),
		extractor:  extract.New(),
		retriever:  retriever,
		transcript: transcriptRepo,
		cache:      redisCache,
		metrics:    m,
		logger:     logger.With("component", "convo"),
		rateLimit:  rateLimit,
		rateWindow: rateWindow,
		sessions:   make(map[string]*session),
	}
}

// HandleMessage processes one inbound message for a session and always
// returns a reply. Internal failures never escape; they become a canned
// apology.
func (e *Engine) HandleMessage(ctx context.Context, sessionID, text string) (reply string) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Error("panic handling message", "panic", rec, "session", sessionID)
			e.metrics.Errors.WithLabelValues("handler").Inc()
			reply = apologyReply
		}
	}()

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return emptyReply
	}

	sess := e.session(sessionID)
	user := sess.current()
	e.transcript.Insert(ctx, transcript.Message{
		SessionID: sessionID,
		Username:  user,
		Direction: "incoming",
		Kind:      "text",
		Content:   trimmed,
	})

	if user == "" {
		return e.handleOnboarding(ctx, sessionID, sess, trimmed)
	}

	switch strings.ToLower(trimmed) {
	case "exit", "quit":
		return e.reply(ctx, sessionID, user, "farewell", farewellReply)
	case "reset":
		e.store.Delete(user)
		sess.set("")
		return e.reply(ctx, sessionID, "", "reset", resetReply)
	}

	label := e.classifier.Classify(trimmed)
	e.metrics.IncomingMessages.WithLabelValues(string(label)).Inc()

	switch label {
	case intent.PersonalInfo:
		return e.handlePersonalInfo(ctx, sessionID, user, trimmed)
	case intent.Question:
		return e.handleQuestion(ctx, sessionID, user, trimmed)
	case intent.GoalSetting:
		return e.handleGoals(ctx, sessionID, user, trimmed)
	case intent.Greeting:
		return e.reply(ctx, sessionID, user, "greeting", greetingReply(user))
	default:
		return e.reply(ctx, sessionID, user, "general", generalReply)
	}
}

func (e *Engine) handleOnboarding(ctx context.Context, sessionID string, sess *session, text string) string {
	name, ok := extract.OnboardingName(text)
	if !ok {
		return e.reply(ctx, sessionID, "", "onboarding", askNameReply)
	}
	prof := e.store.GetOrCreate(name)
	sess.set(prof.Name)
	return e.reply(ctx, sessionID, prof.Name, "onboarding", meetReply(prof.Name))
}

func (e *Engine) handlePersonalInfo(ctx context.Context, sessionID, user, text string) string {
	extracted := e.extractor.Extract(text)
	// The permissive name matcher misfires on arbitrary words; names only
	// change during onboarding.
	delete(extracted, extract.FieldName)
	if len(extracted) == 0 {
		return e.reply(ctx, sessionID, user, "personal_info", infoPromptReply)
	}

	var updated []string
	e.store.Update(user, func(p *profile.Profile) {
		if v, ok := extracted[extract.FieldHeight]; ok {
			p.Height = v
			updated = append(updated, fmt.Sprintf("height: %s", v))
		}
		if v, ok := extracted[extract.FieldWeight]; ok {
			p.Weight = v
			updated = append(updated, fmt.Sprintf("weight: %s", v))
		}
		if v, ok := extracted[extract.FieldAge]; ok {
			p.Age = v
			updated = append(updated, fmt.Sprintf("age: %s", v))
		}
	})

	prof, ok := e.store.Get(user)
	if !ok {
		return e.reply(ctx, sessionID, user, "personal_info", infoPromptReply)
	}
	return e.reply(ctx, sessionID, user, "personal_info", updateReply(updated, prof))
}

func (e *Engine) handleQuestion(ctx context.Context, sessionID, user, text string) string {
	prof, ok := e.store.Get(user)
	if !ok {
		e.logger.Error("active session without profile", "user", user)
		return e.reply(ctx, sessionID, user, "error", apologyReply)
	}
	if prof.Age == "" || prof.Weight == "" {
		return e.reply(ctx, sessionID, user, "question_gate", gateReply)
	}
	if !e.allowQuestion(ctx, sessionID) {
		return e.reply(ctx, sessionID, user, "rate_limited", rateLimitReply)
	}

	ans, err := e.retriever.Retrieve(ctx, text, prof.ChatHistory)
	if err != nil {
		e.logger.Error("retrieval failed", "error", err)
		e.metrics.Errors.WithLabelValues("retrieval").Inc()
		return e.reply(ctx, sessionID, user, "error", apologyReply)
	}

	e.store.Update(user, func(p *profile.Profile) {
		p.AppendHistory(ans.Fact)
	})
	return e.reply(ctx, sessionID, user, "question", ans.Text)
}

func (e *Engine) handleGoals(ctx context.Context, sessionID, user, text string) string {
	lowered := strings.ToLower(text)
	var matched []string
	for _, phrase := range goalPhrases {
		if strings.Contains(lowered, phrase) {
			matched = append(matched, phrase)
		}
	}
	if len(matched) == 0 {
		return e.reply(ctx, sessionID, user, "goal_setting", goalPromptReply)
	}

	e.store.Update(user, func(p *profile.Profile) {
		p.AddGoals(matched)
	})
	prof, ok := e.store.Get(user)
	if !ok {
		return e.reply(ctx, sessionID, user, "goal_setting", goalPromptReply)
	}
	return e.reply(ctx, sessionID, user, "goal_setting", goalsReply(prof.FitnessGoals))
}

// reply records the outgoing message and returns it unchanged.
func (e *Engine) reply(ctx context.Context, sessionID, user, category, text string) string {
	e.metrics.Replies.WithLabelValues(category).Inc()
	e.transcript.Insert(ctx, transcript.Message{
		SessionID: sessionID,
		Username:  user,
		Direction: "outgoing",
		Kind:      category,
		Content:   text,
	})
	return text
}

func (e *Engine) session(sessionID string) *session {
	e.mu.Lock()
	defer e.mu.Unlock()
	sess, ok := e.sessions[sessionID]
	if !ok {
		sess = &session{}
		e.sessions[sessionID] = sess
	}
	return sess
}

func (e *Engine) allowQuestion(ctx context.Context, sessionID string) bool {
	if e.cache == nil {
		return true
	}
	key := fmt.Sprintf("rl:question:%s", sessionID)
	client := e.cache.Client()
	res := client.Incr(ctx, key)
	if res.Err() != nil {
		e.logger.Warn("rate limit incr failed", "error", res.Err())
		return true
	}
	if res.Val() == 1 {
		client.Expire(ctx, key, e.rateWindow)
	}
	return res.Val() <= e.rateLimit
}
