package profile

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var nowFunc = time.Now

// Store keeps every known profile in memory and mirrors the full set to a
// single JSON document after each mutation. One mutex serializes access so
// concurrent HTTP requests cannot interleave store writes.
//
// Persistence is best-effort: a missing or corrupt file loads as an empty
// store, and a failed save is logged and dropped, leaving in-memory state
// ahead of disk.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
	users  map[string]*Profile
}

// Open loads the store at path. Load failures are logged, never fatal.
func Open(path string, logger *slog.Logger) *Store {
	s := &Store{
		path:   path,
		logger: logger.With("component", "profile_store"),
		users:  make(map[string]*Profile),
	}
	s.load()
	return s
}

func (s *Store) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed reading user store, starting empty", "error", err)
		}
		return
	}
	var users map[string]*Profile
	if err := json.Unmarshal(raw, &users); err != nil {
		s.logger.Warn("corrupt user store, starting empty", "error", err)
		return
	}
	for name, p := range users {
		if p == nil {
			continue
		}
		if p.FitnessGoals == nil {
			p.FitnessGoals = []string{}
		}
		if p.Preferences == nil {
			p.Preferences = map[string]string{}
		}
		if p.ChatHistory == nil {
			p.ChatHistory = []string{}
		}
		s.users[name] = p
	}
}

// save writes the whole store back to disk. Caller must hold the mutex.
func (s *Store) save() {
	data, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		s.logger.Error("failed encoding user store", "error", err)
		return
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.logger.Error("failed creating store dir", "error", err)
			return
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Error("failed saving user store", "error", err)
	}
}

// Get returns a copy of the named profile.
func (s *Store) Get(name string) (Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.users[name]
	if !ok {
		return Profile{}, false
	}
	return p.clone(), true
}

// GetOrCreate fetches the named profile, creating and persisting it first if
// unknown.
func (s *Store) GetOrCreate(name string) Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.users[name]
	if !ok {
		p = newProfile(name)
		s.users[name] = p
		s.save()
	}
	return p.clone()
}

// Update applies fn to the named profile under the store lock, bumps its
// last-updated timestamp, and persists. It reports whether the profile exists.
func (s *Store) Update(name string, fn func(*Profile)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.users[name]
	if !ok {
		return false
	}
	fn(p)
	p.LastUpdated = nowFunc()
	s.save()
	return true
}

// Delete removes the named profile and persists the change.
func (s *Store) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[name]; !ok {
		return
	}
	delete(s.users, name)
	s.save()
}

// Len reports the number of known profiles.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}
