package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/rs/cors"

	"fitpro/internal/convo"
	"fitpro/internal/metrics"
)

const sessionHeader = "X-Session-ID"

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Server exposes the chat engine over HTTP.
type Server struct {
	engine    *convo.Engine
	metrics   *metrics.Metrics
	logger    *slog.Logger
	staticDir string
}

// NewServer creates the HTTP server facade.
func NewServer(engine *convo.Engine, m *metrics.Metrics, logger *slog.Logger, staticDir string) *Server {
	return &Server{
		engine:    engine,
		metrics:   m,
		logger:    logger.With("component", "httpapi"),
		staticDir: staticDir,
	}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() *chi.Mux {
	router := chi.NewRouter()
	router.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "Accept", sessionHeader},
		ExposedHeaders: []string{sessionHeader},
	}).Handler)

	router.Get("/", s.handleStatic("index.html"))
	router.Get("/styles.css", s.handleStatic("styles.css"))
	router.Get("/healthz", s.handleHealth)
	router.Handle("/metrics", s.metrics.Handler())
	router.Post("/chat", s.handleChat)
	return router
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply := s.engine.HandleMessage(r.Context(), sessionID, req.Message)

	w.Header().Set(sessionHeader, sessionID)
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatic(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(s.staticDir, name))
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
