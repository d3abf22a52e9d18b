// Package server exposes the gateway operations over HTTP. Validation errors
// map to 400; everything else is a 200 because provider trouble is absorbed
// by the gateway's fallback paths.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"shopassist/internal/catalog"
	"shopassist/internal/gateway"
	"shopassist/internal/provider"
	"shopassist/internal/session"
)

// AI is the slice of the gateway the server needs.
type AI interface {
	Chat(ctx context.Context, in gateway.ChatInput) (string, error)
	Recommend(ctx context.Context, rc gateway.RecommendationContext, items []catalog.Product) ([]string, error)
	Search(ctx context.Context, query string, items []catalog.Product) ([]string, error)
	Describe(ctx context.Context, in gateway.DescribeInput) (gateway.GeneratedText, error)
	Sentiment(ctx context.Context, reviewText string) (gateway.SentimentResult, error)
}

// Server routes storefront AI requests to the gateway.
type Server struct {
	log      zerolog.Logger
	ai       AI
	catalog  *catalog.Catalog
	sessions *session.Store // nil when Redis is not configured
}

// New creates the server. sessions may be nil.
func New(log zerolog.Logger, ai AI, cat *catalog.Catalog, sessions *session.Store) *Server {
	return &Server{log: log, ai: ai, catalog: cat, sessions: sessions}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/chat", s.handleChat).Methods(http.MethodPost)
	r.HandleFunc("/v1/recommendations", s.handleRecommend).Methods(http.MethodPost)
	r.HandleFunc("/v1/search", s.handleSearch).Methods(http.MethodPost)
	r.HandleFunc("/v1/describe", s.handleDescribe).Methods(http.MethodPost)
	r.HandleFunc("/v1/sentiment", s.handleSentiment).Methods(http.MethodPost)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type chatRequest struct {
	Message   string          `json:"message"`
	SessionID string          `json:"session_id,omitempty"`
	History   []provider.Turn `json:"conversation_history,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !s.decode(w, r, &req) {
		return
	}

	ctx := r.Context()
	history := req.History
	// Explicit history wins; the session store only backs callers that
	// track a session id instead.
	useStore := len(history) == 0 && req.SessionID != "" && s.sessions != nil
	if useStore {
		stored, err := s.sessions.History(ctx, req.SessionID)
		if err != nil {
			s.log.Warn().Err(err).Str("session", req.SessionID).Msg("failed to load conversation history")
		} else {
			history = stored
		}
	}

	reply, err := s.ai.Chat(ctx, gateway.ChatInput{
		Message: req.Message,
		History: history,
		Catalog: s.catalog.Digests(100),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	if useStore {
		err := s.sessions.Append(ctx, req.SessionID,
			provider.Turn{Role: provider.RoleUser, Text: req.Message},
			provider.Turn{Role: provider.RoleAssistant, Text: reply},
		)
		if err != nil {
			s.log.Warn().Err(err).Str("session", req.SessionID).Msg("failed to save conversation history")
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req gateway.RecommendationContext
	if !s.decode(w, r, &req) {
		return
	}
	ids, err := s.ai.Recommend(r.Context(), req, s.catalog.Products())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product_ids": ids})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	ids, err := s.ai.Search(r.Context(), req.Query, s.catalog.Products())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product_ids": ids})
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string   `json:"name"`
		Category string   `json:"category,omitempty"`
		Price    float64  `json:"price,omitempty"`
		Features []string `json:"features,omitempty"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	text, err := s.ai.Describe(r.Context(), gateway.DescribeInput{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Features: req.Features,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, text)
}

func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReviewText string `json:"review_text"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	result, err := s.ai.Sentiment(r.Context(), req.ReviewText)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var v *gateway.ValidationError
	if errors.As(err, &v) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": v.Error()})
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		// Client is gone; nothing useful to write.
		w.WriteHeader(http.StatusRequestTimeout)
		return
	}
	s.log.Error().Err(err).Msg("unexpected gateway error")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
