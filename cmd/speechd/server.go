package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/logger"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/speech"
	"go.uber.org/zap"
)

type server struct {
	logger logger.Logger
	store  speech.Store
	cfg    *speech.Config
}

func newServer(log logger.Logger, store speech.Store, cfg *speech.Config) *server {
	return &server{logger: log, store: store, cfg: cfg}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /speech", s.handleNext)
	mux.HandleFunc("POST /speech/prefill", s.handlePrefill)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

type prefillResponse struct {
	UserID string                  `json:"user_id"`
	Target int                     `json:"target"`
	Depth  map[speech.Category]int `json:"depth"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) handleNext(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, s.store.Next(r.Context(), userID))
}

func (s *server) handlePrefill(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	target := s.cfg.DefaultTarget
	if raw := strings.TrimSpace(r.URL.Query().Get("target")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "target must be an integer"})
			return
		}
		target = n
	}
	target = s.cfg.ClampTarget(target)

	if err := s.store.Prefill(r.Context(), userID, target); err != nil {
		if errors.Is(err, speech.ErrStoreClosed) {
			s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "shutting down"})
			return
		}
		s.logger.Error("prefill failed", zap.String("user_id", userID), zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "prefill failed"})
		return
	}

	s.writeJSON(w, http.StatusOK, prefillResponse{
		UserID: userID,
		Target: target,
		Depth:  s.store.Depth(userID),
	})
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Stats())
}

func (s *server) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if id == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id is required"})
		return "", false
	}
	return id, true
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}
