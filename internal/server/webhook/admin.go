package webhook

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/anongap/anongap/internal/server/auth"
)

// handleAdminToken exchanges the shared admin secret for a short-lived
// bearer token.
func (s *Server) handleAdminToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Secret string `json:"secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if s.opts.AdminSecretKey == "" ||
		subtle.ConstantTimeCompare([]byte(req.Secret), []byte(s.opts.AdminSecretKey)) != 1 {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateToken(auth.RoleAdmin, s.opts.AdminSigningKey, s.opts.AdminTokenValidity)
	if err != nil {
		s.logger.Error(r.Context(), "generating admin token", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"token": token})
}

// handleAdminStats serves the daily counters for ?day=YYYY-MM-DD,
// defaulting to today.
func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	tokenString, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	role, err := auth.GetRoleFromToken(tokenString, s.opts.AdminSigningKey)
	if err != nil || role != auth.RoleAdmin {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	day := time.Now().UTC()
	if q := r.URL.Query().Get("day"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			http.Error(w, "bad day format", http.StatusBadRequest)
			return
		}
		day = parsed
	}

	snapshot, err := s.stats.Snapshot(r.Context(), day)
	if err != nil {
		s.logger.Error(r.Context(), "reading stats snapshot", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"day":      day.Format("2006-01-02"),
		"counters": snapshot,
	})
}
