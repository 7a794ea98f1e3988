package api

import (
	"encoding/json"
	"net/http"

	"gitlab.com/yelinaung/expense-api/internal/logger"
	"gitlab.com/yelinaung/expense-api/internal/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type loginRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// handleLogin gets or creates the user for the given email. A repeat
// login with a different name returns the stored user unchanged.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Email and name are required")
		return
	}

	user, err := s.svc.Login(r.Context(), req.Email, req.Name)
	if err != nil {
		logger.Log.Error().Err(err).
			Str("email", logger.RedactEmail(req.Email)).
			Msg("Login failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": toUserResponse(user)})
}

// handleCurrentUser echoes the authenticated user.
func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserResponse(user)})
}

// handleCategories returns the fixed category set.
func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": models.Categories})
}
