package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/pkg/kit"
)

type loginReq struct {
	Password string `json:"password"`
}

func (s *Server) adminLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req loginReq
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if req.Password == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "password required", nil)
		return
	}

	session, err := s.Sessions.Login(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			kit.WriteError(w, r, http.StatusUnauthorized, "invalid password", nil)
			return
		}
		s.Log.Error("issue session failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, session)
}
