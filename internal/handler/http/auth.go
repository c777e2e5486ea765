package handler

import (
	"context"
	"encoding/json"
	"net/http"
)

type AuthService interface {
	// Login verifies staff credentials and returns a signed FOH token
	Login(ctx context.Context, login, password string) (string, error)
}

// AuthHandler represents HTTP handler for staff authentication
type AuthHandler struct {
	svc AuthService
}

// NewAuthHandler creates new AuthHandler instance
func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type loginReq struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginUser authenticates front of house staff and sets the auth cookie
// 200 — authenticated, token set as auth_token cookie.
// 400 — malformed request.
// 401 — invalid login or password.
func (ah *AuthHandler) LoginUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := loginReq{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Login == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		token, err := ah.svc.Login(r.Context(), req.Login, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     "auth_token",
			Value:    token,
			Path:     "/",
			HttpOnly: true,
		})
		w.WriteHeader(http.StatusOK)
	}
}
