package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/beloteio/belote-backend/internal/auth"
	"github.com/beloteio/belote-backend/internal/store"
)

type API struct {
	users  *store.Users
	tokens *auth.Service
	log    *zap.Logger
}

func NewAPI(users *store.Users, tokens *auth.Service, log *zap.Logger) *API {
	return &API{users: users, tokens: tokens, log: log}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(creds.Username) < 3 || len(creds.Password) < 4 {
		writeError(w, http.StatusBadRequest, "username (3+ chars) and password (4+ chars) required")
		return
	}

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		a.log.Error("password hash failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user, err := a.users.Create(r.Context(), creds.Username, hash, false)
	if errors.Is(err, store.ErrUsernameTaken) {
		writeError(w, http.StatusConflict, "username already taken")
		return
	}
	if err != nil {
		a.log.Error("register failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.issueToken(w, user)
}

func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if creds.Username == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password required")
		return
	}

	user, err := a.users.FindByUsername(r.Context(), creds.Username)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		a.log.Error("login failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, creds.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	a.issueToken(w, user)
}

// Guest creates a throwaway account with a random name, so a visitor can play
// without registering.
func (a *API) Guest(w http.ResponseWriter, r *http.Request) {
	name := "Guest_" + uuid.NewString()[:6]
	hash, err := auth.HashPassword(uuid.NewString())
	if err != nil {
		a.log.Error("password hash failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user, err := a.users.Create(r.Context(), name, hash, true)
	if err != nil {
		a.log.Error("guest auth failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.issueToken(w, user)
}

func (a *API) issueToken(w http.ResponseWriter, user *store.User) {
	token, err := a.tokens.CreateToken(user.ID, user.Username)
	if err != nil {
		a.log.Error("token create failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, UserID: user.ID, Username: user.Username})
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
