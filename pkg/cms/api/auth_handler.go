package api

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"

	"github.com/brightpages/brightpages/pkg/cms"
)

// AuthConfig holds the admin credential and token settings for the API.
type AuthConfig struct {
	AdminEmail    string
	AdminPassword string
	TokenSecret   string
	TokenTTL      time.Duration
}

// Auth issues and verifies the stateless admin token. The old process-local
// "logged in" flag is gone: every admin request carries a signed bearer token
// checked by the Authenticator middleware, and the domain service never sees
// login state.
type Auth struct {
	tokenAuth *jwtauth.JWTAuth
	cfg       AuthConfig
}

// NewAuth creates the auth handler with an HS256 token signer.
func NewAuth(cfg AuthConfig) *Auth {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 7 * 24 * time.Hour
	}
	return &Auth{
		tokenAuth: jwtauth.New("HS256", []byte(cfg.TokenSecret), nil),
		cfg:       cfg,
	}
}

// Verifier extracts and validates a bearer token from the request.
func (a *Auth) Verifier() func(http.Handler) http.Handler {
	return jwtauth.Verifier(a.tokenAuth)
}

// Authenticator rejects requests whose token is missing, malformed or
// expired, using the API's error body shape.
func (a *Auth) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			writeError(w, r, cms.ErrInvalidCredentials)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Routes returns the router for auth endpoints.
func (a *Auth) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", a.Login)
	r.Post("/logout", a.Logout)
	r.Group(func(r chi.Router) {
		r.Use(a.Verifier())
		r.Get("/verify", a.Verify)
	})
	return r
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    userEntry `json:"user"`
}

type userEntry struct {
	Email string `json:"email"`
}

// Login checks the credential against the configured admin account and
// returns a signed token on success.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &cms.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, r, &cms.ValidationError{Field: "credentials", Reason: "email and password are required"})
		return
	}

	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(a.cfg.AdminEmail)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(a.cfg.AdminPassword)) == 1
	if a.cfg.AdminEmail == "" || !emailOK || !passwordOK {
		writeError(w, r, cms.ErrInvalidCredentials)
		return
	}

	claims := map[string]interface{}{"email": req.Email}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, a.cfg.TokenTTL)
	_, tokenString, err := a.tokenAuth.Encode(claims)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("admin login", "email", req.Email)
	writeJSON(w, r, http.StatusOK, loginResponse{
		Message: "Login successful",
		Token:   tokenString,
		User:    userEntry{Email: req.Email},
	})
}

// Logout is a stateless no-op kept for front-end compatibility; the client
// drops its token.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

type verifyResponse struct {
	Valid bool       `json:"valid"`
	User  *userEntry `json:"user,omitempty"`
}

// Verify reports whether the presented token is valid, mirroring the shape
// the admin panel polls for.
func (a *Auth) Verify(w http.ResponseWriter, r *http.Request) {
	token, claims, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		writeJSON(w, r, http.StatusUnauthorized, verifyResponse{Valid: false})
		return
	}

	email, _ := claims["email"].(string)
	writeJSON(w, r, http.StatusOK, verifyResponse{Valid: true, User: &userEntry{Email: email}})
}
