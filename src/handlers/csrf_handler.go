package handlers

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/username/hosteltracker/backend/src/logger"
	"github.com/username/hosteltracker/backend/src/utils"
)

const (
	csrfCookieName = "_gorilla_csrf"
	csrfHeaderName = "X-CSRF-Token"
)

// CSRFHandler implements the double-submit cookie scheme: the token is
// handed out via cookie and header, and mutating requests must echo it
// back in the header. Tokens are HMAC-signed so a forged cookie cannot
// mint its own.
type CSRFHandler struct {
	authKey []byte
}

func NewCSRFHandler(authKey []byte) *CSRFHandler {
	return &CSRFHandler{authKey: authKey}
}

// GetCSRFToken issues a fresh signed token in both the cookie and the
// response header.
func (h *CSRFHandler) GetCSRFToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.newToken()
	if err != nil {
		logger.L.Error("Failed to generate CSRF token", "error", err)
		utils.SendJSONError(w, "Failed to generate CSRF token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int((12 * time.Hour).Seconds()),
		HttpOnly: false, // the frontend reads it to echo the header
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(csrfHeaderName, token)
	utils.SendJSON(w, map[string]string{"csrfToken": token}, http.StatusOK)
}

// Middleware enforces the double-submit check on mutating methods.
func (h *CSRFHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(csrfCookieName)
		if err != nil {
			utils.SendJSONError(w, "CSRF cookie missing", http.StatusForbidden)
			return
		}
		headerToken := r.Header.Get(csrfHeaderName)
		if headerToken == "" {
			utils.SendJSONError(w, "CSRF token missing", http.StatusForbidden)
			return
		}
		if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(headerToken)) != 1 {
			logger.L.Warn("CSRF token mismatch", "path", r.URL.Path)
			utils.SendJSONError(w, "CSRF token mismatch", http.StatusForbidden)
			return
		}
		if !h.verifyToken(headerToken) {
			logger.L.Warn("CSRF token signature invalid", "path", r.URL.Path)
			utils.SendJSONError(w, "CSRF token invalid", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *CSRFHandler) newToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	value := base64.RawURLEncoding.EncodeToString(raw)
	return value + "." + h.sign(value), nil
}

func (h *CSRFHandler) verifyToken(token string) bool {
	value, sig, found := strings.Cut(token, ".")
	if !found {
		return false
	}
	expected := h.sign(value)
	return subtle.ConstantTimeCompare([]byte(sig), []byte(expected)) == 1
}

func (h *CSRFHandler) sign(value string) string {
	mac := hmac.New(sha256.New, h.authKey)
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}
