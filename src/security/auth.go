package security

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/username/hosteltracker/backend/src/config"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost        = 12
	refreshTokenBytes = 32
)

var errInvalidToken = errors.New("invalid token")

// AuthService issues and verifies the two token kinds the API uses:
// short-lived HS256 access tokens and opaque random refresh tokens
// whose lifetime is tracked in the sessions table.
type AuthService struct {
	secret []byte
	parser *jwt.Parser
}

func NewAuthService(secret string) *AuthService {
	return &AuthService{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

func (a *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (a *AuthService) CompareHashAndPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// GenerateToken issues an access token whose subject is the user id.
// Expiry comes from config so tests and deployments can tune it.
func (a *AuthService) GenerateToken(userID string) (string, error) {
	expiry := 15 * time.Minute
	if config.Cfg != nil {
		expiry = config.Cfg.AccessTokenExpiry
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// GenerateRefreshToken returns an opaque random token. It carries no
// claims; validity lives entirely in the session row it is stored on.
func (a *AuthService) GenerateRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// ValidateToken verifies the signature and expiry of an access token
// and returns its subject (the user id).
func (a *AuthService) ValidateToken(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := a.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", errInvalidToken
	}
	return claims.Subject, nil
}
