package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL is the fixed validity window of issued tokens.
const tokenTTL = 7 * 24 * time.Hour

var ErrInvalidToken = errors.New("auth: invalid or expired token")

// Claims is the payload carried by issued tokens. Any other embedded data is
// ignored on verification.
type Claims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// Service hashes and verifies passwords, and issues and verifies the bearer
// tokens attached to incoming requests.
type Service struct {
	secret []byte
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// HashPassword returns a salted one-way hash. Two calls with the same input
// produce different hashes; use CheckPassword to verify.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func (s *Service) CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken signs a token carrying the user identifier, valid for seven
// days from issuance.
func (s *Service) IssueToken(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		ID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// VerifyToken returns the user identifier embedded in token, or
// ErrInvalidToken for malformed, tampered or expired tokens.
func (s *Service) VerifyToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}
