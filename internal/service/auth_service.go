package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/schoolgate/visitdesk-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any failed admin login attempt.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenType tags issued tokens. Only admin tokens exist today; the tag keeps
// the claim shape stable if a second audience is ever added.
type TokenType string

const TokenTypeAdmin TokenType = "admin"

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"token_type"`
	Username  string    `json:"username"`
}

// AuthService implements the kiosk's placeholder admin gate: one fixed
// credential pair checked against a bcrypt hash, issuing HS256 JWTs.
// Deliberately not hardened: no users, roles, or sessions.
type AuthService struct {
	cfg          *config.Config
	passwordHash []byte
}

// NewAuthService builds the admin gate. When no ADMIN_PASSWORD_HASH is
// configured, the shipped default password is hashed at startup so a fresh
// checkout still has a working login.
func NewAuthService(cfg *config.Config) (*AuthService, error) {
	hash := []byte(cfg.AdminPasswordHash)
	if len(hash) == 0 {
		generated, err := bcrypt.GenerateFromPassword([]byte(config.DefaultAdminPassword), cfg.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash default admin password: %w", err)
		}
		hash = generated
	}
	return &AuthService{cfg: cfg, passwordHash: hash}, nil
}

// Login checks the fixed admin credential pair and returns a signed token.
func (s *AuthService) Login(username, password string) (string, error) {
	if username != s.cfg.AdminUsername {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.generateAdminToken(username)
}

func (s *AuthService) generateAdminToken(username string) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		TokenType: TokenTypeAdmin,
		Username:  username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
