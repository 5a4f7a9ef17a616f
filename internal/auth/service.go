package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/simonkvalheim/bankist/internal/model"
)

// Config holds authentication configuration
type Config struct {
	JWTSecret   []byte        // Secret key for signing tokens
	TokenExpiry time.Duration // How long access tokens are valid
	PINCost     int           // bcrypt cost for hashing pins
	Issuer      string
}

// DefaultConfig returns sensible defaults
func DefaultConfig(jwtSecret string) Config {
	return Config{
		JWTSecret:   []byte(jwtSecret),
		TokenExpiry: 30 * time.Minute,
		PINCost:     bcrypt.DefaultCost,
		Issuer:      "bankist",
	}
}

// Claims represents the JWT payload
type Claims struct {
	jwt.RegisteredClaims
	SessionID uuid.UUID `json:"session_id"`
	Username  string    `json:"username"`
}

// Token is a signed access token and its expiry
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Service issues and validates session tokens and hashes pins
type Service struct {
	config Config
	now    func() time.Time
}

// NewService creates a new auth service
func NewService(config Config) *Service {
	return &Service{config: config, now: time.Now}
}

// WithClock replaces the time source used for issuing and validating tokens
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// HashPIN hashes a numeric pin for storage
func (s *Service) HashPIN(pin int) (string, error) {
	cost := s.config.PINCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(strconv.Itoa(pin)), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash pin: %w", err)
	}
	return string(hash), nil
}

// CheckPIN reports whether the form input is the pin behind hash.
// The input is parsed as a number first, so " 1111" matches 1111.
func CheckPIN(hash, input string) bool {
	if hash == "" {
		return false
	}
	pin, err := model.ParsePIN(input)
	if err != nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(strconv.Itoa(pin))) == nil
}

// IssueToken signs an access token bound to a session
func (s *Service) IssueToken(sessionID uuid.UUID, username string) (*Token, error) {
	now := s.now()
	expiry := now.Add(s.config.TokenExpiry)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			Issuer:    s.config.Issuer,
		},
		SessionID: sessionID,
		Username:  username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.config.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Token{AccessToken: signed, ExpiresAt: expiry}, nil
}

// ValidateToken parses and validates a JWT token
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.config.JWTSecret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(s.config.Issuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.SessionID == uuid.Nil {
		return nil, errors.New("token is not bound to a session")
	}

	return claims, nil
}
