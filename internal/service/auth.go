package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pacemaker_dcm/internal/models"
	"pacemaker_dcm/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTTL     = time.Hour
	signingKey   = "brady2029dcm" // TODO: move to config
	maxOperators = 10             // local install cap
)

// Domain errors for auth flows.
var (
	ErrInvalidPassword  = errors.New("invalid password")
	ErrOperatorNotFound = errors.New("operator not found")
	ErrOperatorExists   = errors.New("operator already registered")
	ErrOperatorLimit    = fmt.Errorf("operator capacity reached (max %d)", maxOperators)
	ErrInvalidToken     = errors.New("invalid token")
)

// AuthService handles operator registration and session tokens.
type AuthService struct {
	operators repository.Operators
	events    repository.EventRepo
}

func NewAuthService(operators repository.Operators, events repository.EventRepo) *AuthService {
	return &AuthService{operators: operators, events: events}
}

// Register hashes the password and creates a new operator. Usernames are
// unique case-insensitively and capped at maxOperators.
func (s *AuthService) Register(ctx context.Context, username, password string) (int, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, errors.New("username is empty")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("invalid password: %w", err)
	}

	n, err := s.operators.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n >= maxOperators {
		return 0, ErrOperatorLimit
	}
	existing, err := s.operators.GetByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, ErrOperatorExists
	}

	id, err := s.operators.Create(ctx, username, hash)
	if err != nil {
		return 0, err
	}
	_ = s.events.Append(ctx, models.AuditEvent{
		Type:        models.EventRegister,
		Description: "Operator registered: " + username,
	})
	return id, nil
}

// Claims defines JWT claims carrying the operator username.
type Claims struct {
	jwt.RegisteredClaims
	Operator string `json:"operator"`
}

// GenerateToken validates credentials and returns a signed JWT.
func (s *AuthService) GenerateToken(ctx context.Context, username, password string) (string, error) {
	op, err := s.operators.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if op == nil {
		return "", ErrOperatorNotFound
	}

	if err := verifyPassword(op.PasswordHash, password); err != nil {
		return "", ErrInvalidPassword
	}

	token, err := issueToken(op.Username)
	if err != nil {
		return "", err
	}
	_ = s.events.Append(ctx, models.AuditEvent{
		Type:        models.EventLogin,
		Description: "Operator logged in: " + op.Username,
	})
	return token, nil
}

// ParseToken parses a JWT and returns the operator username.
func (s *AuthService) ParseToken(accessToken string) (string, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(signingKey), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Operator == "" {
		return "", ErrInvalidToken
	}

	return claims.Operator, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// helper: issue a signed JWT for an operator
func issueToken(operator string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Operator: operator,
	})
	return token.SignedString([]byte(signingKey))
}
