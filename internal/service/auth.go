package service

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/leads-scraper/internal/auth"
)

// ErrInvalidCredentials is returned for any failed login attempt.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService validates the single configured operator account and issues
// tokens. There is no user table; credentials come from configuration.
type AuthService struct {
	operatorEmail string
	passwordHash  string
	jwt           *auth.JWTManager
}

// NewAuthService constructs a new AuthService.
func NewAuthService(operatorEmail, passwordHash string, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		operatorEmail: strings.ToLower(strings.TrimSpace(operatorEmail)),
		passwordHash:  passwordHash,
		jwt:           jwtManager,
	}
}

// Login validates credentials and returns a JWT.
func (s *AuthService) Login(email, password string) (string, error) {
	if email == "" || password == "" {
		return "", errors.New("email and password must not be empty")
	}
	if s.passwordHash == "" {
		return "", errors.New("operator password hash is not configured")
	}

	if strings.ToLower(strings.TrimSpace(email)) != s.operatorEmail {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken("operator", s.operatorEmail)
	if err != nil {
		return "", err
	}

	return token, nil
}
