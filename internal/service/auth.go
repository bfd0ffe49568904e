package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jcabrera-io/wayfarer/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles signup, login, password hashing, and JWT issue/verify.
type AuthService struct {
	users      domain.UserRepository
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
}

// NewAuthService creates a new AuthService. tokenTTL bounds the validity of
// issued tokens.
func NewAuthService(users domain.UserRepository, jwtSecret string, tokenTTL time.Duration, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
	}
}

// Signup creates a new user account and returns it with a signed token.
func (s *AuthService) Signup(ctx context.Context, name, email, password, imageKey string) (*domain.User, string, error) {
	if name == "" || email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: name, email, and password are required", domain.ErrInvalidInput)
	}
	if len(password) < 5 {
		return nil, "", fmt.Errorf("%w: password must be at least 5 characters", domain.ErrInvalidInput)
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		ImageKey:     imageKey,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrUnauthorized
		}
		return nil, "", fmt.Errorf("get user: %w", err)
	}

	ok, err := s.VerifyCredential(password, user.PasswordHash)
	if err != nil {
		return nil, "", fmt.Errorf("verify credential: %w", err)
	}
	if !ok {
		return nil, "", domain.ErrUnauthorized
	}

	token, err := s.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// HashPassword produces a salted one-way bcrypt digest of the password.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyCredential reports whether the password matches the stored digest.
// A mismatch is (false, nil); only a malformed digest is an error.
func (s *AuthService) VerifyCredential(password, credential string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(credential), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("%w: malformed credential: %w", domain.ErrInvalidInput, err)
}

// IssueToken produces a signed HS256 JWT binding the user ID and email,
// valid for the configured window.
func (s *AuthService) IssueToken(userID, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// VerifyToken parses and validates a token string, returning the embedded
// user ID and email. Verification is pure; failures are classified as
// ErrTokenMalformed, ErrTokenExpired, or ErrTokenInvalid.
func (s *AuthService) VerifyToken(tokenString string) (userID, email string, err error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	token, err := parser.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", "", fmt.Errorf("%w: %w", domain.ErrTokenMalformed, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", "", fmt.Errorf("%w: %w", domain.ErrTokenExpired, err)
		default:
			return "", "", fmt.Errorf("%w: %w", domain.ErrTokenInvalid, err)
		}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", domain.ErrTokenInvalid
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", "", domain.ErrTokenInvalid
	}
	email, _ = claims["email"].(string)

	return sub, email, nil
}

// GetUserByID retrieves a user by their ID.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}
