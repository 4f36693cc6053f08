package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"task-manager/internal/apperror"
	"task-manager/internal/models"
	"task-manager/internal/repository"
	"task-manager/pkg/logger"
)

// TokenIssuer signs a bearer token for a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type AuthService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	cost   int
}

func NewAuthService(users repository.UserRepository, tokens TokenIssuer, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, tokens: tokens, cost: bcryptCost}
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func duplicateUsername(username string) *apperror.Error {
	return apperror.Validation(fmt.Sprintf("Duplicate field(username). Please use another value(%s)!", username))
}

// Register stores a new user with a hashed password. The returned user has
// no password.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	_, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		logger.SecurityLogger.Warn("Duplicate username", zap.String("username", username))
		return nil, duplicateUsername(username)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperror.Unexpected(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperror.Unexpected(fmt.Errorf("hash password: %w", err))
	}

	user := &models.User{Username: username, Password: string(hashed)}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration; the unique index caught it.
		if errors.Is(err, repository.ErrDuplicate) {
			logger.SecurityLogger.Warn("Duplicate username", zap.String("username", username))
			return nil, duplicateUsername(username)
		}
		return nil, apperror.Unexpected(err)
	}

	user.Password = ""
	logger.AuditLogger.Info("User registered successfully", zap.String("user_id", user.ID))
	return user, nil
}

// Login checks the credentials and issues a token embedding the user id.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		logger.SecurityLogger.Warn("User not found", zap.String("username", username))
		return nil, apperror.InvalidCredentials()
	}
	if err != nil {
		return nil, apperror.Unexpected(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logger.SecurityLogger.Warn("Invalid password", zap.String("username", username))
		return nil, apperror.InvalidCredentials()
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}

	user.Password = ""
	logger.AuditLogger.Info("Login success", zap.String("user_id", user.ID))
	return &LoginResult{User: user, Token: token}, nil
}
