package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/taskhive/taskhive/internal/domain/entity"
	repo "github.com/taskhive/taskhive/internal/domain/repository"
	"github.com/taskhive/taskhive/pkg/helpers"
)

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrUserNotFound       = errors.New("username not found")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService is the credential store plus token issuance. It owns password
// hashing, uniqueness checks on registration, and subject resolution for the
// auth gateway.
type AuthService struct {
	Users    repo.UserRepository
	JWT      *helpers.JWTManager
	Redis    *redis.Client // optional read-through cache for subject lookups
	CacheTTL time.Duration
	Logger   *logrus.Logger
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, cacheTTL time.Duration, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Redis: rdb, CacheTTL: cacheTTL, Logger: logger}
}

// cachedUser is the redis representation of a user. It deliberately omits
// the password hash.
type cachedUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

func subjectKey(username string) string {
	return "user:subject:" + username
}

// Register creates a new user. The username check runs before the email
// check so a request that collides on both reports the username. The unique
// constraints in the store are the backstop for racing registrations.
func (s *AuthService) Register(ctx context.Context, username, email, rawPassword string) (*entity.User, error) {
	if existing, err := s.Users.GetByUsername(ctx, username); err == nil && existing != nil {
		return nil, ErrDuplicateUsername
	} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	if existing, err := s.Users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrDuplicateEmail
	} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := helpers.HashPassword(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicateUsername):
			return nil, ErrDuplicateUsername
		case errors.Is(err, repo.ErrDuplicateEmail):
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user registered")
	}
	return u, nil
}

// VerifyCredentials checks username/password and returns the user. Lookup
// and comparison failures are distinct errors, per the login contract.
func (s *AuthService) VerifyCredentials(ctx context.Context, username, rawPassword string) (*entity.User, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	ok, err := helpers.VerifyPassword(u.PasswordHash, rawPassword)
	if err != nil || !ok {
		return nil, ErrIncorrectPassword
	}
	return u, nil
}

// Login verifies credentials and issues a bearer token with the username as
// subject.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, error) {
	u, err := s.VerifyCredentials(ctx, username, rawPassword)
	if err != nil {
		return "", err
	}
	token, err := s.JWT.Issue(u.Username)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("issue token failed")
		}
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// ResolveSubject maps a verified token subject to an active user. Any
// failure collapses to ErrInvalidCredentials so the gateway never reveals
// whether the subject exists. Users are immutable once registered, so the
// cache needs no invalidation.
func (s *AuthService) ResolveSubject(ctx context.Context, subject string) (*entity.User, error) {
	if s.Redis != nil {
		var cu cachedUser
		if hit, err := helpers.RedisGetJSON(ctx, s.Redis, subjectKey(subject), &cu); err == nil && hit {
			if !cu.IsActive {
				return nil, ErrInvalidCredentials
			}
			return &entity.User{ID: cu.ID, Username: cu.Username, Email: cu.Email, IsActive: cu.IsActive}, nil
		}
	}

	u, err := s.Users.GetByUsername(ctx, subject)
	if err != nil || u == nil || !u.IsActive {
		return nil, ErrInvalidCredentials
	}

	if s.Redis != nil {
		cu := cachedUser{ID: u.ID, Username: u.Username, Email: u.Email, IsActive: u.IsActive}
		if err := helpers.RedisSetJSON(ctx, s.Redis, subjectKey(subject), cu, s.CacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("subject cache write failed")
		}
	}
	return u, nil
}
