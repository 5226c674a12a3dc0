package services

import (
	"Folio/internal/apperr"
	"Folio/internal/config"
	"Folio/internal/models"
	"Folio/internal/repository"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.Session, *models.User, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
	CreateUser(ctx context.Context, username, password, fullName string, role models.Role) (*models.User, error)
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

type AuthServiceImpl struct {
	userRepository    repository.UserRepository
	sessionRepository repository.SessionRepository
	sessionTTL        time.Duration
	logService        LogService
	now               func() time.Time
}

func NewAuthService(
	userRepository repository.UserRepository,
	sessionRepository repository.SessionRepository,
	configuration *config.Configuration,
	logService LogService,
) AuthService {
	return &AuthServiceImpl{
		userRepository:    userRepository,
		sessionRepository: sessionRepository,
		sessionTTL:        configuration.Auth.SessionTTL,
		logService:        logService,
		now:               time.Now,
	}
}

// Login checks the password and opens a session. Unknown users and wrong
// passwords fail the same way.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (*models.Session, *models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, nil, apperr.InvalidArgument("username and password are required")
	}

	user, err := s.userRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, nil, apperr.Storage(err, "failed to load user")
	}
	if user == nil {
		return nil, nil, apperr.Unauthenticated("invalid username or password")
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logService.Log.WithField("user", username).Info("failed login attempt")
		return nil, nil, apperr.Unauthenticated("invalid username or password")
	}

	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if err = s.sessionRepository.Create(ctx, session); err != nil {
		return nil, nil, apperr.Storage(err, "failed to create session")
	}
	return session, user, nil
}

func (s *AuthServiceImpl) Authenticate(ctx context.Context, token string) (*models.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperr.Unauthenticated("missing bearer token")
	}

	session, err := s.sessionRepository.FindByToken(ctx, token)
	if err != nil {
		return nil, apperr.Storage(err, "failed to load session")
	}
	if session == nil {
		return nil, apperr.Unauthenticated("invalid or expired session")
	}
	if session.Expired(s.now()) {
		if err = s.sessionRepository.Delete(ctx, token); err != nil {
			s.logService.Log.WithError(err).Warn("failed to remove expired session")
		}
		return nil, apperr.Unauthenticated("invalid or expired session")
	}
	if session.User != nil {
		return session.User, nil
	}

	user, err := s.userRepository.FindByID(ctx, session.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Unauthenticated("invalid or expired session")
	}
	if err != nil {
		return nil, apperr.Storage(err, "failed to load user")
	}
	return user, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if err := s.sessionRepository.Delete(ctx, token); err != nil {
		return apperr.Storage(err, "failed to end session")
	}
	return nil
}

func (s *AuthServiceImpl) CreateUser(ctx context.Context, username, password, fullName string, role models.Role) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperr.InvalidArgument("username is required")
	}
	if len(password) < minPasswordLength {
		return nil, apperr.InvalidArgument("password must be at least %d characters", minPasswordLength)
	}
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, apperr.InvalidArgument("unknown role %q", role)
	}

	existing, err := s.userRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperr.Storage(err, "failed to load user")
	}
	if existing != nil {
		return nil, apperr.Conflict("user %q already exists", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Storage(err, "failed to hash password")
	}
	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(fullName),
		Role:         role,
	}
	if err = s.userRepository.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("user %q already exists", username)
		}
		return nil, apperr.Storage(err, "failed to create user")
	}

	s.logService.Log.WithFields(logrus.Fields{
		"user": user.ID,
		"role": role,
	}).Info("user created")
	return user, nil
}

func (s *AuthServiceImpl) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	removed, err := s.sessionRepository.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, apperr.Storage(err, "failed to purge sessions")
	}
	return removed, nil
}
