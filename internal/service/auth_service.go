package service

import (
	"context"
	"errors"
	"time"

	"coinstore/config"
	"coinstore/internal/auth"
	"coinstore/internal/domain"
	"coinstore/internal/models"
	"coinstore/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCreds = errors.New("invalid username or password")
	ErrInactive     = errors.New("account is disabled")
)

// Login failure reasons recorded in login history.
const (
	reasonUnknownUser = "unknown_user"
	reasonBadPassword = "bad_password"
	reasonInactive    = "inactive"
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ClientMeta identifies where a request came from.
type ClientMeta struct {
	IP        string
	UserAgent string
}

type AuthService struct {
	cfg         *config.Config
	userRepo    *repository.UserRepository
	historyRepo *repository.LoginHistoryRepository
	log         *logrus.Logger
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository, historyRepo *repository.LoginHistoryRepository, log *logrus.Logger) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo, historyRepo: historyRepo, log: log}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AuthService) issue(u *models.User) (TokenPair, error) {
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Username, u.Role)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Login checks credentials and records the attempt, successful or not, in login history.
func (s *AuthService) Login(ctx context.Context, username, password string, meta ClientMeta) (*models.User, TokenPair, error) {
	attempt := &models.LoginHistory{Username: username, IP: meta.IP, UserAgent: meta.UserAgent}
	defer func() {
		if err := s.historyRepo.Create(context.WithoutCancel(ctx), attempt); err != nil {
			s.log.WithError(err).WithField("username", username).Error("record login history failed")
		}
	}()

	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			attempt.Reason = reasonUnknownUser
			return nil, TokenPair{}, ErrInvalidCreds
		}
		attempt.Reason = "error"
		return nil, TokenPair{}, err
	}
	attempt.UserID = &u.ID
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		attempt.Reason = reasonBadPassword
		return nil, TokenPair{}, ErrInvalidCreds
	}
	if !u.IsActive {
		attempt.Reason = reasonInactive
		return nil, TokenPair{}, ErrInactive
	}
	tokens, err := s.issue(u)
	if err != nil {
		attempt.Reason = "error"
		return nil, TokenPair{}, err
	}
	attempt.Success = true

	now := time.Now()
	u.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, u); err != nil {
		s.log.WithError(err).WithField("user_id", u.ID).Warn("update last login failed")
	}
	return u, tokens, nil
}

// Logout closes the user's latest open session in login history.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	err := s.historyRepo.CloseLatest(ctx, userID, time.Now())
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// ChangePassword updates the user's password. Requires current password verification.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrInvalidCreds
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCreds
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return s.userRepo.Update(ctx, u)
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (TokenPair, error) {
	userID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return TokenPair{}, auth.ErrInvalidToken
		}
		return TokenPair{}, err
	}
	if !u.IsActive {
		return TokenPair{}, ErrInactive
	}
	return s.issue(u)
}
