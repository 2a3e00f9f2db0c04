package service

import (
	"context"
	"strings"

	"coinstore/internal/domain"
	"coinstore/internal/models"
	"coinstore/internal/repository"

	"github.com/sirupsen/logrus"
)

type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// UpdateUserInput changes only the non-nil fields.
type UpdateUserInput struct {
	Email    *string
	Role     *string
	IsActive *bool
	Password *string
}

type UserService struct {
	userRepo *repository.UserRepository
	audit    auditor
}

func NewUserService(userRepo *repository.UserRepository, auditRepo *repository.AuditLogRepository, log *logrus.Logger) *UserService {
	return &UserService{userRepo: userRepo, audit: auditor{repo: auditRepo, log: log}}
}

func validRole(role string) bool {
	switch role {
	case domain.RoleAdmin, domain.RoleManager, domain.RoleStaff:
		return true
	}
	return false
}

func (s *UserService) Create(ctx context.Context, actor Actor, in CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, domain.Invalid("username", "required")
	}
	if !validRole(in.Role) {
		return nil, domain.Invalid("role", "must be ADMIN, MANAGER or STAFF")
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Username:     username,
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		Role:         in.Role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.audit.record(ctx, actor, "user.create", "user", u.Username, map[string]string{"role": u.Role})
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, search, role string, page repository.Page) ([]models.User, int64, error) {
	return s.userRepo.List(ctx, search, role, page)
}

func (s *UserService) Update(ctx context.Context, actor Actor, id uint, in UpdateUserInput) (*models.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Role != nil {
		if !validRole(*in.Role) {
			return nil, domain.Invalid("role", "must be ADMIN, MANAGER or STAFF")
		}
		if id == actor.UserID && *in.Role != u.Role {
			return nil, domain.Invalid("role", "cannot change your own role")
		}
		u.Role = *in.Role
	}
	if in.IsActive != nil {
		if id == actor.UserID && !*in.IsActive {
			return nil, domain.Invalid("is_active", "cannot disable your own account")
		}
		u.IsActive = *in.IsActive
	}
	if in.Email != nil {
		u.Email = strings.TrimSpace(*in.Email)
	}
	if in.Password != nil {
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.audit.record(ctx, actor, "user.update", "user", u.Username, map[string]interface{}{"role": u.Role, "is_active": u.IsActive})
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, actor Actor, id uint) error {
	if id == actor.UserID {
		return domain.Invalid("id", "cannot delete your own account")
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.record(ctx, actor, "user.delete", "user", "", map[string]uint{"id": id})
	return nil
}

// RegisterPushToken saves the FCM token for push notifications.
func (s *UserService) RegisterPushToken(ctx context.Context, userID uint, token string) error {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	u.FCMToken = token
	return s.userRepo.Update(ctx, u)
}
