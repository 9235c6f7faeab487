package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"sgspadmin/internal/models"
	"sgspadmin/internal/repositories"

	"github.com/google/uuid"
)

type AdminService interface {
	List(ctx context.Context) ([]*models.AdminUser, error)
	Create(ctx context.Context, req *models.CreateAdminRequest) (*models.AdminUser, error)
	Update(ctx context.Context, id uuid.UUID, req *models.UpdateAdminRequest) (*models.AdminUser, error)
	ResetPassword(ctx context.Context, id uuid.UUID, newPassword string) error
}

const minPasswordLength = 8

type adminService struct {
	admins repositories.AdminRepository
	hasher PasswordHasher
}

func NewAdminService(admins repositories.AdminRepository, hasher PasswordHasher) AdminService {
	return &adminService{admins: admins, hasher: hasher}
}

func (s *adminService) List(ctx context.Context) ([]*models.AdminUser, error) {
	return s.admins.List(ctx)
}

func (s *adminService) Create(ctx context.Context, req *models.CreateAdminRequest) (*models.AdminUser, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" {
		return nil, validationError("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, validationError("a valid email is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, validationError(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	if _, err := s.admins.GetByEmail(ctx, email); err == nil {
		return nil, ErrAdminExists
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check admin email: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := models.DefaultAdminRole
	if req.Role != nil && strings.TrimSpace(*req.Role) != "" {
		role = strings.ToUpper(strings.TrimSpace(*req.Role))
	}

	admin := &models.AdminUser{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		Active:       true,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		// lost a race with a concurrent create
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrAdminExists
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return admin, nil
}

func (s *adminService) Update(ctx context.Context, id uuid.UUID, req *models.UpdateAdminRequest) (*models.AdminUser, error) {
	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, validationError("name must not be blank")
		}
		admin.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil && strings.TrimSpace(*req.Role) != "" {
		admin.Role = strings.ToUpper(strings.TrimSpace(*req.Role))
	}
	if req.Active != nil {
		admin.Active = *req.Active
	}

	if err := s.admins.Update(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to update admin: %w", err)
	}
	return admin, nil
}

func (s *adminService) ResetPassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return validationError(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.admins.UpdatePassword(ctx, id, hash); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAdminNotFound
		}
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}
