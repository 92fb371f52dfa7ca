package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"officehub/internal/authz"
	"officehub/internal/models"
	"officehub/internal/repositories"
	"officehub/internal/storage"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
)

type UserService interface {
	Register(req models.RegisterRequest) (*models.User, error)
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(actorID int, actorRole string, user *models.User) error
	Delete(id int) error
	List(f models.UserFilter) ([]*models.User, error)
	ListInterns() ([]*models.User, error)
	UpdatePassword(userID int, currentPassword, newPassword string) error
	UploadAvatar(ctx context.Context, userID int, filename string, r io.Reader, size int64, contentType string) (string, error)

	UpdateRefresh(userID int, token string, expiresAt time.Time) error
	RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error)
	ClearRefresh(userID int) error
	GetByRefreshToken(token string) (*models.User, error)
}

type userService struct {
	repo    repositories.UserRepository
	emails  EmailService
	auth    AuthService
	storage storage.ObjectStorage
}

func NewUserService(repo repositories.UserRepository, emails EmailService, auth AuthService, store storage.ObjectStorage) UserService {
	return &userService{repo: repo, emails: emails, auth: auth, storage: store}
}

// в БД табельный номер хранится с префиксом INT, наружу отдаём EMP
func displayEmployeeID(stored string) string {
	if strings.HasPrefix(stored, "INT") {
		return "EMP" + strings.TrimPrefix(stored, "INT")
	}
	return stored
}

func applyDisplay(u *models.User) *models.User {
	if u != nil {
		u.EmployeeID = displayEmployeeID(u.EmployeeID)
	}
	return u
}

func (s *userService) Register(req models.RegisterRequest) (*models.User, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash: %w", err)
	}

	role := req.Role
	if role == "" {
		role = authz.RoleIntern
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		EmployeeID:   fmt.Sprintf("INT%06d", time.Now().UnixNano()%1000000),
		Department:   req.Department,
		Position:     req.Position,
		Status:       "active",
	}
	if err := s.repo.Create(user); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	if s.emails != nil {
		if err := s.emails.SendWelcomeEmail(user.Email, user.Name); err != nil {
			// регистрация не откатывается из-за письма
			log.Printf("[user][register] welcome email to %s failed: %v", user.Email, err)
		}
	}

	return applyDisplay(user), nil
}

func (s *userService) GetByID(id int) (*models.User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return applyDisplay(u), nil
}

func (s *userService) GetByEmail(email string) (*models.User, error) {
	return s.repo.GetByEmail(strings.TrimSpace(strings.ToLower(email)))
}

// Update — админ меняет всё; пользователь — только себя и без смены роли.
func (s *userService) Update(actorID int, actorRole string, user *models.User) error {
	current, err := s.repo.GetByID(user.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrUserNotFound
	}
	if !authz.IsAdmin(actorRole) {
		if actorID != user.ID {
			return ErrForbidden
		}
		user.Role = current.Role
		user.Status = current.Status
		user.SupervisorID = current.SupervisorID
	}
	if user.Role == "" {
		user.Role = current.Role
	}
	if user.Status == "" {
		user.Status = current.Status
	}
	return s.repo.Update(user)
}

func (s *userService) Delete(id int) error {
	return s.repo.Delete(id)
}

func (s *userService) List(f models.UserFilter) ([]*models.User, error) {
	users, err := s.repo.List(f)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		applyDisplay(u)
	}
	return users, nil
}

func (s *userService) ListInterns() ([]*models.User, error) {
	users, err := s.repo.ListInterns()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		applyDisplay(u)
	}
	return users, nil
}

func (s *userService) UpdatePassword(userID int, currentPassword, newPassword string) error {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := s.auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return errors.New("current password is incorrect")
	}
	if len(strings.TrimSpace(newPassword)) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(userID, hash)
}

func (s *userService) UploadAvatar(ctx context.Context, userID int, filename string, r io.Reader, size int64, contentType string) (string, error) {
	key := fmt.Sprintf("avatars/%d/%s%s", userID, uuid.NewString(), filepath.Ext(filename))
	url, err := s.storage.Upload(ctx, key, r, size, contentType)
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	if err := s.repo.UpdateAvatar(userID, url); err != nil {
		return "", err
	}
	return url, nil
}

func (s *userService) UpdateRefresh(userID int, token string, expiresAt time.Time) error {
	return s.repo.UpdateRefresh(userID, token, expiresAt)
}

func (s *userService) RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error) {
	return s.repo.RotateRefresh(oldToken, newToken, newExpiresAt)
}

func (s *userService) ClearRefresh(userID int) error {
	return s.repo.ClearRefresh(userID)
}

func (s *userService) GetByRefreshToken(token string) (*models.User, error) {
	return s.repo.GetByRefreshToken(token)
}
