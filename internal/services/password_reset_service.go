package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"officehub/internal/models"
	"officehub/internal/repositories"
	"officehub/internal/utils"
)

var (
	ErrEmailNotFound   = errors.New("email not found")
	ErrOtpNotFound     = errors.New("otp not found")
	ErrOtpExpired      = errors.New("otp expired")
	ErrTooManyAttempts = errors.New("too many attempts")
	ErrOtpNotVerified  = errors.New("otp not verified")
	ErrEmailDelivery   = errors.New("email delivery failed")
)

// OtpMismatchError — неверный код; Remaining — сколько попыток осталось.
type OtpMismatchError struct {
	Remaining int
}

func (e *OtpMismatchError) Error() string {
	return fmt.Sprintf("Invalid OTP. %d attempts remaining.", e.Remaining)
}

// PasswordResetService — пятишаговый сброс пароля по одноразовому коду:
// check-email -> send-otp -> verify-otp -> reset-password (+ resend-otp).
// Состояние цикла живёт в OtpStore, ключ — email в нижнем регистре.
type PasswordResetService interface {
	CheckEmail(ctx context.Context, email string) (*models.User, error)
	SendOtp(ctx context.Context, email string) error
	VerifyOtp(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, newPassword string) error
	ResendOtp(ctx context.Context, email string) error
}

type passwordResetService struct {
	userRepo repositories.UserRepository
	store    repositories.OtpStore
	emails   EmailService
	auth     AuthService

	ttl         time.Duration
	maxAttempts int
	codeDigits  int

	now func() time.Time // подменяется в тестах
}

func NewPasswordResetService(
	userRepo repositories.UserRepository,
	store repositories.OtpStore,
	emails EmailService,
	auth AuthService,
	ttl time.Duration,
	maxAttempts int,
) PasswordResetService {
	return &passwordResetService{
		userRepo:    userRepo,
		store:       store,
		emails:      emails,
		auth:        auth,
		ttl:         ttl,
		maxAttempts: maxAttempts,
		codeDigits:  4,
		now:         time.Now,
	}
}

func (s *passwordResetService) CheckEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, ErrEmailNotFound
	}
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if user == nil {
		return nil, ErrEmailNotFound
	}
	// наружу уходит публичный профиль, табельный номер — в EMP-виде
	return applyDisplay(user), nil
}

func (s *passwordResetService) SendOtp(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	if user == nil {
		return ErrEmailNotFound
	}

	code, err := utils.NewOtpCode(s.codeDigits)
	if err != nil {
		return fmt.Errorf("send otp: generate code: %w", err)
	}

	rec := &models.OtpRecord{
		Code:      code,
		ExpiresAt: s.now().Add(s.ttl),
		Attempts:  0,
		Verified:  false,
		UserID:    user.ID,
	}
	// каждая отправка полностью перезаписывает предыдущий цикл
	if err := s.store.Set(ctx, email, rec, s.ttl); err != nil {
		return fmt.Errorf("send otp: store: %w", err)
	}

	if err := s.emails.SendOtpEmail(user.Email, code, int(s.ttl.Minutes())); err != nil {
		// письмо не ушло — код никому не попал, запись не должна жить
		log.Printf("[password-reset][send-otp] email to %s failed: %v", user.Email, err)
		if delErr := s.store.Delete(ctx, email); delErr != nil {
			log.Printf("[password-reset][send-otp] cleanup failed for %s: %v", email, delErr)
		}
		return ErrEmailDelivery
	}

	log.Printf("[password-reset][send-otp] code sent to userID=%d", user.ID)
	return nil
}

func (s *passwordResetService) VerifyOtp(ctx context.Context, email, code string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	code = strings.TrimSpace(code)

	rec, err := s.store.Get(ctx, email)
	if err != nil {
		return fmt.Errorf("verify otp: %w", err)
	}
	if rec == nil {
		return ErrOtpNotFound
	}

	// срок действия проверяется первым: просроченная запись отвечает
	// "expired", даже если попытки тоже исчерпаны
	if s.now().After(rec.ExpiresAt) {
		if err := s.store.Delete(ctx, email); err != nil {
			return fmt.Errorf("verify otp: %w", err)
		}
		return ErrOtpExpired
	}

	// лимит проверяется до сравнения: запись, у которой попытки уже
	// исчерпаны, удаляется при следующем же обращении
	if rec.Attempts >= s.maxAttempts {
		if err := s.store.Delete(ctx, email); err != nil {
			return fmt.Errorf("verify otp: %w", err)
		}
		return ErrTooManyAttempts
	}

	if rec.Code != code {
		rec.Attempts++
		if err := s.store.Set(ctx, email, rec, s.ttl); err != nil {
			return fmt.Errorf("verify otp: %w", err)
		}
		return &OtpMismatchError{Remaining: s.maxAttempts - rec.Attempts}
	}

	rec.Verified = true
	if err := s.store.Set(ctx, email, rec, s.ttl); err != nil {
		return fmt.Errorf("verify otp: %w", err)
	}
	log.Printf("[password-reset][verify-otp] code verified for userID=%d", rec.UserID)
	return nil
}

func (s *passwordResetService) ResetPassword(ctx context.Context, email, newPassword string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	newPassword = strings.TrimSpace(newPassword)
	if len(newPassword) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	rec, err := s.store.Get(ctx, email)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if rec == nil {
		return ErrOtpNotFound
	}
	if !rec.Verified {
		return ErrOtpNotVerified
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	// запись обязана указывать на тот же аккаунт, что и email
	if user == nil || user.ID != rec.UserID {
		return ErrOtpNotFound
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("reset password: hash: %w", err)
	}
	if err := s.userRepo.UpdatePassword(user.ID, hash); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	// цикл одноразовый: после успешного сброса запись удаляется
	if err := s.store.Delete(ctx, email); err != nil {
		log.Printf("[password-reset][reset] cleanup failed for %s: %v", email, err)
	}
	log.Printf("[password-reset][reset] password updated for userID=%d", user.ID)
	return nil
}

// ResendOtp — тот же SendOtp: новая запись целиком заменяет старую,
// счётчик попыток обнуляется.
func (s *passwordResetService) ResendOtp(ctx context.Context, email string) error {
	return s.SendOtp(ctx, email)
}
