package models

import "time"

// OtpRecord — состояние одного цикла сброса пароля, ключ — email в нижнем регистре.
// Каждая отправка кода полностью перезаписывает запись.
type OtpRecord struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
	Verified  bool      `json:"verified"`
	UserID    int       `json:"user_id"`
}

type CheckEmailRequest struct {
	Email string `json:"email"`
}

type SendOtpRequest struct {
	Email string `json:"email"`
}

type VerifyOtpRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

type ResetPasswordRequest struct {
	Email           string `json:"email"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}
