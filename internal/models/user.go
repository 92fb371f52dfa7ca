package models

import "time"

type User struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // не отдаём наружу
	Role         string `json:"role"`       // admin | intern
	EmployeeID   string `json:"employeeId"` // в БД храним INT..., наружу отдаём EMP...
	Department   string `json:"department,omitempty"`
	Position     string `json:"position,omitempty"`
	Phone        string `json:"phone,omitempty"`
	AvatarURL    string `json:"avatarUrl,omitempty"`
	Status       string `json:"status"` // active | inactive

	SupervisorID   *int       `json:"supervisorId,omitempty"`
	SupervisorName string     `json:"supervisorName,omitempty"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`

	// Telegram-уведомления (опционально)
	TelegramChatID int64 `json:"-"`

	// refresh-хранение в БД
	RefreshToken     *string    `json:"-"` // храним opaque строку
	RefreshExpiresAt *time.Time `json:"-"` // срок действия
	RefreshRevoked   bool       `json:"-"` // если понадобится отозвать

	CreatedAt time.Time `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

type UpdateDetailsRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type UserFilter struct {
	Role   string
	Status string
	Search string
	Limit  int
	Offset int
}
