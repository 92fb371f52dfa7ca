package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"officehub/internal/models"
	"officehub/internal/services"
)

type PasswordResetHandler struct {
	service services.PasswordResetService
}

func NewPasswordResetHandler(service services.PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{service: service}
}

// @Summary      Проверка email
// @Description  Проверяет, зарегистрирован ли email, перед отправкой кода
// @Tags         PasswordReset
// @Accept       json
// @Produce      json
// @Param        body  body      models.CheckEmailRequest  true  "Email"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Router       /api/password-reset/check-email [post]
func (h *PasswordResetHandler) CheckEmail(c *gin.Context) {
	var req models.CheckEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is required"})
		return
	}

	user, err := h.service.CheckEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, services.ErrEmailNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Email not found"})
			return
		}
		log.Printf("[password-reset][check-email] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email found",
		"data": gin.H{
			"name":       user.Name,
			"employeeId": user.EmployeeID,
			"email":      user.Email,
			"role":       user.Role,
		},
	})
}

// @Summary      Отправка OTP
// @Description  Генерирует одноразовый код и отправляет его на email
// @Tags         PasswordReset
// @Accept       json
// @Produce      json
// @Param        body  body      models.SendOtpRequest  true  "Email"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Failure      500   {object}  map[string]interface{}
// @Router       /api/password-reset/send-otp [post]
func (h *PasswordResetHandler) SendOtp(c *gin.Context) {
	var req models.SendOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is required"})
		return
	}

	if err := h.service.SendOtp(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, services.ErrEmailNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Email not found"})
		case errors.Is(err, services.ErrEmailDelivery):
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to send OTP email"})
		default:
			log.Printf("[password-reset][send-otp] error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent to your email"})
}

// @Summary      Проверка OTP
// @Description  Сверяет введённый код; после 3 неверных попыток цикл сбрасывается
// @Tags         PasswordReset
// @Accept       json
// @Produce      json
// @Param        body  body      models.VerifyOtpRequest  true  "Email и код"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Router       /api/password-reset/verify-otp [post]
func (h *PasswordResetHandler) VerifyOtp(c *gin.Context) {
	var req models.VerifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Otp) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email and OTP are required"})
		return
	}

	err := h.service.VerifyOtp(c.Request.Context(), req.Email, req.Otp)
	if err != nil {
		var mismatch *services.OtpMismatchError
		switch {
		case errors.As(err, &mismatch):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": mismatch.Error()})
		case errors.Is(err, services.ErrOtpNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No OTP found. Please request a new one."})
		case errors.Is(err, services.ErrOtpExpired):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "OTP has expired. Please request a new one."})
		case errors.Is(err, services.ErrTooManyAttempts):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Too many failed attempts. Please request a new OTP."})
		default:
			log.Printf("[password-reset][verify-otp] error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP verified successfully"})
}

// @Summary      Сброс пароля
// @Description  Устанавливает новый пароль после успешной проверки кода
// @Tags         PasswordReset
// @Accept       json
// @Produce      json
// @Param        body  body      models.ResetPasswordRequest  true  "Email и новый пароль"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Router       /api/password-reset/reset-password [post]
func (h *PasswordResetHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.NewPassword) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email and new password are required"})
		return
	}
	// пароли сверяются до любых обращений к хранилищу
	if strings.TrimSpace(req.NewPassword) != strings.TrimSpace(req.ConfirmPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Passwords do not match"})
		return
	}

	err := h.service.ResetPassword(c.Request.Context(), req.Email, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOtpNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No verified OTP found. Please start over."})
		case errors.Is(err, services.ErrOtpNotVerified):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "OTP is not verified yet"})
		default:
			if msg := err.Error(); strings.Contains(msg, "password must be") {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msg})
				return
			}
			log.Printf("[password-reset][reset] error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset successfully"})
}

// @Summary      Повторная отправка OTP
// @Description  Выдаёт новый код, полностью заменяя предыдущий цикл
// @Tags         PasswordReset
// @Accept       json
// @Produce      json
// @Param        body  body      models.SendOtpRequest  true  "Email"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Router       /api/password-reset/resend-otp [post]
func (h *PasswordResetHandler) ResendOtp(c *gin.Context) {
	var req models.SendOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is required"})
		return
	}

	if err := h.service.ResendOtp(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, services.ErrEmailNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Email not found"})
		case errors.Is(err, services.ErrEmailDelivery):
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to send OTP email"})
		default:
			log.Printf("[password-reset][resend-otp] error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "New OTP sent to your email"})
}
