package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"officehub/internal/models"
	"officehub/internal/services"
)

// stubResetService — фиксированные ответы на каждый шаг.
type stubResetService struct {
	checkEmailUser *models.User
	checkEmailErr  error
	sendErr        error
	verifyErr      error
	resetErr       error
	resendErr      error
}

func (s *stubResetService) CheckEmail(_ context.Context, _ string) (*models.User, error) {
	return s.checkEmailUser, s.checkEmailErr
}
func (s *stubResetService) SendOtp(_ context.Context, _ string) error      { return s.sendErr }
func (s *stubResetService) VerifyOtp(_ context.Context, _, _ string) error { return s.verifyErr }
func (s *stubResetService) ResetPassword(_ context.Context, _, _ string) error {
	return s.resetErr
}
func (s *stubResetService) ResendOtp(_ context.Context, _ string) error { return s.resendErr }

func newResetRouter(svc services.PasswordResetService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewPasswordResetHandler(svc)
	r.POST("/api/password-reset/check-email", h.CheckEmail)
	r.POST("/api/password-reset/send-otp", h.SendOtp)
	r.POST("/api/password-reset/verify-otp", h.VerifyOtp)
	r.POST("/api/password-reset/reset-password", h.ResetPassword)
	r.POST("/api/password-reset/resend-otp", h.ResendOtp)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestCheckEmailHandler(t *testing.T) {
	svc := &stubResetService{checkEmailUser: &models.User{
		ID: 7, Name: "Айгерим", Email: "intern@example.com",
		EmployeeID: "EMP000123", Role: "intern",
	}}
	r := newResetRouter(svc)

	w, resp := postJSON(t, r, "/api/password-reset/check-email", gin.H{"email": "intern@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])
	// публичный профиль целиком: имя, табельный номер, email, роль
	data := resp["data"].(map[string]any)
	assert.Equal(t, "Айгерим", data["name"])
	assert.Equal(t, "EMP000123", data["employeeId"])
	assert.Equal(t, "intern@example.com", data["email"])
	assert.Equal(t, "intern", data["role"])

	// пустой email — 400 ещё до сервиса
	w, resp = postJSON(t, r, "/api/password-reset/check-email", gin.H{"email": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, resp["success"])
}

func TestCheckEmailHandlerNotFound(t *testing.T) {
	r := newResetRouter(&stubResetService{checkEmailErr: services.ErrEmailNotFound})

	w, resp := postJSON(t, r, "/api/password-reset/check-email", gin.H{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Email not found", resp["message"])
}

func TestSendOtpHandler(t *testing.T) {
	r := newResetRouter(&stubResetService{})

	w, resp := postJSON(t, r, "/api/password-reset/send-otp", gin.H{"email": "intern@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OTP sent to your email", resp["message"])
}

func TestSendOtpHandlerDeliveryFailure(t *testing.T) {
	r := newResetRouter(&stubResetService{sendErr: services.ErrEmailDelivery})

	w, resp := postJSON(t, r, "/api/password-reset/send-otp", gin.H{"email": "intern@example.com"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to send OTP email", resp["message"])
}

func TestVerifyOtpHandlerErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"mismatch", &services.OtpMismatchError{Remaining: 2}, http.StatusBadRequest, "Invalid OTP. 2 attempts remaining."},
		{"not found", services.ErrOtpNotFound, http.StatusBadRequest, "No OTP found. Please request a new one."},
		{"expired", services.ErrOtpExpired, http.StatusBadRequest, "OTP has expired. Please request a new one."},
		{"exhausted", services.ErrTooManyAttempts, http.StatusBadRequest, "Too many failed attempts. Please request a new OTP."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newResetRouter(&stubResetService{verifyErr: tc.err})
			w, resp := postJSON(t, r, "/api/password-reset/verify-otp",
				gin.H{"email": "intern@example.com", "otp": "1234"})
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.message, resp["message"])
		})
	}
}

func TestVerifyOtpHandlerSuccess(t *testing.T) {
	r := newResetRouter(&stubResetService{})

	w, resp := postJSON(t, r, "/api/password-reset/verify-otp",
		gin.H{"email": "intern@example.com", "otp": "1234"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OTP verified successfully", resp["message"])

	// без кода — 400
	w, _ = postJSON(t, r, "/api/password-reset/verify-otp", gin.H{"email": "intern@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetPasswordHandler(t *testing.T) {
	r := newResetRouter(&stubResetService{})

	w, resp := postJSON(t, r, "/api/password-reset/reset-password",
		gin.H{"email": "intern@example.com", "newPassword": "new-secret", "confirmPassword": "new-secret"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Password reset successfully", resp["message"])
}

func TestResetPasswordHandlerPasswordMismatch(t *testing.T) {
	// несовпадение паролей режется до сервиса, каким бы ни было состояние цикла
	r := newResetRouter(&stubResetService{})

	w, resp := postJSON(t, r, "/api/password-reset/reset-password",
		gin.H{"email": "intern@example.com", "newPassword": "abcdef", "confirmPassword": "zzzzzz"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Passwords do not match", resp["message"])

	// отсутствующее подтверждение — тоже несовпадение
	w, resp = postJSON(t, r, "/api/password-reset/reset-password",
		gin.H{"email": "intern@example.com", "newPassword": "abcdef"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Passwords do not match", resp["message"])
}

func TestResetPasswordHandlerErrors(t *testing.T) {
	r := newResetRouter(&stubResetService{resetErr: services.ErrOtpNotFound})
	w, resp := postJSON(t, r, "/api/password-reset/reset-password",
		gin.H{"email": "intern@example.com", "newPassword": "new-secret", "confirmPassword": "new-secret"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No verified OTP found. Please start over.", resp["message"])

	r = newResetRouter(&stubResetService{resetErr: services.ErrOtpNotVerified})
	w, resp = postJSON(t, r, "/api/password-reset/reset-password",
		gin.H{"email": "intern@example.com", "newPassword": "new-secret", "confirmPassword": "new-secret"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "OTP is not verified yet", resp["message"])
}

func TestResendOtpHandler(t *testing.T) {
	r := newResetRouter(&stubResetService{})

	w, resp := postJSON(t, r, "/api/password-reset/resend-otp", gin.H{"email": "intern@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "New OTP sent to your email", resp["message"])
}
