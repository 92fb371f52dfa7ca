package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"officehub/internal/models"
	"officehub/internal/repositories"
)

// --- фейки ---

// fakeUserRepo — только то, что нужно сбросу пароля; остальное не вызывается.
type fakeUserRepo struct {
	repositories.UserRepository

	users     map[string]*models.User // ключ — email в нижнем регистре
	passwords map[int]string          // userID -> последний сохранённый хеш
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{
		users:     make(map[string]*models.User),
		passwords: make(map[int]string),
	}
	for _, u := range users {
		r.users[u.Email] = u
	}
	return r
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	return r.users[email], nil
}

func (r *fakeUserRepo) UpdatePassword(userID int, hash string) error {
	r.passwords[userID] = hash
	return nil
}

// fakeEmailService — запоминает последний отправленный код.
type fakeEmailService struct {
	lastEmail string
	lastCode  string
	sent      int
	fail      error // если задан — отправка «падает»
}

func (s *fakeEmailService) SendOtpEmail(email, code string, _ int) error {
	if s.fail != nil {
		return s.fail
	}
	s.lastEmail = email
	s.lastCode = code
	s.sent++
	return nil
}

func (s *fakeEmailService) SendWelcomeEmail(_, _ string) error { return nil }

// fakeAuthService — без bcrypt, чтобы тесты не тормозили.
type fakeAuthService struct{}

func (fakeAuthService) HashPassword(password string) (string, error) { return "hash:" + password, nil }
func (fakeAuthService) ComparePassword(hash, password string) error {
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type resetFixture struct {
	svc    *passwordResetService
	users  *fakeUserRepo
	emails *fakeEmailService
	store  repositories.OtpStore
	clock  time.Time
}

func newResetFixture(t *testing.T) *resetFixture {
	t.Helper()
	f := &resetFixture{
		users: newFakeUserRepo(
			&models.User{
				ID: 7, Name: "Айгерим", Email: "intern@example.com",
				EmployeeID: "INT000123", Role: "intern", Status: "active",
			},
		),
		emails: &fakeEmailService{},
		store:  repositories.NewMemoryOtpStore(),
		clock:  time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	svc := NewPasswordResetService(f.users, f.store, f.emails, fakeAuthService{}, 10*time.Minute, 3)
	f.svc = svc.(*passwordResetService)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

// --- тесты ---

func TestCheckEmail(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	user, err := f.svc.CheckEmail(ctx, "  Intern@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, "EMP000123", user.EmployeeID) // наружу — EMP-вид

	_, err = f.svc.CheckEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrEmailNotFound)

	_, err = f.svc.CheckEmail(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmailNotFound)
}

func TestPasswordResetHappyPath(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SendOtp(ctx, "intern@example.com"))
	require.Len(t, f.emails.lastCode, 4)
	assert.NotEqual(t, byte('0'), f.emails.lastCode[0]) // код из [1000, 9999]
	assert.Equal(t, "intern@example.com", f.emails.lastEmail)

	require.NoError(t, f.svc.VerifyOtp(ctx, "intern@example.com", f.emails.lastCode))
	require.NoError(t, f.svc.ResetPassword(ctx, "intern@example.com", "new-secret"))

	assert.Equal(t, "hash:new-secret", f.users.passwords[7])

	// цикл одноразовый: запись удалена
	err := f.svc.ResetPassword(ctx, "intern@example.com", "another-pass")
	assert.ErrorIs(t, err, ErrOtpNotFound)
}

func TestSendOtpUnknownEmail(t *testing.T) {
	f := newResetFixture(t)
	err := f.svc.SendOtp(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrEmailNotFound)
}

func TestSendOtpEmailFailureDropsRecord(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	f.emails.fail = errors.New("smtp down")
	err := f.svc.SendOtp(ctx, "intern@example.com")
	assert.ErrorIs(t, err, ErrEmailDelivery)

	// код никому не ушёл — записи быть не должно
	err = f.svc.VerifyOtp(ctx, "intern@example.com", "0000")
	assert.ErrorIs(t, err, ErrOtpNotFound)
}

func TestVerifyOtpWithoutRecord(t *testing.T) {
	f := newResetFixture(t)
	err := f.svc.VerifyOtp(context.Background(), "intern@example.com", "1234")
	assert.ErrorIs(t, err, ErrOtpNotFound)
}

func TestVerifyOtpExpired(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SendOtp(ctx, "intern@example.com"))
	code := f.emails.lastCode

	f.clock = f.clock.Add(11 * time.Minute)
	err := f.svc.VerifyOtp(ctx, "intern@example.com", code)
	assert.ErrorIs(t, err, ErrOtpExpired)

	// просроченная запись удалена, а не оставлена «висеть»
	err = f.svc.VerifyOtp(ctx, "intern@example.com", code)
	assert.ErrorIs(t, err, ErrOtpNotFound)
}

func TestVerifyOtpAttemptLimit(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SendOtp(ctx, "intern@example.com"))
	code := f.emails.lastCode
	wrong := "0000"
	if wrong == code {
		wrong = "0001"
	}

	for _, remaining := range []int{2, 1, 0} {
		err := f.svc.VerifyOtp(ctx, "intern@example.com", wrong)
		var mismatch *OtpMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, remaining, mismatch.Remaining)
	}

	// лимит исчерпан: следующее обращение удаляет запись,
	// даже если код на этот раз правильный
	err := f.svc.VerifyOtp(ctx, "intern@example.com", code)
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	err = f.svc.VerifyOtp(ctx, "intern@example.com", code)
	assert.ErrorIs(t, err, ErrOtpNotFound)
}

// Просроченная и одновременно исчерпанная запись отвечает "expired":
// срок действия проверяется раньше лимита попыток.
func TestVerifyOtpExpiredBeatsAttemptLimit(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	rec := &models.OtpRecord{
		Code:      "1234",
		ExpiresAt: f.clock.Add(-time.Minute),
		Attempts:  3,
		UserID:    7,
	}
	require.NoError(t, f.store.Set(ctx, "intern@example.com", rec, time.Minute))

	err := f.svc.VerifyOtp(ctx, "intern@example.com", "1234")
	assert.ErrorIs(t, err, ErrOtpExpired)

	err = f.svc.VerifyOtp(ctx, "intern@example.com", "1234")
	assert.ErrorIs(t, err, ErrOtpNotFound)
}

func TestVerifyOtpSucceedsAfterMistakes(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SendOtp(ctx, "intern@example.com"))
	code := f.emails.lastCode
	wrong := "0000"
	if wrong == code {
		wrong = "0001"
	}

	var mismatch *OtpMismatchError
	require.ErrorAs(t, f.svc.VerifyOtp(ctx, "intern@example.com", wrong), &mismatch)
	require.ErrorAs(t, f.svc.VerifyOtp(ctx, "intern@example.com", wrong), &mismatch)

	assert.NoError(t, f.svc.VerifyOtp(ctx, "intern@example.com", code))
}

func TestResendOtpReplacesRecord(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SendOtp(ctx, "intern@example.com"))
	first := f.emails.lastCode
	wrong := "0000"
	if wrong == first {
		wrong = "0001"
	}
	var mismatch *OtpMismatchError
	require.ErrorAs(t, f.svc.VerifyOtp(ctx, "intern@example.com", wrong), &mismatch)
	require.ErrorAs(t, f.svc.VerifyOtp(ctx, "intern@example.com", wrong), &mismatch)

	// повторная отправка обнуляет счётчик и заменяет код
	require.NoError(t, f.svc.ResendOtp(ctx, "intern@example.com"))
	second := f.emails.lastCode
	assert.Equal(t, 2, f.emails.sent)

	if first != second {
		err := f.svc.VerifyOtp(ctx, "intern@example.com", first)
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, 2, mismatch.Remaining)
	}
	assert.NoError(t, f.svc.VerifyOtp(ctx, "intern@example.com", second))
}

func TestResetPasswordRequiresVerification(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SendOtp(ctx, "intern@example.com"))

	err := f.svc.ResetPassword(ctx, "intern@example.com", "new-secret")
	assert.ErrorIs(t, err, ErrOtpNotVerified)
}

func TestResetPasswordTooShort(t *testing.T) {
	f := newResetFixture(t)
	err := f.svc.ResetPassword(context.Background(), "intern@example.com", "12345")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 6 characters")
}

func TestResetPasswordUserMismatch(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SendOtp(ctx, "intern@example.com"))
	require.NoError(t, f.svc.VerifyOtp(ctx, "intern@example.com", f.emails.lastCode))

	// аккаунт за этим email сменился — запись больше не валидна
	f.users.users["intern@example.com"] = &models.User{ID: 99, Email: "intern@example.com"}

	err := f.svc.ResetPassword(ctx, "intern@example.com", "new-secret")
	assert.ErrorIs(t, err, ErrOtpNotFound)
}

func TestPasswordResetEmailCaseInsensitive(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SendOtp(ctx, "Intern@Example.com"))
	require.NoError(t, f.svc.VerifyOtp(ctx, "INTERN@example.COM", f.emails.lastCode))
	require.NoError(t, f.svc.ResetPassword(ctx, "intern@example.com", "new-secret"))
	assert.Equal(t, "hash:new-secret", f.users.passwords[7])
}
