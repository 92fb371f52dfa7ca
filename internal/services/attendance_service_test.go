package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"officehub/internal/models"
	"officehub/internal/repositories"
)

type fakeAttendanceRepo struct {
	repositories.AttendanceRepository

	records map[int64]*models.Attendance
	nextID  int64

	stats *models.AttendanceStats
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[int64]*models.Attendance), nextID: 1}
}

func (r *fakeAttendanceRepo) Create(a *models.Attendance) error {
	a.ID = r.nextID
	r.nextID++
	cp := *a
	r.records[a.ID] = &cp
	return nil
}

func (r *fakeAttendanceRepo) GetByID(id int64) (*models.Attendance, error) {
	a, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAttendanceRepo) GetByUserAndDate(userID int, date string) (*models.Attendance, error) {
	for _, a := range r.records {
		if a.UserID == userID && a.Date == date {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAttendanceRepo) Update(a *models.Attendance) error {
	cp := *a
	r.records[a.ID] = &cp
	return nil
}

func (r *fakeAttendanceRepo) StatsByUser(_ int, _, _ string) (*models.AttendanceStats, error) {
	cp := *r.stats
	return &cp, nil
}

func newAttendanceFixture() (*attendanceService, *fakeAttendanceRepo, *fakeNotify, *time.Time) {
	repo := newFakeAttendanceRepo()
	notify := &fakeNotify{}
	svc := NewAttendanceService(repo, notify).(*attendanceService)
	clock := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) // вторник
	svc.now = func() time.Time { return clock }
	return svc, repo, notify, &clock
}

func TestAttendanceCheckInOnce(t *testing.T) {
	svc, _, _, _ := newAttendanceFixture()

	a, err := svc.CheckIn(7, "пробки")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", a.Date)
	assert.Equal(t, models.AttendanceStatusPresent, a.Status)
	require.NotNil(t, a.CheckIn)
	assert.Equal(t, "пробки", a.Notes)

	_, err = svc.CheckIn(7, "")
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
}

func TestAttendanceCheckOut(t *testing.T) {
	svc, repo, _, clock := newAttendanceFixture()

	_, err := svc.CheckOut(7)
	assert.ErrorIs(t, err, ErrNotCheckedIn)

	_, err = svc.CheckIn(7, "")
	require.NoError(t, err)

	*clock = clock.Add(8*time.Hour + 30*time.Minute)
	a, err := svc.CheckOut(7)
	require.NoError(t, err)
	require.NotNil(t, a.CheckOut)
	assert.InDelta(t, 8.5, a.TotalHours, 0.001)

	stored, _ := repo.GetByID(a.ID)
	assert.InDelta(t, 8.5, stored.TotalHours, 0.001)

	_, err = svc.CheckOut(7)
	assert.ErrorIs(t, err, ErrAlreadyCheckedOut)
}

func TestAttendanceRequestLeave(t *testing.T) {
	svc, _, _, _ := newAttendanceFixture()

	a, err := svc.RequestLeave(7, models.LeaveRequest{Date: "2026-03-12", Reason: "по семейным"})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusLeavePending, a.Status)
	require.NotNil(t, a.LeaveReason)
	assert.Equal(t, "по семейным", *a.LeaveReason)

	// день уже занят заявкой
	_, err = svc.RequestLeave(7, models.LeaveRequest{Date: "2026-03-12", Reason: "ещё раз"})
	require.Error(t, err)
}

func TestAttendanceResolveLeave(t *testing.T) {
	svc, _, notify, _ := newAttendanceFixture()

	a, err := svc.RequestLeave(7, models.LeaveRequest{Date: "2026-03-12", Reason: "отгул"})
	require.NoError(t, err)

	resolved, err := svc.ResolveLeave(a.ID, true, 3)
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusLeaveApproved, resolved.Status)

	require.Len(t, notify.sent, 1)
	assert.Equal(t, 7, notify.sent[0].UserID)
	assert.Equal(t, "Leave request approved", notify.sent[0].Title)

	// решение принимается один раз
	_, err = svc.ResolveLeave(a.ID, false, 3)
	require.Error(t, err)

	_, err = svc.ResolveLeave(999, true, 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttendanceResolveLeaveReject(t *testing.T) {
	svc, _, notify, _ := newAttendanceFixture()

	a, err := svc.RequestLeave(7, models.LeaveRequest{Date: "2026-03-13", Reason: "отгул"})
	require.NoError(t, err)

	resolved, err := svc.ResolveLeave(a.ID, false, 3)
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusLeaveRejected, resolved.Status)
	require.Len(t, notify.sent, 1)
	assert.Equal(t, "Leave request rejected", notify.sent[0].Title)
}

func TestAttendanceStatsPresenceRate(t *testing.T) {
	svc, repo, _, _ := newAttendanceFixture()
	repo.stats = &models.AttendanceStats{DaysPresent: 4, TotalHours: 32}

	// 2026-03-02..2026-03-06 — ровно пять будних дней
	stats, err := svc.StatsByUser(7, "2026-03-02", "2026-03-06")
	require.NoError(t, err)
	assert.Equal(t, 5, stats.WorkdaysTotal)
	assert.InDelta(t, 80.0, stats.PresenceRate, 0.001)
}

func TestCountWorkdays(t *testing.T) {
	// суббота и воскресенье не считаются
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // понедельник
	to := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)   // воскресенье
	assert.Equal(t, 5, countWorkdays(from, to))
	assert.Equal(t, 0, countWorkdays(to, from))
	assert.Equal(t, 1, countWorkdays(from, from))
}
