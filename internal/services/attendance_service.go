package services

import (
	"errors"
	"log"
	"time"

	"officehub/internal/authz"
	"officehub/internal/models"
	"officehub/internal/repositories"
)

var (
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrNotCheckedIn      = errors.New("not checked in today")
	ErrAlreadyCheckedOut = errors.New("already checked out today")
)

type AttendanceService interface {
	CheckIn(userID int, notes string) (*models.Attendance, error)
	CheckOut(userID int) (*models.Attendance, error)
	List(f models.AttendanceFilter, actorID int, actorRole string) ([]*models.Attendance, error)
	Today(userID int) (*models.Attendance, error)
	RequestLeave(userID int, req models.LeaveRequest) (*models.Attendance, error)
	ResolveLeave(id int64, approve bool, adminID int) (*models.Attendance, error)
	StatsByUser(userID int, dateFrom, dateTo string) (*models.AttendanceStats, error)
}

type attendanceService struct {
	repo   repositories.AttendanceRepository
	notify NotificationService

	now func() time.Time // подменяется в тестах
}

func NewAttendanceService(repo repositories.AttendanceRepository, notify NotificationService) AttendanceService {
	return &attendanceService{repo: repo, notify: notify, now: time.Now}
}

func (s *attendanceService) today() string {
	return s.now().Format("2006-01-02")
}

func (s *attendanceService) CheckIn(userID int, notes string) (*models.Attendance, error) {
	date := s.today()
	existing, err := s.repo.GetByUserAndDate(userID, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyCheckedIn
	}

	now := s.now()
	a := &models.Attendance{
		UserID:  userID,
		Date:    date,
		CheckIn: &now,
		Status:  models.AttendanceStatusPresent,
		Notes:   notes,
	}
	if err := s.repo.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *attendanceService) CheckOut(userID int) (*models.Attendance, error) {
	a, err := s.repo.GetByUserAndDate(userID, s.today())
	if err != nil {
		return nil, err
	}
	if a == nil || a.CheckIn == nil {
		return nil, ErrNotCheckedIn
	}
	if a.CheckOut != nil {
		return nil, ErrAlreadyCheckedOut
	}

	now := s.now()
	a.CheckOut = &now
	a.TotalHours = now.Sub(*a.CheckIn).Hours()
	if err := s.repo.Update(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *attendanceService) List(f models.AttendanceFilter, actorID int, actorRole string) ([]*models.Attendance, error) {
	if authz.RestrictToSelf(actorRole) {
		f.UserID = actorID
	}
	return s.repo.List(f)
}

func (s *attendanceService) Today(userID int) (*models.Attendance, error) {
	return s.repo.GetByUserAndDate(userID, s.today())
}

// RequestLeave — заявка на отгул на конкретную дату; повторная заявка на
// занятый день не принимается.
func (s *attendanceService) RequestLeave(userID int, req models.LeaveRequest) (*models.Attendance, error) {
	existing, err := s.repo.GetByUserAndDate(userID, req.Date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("attendance record already exists for this date")
	}

	reason := req.Reason
	a := &models.Attendance{
		UserID:      userID,
		Date:        req.Date,
		Status:      models.AttendanceStatusLeavePending,
		LeaveReason: &reason,
	}
	if err := s.repo.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *attendanceService) ResolveLeave(id int64, approve bool, adminID int) (*models.Attendance, error) {
	a, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	if a.Status != models.AttendanceStatusLeavePending {
		return nil, errors.New("leave request is not pending")
	}

	title := "Leave request approved"
	if approve {
		a.Status = models.AttendanceStatusLeaveApproved
	} else {
		a.Status = models.AttendanceStatusLeaveRejected
		title = "Leave request rejected"
	}
	if err := s.repo.Update(a); err != nil {
		return nil, err
	}

	if err := s.notify.Notify(a.UserID, models.NotificationTypeSystem,
		title, "Leave for "+a.Date, "attendance", a.ID); err != nil {
		log.Printf("[attendance][leave] notify failed for id=%d: %v", a.ID, err)
	}
	return a, nil
}

func (s *attendanceService) StatsByUser(userID int, dateFrom, dateTo string) (*models.AttendanceStats, error) {
	stats, err := s.repo.StatsByUser(userID, dateFrom, dateTo)
	if err != nil {
		return nil, err
	}
	// процент присутствия считаем от будних дней диапазона (или текущего месяца)
	from, to := rangeOrCurrentMonth(dateFrom, dateTo, s.now())
	stats.WorkdaysTotal = countWorkdays(from, to)
	if stats.WorkdaysTotal > 0 {
		stats.PresenceRate = float64(stats.DaysPresent) / float64(stats.WorkdaysTotal) * 100
	}
	return stats, nil
}

func rangeOrCurrentMonth(dateFrom, dateTo string, now time.Time) (time.Time, time.Time) {
	from, errF := time.Parse("2006-01-02", dateFrom)
	to, errT := time.Parse("2006-01-02", dateTo)
	if errF != nil || errT != nil {
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		to = now
	}
	return from, to
}

func countWorkdays(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	n := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			n++
		}
	}
	return n
}
