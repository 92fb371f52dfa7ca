package services

import (
	"log"
	"time"

	"officehub/internal/authz"
	"officehub/internal/models"
	"officehub/internal/repositories"
)

type DashboardService interface {
	AdminDashboard() (*models.AdminDashboard, error)
	InternDashboard(userID int) (*models.InternDashboard, error)
}

type dashboardService struct {
	userRepo       repositories.UserRepository
	taskRepo       repositories.TaskRepository
	attendanceRepo repositories.AttendanceRepository
	workLogRepo    repositories.WorkLogRepository
	evaluationRepo repositories.EvaluationRepository
}

func NewDashboardService(
	userRepo repositories.UserRepository,
	taskRepo repositories.TaskRepository,
	attendanceRepo repositories.AttendanceRepository,
	workLogRepo repositories.WorkLogRepository,
	evaluationRepo repositories.EvaluationRepository,
) DashboardService {
	return &dashboardService{
		userRepo:       userRepo,
		taskRepo:       taskRepo,
		attendanceRepo: attendanceRepo,
		workLogRepo:    workLogRepo,
		evaluationRepo: evaluationRepo,
	}
}

func (s *dashboardService) AdminDashboard() (*models.AdminDashboard, error) {
	d := &models.AdminDashboard{}
	today := time.Now().Format("2006-01-02")
	month := time.Now().Format("2006-01")

	var err error
	if d.TotalInterns, err = s.userRepo.CountByRoleAndStatus(authz.RoleIntern, ""); err != nil {
		return nil, err
	}
	if d.ActiveInterns, err = s.userRepo.CountByRoleAndStatus(authz.RoleIntern, "active"); err != nil {
		return nil, err
	}
	if d.PresentToday, err = s.attendanceRepo.CountByDateAndStatus(today, models.AttendanceStatusPresent); err != nil {
		return nil, err
	}
	if d.OnLeaveToday, err = s.attendanceRepo.CountByDateAndStatus(today, models.AttendanceStatusLeaveApproved); err != nil {
		return nil, err
	}
	if d.PendingLeaves, err = s.attendanceRepo.CountPending(); err != nil {
		return nil, err
	}
	if d.PendingTasks, err = s.taskRepo.CountByStatus(models.TaskStatusPending); err != nil {
		return nil, err
	}
	if d.PendingWorkLogs, err = s.workLogRepo.CountByStatus(models.WorkLogStatusSubmitted); err != nil {
		return nil, err
	}

	// вспомогательные блоки не валят сводку целиком
	if d.TopPerformers, err = s.workLogRepo.TopPerformers(5); err != nil {
		log.Printf("[dashboard][admin] top performers failed: %v", err)
		d.TopPerformers = []models.TopPerformer{}
	}
	if d.MonthlyAttendance, err = s.attendanceRepo.MonthlyByDay(month); err != nil {
		log.Printf("[dashboard][admin] monthly attendance failed: %v", err)
		d.MonthlyAttendance = []models.AttendanceByDayStatus{}
	}
	return d, nil
}

func (s *dashboardService) InternDashboard(userID int) (*models.InternDashboard, error) {
	d := &models.InternDashboard{}

	taskStats, err := s.taskRepo.StatsByUser(userID)
	if err != nil {
		return nil, err
	}
	d.Tasks = *taskStats

	attStats, err := s.attendanceRepo.StatsByUser(userID, "", "")
	if err != nil {
		return nil, err
	}
	d.Attendance = *attStats

	logStats, err := s.workLogRepo.StatsByUser(userID)
	if err != nil {
		return nil, err
	}
	d.WorkLogs = *logStats

	today := time.Now().Format("2006-01-02")
	if d.TodayAttendance, err = s.attendanceRepo.GetByUserAndDate(userID, today); err != nil {
		return nil, err
	}
	if d.UpcomingTasks, err = s.taskRepo.Upcoming(userID, 5); err != nil {
		return nil, err
	}
	if d.UpcomingTasks == nil {
		d.UpcomingTasks = []*models.Task{}
	}
	if d.LatestEvaluation, err = s.evaluationRepo.LatestPublished(userID); err != nil {
		return nil, err
	}
	return d, nil
}
