package models

// AdminDashboard — сводка для админа.
type AdminDashboard struct {
	TotalInterns    int `json:"totalInterns"`
	ActiveInterns   int `json:"activeInterns"`
	PresentToday    int `json:"presentToday"`
	OnLeaveToday    int `json:"onLeaveToday"`
	PendingLeaves   int `json:"pendingLeaves"`
	PendingTasks    int `json:"pendingTasks"`
	PendingWorkLogs int `json:"pendingWorkLogs"`

	TopPerformers     []TopPerformer          `json:"topPerformers"`
	MonthlyAttendance []AttendanceByDayStatus `json:"monthlyAttendance"`
}

type TopPerformer struct {
	UserID        int     `json:"userId"`
	Name          string  `json:"name"`
	AverageRating float64 `json:"averageRating"`
	TotalHours    float64 `json:"totalHours"`
}

type AttendanceByDayStatus struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	OnLeave int    `json:"onLeave"`
}

// InternDashboard — сводка для стажёра по его собственным данным.
type InternDashboard struct {
	Tasks            TaskStats       `json:"tasks"`
	Attendance       AttendanceStats `json:"attendance"`
	WorkLogs         WorkLogStats    `json:"workLogs"`
	TodayAttendance  *Attendance     `json:"todayAttendance,omitempty"`
	UpcomingTasks    []*Task         `json:"upcomingTasks"`
	LatestEvaluation *Evaluation     `json:"latestEvaluation,omitempty"`
}
