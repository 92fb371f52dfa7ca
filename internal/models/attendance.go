package models

import "time"

const (
	AttendanceStatusPresent       = "present"
	AttendanceStatusLeavePending  = "leave-pending"
	AttendanceStatusLeaveApproved = "leave-approved"
	AttendanceStatusLeaveRejected = "leave-rejected"
)

type Attendance struct {
	ID     int64  `json:"id"`
	UserID int    `json:"userId"`
	Date   string `json:"date"` // YYYY-MM-DD

	CheckIn    *time.Time `json:"checkIn,omitempty"`
	CheckOut   *time.Time `json:"checkOut,omitempty"`
	TotalHours float64    `json:"totalHours"`

	Status      string  `json:"status"` // present | leave-pending | leave-approved | leave-rejected
	LeaveReason *string `json:"leaveReason,omitempty"`
	Notes       string  `json:"notes,omitempty"`

	UserName string `json:"userName,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

type AttendanceFilter struct {
	UserID   int
	Status   string
	DateFrom string
	DateTo   string
	Limit    int
	Offset   int
}

type LeaveRequest struct {
	Date   string `json:"date" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

type AttendanceStats struct {
	DaysPresent   int     `json:"daysPresent"`
	DaysOnLeave   int     `json:"daysOnLeave"`
	TotalHours    float64 `json:"totalHours"`
	AverageHours  float64 `json:"averageHours"`
	PresenceRate  float64 `json:"presenceRate"` // % присутствия от рабочих дней периода
	WorkdaysTotal int     `json:"workdaysTotal"`
}
