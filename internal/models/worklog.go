package models

import "time"

const (
	WorkLogStatusSubmitted = "submitted"
	WorkLogStatusReviewed  = "reviewed"
)

type WorkLog struct {
	ID          int64   `json:"id"`
	UserID      int     `json:"userId"`
	Date        string  `json:"date"` // YYYY-MM-DD
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	HoursSpent  float64 `json:"hoursSpent"`
	Status      string  `json:"status"` // submitted | reviewed

	// заполняется админом при ревью
	Rating     *int       `json:"rating,omitempty"` // 1..5
	Feedback   *string    `json:"feedback,omitempty"`
	ReviewedBy *int       `json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`

	UserName string `json:"userName,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type WorkLogFilter struct {
	UserID   int
	Status   string
	DateFrom string
	DateTo   string
	Limit    int
	Offset   int
}

type WorkLogFeedbackRequest struct {
	Rating   int    `json:"rating" binding:"required"`
	Feedback string `json:"feedback"`
}

type WorkLogStats struct {
	TotalLogs     int     `json:"totalLogs"`
	TotalHours    float64 `json:"totalHours"`
	AverageRating float64 `json:"averageRating"`
	Reviewed      int     `json:"reviewed"`
}
