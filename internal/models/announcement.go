package models

import "time"

const (
	AudienceAll     = "all"
	AudienceInterns = "interns"
	AudienceAdmins  = "admins"
)

type Announcement struct {
	ID       int64  `json:"id"`
	AuthorID int    `json:"authorId"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Audience string `json:"audience"` // all | interns | admins
	Priority string `json:"priority"` // normal | important | urgent
	Active   bool   `json:"active"`

	ReadBy []int64 `json:"readBy"` // integer[]

	AuthorName string `json:"authorName,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

type AnnouncementFilter struct {
	// роль зрителя определяет, какие audience ему видны
	ViewerRole string
	ActiveOnly bool
	Limit      int
	Offset     int
}
