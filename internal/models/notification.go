package models

import "time"

const (
	NotificationTypeTask         = "task"
	NotificationTypeEvaluation   = "evaluation"
	NotificationTypeDocument     = "document"
	NotificationTypeAnnouncement = "announcement"
	NotificationTypeSystem       = "system"
)

type Notification struct {
	ID      int64  `json:"id"`
	UserID  int    `json:"userId"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Read    bool   `json:"read"`

	// ссылка на сущность-источник (task id, evaluation id, ...)
	RefType string `json:"refType,omitempty"`
	RefID   int64  `json:"refId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
