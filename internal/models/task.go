package models

import "time"

const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	AssignedTo  int    `json:"assignedTo"`
	AssignedBy  int    `json:"assignedBy"`
	Status      string `json:"status"`   // pending | in-progress | completed | cancelled
	Priority    string `json:"priority"` // low | medium | high

	DueDate       *time.Time `json:"dueDate,omitempty"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	CompletedDate *time.Time `json:"completedDate,omitempty"`

	AssigneeName string `json:"assigneeName,omitempty"`

	Comments []TaskComment `json:"comments"` // jsonb-колонка

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TaskComment struct {
	AuthorID   int       `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}

type TaskFilter struct {
	AssignedTo int
	Status     string
	Priority   string
	Limit      int
	Offset     int
}

type TaskStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
}
