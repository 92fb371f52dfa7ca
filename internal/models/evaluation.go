package models

import "time"

const (
	EvaluationStatusDraft     = "draft"
	EvaluationStatusPublished = "published"
)

// EvaluationRatings — блок оценок по компетенциям (jsonb-колонка).
type EvaluationRatings struct {
	TechnicalSkills int `json:"technicalSkills"`
	Communication   int `json:"communication"`
	Teamwork        int `json:"teamwork"`
	Initiative      int `json:"initiative"`
	Punctuality     int `json:"punctuality"`
}

type Evaluation struct {
	ID          int64  `json:"id"`
	InternID    int    `json:"internId"`
	EvaluatorID int    `json:"evaluatorId"`
	Period      string `json:"period"` // например "2025-Q2" или "June 2025"

	Ratings      EvaluationRatings `json:"ratings"`
	OverallScore float64           `json:"overallScore"`

	Strengths    string `json:"strengths,omitempty"`
	Improvements string `json:"improvements,omitempty"`
	Comments     string `json:"comments,omitempty"`

	Status         string  `json:"status"` // draft | published
	CertificateURL *string `json:"certificateUrl,omitempty"`

	InternName    string `json:"internName,omitempty"`
	EvaluatorName string `json:"evaluatorName,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type EvaluationFilter struct {
	InternID int
	Status   string
	Limit    int
	Offset   int
}
