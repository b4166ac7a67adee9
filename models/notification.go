package models

import "time"

type Notification struct {
	ID                int       `json:"id"`
	UserID            int       `json:"user_id"`
	Message           string    `json:"message"`
	Read              bool      `json:"read"`
	RelatedFeedbackID *int      `json:"related_feedback_id,omitempty"`
	RelatedRequestID  *int      `json:"related_request_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// SentimentBreakdown maps sentiment name to feedback count.
type SentimentBreakdown map[string]int

type ManagerDashboard struct {
	FeedbackCount       int                `json:"feedback_count"`
	EmployeesCount      int                `json:"employees_count"`
	FeedbackBySentiment SentimentBreakdown `json:"feedback_by_sentiment"`
	RecentFeedback      []Feedback         `json:"recent_feedback"`
}

type EmployeeDashboard struct {
	FeedbackCount       int                `json:"feedback_count"`
	FeedbackBySentiment SentimentBreakdown `json:"feedback_by_sentiment"`
	RecentFeedback      []Feedback         `json:"recent_feedback"`
}
