package models

import "time"

// Sentiment classifies a piece of feedback.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

func (s Sentiment) Valid() bool {
	return s == SentimentPositive || s == SentimentNeutral || s == SentimentNegative
}

type Feedback struct {
	ID                int       `json:"id"`
	Content           string    `json:"content"`
	Strengths         string    `json:"strengths"`
	AreasToImprove    string    `json:"areas_to_improve"`
	Sentiment         Sentiment `json:"sentiment"`
	IsAnonymous       bool      `json:"is_anonymous"`
	Tags              []string  `json:"tags,omitempty"`
	ManagerID         int       `json:"manager_id"`
	EmployeeID        int       `json:"employee_id"`
	IsAcknowledged    bool      `json:"is_acknowledged"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	FeedbackRequestID *int      `json:"feedback_request_id,omitempty"`
}

type FeedbackCreate struct {
	Content           string    `json:"content" validate:"required"`
	Strengths         string    `json:"strengths" validate:"required"`
	AreasToImprove    string    `json:"areas_to_improve" validate:"required"`
	Sentiment         Sentiment `json:"sentiment" validate:"required,oneof=positive neutral negative"`
	IsAnonymous       bool      `json:"is_anonymous"`
	Tags              []string  `json:"tags,omitempty"`
	EmployeeID        int       `json:"employee_id" validate:"required"`
	FeedbackRequestID *int      `json:"feedback_request_id,omitempty"`
}

type FeedbackUpdate struct {
	Content        *string    `json:"content,omitempty"`
	Strengths      *string    `json:"strengths,omitempty"`
	AreasToImprove *string    `json:"areas_to_improve,omitempty"`
	Sentiment      *Sentiment `json:"sentiment,omitempty" validate:"omitempty,oneof=positive neutral negative"`
}

type FeedbackComment struct {
	ID         int       `json:"id"`
	FeedbackID int       `json:"feedback_id"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// FeedbackRequest statuses as the server assigns them.
const (
	RequestStatusPending   = "pending"
	RequestStatusCompleted = "completed"
)

type FeedbackRequest struct {
	ID         int       `json:"id"`
	EmployeeID int       `json:"employee_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
