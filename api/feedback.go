package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkittipat/feedloop/models"
)

func (c *Client) Feedbacks(ctx context.Context) ([]models.Feedback, error) {
	var feedbacks []models.Feedback
	if err := c.Request(ctx, http.MethodGet, "/api/feedback/", nil, &feedbacks); err != nil {
		return nil, err
	}
	return feedbacks, nil
}

func (c *Client) Feedback(ctx context.Context, id int) (*models.Feedback, error) {
	var feedback models.Feedback
	if err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/api/feedback/%d", id), nil, &feedback); err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (c *Client) CreateFeedback(ctx context.Context, payload models.FeedbackCreate) (*models.Feedback, error) {
	var feedback models.Feedback
	if err := c.Request(ctx, http.MethodPost, "/api/feedback/", payload, &feedback); err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (c *Client) UpdateFeedback(ctx context.Context, id int, payload models.FeedbackUpdate) (*models.Feedback, error) {
	var feedback models.Feedback
	if err := c.Request(ctx, http.MethodPut, fmt.Sprintf("/api/feedback/%d", id), payload, &feedback); err != nil {
		return nil, err
	}
	return &feedback, nil
}

// AcknowledgeFeedback marks a feedback record as seen by its employee.
func (c *Client) AcknowledgeFeedback(ctx context.Context, id int) (*models.Feedback, error) {
	var feedback models.Feedback
	if err := c.Request(ctx, http.MethodPut, fmt.Sprintf("/api/feedback/%d/acknowledge", id), struct{}{}, &feedback); err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (c *Client) CommentOnFeedback(ctx context.Context, id int, comment string) (*models.FeedbackComment, error) {
	payload := struct {
		Comment string `json:"comment"`
	}{Comment: comment}

	var created models.FeedbackComment
	if err := c.Request(ctx, http.MethodPost, fmt.Sprintf("/api/feedback/%d/comments/", id), payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) FeedbackRequests(ctx context.Context) ([]models.FeedbackRequest, error) {
	var requests []models.FeedbackRequest
	if err := c.Request(ctx, http.MethodGet, "/api/feedback-requests/", nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// CreateFeedbackRequest asks the caller's manager for feedback. The server
// derives everything from the token, so the body is empty.
func (c *Client) CreateFeedbackRequest(ctx context.Context) (*models.FeedbackRequest, error) {
	var request models.FeedbackRequest
	if err := c.Request(ctx, http.MethodPost, "/api/feedback-requests/", struct{}{}, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

func (c *Client) Tags(ctx context.Context) ([]string, error) {
	var tags []string
	if err := c.Request(ctx, http.MethodGet, "/api/tags/", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (c *Client) FeedbackTags(ctx context.Context, feedbackID int) ([]string, error) {
	var tags []string
	if err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/api/feedback/%d/tags/", feedbackID), nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (c *Client) AddFeedbackTags(ctx context.Context, feedbackID int, tags []string) error {
	return c.Request(ctx, http.MethodPost, fmt.Sprintf("/api/feedback/%d/tags/", feedbackID), tags, nil)
}
