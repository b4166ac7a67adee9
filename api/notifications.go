package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkittipat/feedloop/models"
)

func (c *Client) Notifications(ctx context.Context) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := c.Request(ctx, http.MethodGet, "/api/notifications/", nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int) error {
	return c.Request(ctx, http.MethodPut, fmt.Sprintf("/api/notifications/%d/read", id), struct{}{}, nil)
}

func (c *Client) ManagerDashboard(ctx context.Context) (*models.ManagerDashboard, error) {
	var dashboard models.ManagerDashboard
	if err := c.Request(ctx, http.MethodGet, "/api/dashboard/manager", nil, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

func (c *Client) EmployeeDashboard(ctx context.Context) (*models.EmployeeDashboard, error) {
	var dashboard models.EmployeeDashboard
	if err := c.Request(ctx, http.MethodGet, "/api/dashboard/employee", nil, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}
