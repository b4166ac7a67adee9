package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkittipat/feedloop/models"
)

// Me fetches the profile of the token's owner. This doubles as the token
// verification call during session bootstrap.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.Request(ctx, http.MethodGet, "/api/users/me/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateMe(ctx context.Context, payload models.UserUpdate) (*models.User, error) {
	var user models.User
	if err := c.Request(ctx, http.MethodPut, "/api/users/me/", payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Users lists the caller's directory. For managers the backend scopes this
// to their own reports.
func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.Request(ctx, http.MethodGet, "/api/users/", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) User(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	if err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Managers is public so the registration form can offer a manager picker.
func (c *Client) Managers(ctx context.Context) ([]models.User, error) {
	var managers []models.User
	if err := c.Request(ctx, http.MethodGet, "/api/managers/", nil, &managers); err != nil {
		return nil, err
	}
	return managers, nil
}
