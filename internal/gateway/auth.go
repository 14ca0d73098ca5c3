package gateway

import (
	"context"
	"net/http"

	"classpick/internal/model"
)

// Register creates an account and returns the issued token ("" when the server sent none).
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	if err := requireFields("username", req.Username, "email", req.Email, "password", req.Password); err != nil {
		return "", err
	}

	var out model.AuthResponse
	if _, err := c.do(ctx, http.MethodPost, "/auth/register", "", req, &out); err != nil {
		return "", err
	}

	return out.AccessToken, nil
}

func (c *Client) Login(ctx context.Context, email string, password string) (string, error) {
	if err := requireFields("email", email, "password", password); err != nil {
		return "", err
	}

	var out model.AuthResponse
	req := model.LoginRequest{Email: email, Password: password}
	if _, err := c.do(ctx, http.MethodPost, "/auth/login", "", req, &out); err != nil {
		return "", err
	}

	return out.AccessToken, nil
}

// Me returns the signed-in user, or nil when the body carries no user.
func (c *Client) Me(ctx context.Context, token string) (*model.User, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}

	var out model.MeResponse
	if _, err := c.do(ctx, http.MethodGet, "/me", token, nil, &out); err != nil {
		return nil, err
	}

	return out.User, nil
}

func (c *Client) ApplyDelegate(ctx context.Context, token string) (model.ApplyResponse, error) {
	if err := requireToken(token); err != nil {
		return model.ApplyResponse{}, err
	}

	var out model.ApplyResponse
	if _, err := c.do(ctx, http.MethodPost, c.applyPath, token, struct{}{}, &out); err != nil {
		return model.ApplyResponse{}, err
	}

	return out, nil
}
