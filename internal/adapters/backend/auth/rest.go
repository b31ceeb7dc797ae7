package auth

import (
	"context"
	"errors"

	"gymportal/internal/adapters/backend"
	"gymportal/internal/domain/user"
)

// RESTClient implements Client against the gym backend.
type RESTClient struct {
	api *backend.Client
}

// NewRESTClient creates a new auth client.
func NewRESTClient(api *backend.Client) *RESTClient {
	return &RESTClient{api: api}
}

// wireUser is the raw profile shape. The backend has drifted between
// name/full_name and phone/phone_number; the fallback is resolved here,
// once, so nothing downstream ever picks keys.
type wireUser struct {
	ID          any    `json:"id"` // number on older records, string on newer
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
}

func (w wireUser) normalize() user.User {
	u := user.User{
		ID:    backend.StringID(w.ID),
		Name:  w.Name,
		Email: w.Email,
		Phone: w.Phone,
		Role:  user.NormalizeRole(w.Role),
	}
	if u.Name == "" {
		u.Name = w.FullName
	}
	if u.Phone == "" {
		u.Phone = w.PhoneNumber
	}
	return u
}

// Login posts credentials and normalizes the response.
// POST /login → {token, user}
func (c *RESTClient) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	var resp struct {
		Token       string   `json:"token"`
		AccessToken string   `json:"access_token"`
		User        wireUser `json:"user"`
	}
	body := map[string]string{"email": identifier, "password": password}
	if err := c.api.PostJSON(ctx, "", "/login", body, &resp); err != nil {
		return LoginResult{}, err
	}
	token := resp.Token
	if token == "" {
		token = resp.AccessToken
	}
	if token == "" {
		return LoginResult{}, errors.New("login response carried no token")
	}
	return LoginResult{Token: token, User: resp.User.normalize()}, nil
}

// Logout invalidates the token server-side.
func (c *RESTClient) Logout(ctx context.Context, token string) error {
	return c.api.PostJSON(ctx, token, "/logout", nil, nil)
}

// Profile fetches GET /user for the canonical role.
func (c *RESTClient) Profile(ctx context.Context, token string) (user.User, error) {
	var w wireUser
	if err := c.api.Get(ctx, token, "/user", &w); err != nil {
		return user.User{}, err
	}
	return w.normalize(), nil
}
