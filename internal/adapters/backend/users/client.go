package users

import (
	"context"

	"gymportal/internal/adapters/backend"
	"gymportal/internal/domain/user"
)

// Client is the account-management surface of the backend (admin only).
type Client interface {
	List(ctx context.Context, token string) ([]user.User, error)
	Create(ctx context.Context, token string, u user.User, password string) (user.User, error)
	Update(ctx context.Context, token, id string, u user.User) (user.User, error)
	Delete(ctx context.Context, token, id string) error
}

// RESTClient implements Client against the gym backend.
type RESTClient struct {
	api *backend.Client
}

// NewRESTClient creates a new users client.
func NewRESTClient(api *backend.Client) *RESTClient {
	return &RESTClient{api: api}
}

type wireUser struct {
	ID          any    `json:"id"`
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

func (c *RESTClient) List(ctx context.Context, token string) ([]user.User, error) {
	var wires []wireUser
	if err := c.api.Get(ctx, token, "/users", &wires); err != nil {
		return nil, err
	}
	list := make([]user.User, 0, len(wires))
	for _, w := range wires {
		list = append(list, w.normalize())
	}
	return list, nil
}

func (c *RESTClient) Create(ctx context.Context, token string, u user.User, password string) (user.User, error) {
	body := map[string]string{
		"name":     u.Name,
		"email":    u.Email,
		"phone":    u.Phone,
		"role":     u.Role,
		"password": password,
	}
	var w wireUser
	if err := c.api.PostJSON(ctx, token, "/users", body, &w); err != nil {
		return user.User{}, err
	}
	return w.normalize(), nil
}

func (c *RESTClient) Update(ctx context.Context, token, id string, u user.User) (user.User, error) {
	body := map[string]string{
		"name":  u.Name,
		"email": u.Email,
		"phone": u.Phone,
		"role":  u.Role,
	}
	var w wireUser
	if err := c.api.PatchJSON(ctx, token, "/users/"+id, body, &w); err != nil {
		return user.User{}, err
	}
	return w.normalize(), nil
}

func (c *RESTClient) Delete(ctx context.Context, token, id string) error {
	return c.api.Delete(ctx, token, "/users/"+id)
}
