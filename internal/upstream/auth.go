package upstream

import "context"

type LoginResponse struct {
	Token   string `json:"token"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLogin exchanges admin credentials for a bearer token.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.doPublic(ctx, "POST", "/admin/login", loginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ManagerLogin exchanges manager credentials for a bearer token.
func (c *Client) ManagerLogin(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.doPublic(ctx, "POST", "/login/login", loginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
