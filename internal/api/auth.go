package api

import (
	"net/http"

	"attendance-bot/internal/models"
)

// AuthClient - запросы логина, регистрации и входа через Google.
type AuthClient struct {
	c *Client
}

func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{c: c}
}

// LoginResponse - ответ POST /api/users/login и /api/users/google.
type LoginResponse struct {
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
	Message string       `json:"message"`
}

func (a *AuthClient) Login(email, password string) (*LoginResponse, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var out LoginResponse
	if err := a.c.do(http.MethodPost, "/api/users/login", "", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthClient) Register(name, email, password, role string) (*models.MessageResponse, error) {
	body := map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
		"role":     role,
	}

	var out models.MessageResponse
	if err := a.c.do(http.MethodPost, "/api/users/register", "", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GoogleLogin передает бекенду access token, полученный пользователем у Google.
// Сам popup-флоу провайдера остается на стороне пользователя.
func (a *AuthClient) GoogleLogin(accessToken string) (*LoginResponse, error) {
	body := map[string]string{"token": accessToken}

	var out LoginResponse
	if err := a.c.do(http.MethodPost, "/api/users/google", "", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthClient) ChangePassword(token, currentPassword, newPassword string) (*models.MessageResponse, error) {
	body := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}

	var out models.MessageResponse
	if err := a.c.do(http.MethodPut, "/api/users/change-password", token, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
