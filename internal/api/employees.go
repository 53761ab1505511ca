package api

import (
	"net/http"

	"attendance-bot/internal/models"
)

// EmployeesClient - ростер сотрудников администратора.
type EmployeesClient struct {
	c *Client
}

func NewEmployeesClient(c *Client) *EmployeesClient {
	return &EmployeesClient{c: c}
}

func (e *EmployeesClient) All(token, userID string) (*models.EmployeesResponse, error) {
	var out models.EmployeesResponse
	if err := e.c.do(http.MethodGet, "/api/employees/all/"+userID, token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (e *EmployeesClient) Delete(token, employeeID string) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := e.c.do(http.MethodDelete, "/api/employees/"+employeeID, token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (e *EmployeesClient) AvailableUsers(token, userID string) (*models.AvailableUsersResponse, error) {
	var out models.AvailableUsersResponse
	if err := e.c.do(http.MethodGet, "/api/users/available/"+userID, token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (e *EmployeesClient) Assign(token, employeeUserID string) (*models.MessageResponse, error) {
	body := map[string]string{"employeeUserId": employeeUserID}

	var out models.MessageResponse
	if err := e.c.do(http.MethodPost, "/api/employees/assign", token, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
