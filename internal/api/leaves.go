package api

import (
	"net/http"

	"attendance-bot/internal/models"
)

// LeavesClient - подача заявок на отпуск и их согласование.
type LeavesClient struct {
	c *Client
}

func NewLeavesClient(c *Client) *LeavesClient {
	return &LeavesClient{c: c}
}

func (l *LeavesClient) Submit(token, userID, startDate, endDate, reason string) (*models.MessageResponse, error) {
	body := map[string]string{
		"userId":    userID,
		"startDate": startDate,
		"endDate":   endDate,
		"reason":    reason,
	}

	var out models.MessageResponse
	if err := l.c.do(http.MethodPost, "/api/leaves/submit", token, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (l *LeavesClient) GetLeaves(token string) (*models.LeavesResponse, error) {
	var out models.LeavesResponse
	if err := l.c.do(http.MethodGet, "/api/leaves/getleaves", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStatus меняет статус заявки по ее собственному id.
func (l *LeavesClient) UpdateStatus(token string, leaveID int64, status string) (*models.MessageResponse, error) {
	body := map[string]any{
		"leaveId": leaveID,
		"status":  status,
	}

	var out models.MessageResponse
	if err := l.c.do(http.MethodPut, "/api/leaves/update-status", token, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
