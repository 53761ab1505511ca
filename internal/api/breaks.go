package api

import (
	"net/http"

	"attendance-bot/internal/models"
)

// BreaksClient - статус, начало и конец перерыва.
type BreaksClient struct {
	c *Client
}

func NewBreaksClient(c *Client) *BreaksClient {
	return &BreaksClient{c: c}
}

func (b *BreaksClient) Status(token string) (*models.BreakStatusResponse, error) {
	var out models.BreakStatusResponse
	if err := b.c.do(http.MethodGet, "/api/breaks/status", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *BreaksClient) Start(token string) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := b.c.do(http.MethodPost, "/api/breaks/start", token, nil, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *BreaksClient) End(token string) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := b.c.do(http.MethodPost, "/api/breaks/end", token, nil, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
