package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"attendance-bot/internal/models"
)

// AttendanceClient - статус дня, отметки прихода/ухода и история.
type AttendanceClient struct {
	c *Client
}

func NewAttendanceClient(c *Client) *AttendanceClient {
	return &AttendanceClient{c: c}
}

func (a *AttendanceClient) Status(token, userID string) (*models.StatusSnapshot, error) {
	var out models.StatusSnapshot
	if err := a.c.do(http.MethodGet, "/api/attendance/status/"+userID, token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AttendanceClient) CheckIn(token, userID string) (*models.MessageResponse, error) {
	body := map[string]string{"userId": userID}

	var out models.MessageResponse
	if err := a.c.do(http.MethodPost, "/api/attendance/checkin", token, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AttendanceClient) CheckOut(token, userID string) (*models.MessageResponse, error) {
	body := map[string]string{"userId": userID}

	var out models.MessageResponse
	if err := a.c.do(http.MethodPost, "/api/attendance/checkout", token, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AttendanceClient) History(token, userID string, page, limit int, filters models.HistoryFilters) (*models.HistoryResponse, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	addFilterQuery(query, filters)

	var out models.HistoryResponse
	if err := a.c.do(http.MethodGet, "/api/attendance/history/"+userID, token, query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// addFilterQuery добавляет в запрос только активные фильтры.
// Значения по умолчанию ("all", пустой поиск) не отправляются вовсе.
func addFilterQuery(query url.Values, filters models.HistoryFilters) {
	if filters.FilterType != "" && filters.FilterType != "all" {
		query.Set("filterType", filters.FilterType)

		switch filters.FilterType {
		case "month":
			if filters.Month != "" {
				query.Set("month", filters.Month)
			}
		case "date":
			if filters.Date != "" {
				query.Set("date", filters.Date)
			}
		case "range":
			if filters.StartDate != "" && filters.EndDate != "" {
				query.Set("startDate", filters.StartDate)
				query.Set("endDate", filters.EndDate)
			}
		}
	}

	if filters.Status != "" && filters.Status != "all" {
		query.Set("status", filters.Status)
	}

	if search := strings.TrimSpace(filters.Search); search != "" {
		query.Set("search", search)
	}
}
