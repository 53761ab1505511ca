package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Маркер, по которому бекенд сообщает об удаленном аккаунте (404)
const accountDeletedMarker = "account has been deleted"

// Error - ошибка REST-бекенда: HTTP-статус плюс message из тела ответа.
type Error struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api: request failed with status %d", e.StatusCode)
}

// IsUnauthorized проверяет истекшую или невалидную сессию (401).
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsForbidden проверяет отказ в правах (403). Сессию при этом не трогаем.
func IsForbidden(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden
}

// IsNotFound проверяет 404 без учета причины.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsAccountDeleted распознает терминальный случай: 404 с сообщением
// об удаленном аккаунте. Обрабатывается отдельно от прочих ошибок.
func IsAccountDeleted(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) &&
		apiErr.StatusCode == http.StatusNotFound &&
		strings.Contains(apiErr.Message, accountDeletedMarker)
}

// Message возвращает сообщение бекенда либо запасной текст.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Client - общая часть всех ресурсных клиентов: базовый URL, таймаут,
// bearer-авторизация и разбор ошибок. Никаких повторов и кеширования.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// do выполняет один запрос к бекенду и декодирует JSON-ответ в out.
// token пустой для неавторизованных эндпоинтов (логин, регистрация).
func (c *Client) do(method, path, token string, query url.Values, body, out any) error {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, requestURL, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method":     method,
			"path":       path,
			"request_id": requestID,
		}).Error("Request to backend failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode, RequestID: requestID}

		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &payload) == nil {
			apiErr.Message = payload.Message
		}

		logrus.WithFields(logrus.Fields{
			"method":     method,
			"path":       path,
			"status":     resp.StatusCode,
			"request_id": requestID,
		}).Warn("Backend returned error response")

		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}

	return nil
}
