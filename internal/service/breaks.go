package service

import (
	"sync"

	"attendance-bot/internal/models"
)

// BreaksAPI - часть REST-клиента, нужная контроллеру перерывов.
type BreaksAPI interface {
	Status(token string) (*models.BreakStatusResponse, error)
	Start(token string) (*models.MessageResponse, error)
	End(token string) (*models.MessageResponse, error)
}

// BreakController ведет состояние перерыва: not_on_break <-> on_break.
// Статус перерыва справочный, поэтому ошибки его чтения не всплывают,
// а состояние тихо откатывается к not_on_break.
type BreakController struct {
	api BreaksAPI

	mu     sync.Mutex
	status string
}

func NewBreakController(breaksAPI BreaksAPI) *BreakController {
	return &BreakController{
		api:    breaksAPI,
		status: models.StatusNotOnBreak,
	}
}

func (c *BreakController) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *BreakController) OnBreak() bool {
	return c.Status() == models.StatusOnBreak
}

// Refresh читает статус перерыва с сервера. Ошибка не возвращается:
// неудачное чтение означает not_on_break.
func (c *BreakController) Refresh(token string) {
	resp, err := c.api.Status(token)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil || resp.Status != models.StatusOnBreak {
		c.status = models.StatusNotOnBreak
		return
	}
	c.status = models.StatusOnBreak
}

// Toggle начинает или заканчивает перерыв по текущему состоянию и
// после успеха подтверждает его повторным чтением.
func (c *BreakController) Toggle(token string) (string, error) {
	if c.Status() == models.StatusNotOnBreak {
		resp, err := c.api.Start(token)
		if err != nil {
			return "", err
		}

		c.mu.Lock()
		c.status = models.StatusOnBreak
		c.mu.Unlock()

		c.Refresh(token)
		return resp.Message, nil
	}

	resp, err := c.api.End(token)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.status = models.StatusNotOnBreak
	c.mu.Unlock()

	c.Refresh(token)
	return resp.Message, nil
}

// ForceOff сбрасывает перерыв без обращения к серверу. Используется
// при завершении рабочего дня.
func (c *BreakController) ForceOff() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = models.StatusNotOnBreak
}
