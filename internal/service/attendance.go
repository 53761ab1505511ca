package service

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"attendance-bot/internal/api"
	"attendance-bot/internal/models"
	"attendance-bot/internal/session"
	"attendance-bot/pkg/timefmt"
)

const zeroDisplay = "00:00:00"

// ErrInvalidTransition возвращается, когда действие не согласуется с
// текущим состоянием: например /out без начатого дня.
var ErrInvalidTransition = errors.New("действие недоступно в текущем статусе")

// AttendanceAPI - часть REST-клиента, нужная контроллеру.
type AttendanceAPI interface {
	Status(token, userID string) (*models.StatusSnapshot, error)
	CheckIn(token, userID string) (*models.MessageResponse, error)
	CheckOut(token, userID string) (*models.MessageResponse, error)
}

// SessionInvalidator очищает сессию чата при терминальных ошибках.
type SessionInvalidator interface {
	Clear(chatID int64, reason string) error
}

// AttendanceController ведет состояние рабочего дня одного чата:
// not_checked_in -> checked_in -> checked_out, плюс секундный счетчик
// времени между полными обновлениями с сервера.
type AttendanceController struct {
	api      AttendanceAPI
	sessions SessionInvalidator
	breaks   *BreakController
	chatID   int64

	now    func() time.Time
	onTick func(display string)

	mu        sync.Mutex
	status    string
	display   string
	startTime time.Time
	tracking  bool
	stop      chan struct{}
}

func NewAttendanceController(attendanceAPI AttendanceAPI, sessions SessionInvalidator, breaks *BreakController, chatID int64) *AttendanceController {
	return &AttendanceController{
		api:      attendanceAPI,
		sessions: sessions,
		breaks:   breaks,
		chatID:   chatID,
		now:      time.Now,
		status:   models.StatusNotCheckedIn,
		display:  zeroDisplay,
	}
}

// SetTickFunc задает получателя обновлений счетчика (редактирование
// сообщения в чате). Вызывается из горутины таймера раз в секунду.
func (c *AttendanceController) SetTickFunc(fn func(display string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTick = fn
}

func (c *AttendanceController) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *AttendanceController) Display() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.display
}

func (c *AttendanceController) TimerRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop != nil
}

// Refresh подтягивает снапшот статуса с сервера и перестраивает
// состояние и счетчик. Любое обновление сперва гасит старый таймер.
func (c *AttendanceController) Refresh(token, userID string) error {
	c.StopTimer()

	snapshot, err := c.api.Status(token, userID)
	if err != nil {
		if api.IsAccountDeleted(err) {
			return c.accountDeleted(err)
		}

		// Прочие ошибки: статус по умолчанию, нулевой счетчик
		c.mu.Lock()
		c.status = models.StatusNotCheckedIn
		c.display = zeroDisplay
		c.tracking = false
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = snapshot.Status
	if c.status == "" {
		c.status = models.StatusNotCheckedIn
	}
	c.tracking = false

	if total, ok := snapshot.TotalHoursValue(); ok {
		// День завершен: показываем итог, счетчик не запускаем
		c.display = timefmt.HoursToClock(total)
		return nil
	}

	if current, ok := snapshot.CurrentHoursValue(); ok {
		c.display = timefmt.HoursToClock(current)
		if start, ok := snapshotCheckIn(snapshot); ok {
			c.startTracking(start)
		}
		return nil
	}

	if c.status == models.StatusCheckedIn {
		if start, ok := snapshotCheckIn(snapshot); ok {
			c.startTracking(start)
			return nil
		}
	}

	c.display = zeroDisplay
	return nil
}

// CheckIn начинает рабочий день. Разрешен только из not_checked_in.
func (c *AttendanceController) CheckIn(token, userID string) (string, error) {
	c.mu.Lock()
	if c.status != models.StatusNotCheckedIn {
		c.mu.Unlock()
		return "", ErrInvalidTransition
	}
	c.mu.Unlock()

	resp, err := c.api.CheckIn(token, userID)
	if err != nil {
		if api.IsAccountDeleted(err) {
			return "", c.accountDeleted(err)
		}
		return "", err
	}

	// Подтверждаем переход повторным запросом статуса
	if err := c.Refresh(token, userID); err != nil {
		logrus.WithError(err).WithField("chat_id", c.chatID).Warn("Status refresh after check-in failed")
	}

	return resp.Message, nil
}

// CheckOut завершает рабочий день. Разрешен только из checked_in.
// Успех принудительно снимает статус перерыва: перерыв не живет
// дольше завершенного дня.
func (c *AttendanceController) CheckOut(token, userID string) (string, error) {
	c.mu.Lock()
	if c.status != models.StatusCheckedIn {
		c.mu.Unlock()
		return "", ErrInvalidTransition
	}
	c.mu.Unlock()

	resp, err := c.api.CheckOut(token, userID)
	if err != nil {
		if api.IsAccountDeleted(err) {
			return "", c.accountDeleted(err)
		}
		return "", err
	}

	if c.breaks != nil {
		c.breaks.ForceOff()
	}

	if err := c.Refresh(token, userID); err != nil {
		logrus.WithError(err).WithField("chat_id", c.chatID).Warn("Status refresh after check-out failed")
	}

	return resp.Message, nil
}

// StopTimer гасит счетчик. Обязателен при завершении дня, удалении
// аккаунта и остановке контроллера - протекший таймер считается багом.
func (c *AttendanceController) StopTimer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
}

// Close останавливает контроллер при выходе пользователя.
func (c *AttendanceController) Close() {
	c.StopTimer()
}

// startTracking запоминает момент прихода, сразу пересчитывает
// отображение и запускает секундный таймер. Вызывается под c.mu.
func (c *AttendanceController) startTracking(start time.Time) {
	c.startTime = start
	c.tracking = true
	c.display = timefmt.Elapsed(c.now().Sub(start))
	c.startTimerLocked()
}

// startTimerLocked перезапускает таймер. Активен всегда не больше
// одного: старый канал закрывается до создания нового.
func (c *AttendanceController) startTimerLocked() {
	c.stopTimerLocked()

	stop := make(chan struct{})
	c.stop = stop

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.tick()
			}
		}
	}()
}

func (c *AttendanceController) stopTimerLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

// tick пересчитывает прошедшее время от момента прихода.
func (c *AttendanceController) tick() {
	c.mu.Lock()
	if !c.tracking {
		c.mu.Unlock()
		return
	}
	c.display = timefmt.Elapsed(c.now().Sub(c.startTime))
	display := c.display
	onTick := c.onTick
	c.mu.Unlock()

	if onTick != nil {
		onTick(display)
	}
}

// accountDeleted - терминальный сценарий: аккаунт удален на сервере.
// Таймер гасится, статус фиксируется как checked_out, сессия чата
// очищается; исходная ошибка возвращается вызывающему для показа.
func (c *AttendanceController) accountDeleted(cause error) error {
	c.mu.Lock()
	c.stopTimerLocked()
	c.status = models.StatusCheckedOut
	c.tracking = false
	c.mu.Unlock()

	if err := c.sessions.Clear(c.chatID, session.ReasonAccountDeleted); err != nil {
		logrus.WithError(err).WithField("chat_id", c.chatID).Error("Failed to clear session of deleted account")
	}

	return cause
}

// snapshotCheckIn разбирает таймстемп прихода из снапшота.
func snapshotCheckIn(snapshot *models.StatusSnapshot) (time.Time, bool) {
	if snapshot.Attendance == nil || snapshot.Attendance.CheckIn == "" {
		return time.Time{}, false
	}

	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, snapshot.Attendance.CheckIn); err == nil {
			return parsed, true
		}
	}

	logrus.WithField("check_in", snapshot.Attendance.CheckIn).Warn("Unparseable check-in timestamp in snapshot")
	return time.Time{}, false
}
