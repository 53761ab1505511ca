package handler

import (
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"attendance-bot/internal/api"
	"attendance-bot/internal/config"
	"attendance-bot/internal/models"
	"attendance-bot/internal/service"
	"attendance-bot/internal/session"
	"attendance-bot/pkg/telegram"
)

const historyPageSize = 5

// dialog - многошаговый диалог в чате (логин, регистрация, заявка).
type dialog struct {
	kind string
	step int
	data map[string]string
}

type Handler struct {
	client        *telegram.Client
	sessions      *session.Store
	authAPI       *api.AuthClient
	attendanceAPI *api.AttendanceClient
	breaksAPI     *api.BreaksClient
	leavesAPI     *api.LeavesClient
	employeesAPI  *api.EmployeesClient
	config        *config.BotConfig

	mu           sync.Mutex
	dialogs      map[int64]*dialog
	attendance   map[int64]*service.AttendanceController
	breaks       map[int64]*service.BreakController
	pagers       map[int64]*service.HistoryPager
	noticeStatus map[int64]string
}

func NewHandler(
	client *telegram.Client,
	sessions *session.Store,
	authAPI *api.AuthClient,
	attendanceAPI *api.AttendanceClient,
	breaksAPI *api.BreaksClient,
	leavesAPI *api.LeavesClient,
	employeesAPI *api.EmployeesClient,
	cfg *config.BotConfig,
) *Handler {
	h := &Handler{
		client:        client,
		sessions:      sessions,
		authAPI:       authAPI,
		attendanceAPI: attendanceAPI,
		breaksAPI:     breaksAPI,
		leavesAPI:     leavesAPI,
		employeesAPI:  employeesAPI,
		config:        cfg,
		dialogs:       make(map[int64]*dialog),
		attendance:    make(map[int64]*service.AttendanceController),
		breaks:        make(map[int64]*service.BreakController),
		pagers:        make(map[int64]*service.HistoryPager),
		noticeStatus:  make(map[int64]string),
	}

	// Любая инвалидация сессии гасит таймер и локальное состояние чата,
	// кто бы ее ни инициировал
	sessions.Subscribe(func(chatID int64, reason string) {
		h.dropChatState(chatID)
	})

	return h
}

func (h *Handler) HandleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		// Обработка callback query (для inline кнопок)
		if update.CallbackQuery != nil {
			h.handleCallbackQuery(update.CallbackQuery)
			continue
		}

		if update.Message == nil {
			continue
		}

		h.handleMessage(update.Message)
	}
}

func (h *Handler) handleMessage(message *tgbotapi.Message) {
	logrus.Infof("[%s] %s", message.From.UserName, message.Text)

	chatID := message.Chat.ID

	// Проверяем, находится ли пользователь в многошаговом диалоге
	if state := h.currentDialog(chatID); state != nil {
		if message.IsCommand() && message.Command() == "cancel" {
			h.clearDialog(chatID)
			h.reply(chatID, "❌ Действие отменено.")
			return
		}
		h.handleDialogStep(message, state)
		return
	}

	// Обработка команд
	if message.IsCommand() {
		h.handleCommand(message)
		return
	}

	h.reply(chatID, "Используйте /help для списка команд.")
}

// handleCallbackQuery обрабатывает inline кнопки
func (h *Handler) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	data := callback.Data

	// Убираем клавиатуру у исходного сообщения
	editMsg := tgbotapi.NewEditMessageReplyMarkup(chatID, callback.Message.MessageID, tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow()))
	h.client.Bot.Send(editMsg)

	switch {
	case data == "history_prev" || data == "history_next":
		h.handleHistoryPageCallback(chatID, data)
	case data == "history_export":
		h.exportHistory(chatID)
	case strings.HasPrefix(data, "confirm_remove_"):
		h.confirmRemoveEmployee(chatID, strings.TrimPrefix(data, "confirm_remove_"))
	case data == "cancel_remove":
		h.reply(chatID, "❌ Удаление сотрудника отменено.")
	case strings.HasPrefix(data, "leave_approve_"):
		h.updateLeaveStatus(chatID, strings.TrimPrefix(data, "leave_approve_"), models.LeaveStatusApproved)
	case strings.HasPrefix(data, "leave_reject_"):
		h.updateLeaveStatus(chatID, strings.TrimPrefix(data, "leave_reject_"), models.LeaveStatusRejected)
	case strings.HasPrefix(data, "notif_"):
		h.switchNotificationFilter(chatID, strings.TrimPrefix(data, "notif_"))
	case strings.HasPrefix(data, "role_"):
		h.completeRegisterRole(chatID, strings.TrimPrefix(data, "role_"))
	case data == "command_clock_in":
		h.clockIn(chatID)
	case data == "command_clock_out":
		h.clockOut(chatID)
	case data == "break_toggle":
		h.toggleBreak(chatID)
	}

	// Отвечаем на callback (убираем "часики" у кнопки)
	callbackConfig := tgbotapi.NewCallback(callback.ID, "")
	h.client.Bot.Send(callbackConfig)
}

// reply отправляет простое текстовое сообщение в чат.
func (h *Handler) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.client.Bot.Send(msg); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
	}
}

// requireSession возвращает сессию чата или просит войти.
// Без сессии запросы к бекенду не выполняются вовсе.
func (h *Handler) requireSession(chatID int64) *models.Session {
	sess, err := h.sessions.Get(chatID)
	if err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to load session")
		h.reply(chatID, "❌ Ошибка чтения сессии: "+err.Error())
		return nil
	}

	if sess == nil {
		h.reply(chatID, "🔐 Вы не вошли в систему.\nИспользуйте /login чтобы войти.")
		return nil
	}

	return sess
}

// handleAPIError разбирает ошибку бекенда по общей таксономии:
// 401 - сессия очищается и пользователь входит заново, 403 - только
// сообщение, остальное - сообщение бекенда либо запасной текст.
func (h *Handler) handleAPIError(chatID int64, err error, fallback string) {
	switch {
	case api.IsUnauthorized(err):
		if clearErr := h.sessions.Clear(chatID, session.ReasonExpired); clearErr != nil {
			logrus.WithError(clearErr).WithField("chat_id", chatID).Error("Failed to clear expired session")
		}
		h.reply(chatID, "⏰ "+api.Message(err, "Сессия истекла.")+"\nВойдите снова: /login")
	case api.IsForbidden(err):
		h.reply(chatID, "⛔ "+api.Message(err, "Доступ запрещен."))
	default:
		h.reply(chatID, "❌ "+api.Message(err, fallback))
	}
}

// handleAccountDeleted показывает единственное подтверждение
// терминального сценария. Сессию уже очистил контроллер.
func (h *Handler) handleAccountDeleted(chatID int64, err error) {
	h.reply(chatID, "🚫 "+api.Message(err, "Ваш аккаунт был удален.")+"\n\nДля продолжения работы войдите заново: /login")
}

// attendanceCtrl лениво создает контроллер рабочего дня чата.
func (h *Handler) attendanceCtrl(chatID int64) *service.AttendanceController {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ctrl, exists := h.attendance[chatID]; exists {
		return ctrl
	}

	ctrl := service.NewAttendanceController(h.attendanceAPI, h.sessions, h.breakCtrlLocked(chatID), chatID)
	h.attendance[chatID] = ctrl
	return ctrl
}

func (h *Handler) breakCtrl(chatID int64) *service.BreakController {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.breakCtrlLocked(chatID)
}

func (h *Handler) breakCtrlLocked(chatID int64) *service.BreakController {
	if ctrl, exists := h.breaks[chatID]; exists {
		return ctrl
	}

	ctrl := service.NewBreakController(h.breaksAPI)
	h.breaks[chatID] = ctrl
	return ctrl
}

func (h *Handler) pager(chatID int64) *service.HistoryPager {
	h.mu.Lock()
	defer h.mu.Unlock()

	if pager, exists := h.pagers[chatID]; exists {
		return pager
	}

	pager := service.NewHistoryPager(h.attendanceAPI, historyPageSize)
	h.pagers[chatID] = pager
	return pager
}

// dropChatState сбрасывает контроллеры и диалоги чата после
// инвалидации сессии. Протекший таймер здесь недопустим.
func (h *Handler) dropChatState(chatID int64) {
	h.mu.Lock()
	ctrl := h.attendance[chatID]
	delete(h.attendance, chatID)
	delete(h.breaks, chatID)
	delete(h.pagers, chatID)
	delete(h.dialogs, chatID)
	delete(h.noticeStatus, chatID)
	h.mu.Unlock()

	if ctrl != nil {
		ctrl.Close()
	}
}

func (h *Handler) currentDialog(chatID int64) *dialog {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dialogs[chatID]
}

func (h *Handler) startDialog(chatID int64, kind string) *dialog {
	h.mu.Lock()
	defer h.mu.Unlock()

	state := &dialog{kind: kind, data: make(map[string]string)}
	h.dialogs[chatID] = state
	return state
}

func (h *Handler) clearDialog(chatID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.dialogs, chatID)
}
