package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"attendance-bot/internal/models"
	"attendance-bot/internal/service"
)

// startLeaveRequest запускает диалог подачи заявки на отпуск.
func (h *Handler) startLeaveRequest(chatID int64) {
	if h.requireSession(chatID) == nil {
		return
	}

	h.startDialog(chatID, dialogLeave)
	h.reply(chatID, "🏖 Заявка на отпуск.\n📅 Введите дату начала (ГГГГ-ММ-ДД):")
}

func (h *Handler) handleLeaveStep(message *tgbotapi.Message, state *dialog) {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	switch state.step {
	case 0:
		if _, err := time.Parse("2006-01-02", text); err != nil {
			h.reply(chatID, "❌ Дата указывается как ГГГГ-ММ-ДД, например 2026-09-15.")
			return
		}
		state.data["start"] = text
		state.step = 1
		h.reply(chatID, "📅 Введите дату окончания (ГГГГ-ММ-ДД):")

	case 1:
		end, err := time.Parse("2006-01-02", text)
		if err != nil {
			h.reply(chatID, "❌ Дата указывается как ГГГГ-ММ-ДД.")
			return
		}
		start, _ := time.Parse("2006-01-02", state.data["start"])
		if end.Before(start) {
			h.reply(chatID, "❌ Дата окончания раньше даты начала. Введите дату окончания:")
			return
		}
		state.data["end"] = text
		state.step = 2
		h.reply(chatID, "✍️ Укажите причину отпуска:")

	case 2:
		if text == "" {
			h.reply(chatID, "❌ Причина не может быть пустой.")
			return
		}
		h.clearDialog(chatID)
		h.submitLeave(chatID, state.data["start"], state.data["end"], text)
	}
}

func (h *Handler) submitLeave(chatID int64, startDate, endDate, reason string) {
	sess := h.requireSession(chatID)
	if sess == nil {
		return
	}

	resp, err := h.leavesAPI.Submit(sess.Token, sess.User.ID, startDate, endDate, reason)
	if err != nil {
		h.handleAPIError(chatID, err, "Не удалось отправить заявку. Попробуйте еще раз.")
		return
	}

	message := resp.Message
	if message == "" {
		message = "Заявка отправлена."
	}
	h.reply(chatID, "✅ "+message+"\n\nСтатус заявки: /notifications")
}

// showNotifications для сотрудника показывает ленту уведомлений по его
// заявкам, для администратора - заявки на согласование с кнопками.
func (h *Handler) showNotifications(chatID int64) {
	sess := h.requireSession(chatID)
	if sess == nil {
		return
	}

	resp, err := h.leavesAPI.GetLeaves(sess.Token)
	if err != nil {
		h.handleAPIError(chatID, err, "Не удалось загрузить уведомления.")
		return
	}

	if sess.User.IsAdmin() {
		h.showAdminLeaves(chatID, resp.Leaves)
		return
	}

	notifications := service.LeavesToNotifications(resp.Leaves)
	if len(notifications) == 0 {
		h.reply(chatID, "📭 Уведомлений нет.")
		return
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔔 Уведомления (%d):\n\n", len(notifications)))
	for _, notification := range notifications {
		b.WriteString("• " + notification.Message + "\n")
	}
	h.reply(chatID, b.String())
}

// Заявки фильтруются на клиенте, сервер отдает полный список.
func (h *Handler) showAdminLeaves(chatID int64, leaves []models.Leave) {
	h.mu.Lock()
	status, ok := h.noticeStatus[chatID]
	h.mu.Unlock()
	if !ok {
		status = models.LeaveStatusPending
	}

	filtered := service.FilterLeavesByStatus(leaves, status)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📋 Заявки на отпуск, фильтр: %s\n\n", status))

	if len(filtered) == 0 {
		b.WriteString("📭 Заявок с таким статусом нет.")
	}

	msg := tgbotapi.NewMessage(chatID, "")
	var rows [][]tgbotapi.InlineKeyboardButton

	for _, leave := range filtered {
		b.WriteString(fmt.Sprintf("👤 %s\n   🏖 %s → %s\n   ✍️ %s\n   Статус: %s\n\n",
			leave.Name, leave.StartDate, leave.EndDate, leave.Reason, leave.Status))

		if leave.Status == models.LeaveStatusPending {
			id := strconv.FormatInt(leave.ID, 10)
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Одобрить "+leave.Name, "leave_approve_"+id),
				tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", "leave_reject_"+id),
			))
		}
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Ожидают", "notif_"+models.LeaveStatusPending),
		tgbotapi.NewInlineKeyboardButtonData("Одобренные", "notif_"+models.LeaveStatusApproved),
		tgbotapi.NewInlineKeyboardButtonData("Отклоненные", "notif_"+models.LeaveStatusRejected),
	))

	msg.Text = b.String()
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)

	if _, err := h.client.Bot.Send(msg); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to send leave requests")
	}
}

// updateLeaveStatus одобряет или отклоняет заявку по ее id.
func (h *Handler) updateLeaveStatus(chatID int64, idArg, status string) {
	sess := h.requireAdmin(chatID)
	if sess == nil {
		return
	}

	leaveID, err := strconv.ParseInt(idArg, 10, 64)
	if err != nil {
		h.reply(chatID, "❌ Некорректный идентификатор заявки.")
		return
	}

	resp, err := h.leavesAPI.UpdateStatus(sess.Token, leaveID, status)
	if err != nil {
		h.handleAPIError(chatID, err, "Не удалось обновить статус заявки.")
		return
	}

	message := resp.Message
	if message == "" {
		if status == models.LeaveStatusApproved {
			message = "Заявка одобрена."
		} else {
			message = "Заявка отклонена."
		}
	}
	h.reply(chatID, "✅ "+message)
	h.showNotifications(chatID)
}

func (h *Handler) switchNotificationFilter(chatID int64, status string) {
	if h.requireAdmin(chatID) == nil {
		return
	}

	switch status {
	case models.LeaveStatusPending, models.LeaveStatusApproved, models.LeaveStatusRejected:
	default:
		return
	}

	h.mu.Lock()
	h.noticeStatus[chatID] = status
	h.mu.Unlock()

	h.showNotifications(chatID)
}
