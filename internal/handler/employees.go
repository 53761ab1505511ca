package handler

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"attendance-bot/internal/api"
	"attendance-bot/internal/models"
)

// requireAdmin возвращает сессию администратора или объясняет отказ.
func (h *Handler) requireAdmin(chatID int64) *models.Session {
	sess := h.requireSession(chatID)
	if sess == nil {
		return nil
	}
	if !sess.User.IsAdmin() {
		h.reply(chatID, "⛔ Команда доступна только администратору.")
		return nil
	}
	return sess
}

// showEmployees показывает ростер сотрудников с их текущими статусами.
func (h *Handler) showEmployees(chatID int64) {
	sess := h.requireAdmin(chatID)
	if sess == nil {
		return
	}

	resp, err := h.employeesAPI.All(sess.Token, sess.User.ID)
	if err != nil {
		h.handleAPIError(chatID, err, "Не удалось загрузить список сотрудников.")
		return
	}

	if len(resp.Employees) == 0 {
		h.reply(chatID, "📭 Сотрудников пока нет.\n/assign - назначить сотрудника")
		return
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("👥 Сотрудники (%d):\n\n", len(resp.Employees)))
	for _, employee := range resp.Employees {
		b.WriteString(fmt.Sprintf("%s %s\n   📧 %s\n   🆔 %s\n   Статус: %s\n\n",
			models.StatusEmoji(employee.Status),
			employee.Name,
			employee.Email,
			employee.ID,
			employee.Status))
	}
	b.WriteString("/assign [id] - назначить\n/remove [id] - удалить")

	h.reply(chatID, b.String())
}

// assignEmployee без аргумента показывает доступных пользователей,
// с аргументом назначает пользователя сотрудником.
func (h *Handler) assignEmployee(chatID int64, args string) {
	sess := h.requireAdmin(chatID)
	if sess == nil {
		return
	}

	employeeID := strings.TrimSpace(args)
	if employeeID == "" {
		resp, err := h.employeesAPI.AvailableUsers(sess.Token, sess.User.ID)
		if err != nil {
			h.handleAPIError(chatID, err, "Не удалось загрузить доступных пользователей.")
			return
		}

		if len(resp.Users) == 0 {
			h.reply(chatID, "📭 Нет пользователей, доступных для назначения.")
			return
		}

		var b strings.Builder
		b.WriteString("👤 Доступные пользователи:\n\n")
		for _, user := range resp.Users {
			b.WriteString(fmt.Sprintf("%s\n   📧 %s\n   🆔 %s\n\n", user.Name, user.Email, user.ID))
		}
		b.WriteString("Назначить: /assign [id]")
		h.reply(chatID, b.String())
		return
	}

	resp, err := h.employeesAPI.Assign(sess.Token, employeeID)
	if err != nil {
		h.handleAPIError(chatID, err, "Не удалось назначить сотрудника.")
		return
	}

	message := resp.Message
	if message == "" {
		message = "Сотрудник назначен."
	}
	h.reply(chatID, "✅ "+message)
}

// removeEmployee спрашивает подтверждение перед удалением.
func (h *Handler) removeEmployee(chatID int64, args string) {
	if h.requireAdmin(chatID) == nil {
		return
	}

	employeeID := strings.TrimSpace(args)
	if employeeID == "" {
		h.reply(chatID, "Использование: /remove [id]\nСписок сотрудников: /employees")
		return
	}

	msg := tgbotapi.NewMessage(chatID, "⚠️ Удалить сотрудника "+employeeID+"?\nВместе с ним удаляются его записи посещаемости.")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Да, удалить", "confirm_remove_"+employeeID),
			tgbotapi.NewInlineKeyboardButtonData("Отмена", "cancel_remove"),
		),
	)

	if _, err := h.client.Bot.Send(msg); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to send remove confirmation")
	}
}

// confirmRemoveEmployee выполняет удаление после подтверждения.
// 404 означает, что сотрудника уже нет, тогда просто обновляем ростер.
func (h *Handler) confirmRemoveEmployee(chatID int64, employeeID string) {
	sess := h.requireAdmin(chatID)
	if sess == nil {
		return
	}

	resp, err := h.employeesAPI.Delete(sess.Token, employeeID)
	if err != nil {
		if api.IsNotFound(err) {
			h.reply(chatID, "ℹ️ Сотрудник уже удален, обновляю список.")
			h.showEmployees(chatID)
			return
		}
		h.handleAPIError(chatID, err, "Не удалось удалить сотрудника.")
		return
	}

	message := resp.Message
	if message == "" {
		message = "Сотрудник удален."
	}
	h.reply(chatID, "✅ "+message)
	h.showEmployees(chatID)
}
