package handler

import (
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"attendance-bot/internal/api"
	"attendance-bot/internal/models"
	"attendance-bot/internal/service"
)

// clockIn отмечает приход.
func (h *Handler) clockIn(chatID int64) {
	sess := h.requireSession(chatID)
	if sess == nil {
		return
	}

	ctrl := h.attendanceCtrl(chatID)

	message, err := ctrl.CheckIn(sess.Token, sess.User.ID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			h.reply(chatID, "❌ Приход уже отмечен. Завершить день: /out")
			return
		}
		if api.IsAccountDeleted(err) {
			h.handleAccountDeleted(chatID, err)
			return
		}
		h.handleAPIError(chatID, err, "Check-in failed. Please try again.")
		return
	}

	if message == "" {
		message = "Check-in successful!"
	}
	h.reply(chatID, "✅ "+message)
	h.showWorkStatus(chatID)
}

// clockOut отмечает уход. Успех заодно снимает перерыв.
func (h *Handler) clockOut(chatID int64) {
	sess := h.requireSession(chatID)
	if sess == nil {
		return
	}

	ctrl := h.attendanceCtrl(chatID)

	message, err := ctrl.CheckOut(sess.Token, sess.User.ID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			h.reply(chatID, "❌ Сначала отметьте приход: /in")
			return
		}
		if api.IsAccountDeleted(err) {
			h.handleAccountDeleted(chatID, err)
			return
		}
		h.handleAPIError(chatID, err, "Check-out failed. Please try again.")
		return
	}

	if message == "" {
		message = "Check-out successful!"
	}
	h.reply(chatID, "✅ "+message)
	h.showWorkStatus(chatID)
}

// showWorkStatus обновляет оба статуса с сервера и рисует экран дня.
// Пока день идет, счетчик в сообщении тикает раз в секунду.
func (h *Handler) showWorkStatus(chatID int64) {
	sess := h.requireSession(chatID)
	if sess == nil {
		return
	}

	ctrl := h.attendanceCtrl(chatID)
	breakCtrl := h.breakCtrl(chatID)

	if err := ctrl.Refresh(sess.Token, sess.User.ID); err != nil {
		if api.IsAccountDeleted(err) {
			h.handleAccountDeleted(chatID, err)
			return
		}
		// Прочие ошибки статуса не фатальны: показываем нулевое состояние
		logrus.WithError(err).WithField("chat_id", chatID).Warn("Attendance status fetch failed")
		h.reply(chatID, "⚠️ "+api.Message(err, "Не удалось получить статус, показываю значения по умолчанию."))
	}

	breakCtrl.Refresh(sess.Token)

	text, keyboard := h.renderWorkStatus(ctrl, breakCtrl)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	sent, err := h.client.Bot.Send(msg)
	if err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to send status message")
		return
	}

	// Пока счетчик тикает, правим отправленное сообщение на месте
	if ctrl.TimerRunning() {
		messageID := sent.MessageID
		ctrl.SetTickFunc(func(display string) {
			text, keyboard := h.renderWorkStatus(ctrl, breakCtrl)
			edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboard)
			h.client.Bot.Send(edit)
		})
	} else {
		ctrl.SetTickFunc(nil)
	}
}

func (h *Handler) renderWorkStatus(ctrl *service.AttendanceController, breakCtrl *service.BreakController) (string, tgbotapi.InlineKeyboardMarkup) {
	var text string
	var rows [][]tgbotapi.InlineKeyboardButton

	switch ctrl.Status() {
	case models.StatusCheckedIn:
		text = "🟢 Вы на работе!\n⏳ Отработано: " + ctrl.Display()
		if breakCtrl.OnBreak() {
			text += "\n☕ Сейчас перерыв"
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("☕ Закончить перерыв", "break_toggle"),
			))
		} else {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("☕ Начать перерыв", "break_toggle"),
			))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏰ Завершить рабочий день", "command_clock_out"),
		))

	case models.StatusCheckedOut:
		text = "✅ Рабочий день завершен.\n⏳ Отработано: " + ctrl.Display()

	default:
		text = "📭 Сегодня вы еще не отмечались.\n⏳ " + ctrl.Display()
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Отметить приход", "command_clock_in"),
		))
	}

	return text, tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// toggleBreak начинает или заканчивает перерыв.
func (h *Handler) toggleBreak(chatID int64) {
	sess := h.requireSession(chatID)
	if sess == nil {
		return
	}

	breakCtrl := h.breakCtrl(chatID)
	wasOnBreak := breakCtrl.OnBreak()

	message, err := breakCtrl.Toggle(sess.Token)
	if err != nil {
		fallback := "Failed to start break. Please try again."
		if wasOnBreak {
			fallback = "Failed to end break. Please try again."
		}
		h.handleAPIError(chatID, err, fallback)
		return
	}

	if message == "" {
		if wasOnBreak {
			message = "Break ended!"
		} else {
			message = "Break started!"
		}
	}
	h.reply(chatID, "☕ "+message)
}
