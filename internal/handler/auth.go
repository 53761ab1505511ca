package handler

import (
	"regexp"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"attendance-bot/internal/api"
	"attendance-bot/internal/models"
	"attendance-bot/internal/session"
)

// Виды диалогов
const (
	dialogLogin    = "login"
	dialogRegister = "register"
	dialogPassword = "password"
	dialogLeave    = "leave"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// startLogin запускает диалог входа: email, затем пароль.
func (h *Handler) startLogin(chatID int64) {
	sess, err := h.sessions.Get(chatID)
	if err == nil && sess != nil {
		h.reply(chatID, "✅ Вы уже вошли как "+sess.User.Name+".\nСначала выйдите: /logout")
		return
	}

	h.startDialog(chatID, dialogLogin)
	h.reply(chatID, "📧 Введите email:")
}

func (h *Handler) handleLoginStep(message *tgbotapi.Message, state *dialog) {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	switch state.step {
	case 0:
		if !emailPattern.MatchString(text) {
			h.reply(chatID, "❌ Введите корректный email.")
			return
		}
		state.data["email"] = text
		state.step = 1
		h.reply(chatID, "🔑 Введите пароль:")

	case 1:
		h.clearDialog(chatID)
		h.login(chatID, state.data["email"], message.Text)
	}
}

func (h *Handler) login(chatID int64, email, password string) {
	resp, err := h.authAPI.Login(email, password)
	if err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Warn("Login failed")
		h.reply(chatID, "❌ "+api.Message(err, "Не удалось войти. Попробуйте еще раз."))
		return
	}

	if resp.Token == "" || resp.User == nil {
		h.reply(chatID, "❌ Сервер вернул неполный ответ, попробуйте еще раз.")
		return
	}

	// Токен и профиль сохраняются одной записью
	if err := h.sessions.Set(chatID, resp.Token, *resp.User); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to persist session")
		h.reply(chatID, "❌ Ошибка сохранения сессии: "+err.Error())
		return
	}

	successMessage := resp.Message
	if successMessage == "" {
		successMessage = "Login successful!"
	}

	h.reply(chatID, "✅ "+successMessage+"\n\n👤 "+resp.User.Name+"\n\n/status - текущий статус\n/in - отметить приход")
}

// googleLogin принимает access-токен, полученный пользователем у Google,
// и передает его бекенду. Сам popup-флоу остается вне бота.
func (h *Handler) googleLogin(chatID int64, args string) {
	accessToken := strings.TrimSpace(args)
	if accessToken == "" {
		h.reply(chatID, "Использование: /google [access-токен]\nТокен выдает страница входа Google.")
		return
	}

	resp, err := h.authAPI.GoogleLogin(accessToken)
	if err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Warn("Google login failed")
		h.reply(chatID, "❌ "+api.Message(err, "Google Sign-In failed. Please try again."))
		return
	}

	if resp.Token == "" || resp.User == nil {
		h.reply(chatID, "❌ Сервер вернул неполный ответ, попробуйте еще раз.")
		return
	}

	if err := h.sessions.Set(chatID, resp.Token, *resp.User); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to persist session")
		h.reply(chatID, "❌ Ошибка сохранения сессии: "+err.Error())
		return
	}

	successMessage := resp.Message
	if successMessage == "" {
		successMessage = "Google login successful!"
	}
	h.reply(chatID, "✅ "+successMessage)
}

// startRegister запускает диалог регистрации.
func (h *Handler) startRegister(chatID int64) {
	h.startDialog(chatID, dialogRegister)
	h.reply(chatID, "👤 Введите полное имя:")
}

func (h *Handler) handleRegisterStep(message *tgbotapi.Message, state *dialog) {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	switch state.step {
	case 0:
		if text == "" {
			h.reply(chatID, "❌ Имя не может быть пустым.")
			return
		}
		state.data["name"] = text
		state.step = 1
		h.reply(chatID, "📧 Введите email:")

	case 1:
		if !emailPattern.MatchString(text) {
			h.reply(chatID, "❌ Введите корректный email.")
			return
		}
		state.data["email"] = strings.ToLower(text)
		state.step = 2
		h.reply(chatID, "🔑 Введите пароль (минимум 6 символов):")

	case 2:
		if len(message.Text) < 6 {
			h.reply(chatID, "❌ Пароль должен быть не короче 6 символов.")
			return
		}
		state.data["password"] = message.Text
		state.step = 3
		h.reply(chatID, "🔁 Повторите пароль:")

	case 3:
		if message.Text != state.data["password"] {
			h.reply(chatID, "❌ Пароли не совпадают. Повторите пароль:")
			return
		}
		state.step = 4

		msg := tgbotapi.NewMessage(chatID, "🎭 Выберите роль:")
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Сотрудник", "role_"+models.RoleEmployee),
				tgbotapi.NewInlineKeyboardButtonData("Администратор", "role_"+models.RoleAdmin),
			),
		)
		h.client.Bot.Send(msg)
	}
}

// completeRegisterRole завершает регистрацию выбранной ролью.
func (h *Handler) completeRegisterRole(chatID int64, role string) {
	state := h.currentDialog(chatID)
	if state == nil || state.kind != dialogRegister || state.step != 4 {
		return
	}
	if role != models.RoleAdmin && role != models.RoleEmployee {
		h.reply(chatID, "❌ Выберите роль кнопкой.")
		return
	}
	h.clearDialog(chatID)

	resp, err := h.authAPI.Register(state.data["name"], state.data["email"], state.data["password"], role)
	if err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Warn("Registration failed")
		h.reply(chatID, "❌ "+api.Message(err, "Registration failed. Please try again."))
		return
	}

	successMessage := resp.Message
	if successMessage == "" {
		successMessage = "Registration successful!"
	}
	h.reply(chatID, "✅ "+successMessage+"\n\nТеперь войдите: /login")
}

// logout очищает сессию чата.
func (h *Handler) logout(chatID int64) {
	sess, err := h.sessions.Get(chatID)
	if err != nil {
		h.reply(chatID, "❌ Ошибка чтения сессии: "+err.Error())
		return
	}
	if sess == nil {
		h.reply(chatID, "Вы и не входили. /login чтобы войти.")
		return
	}

	if err := h.sessions.Clear(chatID, session.ReasonLogout); err != nil {
		h.reply(chatID, "❌ Ошибка выхода: "+err.Error())
		return
	}

	h.reply(chatID, "👋 Вы вышли из системы.")
}

// showProfile печатает профиль из сессии, без похода на сервер.
func (h *Handler) showProfile(chatID int64) {
	sess := h.requireSession(chatID)
	if sess == nil {
		return
	}

	role := "Сотрудник"
	if sess.User.IsAdmin() {
		role = "Администратор"
	}

	text := "👤 " + sess.User.Name +
		"\n📧 " + sess.User.Email +
		"\n🎭 " + role +
		"\n\n/password - сменить пароль"
	h.reply(chatID, text)
}

// startPasswordChange запускает диалог смены пароля.
func (h *Handler) startPasswordChange(chatID int64) {
	if h.requireSession(chatID) == nil {
		return
	}

	h.startDialog(chatID, dialogPassword)
	h.reply(chatID, "🔑 Введите текущий пароль:")
}

func (h *Handler) handlePasswordStep(message *tgbotapi.Message, state *dialog) {
	chatID := message.Chat.ID

	switch state.step {
	case 0:
		if message.Text == "" {
			h.reply(chatID, "❌ Заполните все поля пароля.")
			return
		}
		state.data["current"] = message.Text
		state.step = 1
		h.reply(chatID, "🆕 Введите новый пароль (минимум 6 символов):")

	case 1:
		if len(message.Text) < 6 {
			h.reply(chatID, "❌ Новый пароль должен быть не короче 6 символов.")
			return
		}
		state.data["new"] = message.Text
		state.step = 2
		h.reply(chatID, "🔁 Повторите новый пароль:")

	case 2:
		if message.Text != state.data["new"] {
			h.reply(chatID, "❌ Новые пароли не совпадают. Повторите:")
			return
		}
		h.clearDialog(chatID)

		sess := h.requireSession(chatID)
		if sess == nil {
			return
		}

		resp, err := h.authAPI.ChangePassword(sess.Token, state.data["current"], state.data["new"])
		if err != nil {
			h.handleAPIError(chatID, err, "Не удалось сменить пароль. Попробуйте еще раз.")
			return
		}

		successMessage := resp.Message
		if successMessage == "" {
			successMessage = "Пароль изменен."
		}
		h.reply(chatID, "✅ "+successMessage)
	}
}
