package handler

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) handleCommand(message *tgbotapi.Message) {
	command := message.Command()
	args := message.CommandArguments()
	chatID := message.Chat.ID

	switch command {
	case "start":
		h.sendStartMessage(message)
	case "help":
		h.sendHelpMessage(message)

	// Вход и профиль
	case "login":
		h.startLogin(chatID)
	case "register":
		h.startRegister(chatID)
	case "google":
		h.googleLogin(chatID, args)
	case "logout":
		h.logout(chatID)
	case "password":
		h.startPasswordChange(chatID)
	case "me":
		h.showProfile(chatID)

	// Рабочий день (все пользователи)
	case "in", "checkin":
		h.clockIn(chatID)
	case "out", "checkout":
		h.clockOut(chatID)
	case "status":
		h.showWorkStatus(chatID)
	case "break":
		h.toggleBreak(chatID)

	// История посещаемости
	case "history":
		h.showHistory(chatID)
	case "next":
		h.historyNext(chatID)
	case "prev":
		h.historyPrev(chatID)
	case "filter":
		h.setHistoryFilter(chatID, args)
	case "filterstatus":
		h.setHistoryStatusFilter(chatID, args)
	case "search":
		h.setHistorySearch(chatID, args)
	case "export":
		h.exportHistory(chatID)

	// Отпуска и уведомления
	case "leave":
		h.startLeaveRequest(chatID)
	case "notifications":
		h.showNotifications(chatID)

	// Команды администратора
	case "employees":
		h.showEmployees(chatID)
	case "assign":
		h.assignEmployee(chatID, args)
	case "remove":
		h.removeEmployee(chatID, args)

	default:
		h.sendUnknownCommand(message)
	}
}

// handleDialogStep продолжает активный многошаговый диалог.
func (h *Handler) handleDialogStep(message *tgbotapi.Message, state *dialog) {
	switch state.kind {
	case dialogLogin:
		h.handleLoginStep(message, state)
	case dialogRegister:
		h.handleRegisterStep(message, state)
	case dialogPassword:
		h.handlePasswordStep(message, state)
	case dialogLeave:
		h.handleLeaveStep(message, state)
	default:
		h.clearDialog(message.Chat.ID)
	}
}

func (h *Handler) sendUnknownCommand(message *tgbotapi.Message) {
	msg := tgbotapi.NewMessage(message.Chat.ID, "❌ Неизвестная команда. Используйте /help для списка команд.")
	h.client.Bot.Send(msg)
}

func (h *Handler) sendStartMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	text := `👋 Это бот учета рабочего времени.

Начните со входа в систему:
/login - Войти по email и паролю
/register - Создать аккаунт
/google [токен] - Войти через Google

После входа:
/in - Отметить приход
/out - Отметить уход
/status - Текущий статус и счетчик времени
/break - Начать или закончить перерыв

Полный список команд: /help`

	msg := tgbotapi.NewMessage(chatID, text)
	h.client.Bot.Send(msg)
}

func (h *Handler) sendHelpMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	text := `📋 Доступные команды:

🔐 Аккаунт:
/login - Войти по email и паролю
/register - Зарегистрироваться
/google [access-токен] - Войти через Google
/logout - Выйти
/password - Сменить пароль
/me - Мой профиль

⏰ Рабочий день:
/in - Отметить приход
/out - Отметить уход
/status - Статус и счетчик отработанного времени
/break - Начать/закончить перерыв

📖 История посещаемости:
/history - Показать историю (страницами по 5)
/next, /prev - Листать страницы
/filter all|week|month ГГГГ-ММ|date ГГГГ-ММ-ДД|range С ПО - Фильтр по датам
/filterstatus all|present|leave - Фильтр по статусу
/search [текст] - Поиск по истории
/export - Выгрузить загруженную историю в Excel

🏖 Отпуска:
/leave - Подать заявку на отпуск
/notifications - Мои уведомления (для админа - заявки на согласование)

👑 Администратору:
/employees - Список сотрудников
/assign [id] - Назначить сотрудника (без id покажет доступных)
/remove [id] - Удалить сотрудника

🛠 Утилиты:
/cancel - Прервать текущий диалог
/help - Показать это сообщение`

	msg := tgbotapi.NewMessage(chatID, text)
	h.client.Bot.Send(msg)
}
