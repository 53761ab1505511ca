package handler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"attendance-bot/internal/models"
	"attendance-bot/internal/service"
	"attendance-bot/pkg/timefmt"
)

// showHistory показывает текущую страницу истории. Первый вызов
// загружает первую страницу, дальше работает кеш пейджера.
func (h *Handler) showHistory(chatID int64) {
	sess := h.requireSession(chatID)
	if sess == nil {
		return
	}

	pager := h.pager(chatID)

	if len(pager.All()) == 0 {
		if err := pager.LoadPage(sess.Token, sess.User.ID, 1); err != nil {
			h.handleAPIError(chatID, err, "Не удалось загрузить историю.")
			return
		}
	}

	h.renderHistoryPage(chatID, pager)
}

func (h *Handler) historyNext(chatID int64) {
	sess := h.requireSession(chatID)
	if sess == nil {
		return
	}

	pager := h.pager(chatID)

	if err := pager.NextPage(sess.Token, sess.User.ID); err != nil {
		if errors.Is(err, service.ErrNoMoreRecords) {
			h.reply(chatID, "📭 Записей больше нет.")
			return
		}
		h.handleAPIError(chatID, err, "Не удалось загрузить следующую страницу.")
		return
	}

	h.renderHistoryPage(chatID, pager)
}

func (h *Handler) historyPrev(chatID int64) {
	if h.requireSession(chatID) == nil {
		return
	}

	pager := h.pager(chatID)

	if !pager.PreviousPage() {
		h.reply(chatID, "📭 Вы уже на первой странице.")
		return
	}

	h.renderHistoryPage(chatID, pager)
}

func (h *Handler) handleHistoryPageCallback(chatID int64, data string) {
	switch data {
	case "history_prev":
		h.historyPrev(chatID)
	case "history_next":
		h.historyNext(chatID)
	}
}

// setHistoryFilter разбирает аргументы /filter и применяет датовый
// фильтр. Применение сбрасывает кеш и возвращает на первую страницу.
func (h *Handler) setHistoryFilter(chatID int64, args string) {
	sess := h.requireSession(chatID)
	if sess == nil {
		return
	}

	const usage = "Использование:\n" +
		"/filter all - вся история\n" +
		"/filter week - текущая неделя\n" +
		"/filter month ГГГГ-ММ - за месяц\n" +
		"/filter date ГГГГ-ММ-ДД - за день\n" +
		"/filter range ГГГГ-ММ-ДД ГГГГ-ММ-ДД - за период"

	fields := strings.Fields(args)
	if len(fields) == 0 {
		h.reply(chatID, usage)
		return
	}

	pager := h.pager(chatID)
	filters := pager.Filters()
	filters.Month = ""
	filters.Date = ""
	filters.StartDate = ""
	filters.EndDate = ""

	switch fields[0] {
	case "all", "week":
		filters.FilterType = fields[0]

	case "month":
		if len(fields) != 2 {
			h.reply(chatID, usage)
			return
		}
		if _, err := time.Parse("2006-01", fields[1]); err != nil {
			h.reply(chatID, "❌ Месяц указывается как ГГГГ-ММ, например 2026-08.")
			return
		}
		filters.FilterType = "month"
		filters.Month = fields[1]

	case "date":
		if len(fields) != 2 {
			h.reply(chatID, usage)
			return
		}
		if _, err := time.Parse("2006-01-02", fields[1]); err != nil {
			h.reply(chatID, "❌ Дата указывается как ГГГГ-ММ-ДД.")
			return
		}
		filters.FilterType = "date"
		filters.Date = fields[1]

	case "range":
		if len(fields) != 3 {
			h.reply(chatID, usage)
			return
		}
		start, err := time.Parse("2006-01-02", fields[1])
		if err != nil {
			h.reply(chatID, "❌ Дата начала указывается как ГГГГ-ММ-ДД.")
			return
		}
		end, err := time.Parse("2006-01-02", fields[2])
		if err != nil {
			h.reply(chatID, "❌ Дата конца указывается как ГГГГ-ММ-ДД.")
			return
		}
		if end.Before(start) {
			h.reply(chatID, "❌ Дата конца раньше даты начала.")
			return
		}
		filters.FilterType = "range"
		filters.StartDate = fields[1]
		filters.EndDate = fields[2]

	default:
		h.reply(chatID, usage)
		return
	}

	if err := pager.SetFilters(sess.Token, sess.User.ID, filters); err != nil {
		h.handleAPIError(chatID, err, "Не удалось применить фильтр.")
		return
	}

	h.renderHistoryPage(chatID, pager)
}

func (h *Handler) setHistoryStatusFilter(chatID int64, args string) {
	sess := h.requireSession(chatID)
	if sess == nil {
		return
	}

	status := strings.TrimSpace(strings.ToLower(args))
	switch status {
	case "all", "present", "leave":
	default:
		h.reply(chatID, "Использование: /filterstatus all|present|leave")
		return
	}

	pager := h.pager(chatID)
	filters := pager.Filters()
	filters.Status = status

	if err := pager.SetFilters(sess.Token, sess.User.ID, filters); err != nil {
		h.handleAPIError(chatID, err, "Не удалось применить фильтр.")
		return
	}

	h.renderHistoryPage(chatID, pager)
}

// setHistorySearch задает поисковую строку. Пустой аргумент снимает поиск.
func (h *Handler) setHistorySearch(chatID int64, args string) {
	sess := h.requireSession(chatID)
	if sess == nil {
		return
	}

	pager := h.pager(chatID)
	filters := pager.Filters()
	filters.Search = strings.TrimSpace(args)

	if err := pager.SetFilters(sess.Token, sess.User.ID, filters); err != nil {
		h.handleAPIError(chatID, err, "Не удалось выполнить поиск.")
		return
	}

	h.renderHistoryPage(chatID, pager)
}

// exportHistory выгружает накопленный кеш истории файлом xlsx.
func (h *Handler) exportHistory(chatID int64) {
	if h.requireSession(chatID) == nil {
		return
	}

	pager := h.pager(chatID)
	records := pager.All()
	if len(records) == 0 {
		h.reply(chatID, "📭 Нечего выгружать. Сначала загрузите историю: /history")
		return
	}

	workbook, err := service.BuildHistoryWorkbook(records, pager.Analytics())
	if err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to build history workbook")
		h.reply(chatID, "❌ Не удалось сформировать файл: "+err.Error())
		return
	}

	buffer, err := workbook.WriteToBuffer()
	if err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to serialize history workbook")
		h.reply(chatID, "❌ Не удалось сформировать файл: "+err.Error())
		return
	}

	document := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  "attendance-history.xlsx",
		Bytes: buffer.Bytes(),
	})
	document.Caption = fmt.Sprintf("📊 История посещаемости, записей: %d", len(records))

	if _, err := h.client.Bot.Send(document); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to send history export")
		h.reply(chatID, "❌ Не удалось отправить файл.")
	}
}

func (h *Handler) renderHistoryPage(chatID int64, pager *service.HistoryPager) {
	records := pager.Current()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📖 История посещаемости, страница %d\n", pager.Page()))
	if total := pager.TotalRecords(); total > 0 {
		b.WriteString(fmt.Sprintf("Всего записей: %d\n", total))
	}
	b.WriteString("\n")

	if len(records) == 0 {
		b.WriteString("📭 Записей нет.")
	}

	for _, record := range records {
		b.WriteString(formatHistoryRecord(record))
		b.WriteString("\n")
	}

	analytics := pager.Analytics()
	if analytics.TotalWorkingHours > 0 || analytics.TotalOvertime > 0 || analytics.TotalLeaves > 0 {
		b.WriteString(fmt.Sprintf("\n📊 Итого: %s, переработка %s, отпусков %d",
			timefmt.HoursToHuman(analytics.TotalWorkingHours),
			timefmt.HoursToHuman(analytics.TotalOvertime),
			analytics.TotalLeaves))
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ReplyMarkup = historyKeyboard(pager)

	if _, err := h.client.Bot.Send(msg); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to send history page")
	}
}

func formatHistoryRecord(record models.AttendanceRecord) string {
	checkIn := "—"
	if record.CheckIn != nil && *record.CheckIn != "" {
		checkIn = *record.CheckIn
	}
	checkOut := "—"
	if record.CheckOut != nil && *record.CheckOut != "" {
		checkOut = *record.CheckOut
	}

	line := fmt.Sprintf("%s %s\n   %s → %s, %s",
		models.StatusEmoji(record.Status),
		record.Date,
		checkIn,
		checkOut,
		timefmt.HoursToHuman(record.TimeSpentHours()))

	if len(record.Breaks) > 0 {
		line += fmt.Sprintf(", перерывов: %d", len(record.Breaks))
	}

	return line + "\n"
}

func historyKeyboard(pager *service.HistoryPager) tgbotapi.InlineKeyboardMarkup {
	var nav []tgbotapi.InlineKeyboardButton
	if pager.Page() > 1 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", "history_prev"))
	}
	if pager.HasMore() {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Вперед ➡️", "history_next"))
	}

	rows := [][]tgbotapi.InlineKeyboardButton{}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📊 Выгрузить в Excel", "history_export"),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
