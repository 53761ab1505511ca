package service

import "attendance-bot/internal/models"

// LeavesToNotifications строит ленту уведомлений сотрудника из его
// заявок, одна заявка - одно уведомление.
func LeavesToNotifications(leaves []models.Leave) []models.Notification {
	notifications := make([]models.Notification, 0, len(leaves))
	for i, leave := range leaves {
		notifications = append(notifications, leave.ToNotification(i))
	}
	return notifications
}

// FilterLeavesByStatus - клиентский фильтр заявок для администратора.
// Сервер отдает полный список, выбор статуса происходит локально.
func FilterLeavesByStatus(leaves []models.Leave, status string) []models.Leave {
	filtered := make([]models.Leave, 0, len(leaves))
	for _, leave := range leaves {
		if leave.Status == status {
			filtered = append(filtered, leave)
		}
	}
	return filtered
}
