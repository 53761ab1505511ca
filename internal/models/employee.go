package models

// EmployeeSummary - строка ростера сотрудников у администратора.
type EmployeeSummary struct {
	ID     string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// EmployeesResponse - ответ GET /api/employees/all/:userId.
type EmployeesResponse struct {
	Employees []EmployeeSummary `json:"employees"`
	Message   string            `json:"message"`
}

// AvailableUsersResponse - ответ GET /api/users/available/:userId.
type AvailableUsersResponse struct {
	Users   []User `json:"users"`
	Message string `json:"message"`
}

// StatusTag превращает текстовый статус сотрудника в тег оформления.
// Статусы приходят с бекенда и не являются закрытым перечислением,
// поэтому у отображения обязан быть вариант по умолчанию.
func StatusTag(status string) string {
	switch status {
	case "Checked In":
		return "checked-in"
	case "Checked Out":
		return "checked-out"
	case "Not Checked In":
		return "checked-out"
	case "On Leave":
		return "leave"
	case "On Break":
		return "break"
	default:
		return "default"
	}
}

// StatusEmoji - то же отображение для телеграм-сообщений.
func StatusEmoji(status string) string {
	switch StatusTag(status) {
	case "checked-in":
		return "🟢"
	case "leave":
		return "🏖"
	case "break":
		return "☕"
	case "checked-out":
		return "⚪"
	default:
		return "❔"
	}
}
