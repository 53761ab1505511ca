package models

import "encoding/json"

// Статусы рабочего дня
const (
	StatusNotCheckedIn = "not_checked_in" // Еще не отметился
	StatusCheckedIn    = "checked_in"     // На работе
	StatusCheckedOut   = "checked_out"    // Рабочий день завершен
)

// Статусы перерыва
const (
	StatusOnBreak    = "on_break"
	StatusNotOnBreak = "not_on_break"
)

// StatusSnapshot - ответ GET /api/attendance/status/:userId.
// totalHours присутствует у завершенного дня, currentWorkingHours - у текущего.
type StatusSnapshot struct {
	Status              string          `json:"status"`
	TotalHours          json.Number     `json:"totalHours"`
	CurrentWorkingHours json.Number     `json:"currentWorkingHours"`
	Attendance          *AttendanceMeta `json:"attendance"`
}

type AttendanceMeta struct {
	CheckIn string `json:"check_in"`
}

// TotalHoursValue возвращает завершенный итог дня, если сервер его прислал.
// Ноль считается отсутствием значения, как и в исходном контракте.
func (s *StatusSnapshot) TotalHoursValue() (float64, bool) {
	return numberValue(s.TotalHours)
}

// CurrentHoursValue возвращает текущий набег часов незавершенного дня.
func (s *StatusSnapshot) CurrentHoursValue() (float64, bool) {
	return numberValue(s.CurrentWorkingHours)
}

func numberValue(n json.Number) (float64, bool) {
	if n == "" {
		return 0, false
	}
	v, err := n.Float64()
	if err != nil || v == 0 {
		return 0, false
	}
	return v, true
}

// BreakInterval - один перерыв внутри рабочего дня. End == nil, пока перерыв идет.
type BreakInterval struct {
	Start string  `json:"start"`
	End   *string `json:"end"`
}

// AttendanceRecord - запись истории за один календарный день.
// После получения с сервера не изменяется.
type AttendanceRecord struct {
	Date      string          `json:"date"`
	CheckIn   *string         `json:"check_in"`
	CheckOut  *string         `json:"check_out"`
	TimeSpent json.Number     `json:"time_spent"`
	Breaks    []BreakInterval `json:"breaks"`
	Status    string          `json:"status"`
}

// TimeSpentHours возвращает отработанные часы записи как число.
func (r *AttendanceRecord) TimeSpentHours() float64 {
	v, err := r.TimeSpent.Float64()
	if err != nil {
		return 0
	}
	return v
}

// Pagination - серверные метаданные страницы истории.
// HasMore может отсутствовать, тогда клиент выводит его сам.
type Pagination struct {
	TotalRecords int   `json:"totalRecords"`
	HasMore      *bool `json:"hasMore"`
}

// Analytics - агрегаты, которые сервер присылает вместе с историей.
type Analytics struct {
	TotalWorkingHours float64 `json:"totalWorkingHours"`
	TotalOvertime     float64 `json:"totalOvertime"`
	TotalLeaves       int     `json:"totalLeaves"`
}

// HistoryResponse - ответ GET /api/attendance/history/:userId.
type HistoryResponse struct {
	History    []AttendanceRecord `json:"history"`
	Pagination *Pagination        `json:"pagination"`
	Analytics  *Analytics         `json:"analytics"`
}

// HistoryFilters - фильтры истории. Пустые значения не попадают в запрос.
type HistoryFilters struct {
	FilterType string // all | week | month | date | range
	Month      string // YYYY-MM, только для filterType=month
	Date       string // YYYY-MM-DD, только для filterType=date
	StartDate  string // только для filterType=range
	EndDate    string
	Status     string // all | present | leave
	Search     string
}

// MessageResponse - типовой ответ мутирующих эндпоинтов.
type MessageResponse struct {
	Message string `json:"message"`
}

// BreakStatusResponse - ответ GET /api/breaks/status.
type BreakStatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
