package models

import (
	"fmt"
	"strings"
	"time"
)

// Статусы заявок на отпуск
const (
	LeaveStatusPending  = "PENDING"
	LeaveStatusApproved = "APPROVED"
	LeaveStatusRejected = "REJECTED"
)

// Leave - заявка на отпуск, как ее отдает GET /api/leaves/getleaves.
type Leave struct {
	ID        int64  `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`
}

// LeavesResponse - ответ GET /api/leaves/getleaves.
type LeavesResponse struct {
	Leaves  []Leave `json:"leaves"`
	Message string  `json:"message"`
}

// Notification - уведомление сотрудника, производное от его заявки.
type Notification struct {
	ID        string
	Message   string
	Timestamp time.Time
}

// ToNotification строит уведомление из заявки. Ключом служит id самой заявки:
// связка user_id+index из старой версии не переживала перезагрузку списка.
func (l *Leave) ToNotification(index int) Notification {
	id := fmt.Sprintf("%d", l.ID)
	if l.ID == 0 {
		id = fmt.Sprintf("%s%d", l.UserID, index)
	}

	ts, err := time.Parse("2006-01-02", l.StartDate)
	if err != nil {
		ts = time.Time{}
	}

	return Notification{
		ID: id,
		Message: fmt.Sprintf("Your leave request (%s) from %s to %s is %s",
			l.Reason, l.StartDate, l.EndDate, strings.ToLower(l.Status)),
		Timestamp: ts,
	}
}
