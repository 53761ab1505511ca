package service

import (
	"testing"

	"attendance-bot/internal/models"
)

func TestFilterLeavesByStatus(t *testing.T) {
	leaves := []models.Leave{
		{ID: 1, Status: models.LeaveStatusPending},
		{ID: 2, Status: models.LeaveStatusApproved},
		{ID: 3, Status: models.LeaveStatusPending},
	}

	pending := FilterLeavesByStatus(leaves, models.LeaveStatusPending)
	if len(pending) != 2 || pending[0].ID != 1 || pending[1].ID != 3 {
		t.Errorf("pending = %+v", pending)
	}

	rejected := FilterLeavesByStatus(leaves, models.LeaveStatusRejected)
	if len(rejected) != 0 {
		t.Errorf("rejected = %+v", rejected)
	}
}

func TestLeavesToNotifications(t *testing.T) {
	leaves := []models.Leave{
		{ID: 5, UserID: "u1", StartDate: "2026-02-01", EndDate: "2026-02-03", Reason: "trip", Status: "APPROVED"},
		{ID: 6, UserID: "u1", StartDate: "2026-03-01", EndDate: "2026-03-02", Reason: "sick", Status: "PENDING"},
	}

	notifications := LeavesToNotifications(leaves)
	if len(notifications) != 2 {
		t.Fatalf("len = %d", len(notifications))
	}

	want := "Your leave request (trip) from 2026-02-01 to 2026-02-03 is approved"
	if notifications[0].Message != want {
		t.Errorf("message = %q, want %q", notifications[0].Message, want)
	}
	if notifications[0].ID != "5" || notifications[1].ID != "6" {
		t.Errorf("ids = %q, %q", notifications[0].ID, notifications[1].ID)
	}
}
