package models

import "testing"

func TestStatusTag(t *testing.T) {
	cases := []struct {
		status string
		want   string
	}{
		{"Checked In", "checked-in"},
		{"Checked Out", "checked-out"},
		{"Not Checked In", "checked-out"},
		{"On Leave", "leave"},
		{"On Break", "break"},
		{"Something New From Backend", "default"},
		{"", "default"},
	}

	for _, c := range cases {
		if got := StatusTag(c.status); got != c.want {
			t.Errorf("StatusTag(%q) = %q, want %q", c.status, got, c.want)
		}
	}
}

func TestLeaveToNotification(t *testing.T) {
	leave := Leave{
		ID:        7,
		UserID:    "u1",
		StartDate: "2026-01-10",
		EndDate:   "2026-01-12",
		Reason:    "vacation",
		Status:    "PENDING",
	}

	n := leave.ToNotification(0)

	want := "Your leave request (vacation) from 2026-01-10 to 2026-01-12 is pending"
	if n.Message != want {
		t.Errorf("message = %q, want %q", n.Message, want)
	}
	if n.ID != "7" {
		t.Errorf("id = %q, want leave id", n.ID)
	}

	// без id заявки остается старый запасной ключ user_id+index
	leave.ID = 0
	if got := leave.ToNotification(3).ID; got != "u13" {
		t.Errorf("fallback id = %q, want %q", got, "u13")
	}
}
