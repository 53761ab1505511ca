package service

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"attendance-bot/internal/api"
	"attendance-bot/internal/models"
)

type fakeAttendanceAPI struct {
	snapshot    *models.StatusSnapshot
	statusErr   error
	checkInErr  error
	checkOutErr error

	statusCalls   int
	checkInCalls  int
	checkOutCalls int
}

func (f *fakeAttendanceAPI) Status(token, userID string) (*models.StatusSnapshot, error) {
	f.statusCalls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.snapshot, nil
}

func (f *fakeAttendanceAPI) CheckIn(token, userID string) (*models.MessageResponse, error) {
	f.checkInCalls++
	if f.checkInErr != nil {
		return nil, f.checkInErr
	}
	return &models.MessageResponse{Message: "Check-in successful!"}, nil
}

func (f *fakeAttendanceAPI) CheckOut(token, userID string) (*models.MessageResponse, error) {
	f.checkOutCalls++
	if f.checkOutErr != nil {
		return nil, f.checkOutErr
	}
	return &models.MessageResponse{Message: "Check-out successful!"}, nil
}

type fakeInvalidator struct {
	calls   int
	chatID  int64
	reasons []string
}

func (f *fakeInvalidator) Clear(chatID int64, reason string) error {
	f.calls++
	f.chatID = chatID
	f.reasons = append(f.reasons, reason)
	return nil
}

func deletedAccountErr() error {
	return &api.Error{
		StatusCode: http.StatusNotFound,
		Message:    "Your account has been deleted by the administrator",
	}
}

func TestRefreshFinishedDayStaticDisplay(t *testing.T) {
	attendanceAPI := &fakeAttendanceAPI{snapshot: &models.StatusSnapshot{
		Status:     models.StatusCheckedOut,
		TotalHours: "1.5",
	}}
	ctrl := NewAttendanceController(attendanceAPI, &fakeInvalidator{}, nil, 1)
	defer ctrl.Close()

	if err := ctrl.Refresh("T", "u1"); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if got := ctrl.Display(); got != "01:30:00" {
		t.Errorf("display = %q, want 01:30:00", got)
	}
	if ctrl.TimerRunning() {
		t.Error("timer must not run for a finished total")
	}
	if got := ctrl.Status(); got != models.StatusCheckedOut {
		t.Errorf("status = %q", got)
	}
}

func TestRefreshRunningDayStartsTimer(t *testing.T) {
	now := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)
	checkIn := now.Add(-time.Hour)

	attendanceAPI := &fakeAttendanceAPI{snapshot: &models.StatusSnapshot{
		Status:              models.StatusCheckedIn,
		CurrentWorkingHours: "1.5",
		Attendance:          &models.AttendanceMeta{CheckIn: checkIn.Format(time.RFC3339)},
	}}
	ctrl := NewAttendanceController(attendanceAPI, &fakeInvalidator{}, nil, 1)
	defer ctrl.Close()
	ctrl.now = func() time.Time { return now }

	if err := ctrl.Refresh("T", "u1"); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if got := ctrl.Display(); got != "01:00:00" {
		t.Errorf("display = %q, want 01:00:00", got)
	}
	if !ctrl.TimerRunning() {
		t.Error("timer must run for a day in progress")
	}

	// Счетчик монотонно растет вместе с настенными часами
	ctrl.now = func() time.Time { return now.Add(5 * time.Second) }
	ctrl.tick()
	if got := ctrl.Display(); got != "01:00:05" {
		t.Errorf("display after tick = %q, want 01:00:05", got)
	}
}

func TestRefreshRestartReplacesTimer(t *testing.T) {
	now := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)
	attendanceAPI := &fakeAttendanceAPI{snapshot: &models.StatusSnapshot{
		Status:              models.StatusCheckedIn,
		CurrentWorkingHours: "0.5",
		Attendance:          &models.AttendanceMeta{CheckIn: now.Add(-30 * time.Minute).Format(time.RFC3339)},
	}}
	ctrl := NewAttendanceController(attendanceAPI, &fakeInvalidator{}, nil, 1)
	defer ctrl.Close()
	ctrl.now = func() time.Time { return now }

	if err := ctrl.Refresh("T", "u1"); err != nil {
		t.Fatalf("first Refresh: %v", err)
	}
	firstStop := func() chan struct{} {
		ctrl.mu.Lock()
		defer ctrl.mu.Unlock()
		return ctrl.stop
	}()

	if err := ctrl.Refresh("T", "u1"); err != nil {
		t.Fatalf("second Refresh: %v", err)
	}

	select {
	case <-firstStop:
		// старый таймер остановлен
	default:
		t.Error("previous timer channel still open after restart")
	}
	if !ctrl.TimerRunning() {
		t.Error("timer must keep running after restart")
	}
}

func TestRefreshTransientErrorZeroesState(t *testing.T) {
	attendanceAPI := &fakeAttendanceAPI{statusErr: &api.Error{StatusCode: 500, Message: "boom"}}
	ctrl := NewAttendanceController(attendanceAPI, &fakeInvalidator{}, nil, 1)

	err := ctrl.Refresh("T", "u1")
	if err == nil {
		t.Fatal("expected error")
	}

	if got := ctrl.Status(); got != models.StatusNotCheckedIn {
		t.Errorf("status = %q, want not_checked_in", got)
	}
	if got := ctrl.Display(); got != "00:00:00" {
		t.Errorf("display = %q, want zeroes", got)
	}
	if ctrl.TimerRunning() {
		t.Error("timer must not run after a failed refresh")
	}
}

func TestCheckOutInvalidFromNotCheckedIn(t *testing.T) {
	attendanceAPI := &fakeAttendanceAPI{}
	ctrl := NewAttendanceController(attendanceAPI, &fakeInvalidator{}, nil, 1)

	_, err := ctrl.CheckOut("T", "u1")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if attendanceAPI.checkOutCalls != 0 {
		t.Error("invalid transition must not reach the network")
	}
}

func TestCheckOutForcesBreakOff(t *testing.T) {
	breaksAPI := &fakeBreaksAPI{status: models.StatusOnBreak}
	breakCtrl := NewBreakController(breaksAPI)
	breakCtrl.Refresh("T")
	if !breakCtrl.OnBreak() {
		t.Fatal("precondition: break must be active")
	}

	attendanceAPI := &fakeAttendanceAPI{snapshot: &models.StatusSnapshot{
		Status:     models.StatusCheckedIn,
		TotalHours: "",
	}}
	ctrl := NewAttendanceController(attendanceAPI, &fakeInvalidator{}, breakCtrl, 1)
	defer ctrl.Close()

	if err := ctrl.Refresh("T", "u1"); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	statusCallsBefore := breaksAPI.statusCalls
	attendanceAPI.snapshot = &models.StatusSnapshot{Status: models.StatusCheckedOut, TotalHours: "8"}

	if _, err := ctrl.CheckOut("T", "u1"); err != nil {
		t.Fatalf("CheckOut: %v", err)
	}

	if breakCtrl.OnBreak() {
		t.Error("check-out must force break off")
	}
	if breaksAPI.statusCalls != statusCallsBefore {
		t.Error("forcing break off must not require a break-status fetch")
	}
	if ctrl.TimerRunning() {
		t.Error("timer must stop on check-out")
	}
}

func TestAccountDeletedTerminalFlow(t *testing.T) {
	now := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)
	attendanceAPI := &fakeAttendanceAPI{snapshot: &models.StatusSnapshot{
		Status:              models.StatusCheckedIn,
		CurrentWorkingHours: "1.0",
		Attendance:          &models.AttendanceMeta{CheckIn: now.Add(-time.Hour).Format(time.RFC3339)},
	}}
	invalidator := &fakeInvalidator{}
	ctrl := NewAttendanceController(attendanceAPI, invalidator, nil, 42)
	ctrl.now = func() time.Time { return now }

	if err := ctrl.Refresh("T", "u1"); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !ctrl.TimerRunning() {
		t.Fatal("precondition: timer must run")
	}

	attendanceAPI.statusErr = deletedAccountErr()
	err := ctrl.Refresh("T", "u1")
	if err == nil || !api.IsAccountDeleted(err) {
		t.Fatalf("err = %v, want account-deleted", err)
	}

	if ctrl.TimerRunning() {
		t.Error("timer must stop on account deletion")
	}
	if got := ctrl.Status(); got != models.StatusCheckedOut {
		t.Errorf("status = %q, want checked_out", got)
	}
	if invalidator.calls != 1 || invalidator.chatID != 42 {
		t.Errorf("session clear calls = %d (chat %d), want exactly one for chat 42",
			invalidator.calls, invalidator.chatID)
	}
	if invalidator.reasons[0] != "account_deleted" {
		t.Errorf("reason = %q", invalidator.reasons[0])
	}
}

func TestCheckInConfirmsViaRefresh(t *testing.T) {
	attendanceAPI := &fakeAttendanceAPI{snapshot: &models.StatusSnapshot{Status: models.StatusNotCheckedIn}}
	ctrl := NewAttendanceController(attendanceAPI, &fakeInvalidator{}, nil, 1)
	defer ctrl.Close()

	attendanceAPI.snapshot = &models.StatusSnapshot{Status: models.StatusCheckedIn}
	message, err := ctrl.CheckIn("T", "u1")
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	if message != "Check-in successful!" {
		t.Errorf("message = %q", message)
	}
	if attendanceAPI.statusCalls != 1 {
		t.Errorf("status calls = %d, want confirmation fetch", attendanceAPI.statusCalls)
	}
	if got := ctrl.Status(); got != models.StatusCheckedIn {
		t.Errorf("status = %q, want checked_in", got)
	}
}
