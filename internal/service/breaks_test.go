package service

import (
	"errors"
	"testing"

	"attendance-bot/internal/models"
)

type fakeBreaksAPI struct {
	status    string
	statusErr error
	startErr  error
	endErr    error

	statusCalls int
	startCalls  int
	endCalls    int
}

func (f *fakeBreaksAPI) Status(token string) (*models.BreakStatusResponse, error) {
	f.statusCalls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &models.BreakStatusResponse{Status: f.status}, nil
}

func (f *fakeBreaksAPI) Start(token string) (*models.MessageResponse, error) {
	f.startCalls++
	if f.startErr != nil {
		return nil, f.startErr
	}
	f.status = models.StatusOnBreak
	return &models.MessageResponse{Message: "Break started!"}, nil
}

func (f *fakeBreaksAPI) End(token string) (*models.MessageResponse, error) {
	f.endCalls++
	if f.endErr != nil {
		return nil, f.endErr
	}
	f.status = models.StatusNotOnBreak
	return &models.MessageResponse{Message: "Break ended!"}, nil
}

func TestBreakToggleCycle(t *testing.T) {
	breaksAPI := &fakeBreaksAPI{status: models.StatusNotOnBreak}
	ctrl := NewBreakController(breaksAPI)

	message, err := ctrl.Toggle("T")
	if err != nil {
		t.Fatalf("Toggle start: %v", err)
	}
	if message != "Break started!" {
		t.Errorf("message = %q", message)
	}
	if !ctrl.OnBreak() {
		t.Error("status must be on_break after start")
	}
	if breaksAPI.statusCalls != 1 {
		t.Errorf("status calls = %d, want re-confirmation fetch", breaksAPI.statusCalls)
	}

	message, err = ctrl.Toggle("T")
	if err != nil {
		t.Fatalf("Toggle end: %v", err)
	}
	if message != "Break ended!" {
		t.Errorf("message = %q", message)
	}
	if ctrl.OnBreak() {
		t.Error("status must be not_on_break after end")
	}
}

func TestBreakRefreshFailureIsQuiet(t *testing.T) {
	breaksAPI := &fakeBreaksAPI{status: models.StatusOnBreak}
	ctrl := NewBreakController(breaksAPI)

	ctrl.Refresh("T")
	if !ctrl.OnBreak() {
		t.Fatal("precondition: on_break")
	}

	breaksAPI.statusErr = errors.New("network down")
	ctrl.Refresh("T")

	if ctrl.OnBreak() {
		t.Error("failed status fetch must default to not_on_break")
	}
}

func TestBreakToggleStartFailureKeepsState(t *testing.T) {
	breaksAPI := &fakeBreaksAPI{status: models.StatusNotOnBreak, startErr: errors.New("boom")}
	ctrl := NewBreakController(breaksAPI)

	if _, err := ctrl.Toggle("T"); err == nil {
		t.Fatal("expected error")
	}
	if ctrl.OnBreak() {
		t.Error("failed start must leave not_on_break")
	}
	if breaksAPI.statusCalls != 0 {
		t.Error("no re-confirmation fetch after a failed start")
	}
}
