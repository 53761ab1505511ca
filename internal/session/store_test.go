package session

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"attendance-bot/internal/models"
	"attendance-bot/internal/repository"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	repo, err := repository.NewSessionRepository(db)
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}

	return NewStore(&repo)
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)

	user := models.User{ID: "u1", Name: "ann", Role: "EMPLOYEE"}
	if err := store.Set(42, "T", user); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := store.Get(42)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for existing session")
	}
	if got.Token != "T" || got.User.ID != "u1" || got.User.Name != "ann" {
		t.Errorf("session = %+v", got)
	}

	// перезапись той же сессии
	if err := store.Set(42, "T2", user); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, _ = store.Get(42)
	if got.Token != "T2" {
		t.Errorf("token after overwrite = %q", got.Token)
	}
}

func TestStoreGetMissing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get(99)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("Get = %+v, want nil for missing session", got)
	}
}

func TestStoreClearNotifiesSubscribers(t *testing.T) {
	store := newTestStore(t)

	var gotChat int64
	var gotReason string
	store.Subscribe(func(chatID int64, reason string) {
		gotChat = chatID
		gotReason = reason
	})

	user := models.User{ID: "u1", Name: "ann", Role: "EMPLOYEE"}
	if err := store.Set(42, "T", user); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Clear(42, ReasonAccountDeleted); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if gotChat != 42 || gotReason != ReasonAccountDeleted {
		t.Errorf("subscriber got (%d, %q)", gotChat, gotReason)
	}

	got, _ := store.Get(42)
	if got != nil {
		t.Error("session still present after Clear")
	}

	// повторная очистка не должна падать
	if err := store.Clear(42, ReasonLogout); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}
