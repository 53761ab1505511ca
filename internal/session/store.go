package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"attendance-bot/internal/models"
	"attendance-bot/internal/repository"
)

// Причины инвалидации сессии, передаются подписчикам.
const (
	ReasonLogout         = "logout"
	ReasonExpired        = "expired"
	ReasonAccountDeleted = "account_deleted"
)

// Subscriber получает уведомление о каждой инвалидации сессии.
type Subscriber func(chatID int64, reason string)

// Store - явное хранилище сессий вместо разбросанных обращений к
// ключам напрямую. Все потребители проходят через него и одинаково
// узнают об инвалидации.
type Store struct {
	repo *repository.SessionRepository

	mu          sync.Mutex
	subscribers []Subscriber
}

func NewStore(repo *repository.SessionRepository) *Store {
	return &Store{repo: repo}
}

// Get возвращает nil, nil если чат не авторизован.
func (s *Store) Get(chatID int64) (*models.Session, error) {
	record, err := s.repo.GetByChatID(chatID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if record == nil {
		return nil, nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(record.UserJSON), &user); err != nil {
		// Битую сессию лечим как отсутствующую
		logrus.WithError(err).WithField("chat_id", chatID).Warn("Stored session is corrupted, clearing")
		_ = s.repo.Delete(chatID)
		return nil, nil
	}

	return &models.Session{ChatID: chatID, Token: record.Token, User: user}, nil
}

// Set сохраняет токен и профиль одной записью.
func (s *Store) Set(chatID int64, token string, user models.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	if err := s.repo.Save(chatID, token, string(userJSON)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear удаляет сессию и извещает подписчиков о причине.
func (s *Store) Clear(chatID int64, reason string) error {
	if err := s.repo.Delete(chatID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.mu.Lock()
	subscribers := make([]Subscriber, len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	for _, notify := range subscribers {
		notify(chatID, reason)
	}

	logrus.WithFields(logrus.Fields{
		"chat_id": chatID,
		"reason":  reason,
	}).Info("Session invalidated")

	return nil
}

// Subscribe регистрирует наблюдателя инвалидации.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}
