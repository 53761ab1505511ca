package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// SessionRecord - строка таблицы сессий: токен и JSON профиля одного чата.
// Токен и пользователь живут в одной строке, поэтому пишутся и
// удаляются только вместе.
type SessionRecord struct {
	ID        uint      `gorm:"primarykey"`
	ChatID    int64     `gorm:"uniqueIndex;not null"`
	Token     string    `gorm:"not null"`
	UserJSON  string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName задает имя таблицы в БД
func (SessionRecord) TableName() string {
	return "sessions"
}

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) (SessionRepository, error) {
	// Автомиграция - создает таблицу если ее нет
	err := db.AutoMigrate(&SessionRecord{})
	if err != nil {
		return SessionRepository{}, err
	}

	return SessionRepository{db: db}, nil
}

// Save создает или перезаписывает сессию чата.
func (r *SessionRepository) Save(chatID int64, token, userJSON string) error {
	var existing SessionRecord
	result := r.db.Where("chat_id = ?", chatID).First(&existing)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		record := SessionRecord{ChatID: chatID, Token: token, UserJSON: userJSON}
		return r.db.Create(&record).Error
	}

	if result.Error != nil {
		return result.Error
	}

	existing.Token = token
	existing.UserJSON = userJSON
	return r.db.Save(&existing).Error
}

// GetByChatID возвращает nil, nil если сессии нет.
func (r *SessionRepository) GetByChatID(chatID int64) (*SessionRecord, error) {
	var record SessionRecord
	result := r.db.Where("chat_id = ?", chatID).First(&record)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if result.Error != nil {
		return nil, result.Error
	}

	return &record, nil
}

// Delete идемпотентно удаляет сессию чата.
func (r *SessionRepository) Delete(chatID int64) error {
	result := r.db.Where("chat_id = ?", chatID).Delete(&SessionRecord{})
	return result.Error
}

func (r *SessionRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
