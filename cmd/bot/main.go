package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"attendance-bot/internal/api"
	"attendance-bot/internal/config"
	"attendance-bot/internal/handler"
	"attendance-bot/internal/repository"
	"attendance-bot/internal/session"
	"attendance-bot/pkg/telegram"
)

func main() {
	logrus.Info("Initializing config...")
	cfg := config.GetBotConfig()
	logrus.Info("Config initialized...")

	// Инициализируем SQLite базу данных
	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true, // SQLite ограничения
	})
	if err != nil {
		logrus.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatal("Failed to get database instance:", err)
	}

	// Включаем поддержку внешних ключей (требуется для SQLite)
	_, err = sqlDB.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		logrus.Infof("Warning: Failed to enable foreign keys: %v", err)
	}

	sessionRepo, err := repository.NewSessionRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create session repository")
	}

	sessions := session.NewStore(&sessionRepo)

	// Один HTTP-клиент на все ресурсы бекенда
	apiClient := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)
	authAPI := api.NewAuthClient(apiClient)
	attendanceAPI := api.NewAttendanceClient(apiClient)
	breaksAPI := api.NewBreaksClient(apiClient)
	leavesAPI := api.NewLeavesClient(apiClient)
	employeesAPI := api.NewEmployeesClient(apiClient)

	// Создаем клиент Telegram
	client, err := telegram.NewClient(cfg.TelegramToken)
	if err != nil {
		logrus.Fatal("Failed to create Telegram client:", err)
	}

	logrus.Infof("Authorized on account %s", client.Bot.Self.UserName)

	botHandler := handler.NewHandler(
		client,
		sessions,
		authAPI,
		attendanceAPI,
		breaksAPI,
		leavesAPI,
		employeesAPI,
		cfg,
	)

	// Настраиваем канал обновлений
	updates := client.Bot.GetUpdatesChan(client.UpdateConfig)

	// Обработка сигналов для graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Запускаем обработку сообщений
	go botHandler.HandleUpdates(updates)

	logrus.Info("Bot started. Press Ctrl+C to stop.")
	<-stop

	// Закрываем соединение с БД
	if err := sqlDB.Close(); err != nil {
		logrus.Infof("Error closing database: %v", err)
	}

	logrus.Info("Bot stopped gracefully")
}
