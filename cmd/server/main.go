package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/St1cky1/task-management/internal/api"
	"github.com/St1cky1/task-management/internal/config"
	"github.com/St1cky1/task-management/internal/infrastructure/client"
	"github.com/St1cky1/task-management/internal/repository"
	"github.com/St1cky1/task-management/internal/usecase"
	"github.com/St1cky1/task-management/internal/worker"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
)

func main() {
	var wg sync.WaitGroup

	cfg := config.Load()

	// Запускаем миграции
	if err := runMigrations(cfg.MigrationsPath, cfg.Database.URL()); err != nil {
		logrus.WithError(err).Fatal("❌ Ошибка миграций")
	}

	// Подключаемся к БД
	db, err := client.NewPostgresClient(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("❌ Ошибка подключения к БД")
	}
	defer db.Close()
	logrus.Info("✅ Подключение к БД установлено")

	// Подключаемся к RabbitMQ
	rabbitMQ, err := client.NewRabbitMQClient(cfg.RabbitMQURL)
	if err != nil {
		logrus.WithError(err).Fatal("❌ Ошибка подключения к RabbitMQ")
	}
	defer rabbitMQ.Close()
	logrus.Info("✅ Подключение к RabbitMQ установлено")

	// Инициализируем репозитории и сервис
	taskRepo := repository.NewTaskRepository(db.GetPool())
	auditRepo := repository.NewTaskAuditRepository(db.GetPool())
	taskService := usecase.NewTaskService(taskRepo, auditRepo, rabbitMQ)

	// Запускаем воркер для обработки событий задач
	auditWorker := worker.NewAuditWorker(rabbitMQ, auditRepo)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		auditWorker.Start(workerCtx)
	}()

	// HTTP сервер
	router := api.NewRouter(taskService, db, cfg.CORSOrigin)
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Infof("Запуск HTTP сервера на порту %s...", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("❌ HTTP server error")
		}
	}()

	logrus.Infof("✅ Сервис готов: http://localhost:%s/api/tasks", cfg.HTTPPort)
	logrus.Info("Для остановки нажмите Ctrl+C")

	// Ждем сигнал завершения
	waitForShutdown(server, workerCancel)
	wg.Wait()
	logrus.Info("✅ Приложение завершено корректно")
}

func waitForShutdown(server *http.Server, workerCancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	logrus.Info("Завершение работы...")

	// Останавливаем воркер
	workerCancel()

	// Даем время на graceful shutdown HTTP сервера
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("❌ Ошибка остановки HTTP сервера")
	}
}

func runMigrations(migrationsPath, dbURL string) error {
	m, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return fmt.Errorf("ошибка создания мигратора: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("ошибка выполнения миграций: %w", err)
	}

	logrus.Info("✅ Миграции выполнены успешно")
	return nil
}
