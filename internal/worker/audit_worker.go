package worker

import (
	"context"
	"encoding/json"

	"github.com/St1cky1/task-management/internal/entity"
	"github.com/St1cky1/task-management/internal/infrastructure/client"
	"github.com/St1cky1/task-management/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// AuditWorker читает события задач из очереди и пишет их в task_audit
type AuditWorker struct {
	rabbitMQ  *client.RabbitMQClient
	auditRepo repository.ITaskAuditRepository
}

func NewAuditWorker(rabbitMQ *client.RabbitMQClient, auditRepo repository.ITaskAuditRepository) *AuditWorker {
	return &AuditWorker{
		rabbitMQ:  rabbitMQ,
		auditRepo: auditRepo,
	}
}

func (w *AuditWorker) Start(ctx context.Context) {
	msgs, err := w.rabbitMQ.Consume("audit_worker")
	if err != nil {
		logrus.WithError(err).Error("audit worker: failed to start consumer")
		return
	}

	logrus.Info("audit worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("audit worker stopped")
			return
		case msg, ok := <-msgs:
			if !ok {
				logrus.Warn("audit worker: delivery channel closed")
				return
			}
			w.processMessage(ctx, msg)
		}
	}
}

func (w *AuditWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	// 1. Парсим событие
	var event entity.TaskEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		logrus.WithError(err).Error("audit worker: bad message")
		msg.Nack(false, false) // Не возвращаем в очередь
		return
	}

	// 2. Конвертируем в запись аудита
	audit, err := auditFromEvent(&event)
	if err != nil {
		logrus.WithError(err).Error("audit worker: failed to convert event")
		msg.Nack(false, false)
		return
	}

	// 3. Сохраняем в БД
	if err := w.auditRepo.Create(ctx, audit); err != nil {
		logrus.WithError(err).Error("audit worker: failed to store audit record")
		msg.Nack(false, true) // Возвращаем в очередь для повторной обработки
		return
	}

	// 4. Подтверждаем обработку
	msg.Ack(false)
	logrus.WithFields(logrus.Fields{
		"action":  audit.Action,
		"task_id": audit.TaskID,
	}).Info("audit record stored")
}

func auditFromEvent(event *entity.TaskEvent) (*entity.TaskAudit, error) {
	marshal := func(values map[string]any) (*string, error) {
		if values == nil {
			return nil, nil
		}
		b, err := json.Marshal(values)
		if err != nil {
			return nil, err
		}
		s := string(b)
		return &s, nil
	}

	oldValues, err := marshal(event.OldValues)
	if err != nil {
		return nil, err
	}
	newValues, err := marshal(event.NewValues)
	if err != nil {
		return nil, err
	}
	changes, err := marshal(event.Changes)
	if err != nil {
		return nil, err
	}

	return &entity.TaskAudit{
		TaskID:    event.TaskID,
		Action:    event.Action,
		OldValues: oldValues,
		NewValues: newValues,
		Changes:   changes,
		ChangedAt: event.Timestamp,
	}, nil
}
