package jobs

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TaskClient is the part of *asynq.Client the enqueuer uses
type TaskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer schedules e-mail tasks
type Enqueuer struct {
	client TaskClient
	logger *zap.Logger
}

// NewEnqueuer creates an enqueuer on top of an asynq client
func NewEnqueuer(client TaskClient, logger *zap.Logger) *Enqueuer {
	return &Enqueuer{client: client, logger: logger}
}

// EnqueueEnrollmentWelcome schedules the welcome mail of a new enrollment
func (e *Enqueuer) EnqueueEnrollmentWelcome(ctx context.Context, userID, courseID int) error {
	task, err := NewEnrollmentWelcomeTask(userID, courseID)
	if err != nil {
		return err
	}
	return e.enqueue(ctx, task)
}

// EnqueueCertificateIssued schedules the certificate mail
func (e *Enqueuer) EnqueueCertificateIssued(ctx context.Context, userID, courseID int) error {
	task, err := NewCertificateIssuedTask(userID, courseID)
	if err != nil {
		return err
	}
	return e.enqueue(ctx, task)
}

// EnqueueLicenseActivated schedules the license activation mail
func (e *Enqueuer) EnqueueLicenseActivated(ctx context.Context, userID, licenseID int) error {
	task, err := NewLicenseActivatedTask(userID, licenseID)
	if err != nil {
		return err
	}
	return e.enqueue(ctx, task)
}

func (e *Enqueuer) enqueue(ctx context.Context, task *asynq.Task) error {
	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s task: %w", task.Type(), err)
	}
	e.logger.Debug("task enqueued", zap.String("type", task.Type()), zap.String("taskId", info.ID), zap.String("queue", info.Queue))
	return nil
}
