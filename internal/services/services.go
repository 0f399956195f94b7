// Package services contains the business logic layer. Each service wraps a
// Mongo collection (or several) behind an interface so handlers can be
// tested against mocks.
package services

import (
	"context"
	"time"
)

// ImageEnqueuer schedules background processing of an uploaded property
// image. Implemented by the asynq task client.
type ImageEnqueuer interface {
	EnqueueImageProcess(ctx context.Context, propertyID, key string) error
}

// TaskQueue is the full background-queue surface the API wires in.
type TaskQueue interface {
	Enqueuer
	ImageEnqueuer
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
