// Package tasks wires the asynq queue: the client side enqueues email and
// image jobs from request handlers, the server side processes them in the
// background worker.
package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/nfnt/resize"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/NarakCODE/real-estate-management/internal/config"
	"github.com/NarakCODE/real-estate-management/internal/email"
	"github.com/NarakCODE/real-estate-management/internal/services"
	"github.com/NarakCODE/real-estate-management/internal/storage"
)

// Task type names.
const (
	TypeEmailDelivery = "email:deliver"
	TypeImageProcess  = "image:process"
)

const (
	queueDefault = "default"
	queueImages  = "images"
)

// EmailPayload is the body of an email:deliver task.
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ImagePayload is the body of an image:process task. Key is the raw upload's
// object key; the processed rendition is written next to it and its URL
// appended to the property.
type ImagePayload struct {
	PropertyID string `json:"property_id"`
	Key        string `json:"key"`
}

// Client enqueues background tasks. Implements services.Enqueuer.
type Client struct {
	inner *asynq.Client
}

// NewClient creates a task client on the given Redis connection.
func NewClient(rdb *redis.Client) *Client {
	opts := rdb.Options()
	return &Client{inner: asynq.NewClient(asynq.RedisClientOpt{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})}
}

// Close releases the underlying queue connection.
func (c *Client) Close() error { return c.inner.Close() }

// EnqueueEmail schedules an email for background delivery.
func (c *Client) EnqueueEmail(ctx context.Context, to, subject, body string) error {
	payload, err := json.Marshal(EmailPayload{To: to, Subject: subject, Body: body})
	if err != nil {
		return fmt.Errorf("marshaling email payload: %w", err)
	}
	task := asynq.NewTask(TypeEmailDelivery, payload)
	if _, err := c.inner.EnqueueContext(ctx, task, asynq.Queue(queueDefault), asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueuing email task: %w", err)
	}
	return nil
}

// EnqueueImageProcess schedules resize-and-publish of an uploaded property
// image.
func (c *Client) EnqueueImageProcess(ctx context.Context, propertyID, key string) error {
	payload, err := json.Marshal(ImagePayload{PropertyID: propertyID, Key: key})
	if err != nil {
		return fmt.Errorf("marshaling image payload: %w", err)
	}
	task := asynq.NewTask(TypeImageProcess, payload)
	if _, err := c.inner.EnqueueContext(ctx, task, asynq.Queue(queueImages), asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("enqueuing image task: %w", err)
	}
	return nil
}

var _ services.Enqueuer = (*Client)(nil)

// Processor holds the dependencies task handlers need.
type Processor struct {
	cfg             *config.Config
	sender          email.Sender
	store           storage.ObjectStore
	propertyService services.IPropertyService
	logger          *zap.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(cfg *config.Config, sender email.Sender, store storage.ObjectStore, propertyService services.IPropertyService, logger *zap.Logger) *Processor {
	return &Processor{
		cfg:             cfg,
		sender:          sender,
		store:           store,
		propertyService: propertyService,
		logger:          logger,
	}
}

// HandleEmailDelivery processes email:deliver tasks.
func (p *Processor) HandleEmailDelivery(ctx context.Context, t *asynq.Task) error {
	var payload EmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshaling email payload: %v: %w", err, asynq.SkipRetry)
	}
	if err := p.sender.Send(ctx, payload.To, payload.Subject, payload.Body); err != nil {
		return fmt.Errorf("sending email to %s: %w", payload.To, err)
	}
	p.logger.Info("email delivered", zap.String("to", payload.To), zap.String("subject", payload.Subject))
	return nil
}

// HandleImageProcess processes image:process tasks: fetch the raw upload,
// cap its dimensions, re-encode as JPEG and attach the public URL to the
// property.
func (p *Processor) HandleImageProcess(ctx context.Context, t *asynq.Task) error {
	var payload ImagePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshaling image payload: %v: %w", err, asynq.SkipRetry)
	}
	propertyID, err := primitive.ObjectIDFromHex(payload.PropertyID)
	if err != nil {
		return fmt.Errorf("invalid property id %q: %w", payload.PropertyID, asynq.SkipRetry)
	}

	raw, err := p.store.Get(ctx, payload.Key)
	if err != nil {
		return fmt.Errorf("fetching raw image %s: %w", payload.Key, err)
	}
	defer raw.Close()

	// A non-positive ImageMaxSizeMB disables the cap.
	maxBytes := int64(p.cfg.ImageMaxSizeMB) << 20
	body := io.Reader(raw)
	if maxBytes > 0 {
		body = io.LimitReader(raw, maxBytes+1)
	}
	var rawBuf bytes.Buffer
	n, err := rawBuf.ReadFrom(body)
	if err != nil {
		return fmt.Errorf("reading raw image %s: %w", payload.Key, err)
	}
	if maxBytes > 0 && n > maxBytes {
		// Oversized uploads stay oversized; retrying will not help.
		return fmt.Errorf("image %s exceeds the %dMB limit: %w", payload.Key, p.cfg.ImageMaxSizeMB, asynq.SkipRetry)
	}

	img, _, err := image.Decode(&rawBuf)
	if err != nil {
		// Not an image we can process; retrying will not help.
		return fmt.Errorf("decoding image %s: %v: %w", payload.Key, err, asynq.SkipRetry)
	}

	maxDim := uint(p.cfg.ImageMaxDimension)
	resized := resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("encoding image %s: %w", payload.Key, err)
	}

	processedKey := processedKeyFor(payload.Key)
	url, err := p.store.Put(ctx, processedKey, "image/jpeg", &buf)
	if err != nil {
		return fmt.Errorf("storing processed image %s: %w", processedKey, err)
	}

	if err := p.propertyService.AppendImage(ctx, propertyID, url); err != nil {
		return fmt.Errorf("attaching image to property %s: %w", payload.PropertyID, err)
	}
	p.logger.Info("image processed",
		zap.String("property_id", payload.PropertyID),
		zap.String("key", processedKey))
	return nil
}

// processedKeyFor derives the rendition key from the raw upload key.
func processedKeyFor(key string) string {
	if idx := strings.LastIndex(key, "."); idx > strings.LastIndex(key, "/") {
		key = key[:idx]
	}
	return key + "_processed.jpg"
}

// SetupServer builds the asynq server with both task handlers registered.
// The caller runs it and handles shutdown.
func SetupServer(rdb *redis.Client, processor *Processor, logger *zap.Logger) (*asynq.Server, *asynq.ServeMux) {
	opts := rdb.Options()
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: opts.Addr, Password: opts.Password, DB: opts.DB},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				queueDefault: 5,
				queueImages:  3,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("task failed",
					zap.String("type", task.Type()),
					zap.ByteString("payload", task.Payload()),
					zap.Error(err))
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailDelivery, processor.HandleEmailDelivery)
	mux.HandleFunc(TypeImageProcess, processor.HandleImageProcess)
	return srv, mux
}
