package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/apperr"
	"github.com/fekuna/omnipos-stock-service/internal/auth"
	"github.com/fekuna/omnipos-stock-service/internal/fulfillment"
	"github.com/fekuna/omnipos-stock-service/internal/fulfillment/dto"
	"github.com/fekuna/omnipos-stock-service/internal/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const EventTypeOrderCompleted = "OrderCompleted"

type Consumer interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// EventDeduper remembers which events were already applied.
type EventDeduper interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type OrderListener struct {
	consumer    Consumer
	deduper     EventDeduper
	uc          fulfillment.UseCase
	logger      logger.ZapLogger
	maxAttempts int
	backoff     time.Duration
}

func NewOrderListener(consumer Consumer, deduper EventDeduper, uc fulfillment.UseCase, logger logger.ZapLogger) *OrderListener {
	return &OrderListener{
		consumer:    consumer,
		deduper:     deduper,
		uc:          uc,
		logger:      logger,
		maxAttempts: 5,
		backoff:     time.Second,
	}
}

// WithRetry overrides how often and how patiently infrastructure failures
// are retried. Non-positive values keep the defaults.
func (l *OrderListener) WithRetry(maxAttempts int, backoff time.Duration) *OrderListener {
	if maxAttempts > 0 {
		l.maxAttempts = maxAttempts
	}
	if backoff > 0 {
		l.backoff = backoff
	}
	return l
}

func (l *OrderListener) Start(ctx context.Context) {
	l.logger.Info("Starting order fulfillment Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping order fulfillment Kafka listener")
			return
		default:
			msg, err := l.consumer.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				l.sleep(ctx, l.backoff)
				continue
			}

			l.handle(ctx, msg)

			if err := l.consumer.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
				l.logger.Error("Failed to commit kafka message", zap.Int64("offset", msg.Offset), zap.Error(err))
			}
		}
	}
}

// handle retries infrastructure failures with backoff. Business rejections
// are final: the same order would be rejected again.
func (l *OrderListener) handle(ctx context.Context, msg kafka.Message) {
	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		err := l.processMessage(ctx, msg.Value)
		if err == nil || apperr.IsBusiness(err) || ctx.Err() != nil {
			return
		}
		l.logger.Warn("Order event failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		l.sleep(ctx, time.Duration(attempt)*l.backoff)
	}
	l.logger.Error("Giving up on order event", zap.Int64("offset", msg.Offset), zap.Int("attempts", l.maxAttempts))
}

type OrderCompletedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID string `json:"id"`
	// LocationID is empty for orders fulfilled from any location.
	LocationID string             `json:"location_id"`
	Items      []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	VariationID string `json:"variation_id"`
	Quantity    int    `json:"quantity"`
}

func (l *OrderListener) processMessage(ctx context.Context, value []byte) error {
	var event OrderCompletedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return nil
	}

	if event.EventType != EventTypeOrderCompleted {
		return nil
	}

	key := event.EventID
	if key == "" {
		key = event.Payload.ID
	}

	claimed, err := l.deduper.Claim(ctx, key)
	if err != nil {
		return err
	}
	if !claimed {
		l.logger.Info("Skipping already processed order event", zap.String("event_id", key), zap.String("order_id", event.Payload.ID))
		return nil
	}

	l.logger.Info("Processing OrderCompleted event", zap.String("order_id", event.Payload.ID))

	lines := make([]dto.OrderLine, len(event.Payload.Items))
	for i, item := range event.Payload.Items {
		lines[i] = dto.OrderLine{VariationID: item.VariationID, Quantity: item.Quantity}
	}

	_, err = l.uc.DeductOrder(auth.WithActor(ctx, auth.SystemActor), &dto.DeductOrderInput{
		OrderID:    event.Payload.ID,
		LocationID: event.Payload.LocationID,
		Lines:      lines,
	})
	if err == nil {
		return nil
	}

	if apperr.IsBusiness(err) {
		l.logger.Warn("Order rejected by stock ledger",
			zap.String("order_id", event.Payload.ID),
			zap.Error(err),
		)
		return err
	}

	l.logger.Error("Failed to deduct stock for order",
		zap.String("order_id", event.Payload.ID),
		zap.Error(err),
	)
	if relErr := l.deduper.Release(context.WithoutCancel(ctx), key); relErr != nil {
		l.logger.Error("Failed to release order event claim", zap.String("event_id", key), zap.Error(relErr))
	}
	return err
}

func (l *OrderListener) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
