package event

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/domain"
	pkgkafka "github.com/Zenuu19/Skill-Swap-Platform/pkg/kafka"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/logger"
)

// Domain event types.
const (
	EventSwapCreated       = "swap.created"
	EventSwapStatusChanged = "swap.status_changed"
	EventSwapDeleted       = "swap.deleted"
	EventFeedbackSubmitted = "feedback.submitted"
)

// Kafka topics, one per event type.
var (
	TopicSwapCreated       = pkgkafka.Topic(EventSwapCreated)
	TopicSwapStatusChanged = pkgkafka.Topic(EventSwapStatusChanged)
	TopicSwapDeleted       = pkgkafka.Topic(EventSwapDeleted)
	TopicFeedbackSubmitted = pkgkafka.Topic(EventFeedbackSubmitted)
)

// Aggregate types.
const (
	AggregateTypeSwap     = "swap_request"
	AggregateTypeFeedback = "feedback"
)

// Source identifies events emitted by this service.
const Source = "skillswap"

// SwapCreatedData is the payload for swap.created (full snapshot).
type SwapCreatedData struct {
	ID           string          `json:"id"`
	RequesterID  string          `json:"requester_id"`
	RequesteeID  string          `json:"requestee_id"`
	OfferedSkill domain.SkillRef `json:"offered_skill"`
	WantedSkill  domain.SkillRef `json:"wanted_skill"`
	Status       string          `json:"status"`
}

// SwapStatusChangedData is the payload for swap.status_changed.
type SwapStatusChangedData struct {
	SwapID    string `json:"swap_id"`
	ActorID   string `json:"actor_id"`
	Action    string `json:"action"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// SwapDeletedData is the payload for swap.deleted.
type SwapDeletedData struct {
	SwapID  string `json:"swap_id"`
	ActorID string `json:"actor_id"`
	Status  string `json:"status"`
}

// FeedbackSubmittedData is the payload for feedback.submitted.
type FeedbackSubmittedData struct {
	FeedbackID    string `json:"feedback_id"`
	SwapRequestID string `json:"swap_request_id"`
	ReviewerID    string `json:"reviewer_id"`
	RevieweeID    string `json:"reviewee_id"`
	Rating        int    `json:"rating"`
	IsPublic      bool   `json:"is_public"`
}

// Publisher is the transport the producer writes to.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes skill swap domain events to Kafka.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishSwapCreated publishes a swap.created event.
func (p *Producer) PublishSwapCreated(ctx context.Context, s *domain.SwapRequest) error {
	return p.publish(ctx, EventSwapCreated, s.ID, AggregateTypeSwap, SwapCreatedData{
		ID:           s.ID,
		RequesterID:  s.RequesterID,
		RequesteeID:  s.RequesteeID,
		OfferedSkill: s.OfferedSkill,
		WantedSkill:  s.WantedSkill,
		Status:       s.Status,
	})
}

// PublishSwapStatusChanged publishes a swap.status_changed event.
func (p *Producer) PublishSwapStatusChanged(ctx context.Context, swapID, actorID string, action domain.Action, oldStatus, newStatus string) error {
	return p.publish(ctx, EventSwapStatusChanged, swapID, AggregateTypeSwap, SwapStatusChangedData{
		SwapID:    swapID,
		ActorID:   actorID,
		Action:    string(action),
		OldStatus: oldStatus,
		NewStatus: newStatus,
	})
}

// PublishSwapDeleted publishes a swap.deleted event.
func (p *Producer) PublishSwapDeleted(ctx context.Context, swapID, actorID, status string) error {
	return p.publish(ctx, EventSwapDeleted, swapID, AggregateTypeSwap, SwapDeletedData{
		SwapID:  swapID,
		ActorID: actorID,
		Status:  status,
	})
}

// PublishFeedbackSubmitted publishes a feedback.submitted event.
func (p *Producer) PublishFeedbackSubmitted(ctx context.Context, fb *domain.Feedback) error {
	return p.publish(ctx, EventFeedbackSubmitted, fb.ID, AggregateTypeFeedback, FeedbackSubmittedData{
		FeedbackID:    fb.ID,
		SwapRequestID: fb.SwapRequestID,
		ReviewerID:    fb.ReviewerID,
		RevieweeID:    fb.RevieweeID,
		Rating:        fb.Rating,
		IsPublic:      fb.IsPublic,
	})
}

// publish wraps data in an envelope carrying the request's correlation id.
// The trace id also goes into metadata for consumers that ignore headers.
func (p *Producer) publish(ctx context.Context, eventType, aggregateID, aggregateType string, data any) error {
	topic := pkgkafka.Topic(eventType)
	evt, err := pkgkafka.NewEvent(eventType, aggregateID, aggregateType, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		evt.WithMetadata("trace_id", sc.TraceID().String())
	}

	if err := p.kafka.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("event_type", eventType),
		slog.String("aggregate_id", aggregateID),
	)
	return nil
}
