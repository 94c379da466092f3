package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nqanh/vku-student-manager/internal/app/models"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Event types published on student lifecycle changes
const (
	StudentCreated = "student.created"
	StudentUpdated = "student.updated"
	StudentDeleted = "student.deleted"
)

// StudentEvent is the payload published for downstream consumers
type StudentEvent struct {
	Type      string    `json:"type"`
	StudentID int64     `json:"studentId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	At        time.Time `json:"at"`
}

// Publisher publishes student lifecycle events
type Publisher interface {
	Publish(ctx context.Context, eventType string, student *models.Student)
}

// KafkaPublisher writes lifecycle events to a Kafka topic
type KafkaPublisher struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

// NewKafkaPublisher creates a publisher for the given brokers and topic
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Publish emits one lifecycle event. Broker failures are logged and
// swallowed: the mutation has already been committed and events are
// best-effort notifications, not part of the pipeline contract.
func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, student *models.Student) {
	payload, err := json.Marshal(StudentEvent{
		Type:      eventType,
		StudentID: student.ID,
		Username:  student.Username,
		Email:     student.Email,
		At:        time.Now(),
	})
	if err != nil {
		p.logger.Error().Err(err).Msg("Failed to encode student event")
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(eventType),
		Value: payload,
		Time:  time.Now(),
	})
	if err != nil {
		p.logger.Error().Err(err).Str("type", eventType).Int64("studentID", student.ID).
			Msg("Failed to publish student event")
	}
}

// Close flushes and closes the underlying writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher is used when no brokers are configured
type NopPublisher struct{}

// Publish does nothing
func (NopPublisher) Publish(context.Context, string, *models.Student) {}
