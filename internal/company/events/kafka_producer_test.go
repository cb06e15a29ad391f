package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dpurohit/companydir/internal/company/models"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// MockKafkaWriter implements KafkaWriter for testing.
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newTestProducer(t *testing.T, writer KafkaWriter) *Producer {
	return &Producer{
		writer:    writer,
		events:    make(chan Event, 10),
		logger:    zaptest.NewLogger(t).Named("kafka_producer"),
		closeChan: make(chan struct{}),
	}
}

func TestProducer_Produce(t *testing.T) {
	t.Run("successful produce", func(t *testing.T) {
		producer := newTestProducer(t, new(MockKafkaWriter))
		company := &models.Company{ID: uuid.New()}

		producer.Produce(CompanyCreated, company)

		assert.Equal(t, 1, len(producer.events))
	})

	t.Run("dropped event when queue full", func(t *testing.T) {
		core, recorded := observer.New(zap.WarnLevel)
		producer := newTestProducer(t, new(MockKafkaWriter))
		producer.logger = zap.New(core)
		producer.events = make(chan Event, 1)
		company := &models.Company{ID: uuid.New()}

		producer.Produce(CompanyCreated, company)
		producer.Produce(CompanyDeleted, company) // dropped, never blocks

		assert.Equal(t, 1, recorded.FilterMessage("Kafka producer queue full, dropping event").Len())
	})
}

func TestProducer_SendEvent(t *testing.T) {
	company := &models.Company{ID: uuid.New(), Name: "Test Company"}

	t.Run("successful send", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)
		producer := newTestProducer(t, mockWriter)

		event := Event{Type: CompanyCreated, Company: company}
		producer.sendEvent(context.Background(), event)

		value, err := json.Marshal(event)
		assert.NoError(t, err)
		mockWriter.AssertCalled(t, "WriteMessages", mock.Anything, []kafka.Message{
			{
				Key:   []byte(company.ID.String()),
				Value: value,
			},
		})
	})

	t.Run("serialization error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		producer := newTestProducer(t, new(MockKafkaWriter))
		producer.logger = zap.New(core)

		oldMarshal := jsonMarshal
		jsonMarshal = func(any) ([]byte, error) {
			return nil, errors.New("mock marshal error")
		}
		defer func() { jsonMarshal = oldMarshal }()

		producer.sendEvent(context.Background(), Event{Type: CompanyCreated, Company: company})

		assert.Equal(t, 1, recorded.FilterMessage("Failed to serialize event").Len())
		assert.Equal(t, 1, recorded.FilterField(zap.String("company_id", company.ID.String())).Len())
	})

	t.Run("write error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("kafka error"))
		producer := newTestProducer(t, mockWriter)
		producer.logger = zap.New(core)

		producer.sendEvent(context.Background(), Event{Type: CompanyUpdated, Company: company})

		assert.Equal(t, 1, recorded.FilterMessage("Failed to produce event").Len())
	})
}

func TestProducer_EventLoop(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)
	producer := newTestProducer(t, mockWriter)

	go producer.eventLoop()

	producer.events <- Event{Type: CompanyCreated, Company: &models.Company{ID: uuid.New()}}

	time.Sleep(100 * time.Millisecond)
	mockWriter.AssertCalled(t, "WriteMessages", mock.Anything, mock.Anything)
}

func TestProducer_Close(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("Close").Return(nil)
	producer := newTestProducer(t, mockWriter)

	producer.Close()

	select {
	case <-producer.closeChan:
	default:
		t.Error("closeChan not closed")
	}
	mockWriter.AssertCalled(t, "Close")
}

func TestNopProducerIsSilent(t *testing.T) {
	// Must not panic or block with no backing writer.
	NopProducer{}.Produce(CompanyCreated, &models.Company{ID: uuid.New()})
}
