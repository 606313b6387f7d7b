package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"spark-service/internal/mocks"
)

func TestEmitPublishesEnvelope(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	emitter := NewAuditEmitter(publisher, "audit.spark", "spark-service", "test", zap.NewNop())

	userID := "1"
	publisher.On("Publish", mock.Anything, "audit.spark", mock.MatchedBy(func(event any) bool {
		envelope, ok := event.(AuditEnvelope)
		return ok &&
			envelope.EventType == "audit_log" &&
			envelope.Service == "spark-service" &&
			envelope.RequestID == "req-1" &&
			envelope.Payload.Text == "hello"
	})).Return(nil).Once()

	emitter.Emit(context.Background(), "INFO", "hello", "req-1", &userID)
	publisher.AssertExpectations(t)
}

func TestEmitNilEmitterIsNoop(t *testing.T) {
	var emitter *AuditEmitter
	assert.NotPanics(t, func() {
		emitter.Emit(context.Background(), "INFO", "ignored", "", nil)
	})
}
