package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetstack/vetclinic-api/internal/model"
	"github.com/vetstack/vetclinic-api/pkg/logger"
	"github.com/vetstack/vetclinic-api/pkg/metrics"
)

// promauto registers in the default registry, so the package shares one
// instance across tests.
var testMetrics = metrics.NewMetrics("worker_test")

type fakeOutboxRepo struct {
	pending  []*model.OutboxEvent
	statuses map[uuid.UUID]model.OutboxStatus
}

func newFakeOutboxRepo(events ...*model.OutboxEvent) *fakeOutboxRepo {
	return &fakeOutboxRepo{pending: events, statuses: make(map[uuid.UUID]model.OutboxStatus)}
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	f.pending = append(f.pending, event)
	return nil
}

func (f *fakeOutboxRepo) GetPendingEvents(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeOutboxRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.OutboxStatus, _ *string) error {
	f.statuses[id] = status
	return nil
}

func (f *fakeOutboxRepo) DeleteProcessedBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type fakeBroker struct {
	published []string
	err       error
}

func (f *fakeBroker) Publish(_ context.Context, channel string, _ interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, channel)
	return nil
}

func (f *fakeBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, nil
}

func (f *fakeBroker) Close() error { return nil }

func pendingEvent(eventType string) *model.OutboxEvent {
	return &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   []byte(`{}`),
		Status:    model.OutboxStatusPending,
	}
}

func TestProcessBatch_MarksPublishedEventsProcessed(t *testing.T) {
	event := pendingEvent("VETERINARIAN_CREATED")
	repo := newFakeOutboxRepo(event)
	broker := &fakeBroker{}

	p := NewOutboxProcessor(repo, broker, OutboxProcessorConfig{}, logger.NewLogger(nil), testMetrics)
	p.processBatch(context.Background())

	require.Len(t, broker.published, 1)
	assert.Equal(t, "veterinarian-events", broker.published[0])
	assert.Equal(t, model.OutboxStatusProcessed, repo.statuses[event.ID])
}

func TestProcessBatch_MarksFailedOnPublishError(t *testing.T) {
	event := pendingEvent("VETERINARIAN_DELETED")
	repo := newFakeOutboxRepo(event)
	broker := &fakeBroker{err: errors.New("broker unavailable")}

	p := NewOutboxProcessor(repo, broker, OutboxProcessorConfig{}, logger.NewLogger(nil), testMetrics)
	p.processBatch(context.Background())

	assert.Empty(t, broker.published)
	assert.Equal(t, model.OutboxStatusFailed, repo.statuses[event.ID])
}

func TestProcessBatch_HonorsBatchSize(t *testing.T) {
	repo := newFakeOutboxRepo(
		pendingEvent("VETERINARIAN_CREATED"),
		pendingEvent("VETERINARIAN_UPDATED"),
		pendingEvent("VETERINARIAN_DELETED"),
	)
	broker := &fakeBroker{}

	p := NewOutboxProcessor(repo, broker, OutboxProcessorConfig{BatchSize: 2}, logger.NewLogger(nil), testMetrics)
	p.processBatch(context.Background())

	assert.Len(t, broker.published, 2)
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	repo := newFakeOutboxRepo()
	broker := &fakeBroker{}

	p := NewOutboxProcessor(repo, broker,
		OutboxProcessorConfig{PollInterval: time.Millisecond}, logger.NewLogger(nil), testMetrics)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("processor did not stop after context cancellation")
	}
}
