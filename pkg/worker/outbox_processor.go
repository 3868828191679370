package worker

import (
	"context"
	"time"

	"github.com/vetstack/vetclinic-api/internal/model"
	"github.com/vetstack/vetclinic-api/internal/repository"
	"github.com/vetstack/vetclinic-api/pkg/logger"
	"github.com/vetstack/vetclinic-api/pkg/messaging"
	"github.com/vetstack/vetclinic-api/pkg/metrics"
)

type OutboxProcessorConfig struct {
	BatchSize    int
	PollInterval time.Duration
	Channel      string
}

// OutboxProcessor drains pending mutation events to the message broker.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	config  OutboxProcessorConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	config OutboxProcessorConfig,
	log *logger.Logger,
	m *metrics.Metrics,
) *OutboxProcessor {
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}
	if config.Channel == "" {
		config.Channel = "veterinarian-events"
	}

	return &OutboxProcessor{
		repo:    repo,
		broker:  broker,
		config:  config,
		logger:  log,
		metrics: m,
	}
}

// Start polls the outbox until the context is cancelled.
func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox processor stopped")
			return
		case <-ticker.C:
			p.processBatch(ctx)
		}
	}
}

func (p *OutboxProcessor) processBatch(ctx context.Context) {
	events, err := p.repo.GetPendingEvents(ctx, p.config.BatchSize)
	if err != nil {
		p.logger.Error(err, "failed to fetch pending outbox events")
		return
	}

	p.metrics.OutboxQueueSize.Set(float64(len(events)))

	for _, event := range events {
		start := time.Now()

		if err := p.broker.Publish(ctx, p.config.Channel, event); err != nil {
			p.metrics.OutboxEventsFailed.Inc()
			msg := err.Error()
			if updErr := p.repo.UpdateStatus(ctx, event.ID, model.OutboxStatusFailed, &msg); updErr != nil {
				p.logger.Error(updErr, "failed to mark outbox event failed", "event_id", event.ID)
			}
			continue
		}

		p.metrics.OutboxEventsProcessed.Inc()
		p.metrics.OutboxProcessingLatency.Observe(time.Since(start).Seconds())

		if err := p.repo.UpdateStatus(ctx, event.ID, model.OutboxStatusProcessed, nil); err != nil {
			p.logger.Error(err, "failed to mark outbox event processed", "event_id", event.ID)
		}
	}
}
