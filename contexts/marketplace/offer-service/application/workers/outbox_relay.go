package workers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	application "offerhub/contexts/marketplace/offer-service/application"
	"offerhub/contexts/marketplace/offer-service/ports"
)

const defaultRelayBatch = 100

var errUnroutable = errors.New("outbox row has no routable event type")

// OutboxRelay publishes pending offer events. Each envelope goes to the topic
// named after its event type unless Topic pins a single topic.
//
// Rows are handled in outbox order. A publish failure ends the cycle so later
// events for the same offer never overtake an earlier one. Rows that cannot be
// decoded are left pending and skipped.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	Topic     string
	BatchSize int
	Logger    *slog.Logger
}

// RelayResult counts what one cycle did.
type RelayResult struct {
	Published int
	Skipped   int
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	_, err := r.Relay(ctx)
	return err
}

func (r OutboxRelay) Relay(ctx context.Context) (RelayResult, error) {
	logger := application.ResolveLogger(r.Logger)
	batch := r.BatchSize
	if batch <= 0 {
		batch = defaultRelayBatch
	}

	var result RelayResult
	pending, err := r.Outbox.ListPendingOutbox(ctx, batch)
	if err != nil {
		logger.Error("outbox list pending failed",
			"event", "offer_outbox_list_failed",
			"module", application.LogModule,
			"layer", application.LayerWorker,
			"error", err.Error(),
		)
		return result, err
	}

	for _, message := range pending {
		envelope, topic, err := r.route(message)
		if err != nil {
			result.Skipped++
			logger.Warn("outbox row skipped",
				"event", "offer_outbox_row_skipped",
				"module", application.LogModule,
				"layer", application.LayerWorker,
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			continue
		}

		if err := r.Publisher.Publish(ctx, topic, envelope); err != nil {
			logger.Error("outbox publish failed",
				"event", "offer_outbox_publish_failed",
				"module", application.LogModule,
				"layer", application.LayerWorker,
				"outbox_id", message.OutboxID,
				"event_id", envelope.EventID,
				"topic", topic,
				"error", err.Error(),
			)
			return result, err
		}
		if err := r.Outbox.MarkOutboxSent(ctx, message.OutboxID, r.now()); err != nil {
			logger.Error("outbox mark sent failed",
				"event", "offer_outbox_mark_sent_failed",
				"module", application.LogModule,
				"layer", application.LayerWorker,
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return result, err
		}
		result.Published++
	}

	if len(pending) > 0 {
		logger.Info("outbox relay cycle completed",
			"event", "offer_outbox_relay_completed",
			"module", application.LogModule,
			"layer", application.LayerWorker,
			"published", result.Published,
			"skipped", result.Skipped,
		)
	}
	return result, nil
}

func (r OutboxRelay) route(message ports.OutboxMessage) (ports.EventEnvelope, string, error) {
	var envelope ports.EventEnvelope
	if err := json.Unmarshal(message.Payload, &envelope); err != nil {
		return envelope, "", err
	}
	topic := r.Topic
	if topic == "" {
		topic = envelope.EventType
	}
	if topic == "" {
		topic = message.EventType
	}
	if topic == "" {
		return envelope, "", errUnroutable
	}
	return envelope, topic, nil
}

func (r OutboxRelay) now() time.Time {
	if r.Clock == nil {
		return time.Now().UTC()
	}
	return r.Clock.Now().UTC()
}
