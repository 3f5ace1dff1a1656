package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"furniture/admin/internal/domain/event"
	"furniture/admin/internal/queue"
	"furniture/admin/internal/repository"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// AuditWorker moves mutation events from the Redis streams into the audit log
type AuditWorker struct {
	queue       queue.Queue
	repository  repository.AuditRepository
	minIdleTime time.Duration
}

func NewAuditWorker(q queue.Queue, repo repository.AuditRepository, minIdleTime int) *AuditWorker {
	idle := time.Duration(minIdleTime) * time.Second
	if idle <= 0 {
		idle = time.Minute
	}
	return &AuditWorker{
		queue:       q,
		repository:  repo,
		minIdleTime: idle,
	}
}

// Run consumes every event stream with numWorkers workers each, until ctx is done
func (w *AuditWorker) Run(ctx context.Context, numWorkers int) error {
	if err := w.queue.EnsureStreamsExist(ctx); err != nil {
		return fmt.Errorf("failed to ensure streams exist: %w", err)
	}
	if err := w.repository.EnsureSchema(ctx); err != nil {
		return err
	}

	var wg sync.WaitGroup
	for _, eventType := range event.Types {
		w.runWorkersForStream(ctx, &wg, max(1, numWorkers), w.queue.StreamName(eventType), eventType)
	}

	wg.Wait()
	return nil
}

func (w *AuditWorker) Recent(ctx context.Context, limit int) ([]event.Record, error) {
	return w.repository.Recent(ctx, limit)
}

func (w *AuditWorker) runWorkersForStream(ctx context.Context, wg *sync.WaitGroup, numWorkers int, streamName, workerType string) {
	// Auto-claimer for this stream
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(w.minIdleTime)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				consumer := fmt.Sprintf("autoclaimer-%s-%d", workerType, time.Now().UnixNano())
				claimedMessages, err := w.queue.AutoClaim(ctx, consumer, streamName, w.minIdleTime)
				if err != nil {
					log.Errorf("❌ Failed to auto-claim messages for %s: %v", streamName, err)
					continue
				}
				if len(claimedMessages) > 0 {
					log.Infof("🔄 Auto-claimed %d messages from %s stream", len(claimedMessages), workerType)
					for _, msg := range claimedMessages {
						if err := w.processMessage(ctx, streamName, &msg); err != nil {
							log.Errorf("❌ Failed to process auto-claimed message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}
	}()

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			consumer := fmt.Sprintf("%s-worker-%d", workerType, workerID)
			log.Infof("🚀 Starting %s worker %d as consumer %s", workerType, workerID, consumer)
			for {
				select {
				case <-ctx.Done():
					log.Infof("🛑 %s worker %d stopping", workerType, workerID)
					return
				default:
					msg, err := w.queue.Read(ctx, consumer, streamName)
					if err != nil {
						if ctx.Err() != nil {
							continue
						}
						log.Errorf("❌ Failed to read from %s: %v", streamName, err)
						time.Sleep(time.Second)
						continue
					}

					if msg != nil {
						if err := w.processMessage(ctx, streamName, msg); err != nil {
							log.Errorf("❌ Failed to process message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}(i + 1)
	}
}

// processMessage stores one event and acknowledges it. Messages that fail to
// store stay pending for the auto-claimer.
func (w *AuditWorker) processMessage(ctx context.Context, streamName string, msg *redis.XMessage) error {
	eventType, ok := msg.Values["event_type"].(string)
	if !ok {
		return w.discard(ctx, streamName, msg, "missing event type")
	}

	data, ok := msg.Values["event_data"].(string)
	if !ok {
		return w.discard(ctx, streamName, msg, "missing event data")
	}

	switch eventType {
	case event.CategoryEventType, event.ProductEventType, event.UserEventType:
	default:
		return w.discard(ctx, streamName, msg, "unknown event type "+eventType)
	}

	record, err := event.NewRecord(eventType, []byte(data))
	if err != nil {
		return w.discard(ctx, streamName, msg, err.Error())
	}

	if err := w.repository.Save(ctx, record); err != nil {
		return err
	}

	if err := w.queue.Ack(ctx, streamName, msg.ID); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msg.ID, err)
	}

	log.Debugf("📝 Stored %s %s of %s %s", eventType, record.Action, record.EntityID, record.EventID)
	return nil
}

// discard acknowledges a message that can never be stored
func (w *AuditWorker) discard(ctx context.Context, streamName string, msg *redis.XMessage, reason string) error {
	log.Warnf("⚠️ Dropping message %s from %s: %s", msg.ID, streamName, reason)
	if err := w.queue.Ack(ctx, streamName, msg.ID); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msg.ID, err)
	}
	return nil
}
