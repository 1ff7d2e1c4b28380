package streaming

import (
	"context"

	"argus/internal/domain/models"
)

// EventBusPublisher implements services.EventPublisher using the EventBus
type EventBusPublisher struct {
	eventBus *EventBus
	wsHub    *WebSocketHub
}

// NewEventBusPublisher creates a new publisher adapter
func NewEventBusPublisher(eventBus *EventBus, wsHub *WebSocketHub) *EventBusPublisher {
	return &EventBusPublisher{
		eventBus: eventBus,
		wsHub:    wsHub,
	}
}

// PublishScanStarted publishes a scan start event
func (p *EventBusPublisher) PublishScanStarted(ctx context.Context, scanID string, apps int) error {
	event := NewScanLifecycleEvent(EventTypeScanStarted, scanID)
	event.Apps = apps
	return p.publish(ctx, event)
}

// PublishScanCompleted publishes a scan completion event with its summary counts
func (p *EventBusPublisher) PublishScanCompleted(ctx context.Context, summary *models.ScanSummary) error {
	event := NewScanLifecycleEvent(EventTypeScanCompleted, summary.ScanID)
	event.Apps = summary.Apps
	event.Scanned = summary.Scanned
	event.Excluded = summary.Excluded
	event.Flagged = summary.Flagged
	event.Failed = summary.Failed
	return p.publish(ctx, event)
}

// PublishScanFailed publishes a scan failure event
func (p *EventBusPublisher) PublishScanFailed(ctx context.Context, scanID string, scanErr error) error {
	event := NewScanLifecycleEvent(EventTypeScanFailed, scanID)
	if scanErr != nil {
		event.Error = scanErr.Error()
	}
	return p.publish(ctx, event)
}

// PublishAppFlagged publishes a per-app risk event
func (p *EventBusPublisher) PublishAppFlagged(ctx context.Context, scanID string, rec *models.AppRecord) error {
	return p.publish(ctx, NewAppFlaggedEvent(scanID, rec))
}

func (p *EventBusPublisher) publish(ctx context.Context, event *ScanEvent) error {
	if p.eventBus != nil {
		if err := p.eventBus.Publish(ctx, event); err != nil {
			return err
		}
	}
	if p.wsHub != nil {
		p.wsHub.BroadcastEvent(event)
	}
	return nil
}
