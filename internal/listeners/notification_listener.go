package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"porter-system/internal/events"
	"porter-system/pkg/eventbus"
	"porter-system/pkg/websocket"
)

// NotificationListener turns request lifecycle events into websocket pushes.
// Dashboards listen for the broadcast types to refresh their queues; the
// assigned porter additionally gets a direct task notification.
type NotificationListener struct {
	hub    *websocket.Hub
	logger *zap.Logger
}

func NewNotificationListener(hub *websocket.Hub, logger *zap.Logger) *NotificationListener {
	return &NotificationListener{hub: hub, logger: logger}
}

// Subscribe registers the listener for every request event.
func (l *NotificationListener) Subscribe(bus *eventbus.Bus) {
	bus.Subscribe(events.RequestCreatedEvent{}.Name(), l.onEvent)
	bus.Subscribe(events.RequestAssignedEvent{}.Name(), l.onEvent)
	bus.Subscribe(events.RequestStatusChangedEvent{}.Name(), l.onEvent)
	bus.Subscribe(events.RequestCancelledEvent{}.Name(), l.onEvent)
}

func (l *NotificationListener) onEvent(_ context.Context, event eventbus.Event) error {
	switch e := event.(type) {
	case events.RequestCreatedEvent:
		l.hub.Broadcast(e.Name(), map[string]interface{}{
			"request_id": e.RequestID,
			"priority":   e.Priority,
		})

	case events.RequestAssignedEvent:
		l.hub.Broadcast(e.Name(), map[string]interface{}{"request_id": e.RequestID})
		l.hub.SendToUser(e.PorterID, "task.assigned", map[string]interface{}{
			"request_id":   e.RequestID,
			"equipment_id": e.EquipmentID,
		})

	case events.RequestStatusChangedEvent:
		l.hub.Broadcast(e.Name(), map[string]interface{}{
			"request_id": e.RequestID,
			"status":     e.Status,
		})

	case events.RequestCancelledEvent:
		l.hub.Broadcast(e.Name(), map[string]interface{}{"request_id": e.RequestID})

	default:
		return fmt.Errorf("unexpected event type %T", event)
	}

	l.logger.Debug("notification dispatched", zap.String("event", event.Name()))
	return nil
}
