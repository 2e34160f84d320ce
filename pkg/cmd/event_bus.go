package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/orpheusflows/pkg/eventbus"
	"github.com/dukex/orpheusflows/pkg/events"
)

// NewEventBus creates the bus editor events are published on. provider is
// gochannel (in process, the default) or kafka; brokers is a comma separated list.
func NewEventBus(logger *slog.Logger, provider, brokers string) (*eventbus.WatermillEventBus, error) {
	switch provider {
	case "", "gochannel":
		return eventbus.NewGoChannelEventBus(logger), nil
	case "kafka":
		bus, err := eventbus.NewKafkaEventBus(logger, strings.Split(brokers, ","), "orpheusflows")
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka event bus: %w", err)
		}

		return bus, nil
	default:
		return nil, fmt.Errorf("unsupported event bus provider: %s", provider)
	}
}

// SubscribeAuditLog logs every editor event at info level.
func SubscribeAuditLog(ctx context.Context, logger *slog.Logger, bus eventbus.EventSubscriber) error {
	types := []events.EventType{
		events.NodeAddedEvent,
		events.NodeMovedEvent,
		events.NodeDeletedEvent,
		events.NodeValuesUpdatedEvent,
		events.EdgeConnectedEvent,
		events.EdgeDisconnectedEvent,
		events.GraphSavedEvent,
		events.GraphLoadedEvent,
	}

	for _, eventType := range types {
		err := bus.Handle(eventType, func(ctx context.Context, event any) error {
			logger.InfoContext(ctx, "Editor event", "event_type", eventType, "event", event)

			return nil
		})
		if err != nil {
			return err
		}
	}

	return bus.Subscribe(ctx)
}
