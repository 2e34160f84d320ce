package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/dukex/orpheusflows/pkg/events"
)

type WatermillEventBus struct {
	publisher     message.Publisher
	subscriber    message.Subscriber
	subscriptions map[events.EventType]EventHandler
	closers       []func() error
}

func NewWatermillEventBus(pub message.Publisher, sub message.Subscriber) *WatermillEventBus {
	return &WatermillEventBus{
		publisher:     pub,
		subscriber:    sub,
		subscriptions: make(map[events.EventType]EventHandler),
	}
}

// NewGoChannelEventBus creates an in-process event bus. Publishing never blocks on subscribers.
func NewGoChannelEventBus(logger *slog.Logger) *WatermillEventBus {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            1000,
			Persistent:                     false,
			BlockPublishUntilSubscriberAck: false,
		},
		watermill.NewSlogLogger(logger),
	)

	bus := NewWatermillEventBus(pubSub, pubSub)
	bus.closers = append(bus.closers, pubSub.Close)

	return bus
}

func (eb *WatermillEventBus) GenerateID() string {
	return watermill.NewULID()
}

func (eb *WatermillEventBus) Publish(_ context.Context, key string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage("msg-"+eb.GenerateID(), payload)
	msg.Metadata.Set(events.EventMetadataKey, key)
	msg.Metadata.Set(events.EventTypeMetadataKey, string(event.GetType()))

	return eb.publisher.Publish(events.Topic, msg)
}

func (eb *WatermillEventBus) Handle(eventType events.EventType, handler EventHandler) error {
	if _, exists := eb.subscriptions[eventType]; exists {
		return fmt.Errorf("handler for %s already registered", eventType)
	}

	eb.subscriptions[eventType] = handler

	return nil
}

func (eb *WatermillEventBus) Subscribe(ctx context.Context) error {
	messages, err := eb.subscriber.Subscribe(ctx, events.Topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			eventType := events.EventType(msg.Metadata.Get(events.EventTypeMetadataKey))

			handler, exists := eb.subscriptions[eventType]
			if !exists {
				msg.Ack()

				continue
			}

			event := newEvent(eventType)
			if event == nil {
				msg.Nack()

				continue
			}

			err := json.Unmarshal(msg.Payload, event)
			if err != nil {
				msg.Nack()

				continue
			}

			err = handler(ctx, event)
			if err != nil {
				msg.Nack()

				continue
			}

			msg.Ack()
		}
	}()

	return nil
}

func (eb *WatermillEventBus) Close() error {
	for _, closeFn := range eb.closers {
		if err := closeFn(); err != nil {
			return err
		}
	}

	return nil
}

func newEvent(eventType events.EventType) any {
	switch eventType {
	case events.NodeAddedEvent:
		return &events.NodeAdded{}
	case events.NodeMovedEvent:
		return &events.NodeMoved{}
	case events.NodeDeletedEvent:
		return &events.NodeDeleted{}
	case events.NodeValuesUpdatedEvent:
		return &events.NodeValuesUpdated{}
	case events.EdgeConnectedEvent:
		return &events.EdgeConnected{}
	case events.EdgeDisconnectedEvent:
		return &events.EdgeDisconnected{}
	case events.GraphSavedEvent:
		return &events.GraphSaved{}
	case events.GraphLoadedEvent:
		return &events.GraphLoaded{}
	default:
		return nil
	}
}
