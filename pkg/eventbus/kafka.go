package eventbus

import (
	"errors"
	"log/slog"

	"github.com/IBM/sarama"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v3/pkg/kafka"
)

// ErrNoBrokers is returned when a Kafka bus is requested without brokers.
var ErrNoBrokers = errors.New("no kafka brokers configured")

// NewKafkaEventBus creates an event bus on Kafka. Every editor instance sharing
// serviceName reads from one consumer group.
func NewKafkaEventBus(logger *slog.Logger, brokers []string, serviceName string) (*WatermillEventBus, error) {
	if len(brokers) == 0 || brokers[0] == "" {
		return nil, ErrNoBrokers
	}

	wlogger := watermill.NewSlogLogger(logger)

	subscriberConfig := kafka.DefaultSaramaSubscriberConfig()
	subscriberConfig.Consumer.Offsets.Initial = sarama.OffsetOldest

	subscriber, err := kafka.NewSubscriber(
		kafka.SubscriberConfig{
			Brokers:               brokers,
			Unmarshaler:           kafka.DefaultMarshaler{},
			OverwriteSaramaConfig: subscriberConfig,
			ConsumerGroup:         "cg-" + serviceName,
			OTELEnabled:           true,
		},
		wlogger,
	)
	if err != nil {
		return nil, err
	}

	publisherConfig := sarama.NewConfig()
	publisherConfig.Producer.Return.Successes = true

	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:               brokers,
			Marshaler:             kafka.DefaultMarshaler{},
			OverwriteSaramaConfig: publisherConfig,
			OTELEnabled:           true,
		},
		wlogger,
	)
	if err != nil {
		_ = subscriber.Close()

		return nil, err
	}

	bus := NewWatermillEventBus(publisher, subscriber)
	bus.closers = append(bus.closers, publisher.Close, subscriber.Close)

	return bus, nil
}
