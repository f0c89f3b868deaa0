package events

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// WatermillSink publishes events to a watermill Publisher so multiple
// subscribers (dashboards, recorders) can consume them off the bus.
type WatermillSink struct {
	publisher message.Publisher
	topic     string
}

func NewWatermillSink(publisher message.Publisher, topic string) *WatermillSink {
	return &WatermillSink{
		publisher: publisher,
		topic:     topic,
	}
}

// PublishEvent serializes the event to JSON and publishes it, with the
// event type in the message metadata.
func (w *WatermillSink) PublishEvent(event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event to JSON")
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_type", event.Type())

	if err := w.publisher.Publish(w.topic, msg); err != nil {
		log.Error().Err(err).Str("topic", w.topic).Msg("failed to publish event")
		return err
	}

	log.Trace().Str("topic", w.topic).Str("event_type", event.Type()).Msg("published event")
	return nil
}

var _ Sink = (*WatermillSink)(nil)

// Bus bundles an in-process gochannel pub/sub with a sink over one topic.
type Bus struct {
	pubsub *gochannel.GoChannel
	topic  string
}

func NewBus(topic string, logger zerolog.Logger) *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{}, NewWatermillLogger(logger)),
		topic:  topic,
	}
}

func (b *Bus) Sink() *WatermillSink {
	return NewWatermillSink(b.pubsub, b.topic)
}

func (b *Bus) Subscriber() message.Subscriber {
	return b.pubsub
}

func (b *Bus) Topic() string {
	return b.topic
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}
