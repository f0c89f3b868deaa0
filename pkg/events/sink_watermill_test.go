package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillSinkPublishesPhaseStats(t *testing.T) {
	bus := NewBus("telemetry", zerolog.Nop())
	defer func() { _ = bus.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := bus.Subscriber().Subscribe(ctx, bus.Topic())
	require.NoError(t, err)

	stats := &PhaseStats{
		Phase:          "S1901M",
		FractionalYear: 1901.3,
		TotalOrders:    14,
		ValidOrders:    12,
	}
	require.NoError(t, bus.Sink().PublishEvent(stats))

	select {
	case msg := <-messages:
		assert.Equal(t, EventTypePhaseStats, msg.Metadata.Get("event_type"))
		var got PhaseStats
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, "S1901M", got.Phase)
		assert.Equal(t, 14, got.TotalOrders)
		msg.Ack()
	case <-ctx.Done():
		t.Fatal("no telemetry message received")
	}
}

func TestNullSink(t *testing.T) {
	assert.NoError(t, NullSink{}.PublishEvent(&GameEnd{RunID: "r"}))
}

func TestLogSink(t *testing.T) {
	sink := NewLogSink(zerolog.Nop())
	assert.NoError(t, sink.PublishEvent(&PhaseStats{Phase: "F1901M"}))
	assert.NoError(t, sink.PublishEvent(&GameEnd{RunID: "r", FinalPhase: "W1901A"}))
}
