package events

import (
	"github.com/rs/zerolog"
)

// LogSink writes events to a zerolog logger, the default telemetry
// destination when no message bus is configured.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) PublishEvent(event Event) error {
	switch e := event.(type) {
	case *PhaseStats:
		s.logger.Info().
			Str("phase", e.Phase).
			Float64("year_fractional", e.FractionalYear).
			Int("orders_total", e.TotalOrders).
			Int("orders_valid", e.ValidOrders).
			Float64("orders_valid_ratio_avg", e.ValidRatioAvg).
			Int("messages_total", e.MessagesSent).
			Float64("completion_time_sec_avg", e.CompletionTimeAvgSec).
			Msg("phase statistics")
	case *GameEnd:
		s.logger.Info().
			Str("run_id", e.RunID).
			Str("final_phase", e.FinalPhase).
			Bool("forced", e.Forced).
			Msg("game finished")
	default:
		s.logger.Info().Str("event_type", event.Type()).Msg("telemetry event")
	}
	return nil
}

var _ Sink = (*LogSink)(nil)
