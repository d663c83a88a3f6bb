package events

import (
	"log/slog"
)

// LogEvents writes every event delivered to sub as a structured log line
// until the hub closes the subscriber.
func LogEvents(sub *Subscriber, logger *slog.Logger) {
	for ev := range sub.Send {
		attrs := []any{
			slog.String("type", string(ev.Type)),
			slog.String("tournament_id", ev.TournamentID),
		}
		if ev.MatchID != "" {
			attrs = append(attrs, slog.String("match_id", ev.MatchID))
		}
		if ev.Round != 0 {
			attrs = append(attrs, slog.Int("round", ev.Round))
		}
		logger.Info("domain event", attrs...)
	}
	logger.Debug("event log subscriber closed", slog.String("room", sub.Room))
}
