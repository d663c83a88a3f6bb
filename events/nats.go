package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Dosada05/tournament-engine/models"
)

// NATSUpstream publishes events on "<subject>.<event type>" so the
// notification service can subscribe to the kinds it cares about.
type NATSUpstream struct {
	nc      *nats.Conn
	subject string
	logger  *slog.Logger
}

func NewNATSUpstream(natsURL, subject string, logger *slog.Logger) (*NATSUpstream, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name("tournament-engine"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", slog.Any("error", err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", slog.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSUpstream{nc: nc, subject: subject, logger: logger}, nil
}

// SubjectFor returns the subject an event type is published on.
func (u *NATSUpstream) SubjectFor(t models.EventType) string {
	return u.subject + "." + string(t)
}

func (u *NATSUpstream) Publish(ctx context.Context, ev models.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := u.nc.Publish(u.SubjectFor(ev.Type), data); err != nil {
		return fmt.Errorf("failed to publish to NATS: %w", err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (u *NATSUpstream) Close() {
	if u.nc == nil {
		return
	}
	if err := u.nc.Drain(); err != nil {
		u.logger.Warn("nats drain failed", slog.Any("error", err))
		u.nc.Close()
	}
}
