// Package natspub publishes domain events to NATS as JSON messages.
package natspub

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

const DefaultSubjectPrefix = "parcelbridge"

// Metrics is the hook the publisher reports to. *metrics.Collector implements it.
type Metrics interface {
	PublishedInc()
	PublishErrInc()
	PublishObserve(d time.Duration)
	SetNATSConnected(connected bool)
}

type conn interface {
	Publish(subject string, data []byte) error
	Drain() error
	Close()
}

type Publisher struct {
	nc      conn
	prefix  string
	metrics Metrics
	logger  *slog.Logger
}

func Connect(url, prefix string, m Metrics, logger *slog.Logger) (*Publisher, error) {
	if url == "" {
		return nil, errors.New("nats url is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "nats")

	setConnected := func(v bool) {
		if m != nil {
			m.SetNATSConnected(v)
		}
	}

	nc, err := nats.Connect(url,
		nats.Name("parcelbridge"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			setConnected(false)
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			setConnected(true)
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			setConnected(false)
			logger.Info("nats closed")
		}),
	)
	if err != nil {
		return nil, err
	}
	setConnected(true)

	return newPublisher(nc, prefix, m, logger), nil
}

func newPublisher(nc conn, prefix string, m Metrics, logger *slog.Logger) *Publisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{nc: nc, prefix: prefix, metrics: m, logger: logger}
}

// Publish sends payload as JSON on prefix.subject.
func (p *Publisher) Publish(ctx context.Context, subject string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	full := p.subject(subject)
	start := time.Now()
	err = p.nc.Publish(full, b)
	if p.metrics != nil {
		p.metrics.PublishObserve(time.Since(start))
		if err != nil {
			p.metrics.PublishErrInc()
		} else {
			p.metrics.PublishedInc()
		}
	}
	if err != nil {
		return err
	}
	p.logger.DebugContext(ctx, "event published", "subject", full, "bytes", len(b))
	return nil
}

func (p *Publisher) Close() {
	if p.nc == nil {
		return
	}
	if err := p.nc.Drain(); err != nil {
		p.logger.Warn("nats drain failed", "error", err)
	}
	p.nc.Close()
}

func (p *Publisher) subject(rel string) string {
	parts := strings.Split(rel, ".")
	tokens := make([]string, 0, len(parts)+1)
	tokens = append(tokens, p.prefix)
	for _, part := range parts {
		tokens = append(tokens, subjectToken(part))
	}
	return strings.Join(tokens, ".")
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// tokens cannot contain whitespace or wildcards
	repl := strings.NewReplacer(" ", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}

// Discard drops every event. Used when no NATS url is configured.
type Discard struct{}

func (Discard) Publish(ctx context.Context, _ string, _ any) error {
	return ctx.Err()
}
