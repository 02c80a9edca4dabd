// Package events publishes domain events after successful writes.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/diewo77/ai-talent-hub/internal/apperr"
	"github.com/diewo77/ai-talent-hub/internal/telemetry"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("ai-talent-hub/events")

const (
	SubjectCompanyRegistered    = "company.registered"
	SubjectJobCreated           = "job.created"
	SubjectJobStatusChanged     = "job.status_changed"
	SubjectApplicationSubmitted = "application.submitted"
)

type CompanyRegistered struct {
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	AdminID   string `json:"admin_id"`
}

type JobCreated struct {
	JobID     string `json:"job_id"`
	CompanyID string `json:"company_id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
}

type JobStatusChanged struct {
	JobID     string `json:"job_id"`
	CompanyID string `json:"company_id"`
	From      string `json:"from"`
	To        string `json:"to"`
}

type ApplicationSubmitted struct {
	ApplicationID string `json:"application_id"`
	JobID         string `json:"job_id"`
	CompanyID     string `json:"company_id"`
	CandidateID   string `json:"candidate_id"`
}

// Publisher sends events. Publishing is best effort: callers log failures
// and never roll back the write that produced the event.
type Publisher interface {
	Publish(ctx context.Context, subject string, event any) error
	Close()
}

type natsPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

// NewPublisher connects to NATS. An empty url yields a publisher that only logs.
func NewPublisher(url string, connTimeout time.Duration, logger *zap.Logger) (Publisher, error) {
	if url == "" {
		return NewLogPublisher(logger), nil
	}
	opts := []nats.Option{
		nats.Timeout(connTimeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, apperr.Internal("connecting to NATS", err)
	}
	return &natsPublisher{conn: conn, logger: logger}, nil
}

func (p *natsPublisher) Publish(ctx context.Context, subject string, event any) error {
	_, span := tracer.Start(ctx, "Publish")
	defer span.End()

	data, err := json.Marshal(event)
	if err != nil {
		return telemetry.RecordError(span, apperr.Internal("marshaling event", err))
	}
	span.SetAttributes(
		telemetry.String("nats.subject", subject),
		telemetry.Int("message.size", len(data)),
	)
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Error("failed to publish event", zap.String("subject", subject), zap.Error(err))
		return telemetry.RecordError(span, apperr.Internal("publishing to NATS", err))
	}
	p.logger.Debug("published event", zap.String("subject", subject))
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}

type logPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher returns a publisher that writes events to the log.
func NewLogPublisher(logger *zap.Logger) Publisher {
	return &logPublisher{logger: logger}
}

func (p *logPublisher) Publish(_ context.Context, subject string, event any) error {
	p.logger.Info("event", zap.String("subject", subject), zap.Any("payload", event))
	return nil
}

func (p *logPublisher) Close() {}

// Message is one event captured by a Recorder.
type Message struct {
	Subject string
	Event   any
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Publish(_ context.Context, subject string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Subject: subject, Event: event})
	return nil
}

func (r *Recorder) Close() {}

// Messages returns a copy of the recorded events.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Subjects returns the recorded subjects in publish order.
func (r *Recorder) Subjects() []string {
	msgs := r.Messages()
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Subject
	}
	return out
}
