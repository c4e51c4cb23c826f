package incidents

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"opsalert/internal/events"
	"opsalert/internal/metrics"
)

// Store persists an incident keyed by IncidentID. Put overwrites.
type Store interface {
	Put(ctx context.Context, inc *Incident) error
}

// Reader is implemented by stores that back the read API.
type Reader interface {
	Get(ctx context.Context, id string) (*Incident, error)
	List(ctx context.Context, f ListFilter) ([]Incident, error)
}

// Notifier sends one message to a pre-configured destination.
type Notifier interface {
	Publish(ctx context.Context, topic, subject, body string) error
}

var tracer = otel.Tracer("opsalert/internal/incidents")

type Processor struct {
	Rules    *RuleSet
	Store    Store
	Notifier Notifier
	Topic    string
	Logger   *slog.Logger
	Metrics  *metrics.Metrics

	// Now and NewID are replaced in tests.
	Now   func() time.Time
	NewID func() string
}

func NewProcessor(rules *RuleSet, store Store, notifier Notifier, topic string, logger *slog.Logger, m *metrics.Metrics) *Processor {
	if rules == nil {
		rules = DefaultRuleSet()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		Rules:    rules,
		Store:    store,
		Notifier: notifier,
		Topic:    topic,
		Logger:   logger,
		Metrics:  m,
		Now:      func() time.Time { return time.Now().UTC() },
		NewID:    uuid.NewString,
	}
}

// Classify derives the classification for one event.
func (p *Processor) Classify(e events.Event) Classification {
	return p.Rules.Classify(e.ErrorTypeOrDefault())
}

// Process classifies the event, writes the incident and publishes the alert.
// A failed write skips the publish. A failed publish leaves the written
// record in place and still fails the call.
func (p *Processor) Process(ctx context.Context, e events.Event) (Result, error) {
	start := time.Now()
	defer p.Metrics.ObserveDuration(start)

	ctx, span := tracer.Start(ctx, "incidents.Process")
	defer span.End()

	inc := p.newIncident(e)
	span.SetAttributes(
		attribute.String("incident.id", inc.IncidentID),
		attribute.String("incident.severity", string(inc.Severity)),
	)
	log := p.logger().With("incident_id", inc.IncidentID, "event_id", e.ID)

	if err := p.Store.Put(ctx, inc); err != nil {
		p.Metrics.StageFailed("store")
		fail(span, err)
		log.Error("store incident", "err", err)
		return Result{}, fmt.Errorf("%w %s: %w", ErrPersist, inc.IncidentID, err)
	}

	if err := p.Notifier.Publish(ctx, p.Topic, Subject(inc), Message(inc)); err != nil {
		p.Metrics.StageFailed("notify")
		fail(span, err)
		log.Error("publish incident alert", "err", err, "persisted", true)
		return Result{}, fmt.Errorf("%w %s: %w", ErrNotify, inc.IncidentID, err)
	}

	p.Metrics.IncidentProcessed(string(inc.Severity))
	log.Info("incident processed",
		"severity", inc.Severity,
		"source", inc.Source,
		"detail_type", inc.DetailType,
	)
	return Result{Status: StatusAlertSent, IncidentID: inc.IncidentID}, nil
}

func (p *Processor) newIncident(e events.Event) *Incident {
	c := p.Classify(e)
	return &Incident{
		IncidentID:     p.NewID(),
		Timestamp:      p.Now(),
		Source:         e.SourceOrDefault(),
		DetailType:     e.DetailTypeOrDefault(),
		Severity:       c.Severity,
		Summary:        c.Summary,
		Recommendation: c.Recommendation,
	}
}

func (p *Processor) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
