package events

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewPublisherWithoutURLLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p, err := NewPublisher("", 0, zap.New(core))
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	defer p.Close()

	if err := p.Publish(context.Background(), SubjectJobCreated, JobCreated{JobID: "j1", Title: "ML Engineer"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	entries := logs.FilterMessage("event").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 logged event, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["subject"]; got != SubjectJobCreated {
		t.Fatalf("unexpected subject %v", got)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	_ = r.Publish(context.Background(), SubjectCompanyRegistered, CompanyRegistered{CompanyID: "c1"})
	_ = r.Publish(context.Background(), SubjectJobCreated, JobCreated{JobID: "j1"})

	subjects := r.Subjects()
	if len(subjects) != 2 || subjects[0] != SubjectCompanyRegistered || subjects[1] != SubjectJobCreated {
		t.Fatalf("unexpected subjects %v", subjects)
	}
	if ev, ok := r.Messages()[0].Event.(CompanyRegistered); !ok || ev.CompanyID != "c1" {
		t.Fatalf("unexpected payload %#v", r.Messages()[0].Event)
	}
}
