package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/chainmind/order-lifecycle/internal/core/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExecute_PreservesDeclarationOrder(t *testing.T) {
	p := NewPipeline(time.Second, quietLogger())

	var calls []string
	effects := []Effect{
		{Name: "first", Run: func(context.Context) error { calls = append(calls, "first"); return nil }},
		{Name: "second", Run: func(context.Context) error { calls = append(calls, "second"); return nil }},
		{Name: "third", Run: func(context.Context) error { calls = append(calls, "third"); return nil }},
	}

	report := p.Execute(context.Background(), domain.TransitionApproved, "O1", effects)

	if len(report.Outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(report.Outcomes))
	}
	for i, name := range []string{"first", "second", "third"} {
		if calls[i] != name {
			t.Errorf("call %d: expected %s, got %s", i, name, calls[i])
		}
		if report.Outcomes[i].Name != name {
			t.Errorf("outcome %d: expected %s, got %s", i, name, report.Outcomes[i].Name)
		}
	}
}

func TestExecute_FailureDoesNotStopRemainingEffects(t *testing.T) {
	p := NewPipeline(time.Second, quietLogger())

	var secondRan bool
	effects := []Effect{
		{Name: "failing", Run: func(context.Context) error { return errors.New("provider down") }},
		{Name: "surviving", Run: func(context.Context) error { secondRan = true; return nil }},
	}

	report := p.Execute(context.Background(), domain.TransitionDelivered, "O1", effects)

	if !secondRan {
		t.Error("second effect did not run after first failed")
	}
	if report.Outcomes[0].Status != domain.EffectFailed {
		t.Errorf("expected FAILED, got %s", report.Outcomes[0].Status)
	}
	if report.Outcomes[0].Detail != "provider down" {
		t.Errorf("expected failure detail, got %q", report.Outcomes[0].Detail)
	}
	if report.Outcomes[1].Status != domain.EffectSucceeded {
		t.Errorf("expected SUCCEEDED, got %s", report.Outcomes[1].Status)
	}
}

func TestExecute_SkipIsDistinctFromFailure(t *testing.T) {
	p := NewPipeline(time.Second, quietLogger())

	effects := []Effect{
		{Name: "skipped", Run: func(context.Context) error { return Skip("vendor has no email address") }},
		{Name: "failed", Run: func(context.Context) error { return errors.New("boom") }},
	}

	report := p.Execute(context.Background(), domain.TransitionApproved, "O1", effects)

	if report.Outcomes[0].Status != domain.EffectSkipped {
		t.Errorf("expected SKIPPED, got %s", report.Outcomes[0].Status)
	}
	if report.Outcomes[0].Detail != "vendor has no email address" {
		t.Errorf("unexpected skip detail: %q", report.Outcomes[0].Detail)
	}
	if report.Outcomes[1].Status != domain.EffectFailed {
		t.Errorf("expected FAILED, got %s", report.Outcomes[1].Status)
	}
	if report.Skipped() != 1 || report.Failed() != 1 {
		t.Errorf("expected 1 skipped and 1 failed, got %d and %d", report.Skipped(), report.Failed())
	}
}

func TestExecute_PanicIsRecovered(t *testing.T) {
	p := NewPipeline(time.Second, quietLogger())

	var secondRan bool
	effects := []Effect{
		{Name: "panicking", Run: func(context.Context) error { panic("nil map write") }},
		{Name: "surviving", Run: func(context.Context) error { secondRan = true; return nil }},
	}

	report := p.Execute(context.Background(), domain.TransitionSubmitted, "O1", effects)

	if report.Outcomes[0].Status != domain.EffectFailed {
		t.Fatalf("expected FAILED, got %s", report.Outcomes[0].Status)
	}
	if !strings.Contains(report.Outcomes[0].Detail, "panic") {
		t.Errorf("expected panic detail, got %q", report.Outcomes[0].Detail)
	}
	if !secondRan {
		t.Error("effect after panic did not run")
	}
}

func TestExecute_TimeoutSurfacesAsDistinctFailure(t *testing.T) {
	p := NewPipeline(20*time.Millisecond, quietLogger())

	effects := []Effect{
		{Name: "slow", Run: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}},
		{Name: "fast", Run: func(context.Context) error { return nil }},
	}

	report := p.Execute(context.Background(), domain.TransitionDelivered, "O1", effects)

	if report.Outcomes[0].Status != domain.EffectFailed {
		t.Fatalf("expected FAILED, got %s", report.Outcomes[0].Status)
	}
	if !strings.Contains(report.Outcomes[0].Detail, "timed out") {
		t.Errorf("expected timeout detail, got %q", report.Outcomes[0].Detail)
	}
	if report.Outcomes[1].Status != domain.EffectSucceeded {
		t.Errorf("expected fast effect to succeed, got %s", report.Outcomes[1].Status)
	}
}

func TestExecute_EmptyEffectList(t *testing.T) {
	p := NewPipeline(time.Second, quietLogger())

	report := p.Execute(context.Background(), domain.TransitionRejected, "O1", nil)

	if len(report.Outcomes) != 0 {
		t.Errorf("expected empty report, got %d outcomes", len(report.Outcomes))
	}
	if report.Kind != domain.TransitionRejected || report.OrderID != "O1" {
		t.Errorf("report header mismatch: %+v", report)
	}
}
