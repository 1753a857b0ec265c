package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chainmind/order-lifecycle/internal/core/domain"
)

// Effect is one independent downstream action of a transition. Run
// owns all the data it needs; no effect reads another effect's result.
type Effect struct {
	Name string
	Run  func(ctx context.Context) error
}

// SkipError marks an effect whose precondition is absent (no vendor
// email, no portal account). The pipeline converts it to SKIPPED
// instead of FAILED.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string { return e.Reason }

// Skip builds a SkipError with a formatted reason.
func Skip(format string, args ...any) error {
	return &SkipError{Reason: fmt.Sprintf(format, args...)}
}

// Pipeline executes effects sequentially in declaration order, each
// inside an isolated failure boundary with a per-effect timeout.
// Nothing an effect does — error, panic, or timeout — escapes to the
// caller; it only shapes that effect's outcome in the report.
type Pipeline struct {
	timeout time.Duration
	logger  *slog.Logger
}

const defaultEffectTimeout = 10 * time.Second

func NewPipeline(timeout time.Duration, logger *slog.Logger) *Pipeline {
	if timeout <= 0 {
		timeout = defaultEffectTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{timeout: timeout, logger: logger}
}

// Execute runs the effect list and returns the ordered report.
// Sequential on purpose: declaration order determines which diagnostic
// a human reads first, and no effect depends on another's outcome.
func (p *Pipeline) Execute(ctx context.Context, kind domain.TransitionKind, orderID string, effects []Effect) domain.TransitionReport {
	report := domain.TransitionReport{
		Kind:     kind,
		OrderID:  orderID,
		Outcomes: make([]domain.EffectOutcome, 0, len(effects)),
	}

	for _, effect := range effects {
		outcome := p.runOne(ctx, effect)
		report.Outcomes = append(report.Outcomes, outcome)

		switch outcome.Status {
		case domain.EffectSkipped:
			p.logger.Warn("effect skipped",
				"transition", kind, "order_id", orderID,
				"effect", effect.Name, "reason", outcome.Detail)
		case domain.EffectFailed:
			p.logger.Error("effect failed",
				"transition", kind, "order_id", orderID,
				"effect", effect.Name, "error", outcome.Detail)
		}
	}

	return report
}

func (p *Pipeline) runOne(ctx context.Context, effect Effect) domain.EffectOutcome {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return effect.Run(ctx)
	}()

	if err == nil {
		return domain.EffectOutcome{Name: effect.Name, Status: domain.EffectSucceeded}
	}

	var skip *SkipError
	if errors.As(err, &skip) {
		return domain.EffectOutcome{Name: effect.Name, Status: domain.EffectSkipped, Detail: skip.Reason}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.EffectOutcome{
			Name:   effect.Name,
			Status: domain.EffectFailed,
			Detail: fmt.Sprintf("timed out after %s", p.timeout),
		}
	}

	return domain.EffectOutcome{Name: effect.Name, Status: domain.EffectFailed, Detail: err.Error()}
}
