package port

import "context"

type RetrainTrigger interface {
	// TriggerRetrain asks the forecasting service to rebuild its
	// model. Fire-and-forget from the orchestrator's perspective; the
	// result is observed only for logging.
	TriggerRetrain(ctx context.Context) error
}
