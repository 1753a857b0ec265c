package domain

// EffectStatus is the terminal state of one fan-out effect.
type EffectStatus string

const (
	// EffectSucceeded means the side effect completed.
	EffectSucceeded EffectStatus = "SUCCEEDED"
	// EffectFailed means the side effect was attempted and errored;
	// the error never unwinds past the pipeline.
	EffectFailed EffectStatus = "FAILED"
	// EffectSkipped means the effect determined its precondition was
	// absent (missing vendor email, no portal account) before
	// attempting anything. Expected absence, not an error.
	EffectSkipped EffectStatus = "SKIPPED"
)

// EffectOutcome records what happened to one named effect. Detail is
// empty on success and carries the skip reason or failure message
// otherwise.
type EffectOutcome struct {
	Name   string       `json:"name"`
	Status EffectStatus `json:"status"`
	Detail string       `json:"detail,omitempty"`
}

// TransitionReport is the orchestrator's return value: the ordered
// outcomes of one transition's fan-out. It is observational only and
// never blocks or unwinds the caller.
type TransitionReport struct {
	Kind     TransitionKind  `json:"kind"`
	OrderID  string          `json:"order_id"`
	Outcomes []EffectOutcome `json:"outcomes"`
}

func (r TransitionReport) count(status EffectStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

func (r TransitionReport) Succeeded() int { return r.count(EffectSucceeded) }
func (r TransitionReport) Failed() int    { return r.count(EffectFailed) }
func (r TransitionReport) Skipped() int   { return r.count(EffectSkipped) }
