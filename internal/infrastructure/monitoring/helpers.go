package monitoring

import (
	"errors"
	"time"
)

// Invocation statuses.
const (
	StatusOK      = "ok"
	StatusUnknown = "unknown"
	StatusFailed  = "failed"
)

// Timer measures an invocation
type Timer struct {
	start   time.Time
	metrics *Metrics
	kind    string
}

// NewTimer starts timing an invocation of kind ("command" or "function").
// A nil metrics yields a timer whose Stop does nothing.
func NewTimer(metrics *Metrics, kind string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		kind:    kind,
	}
}

// Stop records the invocation with a status derived from err
func (t *Timer) Stop(err error, unknown ...error) {
	if t.metrics == nil {
		return
	}

	status := StatusOK
	if err != nil {
		status = StatusFailed
		for _, u := range unknown {
			if errors.Is(err, u) {
				status = StatusUnknown
				break
			}
		}
	}
	t.metrics.RecordInvocation(t.kind, status, time.Since(t.start))
}
