package service

import (
	"context"
	"time"
)

// ResponseDelay is a deferred-completion policy applied after selected
// mutations commit and before their responses are emitted. It exists to
// normalize perceived latency, so it runs with no lock or store resource
// held; a zero duration disables it.
type ResponseDelay struct {
	Duration time.Duration
}

// Wait blocks for the configured duration or until the request context is
// done, whichever comes first. The mutation has already committed by the
// time Wait is called, so cancellation only skips the cosmetic delay.
func (d ResponseDelay) Wait(ctx context.Context) {
	if d.Duration <= 0 {
		return
	}

	timer := time.NewTimer(d.Duration)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
