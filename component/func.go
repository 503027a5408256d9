package component

import "context"

// Func adapts plain start/stop functions to Component. Nil functions are
// no-ops and the component always reports healthy once started.
type Func struct {
	ID      string
	Desc    Description
	StartFn func(ctx context.Context) error
	StopFn  func(ctx context.Context) error

	started bool
}

var (
	_ Component   = (*Func)(nil)
	_ Describable = (*Func)(nil)
)

// Name returns the registration name.
func (f *Func) Name() string { return f.ID }

// Start runs StartFn.
func (f *Func) Start(ctx context.Context) error {
	if f.StartFn != nil {
		if err := f.StartFn(ctx); err != nil {
			return err
		}
	}
	f.started = true
	return nil
}

// Stop runs StopFn.
func (f *Func) Stop(ctx context.Context) error {
	f.started = false
	if f.StopFn == nil {
		return nil
	}
	return f.StopFn(ctx)
}

// Health reports healthy while started.
func (f *Func) Health(_ context.Context) Health {
	if !f.started {
		return Health{Name: f.ID, Status: StatusUnhealthy, Message: "not started"}
	}
	return Health{Name: f.ID, Status: StatusHealthy}
}

// Describe returns Desc.
func (f *Func) Describe() Description { return f.Desc }
