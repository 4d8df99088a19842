package source

import (
	"context"
	"time"
)

// Sink receives readings. *state.Store satisfies it.
type Sink interface {
	SetValue(v float64)
	UpdateSource(name string, err error, at time.Time)
}

type pollLogger interface {
	Warnf(component string, format string, args ...interface{})
}

// Poller reads Source every Interval and writes the value into Sink.
// Failed reads leave the target untouched and are recorded on the sink.
type Poller struct {
	Source   Source
	Sink     Sink
	Interval time.Duration
	Logger   pollLogger
}

// Run polls until ctx is done. The first read happens immediately.
func (p *Poller) Run(ctx context.Context) {
	interval := p.Interval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr string
	for {
		err := p.Poll(ctx)
		if p.Logger != nil {
			switch {
			case err != nil && err.Error() != lastErr:
				p.Logger.Warnf("source", "%s read failed: %v", p.Source.Name(), err)
			case err == nil && lastErr != "":
				p.Logger.Warnf("source", "%s recovered", p.Source.Name())
			}
		}
		lastErr = ""
		if err != nil {
			lastErr = err.Error()
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Poll performs one read.
func (p *Poller) Poll(ctx context.Context) error {
	v, err := p.Source.Read(ctx)
	if err == nil {
		p.Sink.SetValue(v)
	}
	p.Sink.UpdateSource(p.Source.Name(), err, time.Now())
	return err
}
