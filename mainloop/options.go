package mainloop

import "github.com/joeycumines/go-ioloop/logfacade"

// loopOptions holds configuration resolved at New time.
type loopOptions struct {
	logDomain    *logfacade.Domain
	abortLevel   logfacade.Level
	maxFD        int
	signalDomain *logfacade.Domain
}

// Option configures a Loop at construction time.
type Option interface {
	applyLoop(*loopOptions) error
}

type loopOptionFunc func(*loopOptions) error

func (f loopOptionFunc) applyLoop(o *loopOptions) error { return f(o) }

// WithLogDomain overrides the logfacade.Domain the loop logs through.
// The default is a package-registered "mainloop" domain.
func WithLogDomain(d *logfacade.Domain) Option {
	return loopOptionFunc(func(o *loopOptions) error {
		o.logDomain = d
		return nil
	})
}

// WithAbortLevel sets logfacade's process-wide abort level (see
// logfacade.SetAbortLevel) as of this Loop's construction. Most callers
// never need this; it exists for tests that want to observe a Critical
// log without its default abort action firing.
func WithAbortLevel(level logfacade.Level) Option {
	return loopOptionFunc(func(o *loopOptions) error {
		o.abortLevel = level
		return nil
	})
}

// WithMaxFD bounds the highest file descriptor the loop will accept in
// AddFD. The default is 65535, matching the container package's fixed
// capacity ceiling.
func WithMaxFD(max int) Option {
	return loopOptionFunc(func(o *loopOptions) error {
		o.maxFD = max
		return nil
	})
}

// WithSignalLogDomain overrides the domain used for the "recognised but
// otherwise unhandled signal" debug log line. The default is a
// package-registered "mainloop.signal" domain.
func WithSignalLogDomain(d *logfacade.Domain) Option {
	return loopOptionFunc(func(o *loopOptions) error {
		o.signalDomain = d
		return nil
	})
}

func resolveOptions(opts []Option) (*loopOptions, error) {
	cfg := &loopOptions{
		logDomain:    logDomain,
		signalDomain: signalLogDomain,
		abortLevel:   logfacade.Critical,
		maxFD:        65535,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyLoop(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
