package mainloop

import "github.com/joeycumines/go-ioloop/logfacade"

// Package-registered logging domains, following the per-subsystem
// domain convention: each package that logs anything registers its own
// named domain at init rather than sharing one global channel.
var (
	logDomain       = logfacade.NewDomain("mainloop", logfacade.Warning)
	signalLogDomain = logfacade.NewDomain("mainloop.signal", logfacade.Warning)
	pollLogDomain   = logfacade.NewDomain("mainloop.poll", logfacade.Warning)
)
