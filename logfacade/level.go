// Package logfacade is the domain-scoped logging façade used throughout
// the core: named domains, per-domain level filtering, and a single
// process-wide sink. It is the only logging surface the rest of the
// module uses.
package logfacade

import (
	"fmt"
	"strconv"
)

// Level is a logging severity, ascending in severity from Debug to
// Critical (the inverse of typical syslog ordering, matching the
// domain's own convention: Critical is the most severe and is numbered
// lowest so it always sorts first).
type Level int

const (
	Critical Level = iota
	Error
	Warning
	Info
	Debug
)

func (l Level) String() string {
	switch l {
	case Critical:
		return "critical"
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Debug:
		return "debug"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel accepts either a case-sensitive symbolic name (CRI, CRIT,
// CRITICAL, ERR, ERROR, WRN, WARN, WARNING, INF, INFO, DBG, DEBUG) or a
// decimal integer, with no surrounding whitespace tolerated. An
// out-of-range integer clamps to Debug rather than erroring, matching
// the reference implementation's "anything noisier than the noisiest
// level is still the noisiest level" treatment of unrecognised
// verbosity knobs.
func ParseLevel(s string) (Level, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < int(Critical) {
			return Critical, nil
		}
		if n > int(Debug) {
			return Debug, nil
		}
		return Level(n), nil
	}
	switch s {
	case "CRI", "CRIT", "CRITICAL":
		return Critical, nil
	case "ERR", "ERROR":
		return Error, nil
	case "WRN", "WARN", "WARNING":
		return Warning, nil
	case "INF", "INFO":
		return Info, nil
	case "DBG", "DEBUG":
		return Debug, nil
	default:
		return 0, fmt.Errorf("logfacade: unrecognised level %q", s)
	}
}
