package logfacade

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// SinkFunc receives one formatted log record: userData is whatever was
// passed to SetSinkUserData, domain/level/msg the record itself, and
// file/function/line the call site of the Critical/Error/Warn/Info/
// Debug method that produced it.
type SinkFunc func(userData any, domain *Domain, level Level, file, function string, line int, msg string)

var (
	sinkMu   sync.Mutex
	sink     SinkFunc = defaultSink
	sinkUser any

	abortMu    sync.RWMutex
	abortLevel Level = Critical
	onAbort          = func() { os.Exit(1) }
)

// defaultSink writes "LEVEL:domain file:line function() message\n" to
// stderr.
func defaultSink(_ any, domain *Domain, level Level, file, function string, line int, msg string) {
	var b strings.Builder
	b.WriteString(strings.ToUpper(level.String()))
	b.WriteByte(':')
	b.WriteString(domain.Name())
	b.WriteByte(' ')
	b.WriteString(file)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(line))
	b.WriteByte(' ')
	b.WriteString(function)
	b.WriteString("() ")
	b.WriteString(msg)
	b.WriteByte('\n')
	os.Stderr.WriteString(b.String())
}

// SetSink installs fn as the process-wide sink. Passing nil restores
// the default stderr sink.
func SetSink(fn SinkFunc) {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	if fn == nil {
		fn = defaultSink
	}
	sink = fn
}

// SetSinkUserData sets the opaque value threaded through to every sink
// call as its first argument, mirroring the reference implementation's
// void* user_data parameter to its log-function setter.
func SetSinkUserData(v any) {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	sinkUser = v
}

// SetAbortLevel changes the level at or below which Log triggers
// OnAbort after the sink call returns. The default is Critical.
func SetAbortLevel(l Level) {
	abortMu.Lock()
	defer abortMu.Unlock()
	abortLevel = l
}

// SetOnAbort overrides the abort action (the default calls os.Exit(1)).
// Tests should install a no-op or panic-based replacement so that a
// Critical log line in a test does not kill the test binary.
func SetOnAbort(fn func()) {
	abortMu.Lock()
	defer abortMu.Unlock()
	if fn == nil {
		fn = func() { os.Exit(1) }
	}
	onAbort = fn
}

// Log emits msg on domain d at level l if the domain's filter allows
// it, then invokes the abort action if l is at or below the configured
// abort level. The errno observed by the caller (e.g. a poll(2) or
// waitpid(2) failure reported immediately before logging it) is
// snapshotted and restored around the sink call, so that logging never
// clobbers errno inspected by code further up the call stack.
func (d *Domain) Log(l Level, msg string) {
	if !d.Enabled(l) {
		return
	}
	file, function, line := callerInfo()

	saved, _ := lastErrno()
	sinkMu.Lock()
	fn := sink
	user := sinkUser
	sinkMu.Unlock()
	fn(user, d, l, file, function, line, msg)
	setLastErrno(saved)

	abortMu.RLock()
	threshold := abortLevel
	action := onAbort
	abortMu.RUnlock()
	if l <= threshold {
		action()
	}
}

// callerInfo reports the file, short function name, and line of the
// Critical/Error/Warn/Info/Debug call that reached Log: three frames
// up from here (this function, Log, then the convenience wrapper)
// lands on the call site the message actually came from.
func callerInfo() (file, function string, line int) {
	pc, file, line, ok := runtime.Caller(3)
	if !ok {
		return "???", "???", 0
	}
	file = filepath.Base(file)
	function = "???"
	if fn := runtime.FuncForPC(pc); fn != nil {
		name := fn.Name()
		if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
			name = name[idx+1:]
		}
		function = name
	}
	return file, function, line
}

// Critical logs msg at Critical severity.
func (d *Domain) Critical(msg string) { d.Log(Critical, msg) }

// Error logs msg at Error severity.
func (d *Domain) Error(msg string) { d.Log(Error, msg) }

// Warn logs msg at Warning severity.
func (d *Domain) Warn(msg string) { d.Log(Warning, msg) }

// Info logs msg at Info severity.
func (d *Domain) Info(msg string) { d.Log(Info, msg) }

// Debug logs msg at Debug severity.
func (d *Domain) Debug(msg string) { d.Log(Debug, msg) }
