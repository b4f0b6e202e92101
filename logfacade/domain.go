package logfacade

import "sync"

// Domain is a named logging channel with its own level filter and an
// optional colour hint for terminal sinks. Subsystems register one
// Domain at init time (e.g. "mainloop", "mainloop.poll", "memdesc") and
// log through it directly; there is no hidden global logger call
// underneath.
type Domain struct {
	mu     sync.RWMutex
	name   string
	level  Level
	colour string
}

// Global is the fallback domain used by code that has no more specific
// domain of its own. Its default level is Warning.
var Global = NewDomain("global", Warning)

var (
	registryMu sync.RWMutex
	registry   = map[string]*Domain{}
)

// NewDomain creates and registers a new named Domain at the given
// default level. Registering the same name twice returns the
// previously registered Domain rather than creating a duplicate, so
// repeated init() registration across packages is harmless.
func NewDomain(name string, level Level) *Domain {
	registryMu.Lock()
	defer registryMu.Unlock()
	if d, ok := registry[name]; ok {
		return d
	}
	d := &Domain{name: name, level: level}
	registry[name] = d
	return d
}

// Lookup returns the registered Domain with the given name, if any.
func Lookup(name string) (*Domain, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := registry[name]
	return d, ok
}

// Name returns the domain's registered name.
func (d *Domain) Name() string {
	return d.name
}

// Level returns the domain's current filter level.
func (d *Domain) Level() Level {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.level
}

// SetLevel changes the domain's filter level.
func (d *Domain) SetLevel(l Level) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.level = l
}

// SetColour sets a terminal colour hint for sinks that render one (not
// interpreted by logfacade itself).
func (d *Domain) SetColour(c string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.colour = c
}

// Colour returns the domain's colour hint, or "" if unset.
func (d *Domain) Colour() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.colour
}

// Enabled reports whether a message at level l would be emitted by this
// domain, i.e. whether l is at least as severe as the domain's filter
// (numerically l <= domain level, since severity descends with
// increasing Level).
func (d *Domain) Enabled(l Level) bool {
	return l <= d.Level()
}
