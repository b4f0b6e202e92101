package logfacade

import (
	"fmt"
	"strings"
)

// ParseDirective parses a level-directive string of the form
// "DOMAIN:LEVEL,DOMAIN:LEVEL,...". The bare keyword "global" (or an
// empty domain name before the colon) addresses the Global domain. An
// entry with no colon is treated as a bare level applied to Global, so
// that a directive string of just "DEBUG" raises every message up to
// Debug severity on the Global domain.
//
// Entries whose level does not parse are skipped; an error is returned
// only when the directive has entries and none of them parsed.
//
// Unregistered domain names are accepted: a Domain is registered for
// them at the directive's level, and a later NewDomain call for the
// same name returns that Domain.
func ParseDirective(directive string) error {
	directive = strings.TrimSpace(directive)
	if directive == "" {
		return nil
	}
	parsed := 0
	var firstErr error
	for _, entry := range strings.Split(directive, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		domainName := "global"
		levelStr := entry
		if idx := strings.IndexByte(entry, ':'); idx >= 0 {
			name := strings.TrimSpace(entry[:idx])
			if name != "" {
				domainName = name
			}
			levelStr = strings.TrimSpace(entry[idx+1:])
		}
		level, err := ParseLevel(levelStr)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("logfacade: directive %q: %w", entry, err)
			}
			continue
		}
		d := NewDomain(domainName, level)
		d.SetLevel(level)
		parsed++
	}
	if parsed == 0 && firstErr != nil {
		return firstErr
	}
	return nil
}
