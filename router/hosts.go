package router

import (
	"fmt"
	"regexp"
)

// Host declares one host pattern (a regular expression matched against the
// whole host string) and its handler.
type Host[T any] struct {
	Pattern string
	Handler T
}

// Hosts dispatches requests to handlers by host name, in declaration order.
// Immutable after construction and safe for concurrent use.
//
//	h, err := router.NewHosts(
//		router.Host[http.Handler]{Pattern: `static\.example\.com`, Handler: staticFiles},
//		router.Host[http.Handler]{Pattern: `(www\.)?example\.com`, Handler: defaultApp},
//	)
type Hosts[T any] struct {
	entries []compiledHost[T]
}

type compiledHost[T any] struct {
	re      *regexp.Regexp
	handler T
}

// NewHosts compiles the declared host patterns. Patterns must fully match
// the host string for their handler to be selected.
func NewHosts[T any](hosts ...Host[T]) (*Hosts[T], error) {
	h := &Hosts[T]{entries: make([]compiledHost[T], 0, len(hosts))}
	for _, def := range hosts {
		re, err := regexp.Compile(`\A(?:` + def.Pattern + `)\z`)
		if err != nil {
			return nil, fmt.Errorf("%w: host %q: %v", ErrInvalidPattern, def.Pattern, err)
		}
		h.entries = append(h.entries, compiledHost[T]{re: re, handler: def.Handler})
	}
	return h, nil
}

// Search returns the handler of the first pattern fully matching host.
func (h *Hosts[T]) Search(host string) (T, bool) {
	for _, e := range h.entries {
		if e.re.MatchString(host) {
			return e.handler, true
		}
	}
	var zero T
	return zero, false
}
