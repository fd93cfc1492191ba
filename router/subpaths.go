package router

import "fmt"

// Subpath declares one prefix and the handler that owns everything under it.
// An empty prefix declares the default handler.
type Subpath[T any] struct {
	Prefix  string
	Handler T
}

// Subpaths dispatches paths to handlers by prefix, in declaration order.
// A prefix matches the exact path and anything under "prefix/". Immutable
// after construction and safe for concurrent use.
//
//	s, err := router.NewSubpaths(
//		router.Subpath[http.Handler]{Prefix: "/static", Handler: staticFiles},
//		router.Subpath[http.Handler]{Prefix: "/api", Handler: apiApp},
//		router.Subpath[http.Handler]{Prefix: "", Handler: defaultApp},
//	)
type Subpaths[T any] struct {
	entries []Subpath[T]
}

// NewSubpaths validates and stores the declared prefixes. Every non-empty
// prefix must start with "/" and must not end with "/".
func NewSubpaths[T any](entries ...Subpath[T]) (*Subpaths[T], error) {
	for _, e := range entries {
		if e.Prefix == "" {
			continue
		}
		if e.Prefix[0] != '/' {
			return nil, fmt.Errorf("%w: %q must start with '/'", ErrInvalidPrefix, e.Prefix)
		}
		if e.Prefix[len(e.Prefix)-1] == '/' {
			return nil, fmt.Errorf("%w: %q must not end with '/'", ErrInvalidPrefix, e.Prefix)
		}
	}
	return &Subpaths[T]{entries: entries}, nil
}

// Search returns the first matching prefix and its handler. The matched
// prefix lets the caller strip it from the path before dispatching.
func (s *Subpaths[T]) Search(path string) (string, T, bool) {
	for _, e := range s.entries {
		if path == e.Prefix || hasPrefixSlash(path, e.Prefix) {
			return e.Prefix, e.Handler, true
		}
	}
	var zero T
	return "", zero, false
}

func hasPrefixSlash(path, prefix string) bool {
	return len(path) > len(prefix) && path[:len(prefix)] == prefix && path[len(prefix)] == '/'
}
