package router

import "fmt"

// Params maps parameter names to their converted values for one matched
// path.
type Params map[string]any

// Route declares one URL template: a pattern with optional typed parameters,
// the handler it resolves to, and an optional unique name for reverse URL
// building.
type Route[T any] struct {
	Pattern string
	Handler T
	Name    string
}

// Router resolves paths to handlers using an ordered list of compiled
// routes. It is immutable after New returns and safe for concurrent use
// without locking.
type Router[T any] struct {
	routes []*compiledRoute[T]
	names  map[string]*compiledRoute[T]
}

// New compiles the declared routes into a Router. Routes are evaluated in
// declaration order; overlapping patterns resolve to whichever was declared
// first, with no specificity scoring.
//
// New fails with a configuration error when a pattern references an unknown
// convertor type, repeats a parameter name, places a catch-all parameter
// anywhere but the end, or reuses a route name.
//
//	r, err := router.New(
//		router.Route[http.Handler]{Pattern: "/users/{id:int}", Handler: userByID, Name: "user"},
//		router.Route[http.Handler]{Pattern: "/users/{name}", Handler: userByName},
//		router.Route[http.Handler]{Pattern: "/static/{filepath:any}", Handler: static},
//	)
func New[T any](routes ...Route[T]) (*Router[T], error) {
	r := &Router[T]{names: make(map[string]*compiledRoute[T])}
	for _, def := range routes {
		compiled, err := compileRoute(def)
		if err != nil {
			return nil, err
		}
		if def.Name != "" {
			if _, dup := r.names[def.Name]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateRouteName, def.Name)
			}
			r.names[def.Name] = compiled
		}
		r.routes = append(r.routes, compiled)
	}
	return r, nil
}

// Match resolves path to the first declared route that accepts it, returning
// the route's handler and converted parameter values. The false result is
// the normal no-match outcome, not an error; the caller maps it to a
// not-found response.
func (r *Router[T]) Match(path string) (T, Params, bool) {
	for _, route := range r.routes {
		if params, ok := route.match(path); ok {
			return route.handler, params, true
		}
	}
	var zero T
	return zero, nil, false
}

// BuildURL renders the named route's pattern with the given parameter
// values — the inverse of Match. It fails with ErrRouteNotFound for an
// unregistered name, ErrMissingParam when the pattern needs a parameter not
// present in params, and ErrBuildParam when a value cannot be rendered by
// its convertor.
func (r *Router[T]) BuildURL(name string, params Params) (string, error) {
	route, ok := r.names[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrRouteNotFound, name)
	}
	return route.build(params)
}
