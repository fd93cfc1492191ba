// Package router compiles declarative URL templates with typed parameters
// into matchers, resolves incoming paths to handlers, and reconstructs URLs
// from route names and parameter values.
//
// Templates mix literal text with {name} or {name:type} parameter tokens:
//
//	r, err := router.New(
//		router.Route[http.Handler]{Pattern: "/", Handler: home, Name: "home"},
//		router.Route[http.Handler]{Pattern: "/users/{id:int}", Handler: userByID, Name: "user"},
//		router.Route[http.Handler]{Pattern: "/users/{name}", Handler: userByName},
//		router.Route[http.Handler]{Pattern: "/files/{filepath:any}", Handler: files},
//	)
//	if err != nil {
//		log.Fatal(err) // configuration errors surface before traffic is accepted
//	}
//
//	handler, params, ok := r.Match("/users/42")
//	// handler == userByID, params == router.Params{"id": 42}
//
//	url, err := r.BuildURL("user", router.Params{"id": 42})
//	// url == "/users/42"
//
// Routes are evaluated in declaration order and the first match wins; there
// is no specificity scoring. A parameter whose convertor rejects its segment
// (for example "abc" against {id:int}) simply lets evaluation fall through
// to later routes. A type-less parameter uses the str convertor, which
// matches anything up to the next "/". The any convertor matches the rest of
// the path including separators and must be the final token of its pattern.
//
// Built-in convertor types: str, int, decimal, uuid, date, any. Additional
// convertors implement the Convertor interface and are installed with
// RegisterConvertor before the patterns referencing them are compiled.
//
// Subpaths and Hosts cover the two coarser dispatch styles: prefix routing
// between sub-applications and host-based routing. Both follow the same
// declaration-order, first-match-wins rule.
//
// A Router (like Subpaths and Hosts) is built once at startup and is
// read-only afterwards, so any number of goroutines may call Match and
// BuildURL concurrently without locking.
package router
