package router

import (
	"fmt"
	"regexp"
	"strings"
)

// Matches parameter tokens in patterns, e.g. "{param}" and "{param:int}".
var paramRE = regexp.MustCompile(`\{([A-Za-z_]\w*)(?::(\w+))?\}`)

type segment struct {
	// literal holds verbatim pattern text; empty when this is a parameter.
	literal string
	param   string
	conv    Convertor
}

type compiledRoute[T any] struct {
	pattern  string
	name     string
	handler  T
	segments []segment
	re       *regexp.Regexp
	// params lists parameter names in pattern order, paired with their
	// convertors for match-time conversion.
	params []paramSpec
}

type paramSpec struct {
	name string
	conv Convertor
}

func compileRoute[T any](def Route[T]) (*compiledRoute[T], error) {
	route := &compiledRoute[T]{
		pattern: def.Pattern,
		name:    def.Name,
		handler: def.Handler,
	}

	var re strings.Builder
	re.WriteString(`\A`)

	seen := make(map[string]bool)
	idx := 0
	matches := paramRE.FindAllStringSubmatchIndex(def.Pattern, -1)
	for i, m := range matches {
		if literal := def.Pattern[idx:m[0]]; literal != "" {
			route.segments = append(route.segments, segment{literal: literal})
			re.WriteString(regexp.QuoteMeta(literal))
		}

		name := def.Pattern[m[2]:m[3]]
		convType := "str"
		if m[4] != -1 {
			convType = def.Pattern[m[4]:m[5]]
		}
		conv, ok := lookupConvertor(convType)
		if !ok {
			return nil, fmt.Errorf("%w: %q in pattern %q", ErrUnknownConvertor, convType, def.Pattern)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %q in pattern %q", ErrDuplicateParam, name, def.Pattern)
		}
		seen[name] = true

		if convType == catchAllType && (i != len(matches)-1 || m[1] != len(def.Pattern)) {
			return nil, fmt.Errorf("%w: catch-all parameter %q must be the final segment of %q",
				ErrInvalidPattern, name, def.Pattern)
		}

		route.segments = append(route.segments, segment{param: name, conv: conv})
		route.params = append(route.params, paramSpec{name: name, conv: conv})
		fmt.Fprintf(&re, "(?P<%s>%s)", name, conv.Regex())

		idx = m[1]
	}
	if tail := def.Pattern[idx:]; tail != "" {
		route.segments = append(route.segments, segment{literal: tail})
		re.WriteString(regexp.QuoteMeta(tail))
	}
	re.WriteString(`\z`)

	compiled, err := regexp.Compile(re.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, def.Pattern, err)
	}
	route.re = compiled
	return route, nil
}

// match reports whether path matches this route, returning the converted
// parameter values. A convertor rejecting its segment means no match, so
// evaluation can fall through to later routes.
func (r *compiledRoute[T]) match(path string) (Params, bool) {
	m := r.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	params := make(Params, len(r.params))
	for _, p := range r.params {
		value, err := p.conv.Parse(m[r.re.SubexpIndex(p.name)])
		if err != nil {
			return nil, false
		}
		params[p.name] = value
	}
	return params, true
}

// build renders the route's pattern with the given parameter values.
func (r *compiledRoute[T]) build(params Params) (string, error) {
	var b strings.Builder
	for _, seg := range r.segments {
		if seg.param == "" {
			b.WriteString(seg.literal)
			continue
		}
		value, ok := params[seg.param]
		if !ok {
			return "", fmt.Errorf("%w: %q for pattern %q", ErrMissingParam, seg.param, r.pattern)
		}
		rendered, err := seg.conv.Format(value)
		if err != nil {
			return "", fmt.Errorf("%w: %q: %v", ErrBuildParam, seg.param, err)
		}
		b.WriteString(rendered)
	}
	return b.String(), nil
}
