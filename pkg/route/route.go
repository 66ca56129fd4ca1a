// Package route maps view paths such as /tasks/42 to named views.
package route

import "strings"

// Wildcard is the pattern of the fallback route.
const Wildcard = "*"

// Params holds the values captured by :name segments.
type Params map[string]string

// Match reports whether path fits pattern. Both are split on "/" and must
// have the same number of segments; a ":name" segment captures the path
// segment at that position.
func Match(path, pattern string) (Params, bool) {
	pathParts := strings.Split(path, "/")
	patternParts := strings.Split(pattern, "/")
	if len(pathParts) != len(patternParts) {
		return nil, false
	}
	params := Params{}
	for i, seg := range patternParts {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			params[name] = pathParts[i]
			continue
		}
		if seg != pathParts[i] {
			return nil, false
		}
	}
	return params, true
}

// Route binds a pattern to a view name.
type Route struct {
	Pattern string
	View    string
}

// Router resolves paths against routes in registration order.
type Router struct {
	routes   []Route
	fallback string
}

// New returns a router over routes. A route with the Wildcard pattern
// becomes the fallback.
func New(routes ...Route) *Router {
	r := &Router{}
	for _, rt := range routes {
		r.Handle(rt.Pattern, rt.View)
	}
	return r
}

// Handle registers view for pattern.
func (r *Router) Handle(pattern, view string) {
	if pattern == Wildcard {
		r.fallback = view
		return
	}
	r.routes = append(r.routes, Route{Pattern: pattern, View: view})
}

// Resolve returns the view for path and its params. When nothing matches it
// returns the fallback view with empty params; ok is false when there is no
// fallback either.
func (r *Router) Resolve(path string) (view string, params Params, ok bool) {
	for _, rt := range r.routes {
		if p, matched := Match(path, rt.Pattern); matched {
			return rt.View, p, true
		}
	}
	if r.fallback != "" {
		return r.fallback, Params{}, true
	}
	return "", nil, false
}
