package routes

import "net/http"

// Group represents a collection of routes under a common URL prefix.
// Groups can contain child groups for hierarchical route organization.
type Group struct {
	Prefix      string
	Description string
	Routes      []Route
	Children    []Group
}

// Route represents an HTTP route with method, pattern, and handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Patterns flattens the group into fully-prefixed "METHOD /path" patterns.
func (g Group) Patterns() []string {
	return g.patterns("")
}

func (g Group) patterns(parent string) []string {
	prefix := parent + g.Prefix
	out := make([]string, 0, len(g.Routes))
	for _, r := range g.Routes {
		out = append(out, r.Method+" "+prefix+r.Pattern)
	}
	for _, child := range g.Children {
		out = append(out, child.patterns(prefix)...)
	}
	return out
}
