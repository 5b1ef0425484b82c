package middleware

import (
	"github.com/gin-gonic/gin"
)

// Route identifies a registered route by method and gin path pattern.
type Route struct {
	Method string
	Path   string
}

// RoutePolicy says, per route, whether a valid bearer token is required.
// Routes missing from the table require one.
type RoutePolicy map[Route]bool

// Public marks a route as reachable without a token.
func (p RoutePolicy) Public(method, path string) RoutePolicy {
	p[Route{Method: method, Path: path}] = false
	return p
}

// Protected marks a route as requiring a token.
func (p RoutePolicy) Protected(method, path string) RoutePolicy {
	p[Route{Method: method, Path: path}] = true
	return p
}

// RequiresAuth reports whether the route needs authentication.
func (p RoutePolicy) RequiresAuth(method, path string) bool {
	requires, ok := p[Route{Method: method, Path: path}]
	if !ok {
		return true
	}
	return requires
}

// PolicyAuth applies the route policy to every request in one place.
// Requests that matched no route are passed on so gin can answer 404.
func PolicyAuth(policy RoutePolicy, tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" || !policy.RequiresAuth(c.Request.Method, path) {
			c.Next()
			return
		}
		authenticate(c, tokens)
	}
}
