// Package server is the HTTP boundary: it routes requests, translates
// failures into status codes, and moves session tokens in and out of cookies.
package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/inkpress/go-blog-server/auth"
	"github.com/inkpress/go-blog-server/internal/config"
	"github.com/inkpress/go-blog-server/posts"
	"github.com/inkpress/go-blog-server/token"
	"github.com/pkg/errors"
)

type Server struct {
	env    string // Environment (e.g., "DEV", "production")
	mux    *http.ServeMux
	routes []string
	config config.Config

	auth   *auth.Service
	posts  *posts.Service
	tokens *token.Service

	oidc       *OidcProvider // nil when SSO is not configured
	uploadsDir string        // served statically when non-empty (filesystem variant)
}

// Option configures optional server behavior.
type Option func(*Server)

// WithUploadsDir makes the server serve the local uploads folder under
// /uploads/. Used only by the filesystem storage variant.
func WithUploadsDir(dir string) Option {
	return func(s *Server) { s.uploadsDir = dir }
}

// WithOidcProvider enables the SSO login routes.
func WithOidcProvider(provider *OidcProvider) Option {
	return func(s *Server) { s.oidc = provider }
}

func New(cfg config.Config, authSvc *auth.Service, postSvc *posts.Service, tokens *token.Service, opts ...Option) (*Server, error) {
	if authSvc == nil || postSvc == nil || tokens == nil {
		return nil, errors.New("[server.New] auth, post, and token services are required")
	}

	s := &Server{
		mux:    http.NewServeMux(),
		config: cfg,
		auth:   authSvc,
		posts:  postSvc,
		tokens: tokens,
	}
	s.env = cfg.GetEnv()

	for _, opt := range opts {
		opt(s)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

// ServeHTTP applies CORS outside the mux so preflight OPTIONS requests are
// answered even though every route is registered with a method-scoped pattern.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.CorsMiddleware(s.mux.ServeHTTP)(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := splitPattern(route)
		logRoute(parts[0], parts[1])
	}
}

func splitPattern(pattern string) [2]string {
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == ' ' {
			return [2]string{pattern[:i], pattern[i+1:]}
		}
	}
	return [2]string{"", pattern}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
