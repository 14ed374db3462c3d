package server

import "net/http"

func (s *Server) initRoutes() {
	// AUTH
	s.RegisterRouteHandler("POST "+RouteRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteProfile, ChainMiddleware(s.ProfileHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))

	// POSTS
	s.RegisterRouteHandler("POST "+RoutePosts, ChainMiddleware(s.CreatePostHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RoutePosts, ChainMiddleware(s.ListPostsHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RoutePostByID, ChainMiddleware(s.GetPostHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("PUT "+RoutePostByID, ChainMiddleware(s.UpdatePostHandler(), s.APIMiddleware(s.RequireAuth())...))

	// SSO (only when an identity provider is configured)
	if s.oidc != nil {
		s.RegisterRouteHandler("GET "+RouteSSOLogin, ChainMiddleware(s.SSOLoginHandler(), s.APIMiddleware()...))
		s.RegisterRouteHandler("GET "+RouteSSOCallback, ChainMiddleware(s.SSOCallbackHandler(), s.APIMiddleware()...))
	}

	// Cover images, filesystem variant only. The remote variant returns
	// absolute URLs and never serves image bytes itself.
	if s.uploadsDir != "" {
		fileServer := http.StripPrefix(RouteUploads, http.FileServer(http.Dir(s.uploadsDir)))
		s.RegisterRouteHandler("GET "+RouteUploads, ChainMiddleware(fileServer.ServeHTTP, s.APIMiddleware()...))
	}
}
