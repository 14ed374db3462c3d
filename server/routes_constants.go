package server

const (
	RouteRegister = "/register"
	RouteLogin    = "/login"
	RouteProfile  = "/profile"
	RouteLogout   = "/logout"

	RoutePosts    = "/post"
	RoutePostByID = "/post/{id}"

	RouteUploads = "/uploads/"

	RouteSSOLogin    = "/auth/sso/login"
	RouteSSOCallback = "/auth/sso/callback"
)
