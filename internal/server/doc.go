// Package server provides HTTP routing, middleware and the password gate for the dashboard.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally; patterns may include a method and
// wildcards.
//
// # Password Gate
//
// [Gate] compares a submitted password with the admin and user secrets in constant time. The admin secret
// is checked first. There is no lockout and no hashing; the secrets live in the config file.
//
// # Sessions
//
// A successful login creates a row through [SessionStore] and sets the wb_session cookie to its ID.
// [SessionManager.Middleware] resolves the cookie on every request, slides the idle expiry forward and
// stores an immutable [SessionContext] in the request context. Expired sessions are deleted when seen and
// by [SessionManager.RunCleanup]. Logout deletes the row and expires the cookie.
//
// [RequireAuth] sends unauthenticated requests to /login?next=<path>.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
// [AuthHandler] uses it for the login and logout routes.
package server
