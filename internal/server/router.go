package server

import "net/http"

// BasicRouter implements [Router] on top of [http.ServeMux].
//
// Patterns follow the mux grammar, so "GET /p/{slug}" binds a method and a wildcard and a
// known path requested with the wrong method gets a 405.
type BasicRouter struct {
	mux   *http.ServeMux
	chain []Middleware
}

func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

// Use appends middleware. Only routes registered afterwards are wrapped.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.chain = append(r.chain, middleware...)
}

// Handle registers handler at path, restricted to method unless method is empty.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	if method != "" {
		path = method + " " + path
	}
	r.mux.Handle(path, r.Apply(handler))
}

// Handler mounts a multi-route [Handler] once per pattern it reports.
func (r *BasicRouter) Handler(handler Handler) {
	h := r.Apply(handler)
	for _, pattern := range handler.Routes() {
		r.mux.Handle(pattern, h)
	}
}

func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps handler so the first middleware passed to [BasicRouter.Use] runs outermost.
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	for i := range r.chain {
		handler = r.chain[len(r.chain)-1-i](handler)
	}
	return handler
}
