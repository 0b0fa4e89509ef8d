package handler

import (
	"blogicum/internal/middleware"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Handlers groups every page handler the router mounts.
type Handlers struct {
	Posts    *PostHandler
	Comments *CommentHandler
	Profiles *ProfileHandler
	Auth     *AuthHandler
	Seo      *SeoHandler
}

// Middlewares are the request wrappers built in main.
type Middlewares struct {
	Session      func(http.Handler) http.Handler
	CSRF         func(http.Handler) http.Handler
	RateLimit    func(http.Handler) http.Handler
	Authenticate func(http.Handler) http.Handler
	Authorize    func(http.Handler) http.Handler
	Logger       func(http.Handler) http.Handler
	Error        func(middleware.AppHandler) http.Handler
}

// Assets are the file trees served as they are. Media may be nil.
type Assets struct {
	Static fs.FS
	Media  fs.FS
}

// NewRouter creates and configures a new chi router.
func NewRouter(h Handlers, mw Middlewares, assets Assets) *chi.Mux {
	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if mw.Logger != nil {
		r.Use(mw.Logger)
	}
	r.Use(chimw.Recoverer)

	if assets.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(assets.Static))))
	}
	if assets.Media != nil {
		r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.FS(assets.Media))))
	}

	e := mw.Error
	r.Group(func(r chi.Router) {
		for _, m := range []func(http.Handler) http.Handler{mw.Session, mw.CSRF, mw.RateLimit, mw.Authenticate} {
			if m != nil {
				r.Use(m)
			}
		}

		r.NotFound(e(func(w http.ResponseWriter, r *http.Request) *middleware.AppError {
			return middleware.NotFound(nil)
		}).ServeHTTP)

		// Authentication routes
		r.Route("/auth", func(r chi.Router) {
			r.Method(http.MethodGet, "/login/", e(h.Auth.loginFormHandler))
			r.Method(http.MethodPost, "/login/", e(h.Auth.loginHandler))
			r.Method(http.MethodPost, "/logout/", e(h.Auth.logoutHandler))
			r.Method(http.MethodGet, "/register/", e(h.Auth.registerFormHandler))
			r.Method(http.MethodPost, "/register/", e(h.Auth.registerHandler))
			r.Method(http.MethodGet, "/oidc/login/", e(h.Auth.oidcLoginHandler))
			r.Method(http.MethodGet, "/oidc/callback/", e(h.Auth.oidcCallbackHandler))
		})

		// Every blog route goes through the route policy.
		r.Group(func(r chi.Router) {
			if mw.Authorize != nil {
				r.Use(mw.Authorize)
			}

			r.Method(http.MethodGet, "/", e(h.Posts.indexHandler))
			r.Method(http.MethodGet, "/category/{slug}/", e(h.Posts.categoryHandler))
			r.Method(http.MethodGet, "/profile/{username}/", e(h.Posts.profileHandler))
			r.Method(http.MethodGet, "/edit_profile/{username}/", e(h.Profiles.editFormHandler))
			r.Method(http.MethodPost, "/edit_profile/{username}/", e(h.Profiles.editHandler))

			r.Method(http.MethodGet, "/posts/create/", e(h.Posts.createFormHandler))
			r.Method(http.MethodPost, "/posts/create/", e(h.Posts.createHandler))
			r.Method(http.MethodGet, "/posts/{id:[0-9]+}/", e(h.Posts.detailHandler))
			r.Method(http.MethodGet, "/posts/{id:[0-9]+}/edit/", e(h.Posts.editFormHandler))
			r.Method(http.MethodPost, "/posts/{id:[0-9]+}/edit/", e(h.Posts.editHandler))
			r.Method(http.MethodGet, "/posts/{id:[0-9]+}/delete/", e(h.Posts.deleteFormHandler))
			r.Method(http.MethodPost, "/posts/{id:[0-9]+}/delete/", e(h.Posts.deleteHandler))

			r.Method(http.MethodPost, "/posts/{id:[0-9]+}/comment/", e(h.Comments.createHandler))
			r.Method(http.MethodGet, "/posts/{id:[0-9]+}/edit_comment/{commentID:[0-9]+}/", e(h.Comments.editFormHandler))
			r.Method(http.MethodPost, "/posts/{id:[0-9]+}/edit_comment/{commentID:[0-9]+}/", e(h.Comments.editHandler))
			r.Method(http.MethodGet, "/posts/{id:[0-9]+}/delete_comment/{commentID:[0-9]+}/", e(h.Comments.deleteFormHandler))
			r.Method(http.MethodPost, "/posts/{id:[0-9]+}/delete_comment/{commentID:[0-9]+}/", e(h.Comments.deleteHandler))

			r.Method(http.MethodGet, "/robots.txt", e(h.Seo.robotsHandler))
			r.Method(http.MethodGet, "/sitemap.xml", e(h.Seo.sitemapHandler))
		})
	})

	return r
}
