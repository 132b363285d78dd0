package handlers

import (
	"net/http"
	"yatube/internal/cache"
	"yatube/internal/middleware"

	"github.com/gorilla/mux"
)

// NewRouter maps every page to its handler. pageCache may be nil, in which
// case the index is rendered on every request.
func NewRouter(h *Handlers, pageCache cache.PageCache) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(NotFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(MethodNotAllowedHandler)

	login := middleware.LoginRequired(h.Cfg.LoginURL)
	private := func(f http.HandlerFunc) http.Handler {
		return login(f)
	}

	// posts
	r.Handle("/", cache.CachePage(pageCache, h.Cfg.IndexCacheTTL)(http.HandlerFunc(h.Index))).Methods(http.MethodGet)
	r.HandleFunc("/group/{slug}/", h.GroupPosts).Methods(http.MethodGet)
	r.HandleFunc("/posts/{post_id}/", h.PostDetail).Methods(http.MethodGet)
	r.Handle("/create/", private(h.PostCreate)).Methods(http.MethodGet, http.MethodPost)
	r.Handle("/posts/{post_id}/edit/", private(h.PostEdit)).Methods(http.MethodGet, http.MethodPost)
	r.Handle("/posts/{post_id}/comment/", private(h.AddComment)).Methods(http.MethodPost)

	// profiles and subscriptions
	r.HandleFunc("/profile/{username}/", h.Profile).Methods(http.MethodGet)
	r.Handle("/profile/{username}/follow/", private(h.ProfileFollow)).Methods(http.MethodGet)
	r.Handle("/profile/{username}/unfollow/", private(h.ProfileUnfollow)).Methods(http.MethodGet)
	r.Handle("/follow/", private(h.FollowIndex)).Methods(http.MethodGet)

	// about
	r.HandleFunc("/about/author/", h.AboutAuthor).Methods(http.MethodGet)
	r.HandleFunc("/about/tech/", h.AboutTech).Methods(http.MethodGet)

	// auth
	r.HandleFunc("/auth/login/", h.LoginPage).Methods(http.MethodGet)
	r.HandleFunc("/auth/login/", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/auth/signup/", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/refresh-token/", h.RefreshToken).Methods(http.MethodPost)

	r.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)

	return r
}
