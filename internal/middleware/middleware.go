package middleware

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
	"yatube/internal/models"
)

type Middleware func(http.Handler) http.Handler

type contextKey string

const userKey contextKey = "user"

// TokenParser resolves an access token to the user it was issued for.
type TokenParser interface {
	GetUserFromToken(tokenString string) (*models.User, error)
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns nil for an anonymous request.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

func tokenFromRequest(r *http.Request, cookieName string) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// AuthMiddleware attaches the user behind a Bearer header or the access
// cookie to the request context. A missing or invalid token leaves the
// request anonymous.
func AuthMiddleware(tokens TokenParser, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := tokenFromRequest(r, cookieName)
			if tokenString == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := tokens.GetUserFromToken(tokenString)
			if err != nil {
				log.Printf("Недействительный токен: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// LoginRedirectURL builds "<loginURL>?next=<path>" keeping slashes readable.
func LoginRedirectURL(loginURL, path string) string {
	return loginURL + "?next=" + strings.ReplaceAll(url.QueryEscape(path), "%2F", "/")
}

// LoginRequired sends anonymous visitors to the login page.
func LoginRequired(loginURL string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserFromContext(r.Context()) == nil {
				http.Redirect(w, r, LoginRedirectURL(loginURL, r.URL.RequestURI()), http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		log.Printf("Method: %s, URL: %s, Status: %d, Duration: %s", r.Method, r.RequestURI, sw.status, time.Since(start))
	})
}

func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
