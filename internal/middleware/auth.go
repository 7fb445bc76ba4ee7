package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"workspace/internal/domain"
	"workspace/internal/domain/models"
	"workspace/internal/domain/services"
	"workspace/internal/httputil"
)

// publicPaths are served without an identity. Matching is exact.
var publicPaths = map[string]bool{
	"/":                     true,
	"/v1/":                  true,
	"/specifications/":      true,
	"/specifications/3.0.3": true,
	"/health":               true,
}

// IsPublicPath reports whether path is served without an identity.
func IsPublicPath(path string) bool {
	return publicPaths[path]
}

// Ownership resolves the caller's user id once per request and stores it in
// the request context. Everything downstream scopes its data access by that id.
//
// Requests without Authorization or Cookie are rejected before the resolver
// is called. Resolver errors keep their own status (401/403 from the identity
// service, 400 for anything else).
func Ownership(resolver services.IdentityResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			if _, ok := httputil.GetIdentity(r); ok {
				next.ServeHTTP(w, r)
				return
			}

			creds := credentialsFromRequest(r)
			if creds.Empty() {
				httputil.RespondError(w, http.StatusUnauthorized, domain.KindUnauthorized, "missing credentials")
				return
			}

			userID, err := resolver.Resolve(r.Context(), creds)
			if err != nil {
				logger.Info("identity resolution failed",
					"path", r.URL.Path,
					"request_id", httputil.GetRequestID(r.Context()),
					"error", err,
				)
				if !httputil.RespondDomainError(w, err) {
					logger.Error("identity resolver returned unexpected error", "error", err)
				}
				return
			}

			if rec, ok := w.(*statusRecorder); ok {
				rec.userID = &userID
			}
			next.ServeHTTP(w, httputil.WithIdentity(r, models.Identity{UserID: userID}))
		})
	}
}

// credentialsFromRequest collects the headers forwarded to the identity
// service and the public address the request was sent to.
func credentialsFromRequest(r *http.Request) services.Credentials {
	return services.Credentials{
		Authorization: r.Header.Get("Authorization"),
		Cookie:        r.Header.Get("Cookie"),
		BaseURL:       requestBaseURL(r),
	}
}

func requestBaseURL(r *http.Request) string {
	if r.Host == "" {
		return ""
	}
	scheme := strings.TrimSpace(strings.Split(r.Header.Get("X-Forwarded-Proto"), ",")[0])
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
