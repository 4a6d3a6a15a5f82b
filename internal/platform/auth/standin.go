package auth

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/example/comment-board/internal/platform/api"
	"github.com/example/comment-board/internal/platform/httpserver"
)

// Resolver looks up the stand-in identity every unverified request is
// attributed to.
type Resolver interface {
	Resolve(ctx context.Context) (Identity, error)
}

type StandInOptions struct {
	Signer   CookieSigner
	Resolver Resolver
	Logger   *zap.Logger
	// Secure marks the cookie Secure and SameSite=None so it survives
	// cross-origin requests from the client.
	Secure bool
	Now    func() time.Time
}

// StandIn attributes every request to the stand-in user. The stand-in is
// resolved on each request; a cookie is kept only when it verifies and names
// that user. Anything else (missing, expired, forged, another user, a user
// that no longer exists) is replaced by a freshly signed stand-in cookie.
func StandIn(opts StandInOptions) func(next http.Handler) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := httpserver.RequestIDFromContext(r.Context())
			id, err := opts.Resolver.Resolve(r.Context())
			if err != nil {
				opts.Logger.Error("resolve stand-in identity", zap.String("request_id", rid), zap.Error(err))
				api.StoreFailure(w, err, rid)
				return
			}

			if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
				cur, err := opts.Signer.Parse(c.Value)
				if err == nil && cur.UserID == id.UserID {
					next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
					return
				}
				if err == nil {
					opts.Logger.Debug("replacing identity cookie",
						zap.String("request_id", rid),
						zap.String("cookie_user_id", cur.UserID),
						zap.String("stand_in_user_id", id.UserID))
				}
			}

			tok, err := opts.Signer.Sign(id, opts.Now())
			if err != nil {
				opts.Logger.Error("sign identity cookie", zap.String("request_id", rid), zap.Error(err))
				api.Internal(w, rid)
				return
			}

			cookie := &http.Cookie{
				Name:     CookieName,
				Value:    tok,
				Path:     "/",
				HttpOnly: true,
				MaxAge:   int(opts.Signer.ttl().Seconds()),
				SameSite: http.SameSiteLaxMode,
			}
			if opts.Secure {
				cookie.Secure = true
				cookie.SameSite = http.SameSiteNoneMode
			}
			http.SetCookie(w, cookie)

			// Downstream reads of the cookie see the normalized token.
			nr := r.Clone(WithIdentity(r.Context(), id))
			nr.Header.Del("Cookie")
			for _, c := range r.Cookies() {
				if c.Name != CookieName {
					nr.AddCookie(c)
				}
			}
			nr.AddCookie(&http.Cookie{Name: CookieName, Value: tok})

			next.ServeHTTP(w, nr)
		})
	}
}
