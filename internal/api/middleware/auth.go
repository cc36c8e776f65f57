package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/salesrecorder/sales-web/internal/core/ports"
	"github.com/salesrecorder/sales-web/internal/core/session"
	"github.com/salesrecorder/sales-web/pkg/logger"
)

const (
	// CookieName is the session cookie.
	CookieName = "sales_session"
	// SessionKey is the echo context key holding the *session.Store.
	SessionKey = "session"

	issuer = "sales-web"
)

// SessionConfig configures the session cookie.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Secure bool
}

// Auth resolves the session of every request. The cookie is an HS256 JWT
// whose id claim is the session id; the session itself lives in storage.
// Requests without an authenticated session get a fresh session id, so a
// login never reuses an id chosen by someone else.
func Auth(cfg SessionConfig, storage ports.SessionStorage) echo.MiddlewareFunc {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			log := logger.FromContext(req.Context())

			incoming := ""
			if ck, err := c.Cookie(CookieName); err == nil && ck.Value != "" {
				sid, err := parseSessionToken(ck.Value, cfg.Secret)
				if err != nil {
					log.Debug().Err(err).Msg("ignoring invalid session cookie")
				}
				incoming = sid
			}

			var store *session.Store
			if incoming != "" {
				store = session.Open(req.Context(), storage, incoming, log)
			}
			if store == nil || !store.IsAuthenticated() {
				store = session.New(storage, uuid.NewString(), log)
			}
			c.Set(SessionKey, store)

			hadCookie := incoming != ""
			c.Response().Before(func() {
				switch {
				case store.IsAuthenticated() && store.SID() != incoming:
					token, err := signSessionToken(store.SID(), cfg.Secret, cfg.TTL)
					if err != nil {
						log.Error().Err(err).Msg("sign session cookie")
						return
					}
					c.SetCookie(sessionCookie(token, int(cfg.TTL.Seconds()), cfg.Secure))
				case !store.IsAuthenticated() && hadCookie:
					c.SetCookie(sessionCookie("", -1, cfg.Secure))
				}
			})

			return next(c)
		}
	}
}

// CurrentSession returns the session resolved by Auth.
func CurrentSession(c echo.Context) (*session.Store, bool) {
	s, ok := c.Get(SessionKey).(*session.Store)
	return s, ok && s != nil
}

func sessionCookie(value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func signSessionToken(sid, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        sid,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseSessionToken(raw, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}
	if !tkn.Valid || claims.ID == "" {
		return "", errors.New("session token carries no id")
	}
	return claims.ID, nil
}
