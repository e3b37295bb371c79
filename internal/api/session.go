package api

import (
	"crypto/sha256"
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"

	"sawiku/internal/config"
	"sawiku/internal/sawi"
)

const (
	sessionName    = "sawiku_session"
	sessionUserKey = "user_id"
	sessionMaxAge  = 7 * 24 * 60 * 60

	// contextSessionKey holds the *sawi.Session of an authenticated request.
	contextSessionKey = "sawi_session"
)

// newSessionStore creates the signed and encrypted cookie store.
// The cookie carries only the user ID; the session is rebuilt per request.
func newSessionStore(cfg config.ServerConfig) (*sessions.CookieStore, error) {
	if cfg.SessionSecret == "" {
		return nil, errors.New("server.session_secret must be set")
	}
	store := sessions.NewCookieStore(
		sessionKey(cfg.SessionSecret),
		sessionKey(cfg.SessionSecret+"encryption"),
	)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	return store, nil
}

// sessionKey derives a 32-byte key, valid for both HMAC and AES-256.
func sessionKey(seed string) []byte {
	sum := sha256.Sum256([]byte(seed))
	return sum[:]
}

// cookie returns the request's cookie session. An undecodable cookie yields
// a fresh session.
func (s *Server) cookie(c echo.Context) *sessions.Session {
	cs, err := s.store.Get(c.Request(), sessionName)
	if err != nil {
		s.logger.Debug("discarding invalid session cookie", "error", err)
	}
	return cs
}

func (s *Server) startSession(c echo.Context, sess *sawi.Session) error {
	cs := s.cookie(c)
	cs.Values[sessionUserKey] = sess.UserID
	return cs.Save(c.Request(), c.Response())
}

func (s *Server) endSession(c echo.Context) error {
	cs := s.cookie(c)
	delete(cs.Values, sessionUserKey)
	cs.Options.MaxAge = -1
	return cs.Save(c.Request(), c.Response())
}

// requireSession rebuilds the session of the signed-in user and stores it in
// the echo context. Requests without a valid session fail with ErrUnauthenticated.
func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, _ := s.cookie(c).Values[sessionUserKey].(string)
		sess, err := s.service.ResumeSession(c.Request().Context(), userID)
		if err != nil {
			return err
		}
		c.Set(contextSessionKey, sess)
		return next(c)
	}
}

// sessionFrom returns the session stored by requireSession, or nil.
func sessionFrom(c echo.Context) *sawi.Session {
	sess, _ := c.Get(contextSessionKey).(*sawi.Session)
	return sess
}
