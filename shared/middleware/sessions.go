package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const (
	SessionName     = "ledger_session"
	sessionTokenKey = "token"
)

// Sessions installs the signed cookie session that carries the login token
// for browser clients.
func Sessions(secret string, maxAge int) gin.HandlerFunc {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(SessionName, store)
}

func SaveSessionToken(c *gin.Context, token string) error {
	s, ok := session(c)
	if !ok {
		return nil
	}
	s.Set(sessionTokenKey, token)
	return s.Save()
}

func ClearSession(c *gin.Context) error {
	s, ok := session(c)
	if !ok {
		return nil
	}
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	return s.Save()
}

func sessionToken(c *gin.Context) string {
	s, ok := session(c)
	if !ok {
		return ""
	}
	token, _ := s.Get(sessionTokenKey).(string)
	return token
}

// session returns false on routers that were built without Sessions;
// sessions.Default panics there.
func session(c *gin.Context) (sessions.Session, bool) {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil, false
	}
	return sessions.Default(c), true
}
