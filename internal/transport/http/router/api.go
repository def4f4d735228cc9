package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"warbler/internal/core/server"
	"warbler/internal/domain"
	"warbler/internal/service"
	httpez "warbler/internal/transport/http/ez"
	mdw "warbler/internal/transport/http/middleware"
)

// Services is everything the user API calls into.
type Services struct {
	Users    *service.UserService
	Follows  *service.FollowService
	Messages *service.MessageService
	Likes    *service.LikeService
	Gate     *service.SessionGate
}

// CookieOpts shapes the session cookie.
type CookieOpts struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

func baseMiddleware(l *zap.Logger) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		mdw.RequestID(),
		mdw.NoStore(),
		mdw.Recovery(l),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1 << 20),
		mdw.Timeout(10 * time.Second),
		mdw.Metrics(),
		mdw.AccessLog(l),
	}
}

func NewAPIEngine(l *zap.Logger, svc Services, cookie CookieOpts) *gin.Engine {
	r := server.NewRouter(l, baseMiddleware(l)...)
	api := r.Group("/api/v1")
	ez := httpez.New(api, svc.Gate, cookie.Name, l)

	mountAPI(api,
		&authModule{ez: ez, svc: svc, cookie: cookie},
		&userModule{ez: ez, svc: svc, cookie: cookie},
		&messageModule{ez: ez, svc: svc},
	)
	return r
}

func setSessionCookie(c *gin.Context, o CookieOpts, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(o.Name, token, int(o.TTL/time.Second), "/", "", o.Secure, true)
}

func clearSessionCookie(c *gin.Context, o CookieOpts) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(o.Name, "", -1, "/", "", o.Secure, true)
}

type none struct{}

type usersOut struct {
	Users []domain.User `json:"users"`
}

type messagesOut struct {
	Messages []domain.Message `json:"messages"`
}
