package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"warbler/internal/domain"
	"warbler/internal/service"
	httpez "warbler/internal/transport/http/ez"
)

type authModule struct {
	ez     httpez.EZ
	svc    Services
	cookie CookieOpts
}

func (m *authModule) Priority() int { return 10 }

type loginIn struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionOut struct {
	User      *domain.User `json:"user"`
	CSRFToken string       `json:"csrfToken"`
}

type csrfOut struct {
	CSRFToken string `json:"csrfToken"`
}

func (m *authModule) MountAPI(api *gin.RouterGroup) {
	gate := m.svc.Gate

	httpez.RegisterAction(m.ez, httpez.Action[service.SignupInput, sessionOut]{
		Method: http.MethodPost,
		Path:   "/auth/signup",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *domain.User, in *service.SignupInput) (sessionOut, error) {
			sess, u, err := gate.Signup(c.Request.Context(), *in)
			if err != nil {
				return sessionOut{}, err
			}
			setSessionCookie(c, m.cookie, sess.Token)
			return sessionOut{User: u, CSRFToken: gate.RequestToken(sess.Token)}, nil
		},
	})

	httpez.RegisterAction(m.ez, httpez.Action[loginIn, sessionOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *domain.User, in *loginIn) (sessionOut, error) {
			sess, u, err := gate.Login(c.Request.Context(), in.Username, in.Password)
			if err != nil {
				return sessionOut{}, err
			}
			setSessionCookie(c, m.cookie, sess.Token)
			return sessionOut{User: u, CSRFToken: gate.RequestToken(sess.Token)}, nil
		},
	})

	httpez.RegisterAction(m.ez, httpez.Action[none, none]{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Binder: httpez.BindNone,
		Auth:   true,
		CSRF:   true,
		Handler: func(c *gin.Context, _ *domain.User, _ *none) (none, error) {
			if err := gate.Logout(c.Request.Context(), m.ez.SessionToken(c)); err != nil {
				return none{}, err
			}
			clearSessionCookie(c, m.cookie)
			return none{}, nil
		},
	})

	httpez.RegisterAction(m.ez, httpez.Action[none, csrfOut]{
		Method: http.MethodGet,
		Path:   "/auth/csrf-token",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *domain.User, _ *none) (csrfOut, error) {
			return csrfOut{CSRFToken: gate.RequestToken(m.ez.SessionToken(c))}, nil
		},
	})

	httpez.RegisterAction(m.ez, httpez.Action[none, messagesOut]{
		Method: http.MethodGet,
		Path:   "/feed",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, actor *domain.User, _ *none) (messagesOut, error) {
			ms, err := m.svc.Messages.FeedFor(c.Request.Context(), actor.ID)
			return messagesOut{Messages: ms}, err
		},
	})
}
