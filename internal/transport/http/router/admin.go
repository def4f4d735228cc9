package router

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"warbler/internal/core/auth"
	"warbler/internal/core/server"
	"warbler/internal/domain"
	httpez "warbler/internal/transport/http/ez"
	mdw "warbler/internal/transport/http/middleware"
)

// AdminOpts configures the moderation API.
type AdminOpts struct {
	JWT *auth.JWTer
	// Usernames that may obtain an admin token.
	Usernames []string
}

func NewAdminEngine(l *zap.Logger, svc Services, opts AdminOpts) *gin.Engine {
	r := server.NewRouter(l, baseMiddleware(l)...)

	public := r.Group("/admin/v1")
	mountAdmin(public, &adminAuthModule{ez: httpez.New(public, nil, "", l), svc: svc, opts: opts})

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(opts.JWT, auth.RoleAdmin))
	mountAdmin(admin, &adminUsersModule{ez: httpez.New(admin, nil, "", l), svc: svc, log: l})
	return r
}

type adminAuthModule struct {
	ez   httpez.EZ
	svc  Services
	opts AdminOpts
}

type tokenOut struct {
	Token string `json:"token"`
}

func (m *adminAuthModule) MountAdmin(g *gin.RouterGroup) {
	httpez.RegisterAction(m.ez, httpez.Action[loginIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *domain.User, in *loginIn) (tokenOut, error) {
			u, err := m.svc.Users.Authenticate(c.Request.Context(), in.Username, in.Password)
			if err != nil {
				return tokenOut{}, err
			}
			if u == nil {
				return tokenOut{}, domain.ErrInvalidCredentials
			}
			if !slices.Contains(m.opts.Usernames, u.Username) {
				return tokenOut{}, domain.ErrForbidden
			}
			tok, err := m.opts.JWT.Issue(u.ID, u.Username, auth.RoleAdmin)
			if err != nil {
				return tokenOut{}, err
			}
			return tokenOut{Token: tok}, nil
		},
	})
}

type adminUsersModule struct {
	ez  httpez.EZ
	svc Services
	log *zap.Logger
}

type deletedOut struct {
	ID uint `json:"id"`
}

func (m *adminUsersModule) MountAdmin(g *gin.RouterGroup) {
	httpez.RegisterAction(m.ez, httpez.Action[searchQ, usersOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, _ *domain.User, in *searchQ) (usersOut, error) {
			us, err := m.svc.Users.Search(c.Request.Context(), in.Q)
			return usersOut{Users: us}, err
		},
	})

	httpez.RegisterAction(m.ez, httpez.Action[none, deletedOut]{
		Method: http.MethodPost,
		Path:   "/users/:id/delete",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *domain.User, _ *none) (deletedOut, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return deletedOut{}, err
			}
			if err := m.svc.Gate.DeleteAccount(c.Request.Context(), id); err != nil {
				return deletedOut{}, err
			}
			if cl := mdw.ClaimsFrom(c); cl != nil {
				m.log.Info("admin deleted user", zap.String("admin", cl.Username), zap.Uint("user_id", id))
			}
			return deletedOut{ID: id}, nil
		},
	})
}
