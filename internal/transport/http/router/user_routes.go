package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"warbler/internal/domain"
	"warbler/internal/service"
	httpez "warbler/internal/transport/http/ez"
)

type userModule struct {
	ez     httpez.EZ
	svc    Services
	cookie CookieOpts
}

func (m *userModule) Priority() int { return 20 }

type searchQ struct {
	Q string `form:"q"`
}

type profileOut struct {
	*service.Profile
	Messages     []domain.Message `json:"messages"`
	IsFollowing  bool             `json:"isFollowing"`
	IsFollowedBy bool             `json:"isFollowedBy"`
}

type profileIn struct {
	service.ProfileInput
	Password string `json:"password" binding:"required"`
}

type followOut struct {
	Following bool `json:"following"`
}

// listOf registers a GET /users/:id/<suffix> returning a list for that user.
func listOf[O any](m *userModule, path string, load func(c *gin.Context, id uint) (O, error)) {
	httpez.RegisterAction(m.ez, httpez.Action[none, O]{
		Method: http.MethodGet,
		Path:   path,
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *domain.User, _ *none) (O, error) {
			var zero O
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return zero, err
			}
			return load(c, id)
		},
	})
}

func (m *userModule) MountAPI(api *gin.RouterGroup) {
	svc := m.svc

	httpez.RegisterAction(m.ez, httpez.Action[searchQ, usersOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, _ *domain.User, in *searchQ) (usersOut, error) {
			us, err := svc.Users.Search(c.Request.Context(), in.Q)
			return usersOut{Users: us}, err
		},
	})

	httpez.RegisterAction(m.ez, httpez.Action[none, profileOut]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, actor *domain.User, _ *none) (profileOut, error) {
			ctx := c.Request.Context()
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return profileOut{}, err
			}
			p, err := svc.Users.Profile(ctx, id)
			if err != nil {
				return profileOut{}, err
			}
			out := profileOut{Profile: p}
			if out.Messages, err = svc.Messages.ByUser(ctx, id); err != nil {
				return profileOut{}, err
			}
			if out.IsFollowing, err = svc.Follows.IsFollowing(ctx, actor.ID, id); err != nil {
				return profileOut{}, err
			}
			if out.IsFollowedBy, err = svc.Follows.IsFollowedBy(ctx, actor.ID, id); err != nil {
				return profileOut{}, err
			}
			return out, nil
		},
	})

	listOf(m, "/users/:id/following", func(c *gin.Context, id uint) (usersOut, error) {
		us, err := svc.Follows.Following(c.Request.Context(), id)
		return usersOut{Users: us}, err
	})
	listOf(m, "/users/:id/followers", func(c *gin.Context, id uint) (usersOut, error) {
		us, err := svc.Follows.Followers(c.Request.Context(), id)
		return usersOut{Users: us}, err
	})
	listOf(m, "/users/:id/messages", func(c *gin.Context, id uint) (messagesOut, error) {
		ms, err := svc.Messages.ByUser(c.Request.Context(), id)
		return messagesOut{Messages: ms}, err
	})
	listOf(m, "/users/:id/liked-messages", func(c *gin.Context, id uint) (messagesOut, error) {
		ms, err := svc.Likes.LikedMessages(c.Request.Context(), id)
		return messagesOut{Messages: ms}, err
	})

	httpez.RegisterAction(m.ez, httpez.Action[none, followOut]{
		Method: http.MethodPost,
		Path:   "/users/follow/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		CSRF:   true,
		Handler: func(c *gin.Context, actor *domain.User, _ *none) (followOut, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return followOut{}, err
			}
			err = svc.Follows.Follow(c.Request.Context(), actor.ID, id)
			if err != nil && !errors.Is(err, domain.ErrAlreadyFollowing) {
				return followOut{}, err
			}
			return followOut{Following: true}, nil
		},
	})

	httpez.RegisterAction(m.ez, httpez.Action[none, followOut]{
		Method: http.MethodPost,
		Path:   "/users/stop-following/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		CSRF:   true,
		Handler: func(c *gin.Context, actor *domain.User, _ *none) (followOut, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return followOut{}, err
			}
			return followOut{}, svc.Follows.Unfollow(c.Request.Context(), actor.ID, id)
		},
	})

	httpez.RegisterAction(m.ez, httpez.Action[profileIn, *domain.User]{
		Method: http.MethodPut,
		Path:   "/users/profile",
		Binder: httpez.BindJSON,
		Auth:   true,
		CSRF:   true,
		Handler: func(c *gin.Context, actor *domain.User, in *profileIn) (*domain.User, error) {
			return svc.Users.UpdateProfile(c.Request.Context(), actor.ID, in.ProfileInput, in.Password)
		},
	})

	httpez.RegisterAction(m.ez, httpez.Action[none, none]{
		Method: http.MethodPost,
		Path:   "/users/delete",
		Binder: httpez.BindNone,
		Auth:   true,
		CSRF:   true,
		Handler: func(c *gin.Context, actor *domain.User, _ *none) (none, error) {
			if err := svc.Gate.DeleteAccount(c.Request.Context(), actor.ID); err != nil {
				return none{}, err
			}
			clearSessionCookie(c, m.cookie)
			return none{}, nil
		},
	})
}
