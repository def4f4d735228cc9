package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"warbler/internal/domain"
	httpez "warbler/internal/transport/http/ez"
)

type messageModule struct {
	ez  httpez.EZ
	svc Services
}

func (m *messageModule) Priority() int { return 30 }

type messageIn struct {
	Text string `json:"text"`
}

type messageOut struct {
	Message *domain.Message `json:"message"`
	Likes   int64           `json:"likes"`
	Liked   bool            `json:"liked"`
}

type likeOut struct {
	Liked    bool `json:"liked"`
	Declined bool `json:"declined,omitempty"`
}

func (m *messageModule) MountAPI(api *gin.RouterGroup) {
	svc := m.svc

	httpez.RegisterAction(m.ez, httpez.Action[messageIn, *domain.Message]{
		Method: http.MethodPost,
		Path:   "/messages",
		Binder: httpez.BindJSON,
		Auth:   true,
		CSRF:   true,
		Handler: func(c *gin.Context, actor *domain.User, in *messageIn) (*domain.Message, error) {
			return svc.Messages.Create(c.Request.Context(), actor.ID, in.Text)
		},
	})

	httpez.RegisterAction(m.ez, httpez.Action[none, messageOut]{
		Method: http.MethodGet,
		Path:   "/messages/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, actor *domain.User, _ *none) (messageOut, error) {
			ctx := c.Request.Context()
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return messageOut{}, err
			}
			msg, err := svc.Messages.Get(ctx, id)
			if err != nil {
				return messageOut{}, err
			}
			out := messageOut{Message: msg}
			if out.Likes, err = svc.Likes.LikeCount(ctx, id); err != nil {
				return messageOut{}, err
			}
			if out.Liked, err = svc.Likes.IsLiked(ctx, actor.ID, id); err != nil {
				return messageOut{}, err
			}
			return out, nil
		},
	})

	httpez.RegisterAction(m.ez, httpez.Action[none, none]{
		Method: http.MethodPost,
		Path:   "/messages/:id/delete",
		Binder: httpez.BindNone,
		Auth:   true,
		CSRF:   true,
		Handler: func(c *gin.Context, actor *domain.User, _ *none) (none, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return none{}, err
			}
			return none{}, svc.Messages.Delete(c.Request.Context(), id, actor.ID)
		},
	})

	// Liking one's own message is declined without an error.
	httpez.RegisterAction(m.ez, httpez.Action[none, likeOut]{
		Method: http.MethodPost,
		Path:   "/messages/:id/like",
		Binder: httpez.BindNone,
		Auth:   true,
		CSRF:   true,
		Handler: func(c *gin.Context, actor *domain.User, _ *none) (likeOut, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return likeOut{}, err
			}
			res, err := svc.Likes.Toggle(c.Request.Context(), actor.ID, id)
			if errors.Is(err, domain.ErrSelfLike) {
				return likeOut{Declined: true}, nil
			}
			if err != nil {
				return likeOut{}, err
			}
			return likeOut{Liked: res == domain.Liked}, nil
		},
	})
}
