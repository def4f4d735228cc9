// Package ez registers typed JSON actions on gin groups: one struct per endpoint,
// with binding, the session guard and error mapping done in one place.
package ez

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"warbler/internal/domain"
	mdw "warbler/internal/transport/http/middleware"
	resp "warbler/internal/transport/http/response"
)

// HeaderCSRF carries the anti-forgery token on state-changing requests.
const HeaderCSRF = "X-CSRF-Token"

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindNone  Binder = "none"
)

// Gate resolves the acting user from a session token.
type Gate interface {
	RequireAuthenticated(ctx context.Context, token string) (*domain.User, error)
	VerifyRequestToken(token, presented string) bool
}

// AErr carries an explicit code for errors that do not come from the domain.
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func NotFound(msg string) error   { return &AErr{Code: resp.CodeNotFound, Msg: msg} }

// Action describes one endpoint: I is bound from the request, O is the data payload.
type Action[I any, O any] struct {
	Method string
	Path   string
	Binder Binder
	// Auth requires a live session; the handler receives the user as actor.
	Auth bool
	// CSRF additionally requires X-CSRF-Token to match the session.
	CSRF    bool
	Handler func(c *gin.Context, actor *domain.User, in *I) (O, error)
}

type EZ struct {
	g      *gin.RouterGroup
	gate   Gate
	cookie string
	log    *zap.Logger
}

// New binds a registrar to g. gate may be nil when no action sets Auth.
func New(g *gin.RouterGroup, gate Gate, cookieName string, l *zap.Logger) EZ {
	return EZ{g: g, gate: gate, cookie: cookieName, log: l}
}

// SessionToken reads the session cookie; empty when absent.
func (e EZ) SessionToken(c *gin.Context) string {
	tok, err := c.Cookie(e.cookie)
	if err != nil {
		return ""
	}
	return tok
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var actor *domain.User
		if a.Auth || a.CSRF {
			tok := e.SessionToken(c)
			u, err := e.gate.RequireAuthenticated(c.Request.Context(), tok)
			if err != nil {
				e.Fail(c, err)
				return
			}
			if a.CSRF && !e.gate.VerifyRequestToken(tok, c.GetHeader(HeaderCSRF)) {
				e.Fail(c, domain.ErrForbidden)
				return
			}
			actor = u
			c.Set(mdw.KeyUserID, u.ID)
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			e.Fail(c, BadRequest(bindErr.Error()))
			return
		}

		out, err := a.Handler(c, actor, &in)
		if err != nil {
			e.Fail(c, err)
			return
		}
		if c.Writer.Written() {
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

// Fail writes the envelope for err. Unmapped errors are logged and hidden behind a 500.
func (e EZ) Fail(c *gin.Context, err error) {
	code, msg := FromDomain(err)
	if code == resp.CodeServerError && e.log != nil {
		e.log.Error("action failed",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(resp.Status(code), resp.Error(code, msg))
}

// FromDomain maps an error to a response code and client-facing message.
func FromDomain(err error) (int, string) {
	var ae *AErr
	var ve *domain.ValidationError
	var uv *domain.UniqueViolationError
	switch {
	case errors.As(err, &ae):
		return ae.Code, ae.Error()
	case errors.As(err, &ve):
		return resp.CodeBadRequest, ve.Error()
	case errors.As(err, &uv):
		return resp.CodeConflict, uv.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return resp.CodeUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUnauthorized):
		return resp.CodeUnauthorized, "access unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return resp.CodeForbidden, "access unauthorized"
	case errors.Is(err, domain.ErrNotFound):
		return resp.CodeNotFound, "not found"
	case errors.Is(err, context.DeadlineExceeded):
		return resp.CodeTimeout, "timeout"
	}
	return resp.CodeServerError, "internal error"
}

// ParamID parses a numeric path parameter. Anything else is reported as not found.
func ParamID(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, domain.ErrNotFound
	}
	return uint(v), nil
}
