package ez

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"warbler/internal/domain"
	resp "warbler/internal/transport/http/response"
)

func TestFromDomain(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{&domain.ValidationError{Field: "text", Msg: "is required"}, resp.CodeBadRequest, "text: is required"},
		{&domain.UniqueViolationError{Field: "email"}, resp.CodeConflict, "email already taken"},
		{domain.ErrAlreadyFollowing, resp.CodeConflict, "already following"},
		{domain.ErrInvalidCredentials, resp.CodeUnauthorized, "invalid credentials"},
		{domain.ErrUnauthorized, resp.CodeUnauthorized, "access unauthorized"},
		{fmt.Errorf("delete: %w", domain.ErrForbidden), resp.CodeForbidden, "access unauthorized"},
		{domain.ErrNotFound, resp.CodeNotFound, "not found"},
		{BadRequest("bad json"), resp.CodeBadRequest, "bad json"},
		{context.DeadlineExceeded, resp.CodeTimeout, "timeout"},
		{errors.New("pq: connection refused"), resp.CodeServerError, "internal error"},
	}
	for _, tc := range cases {
		code, msg := FromDomain(tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
		assert.Equal(t, tc.msg, msg, tc.err.Error())
	}
}
