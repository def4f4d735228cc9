package middleware

import (
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "warbler/internal/transport/http/response"
)

// Recovery logs the panic with its stack and answers with the JSON envelope.
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) {
		abort(c, resp.CodeServerError, "internal error")
	})
}
