package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/camaramunicipal/prestacontas/internal/auth/service"
)

// UserIDKey gin 上下文中当前用户 ID 的键
const UserIDKey = "x-user-id"

// RequireAccess 校验 Authorization: Bearer <access token>
func RequireAccess(tokens *service.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResp{Error: "Token de acesso ausente"})
			return
		}
		id, err := tokens.Parse(raw, service.AccessToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResp{Error: "Token inválido ou expirado"})
			return
		}
		c.Set(UserIDKey, id)
		c.Next()
	}
}

// UserID 只在 RequireAccess 之后可用
func UserID(c *gin.Context) int64 {
	return c.GetInt64(UserIDKey)
}

func bearer(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}
