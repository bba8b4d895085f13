package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/silenter1100/campus-backend/pkg/jwt"
	"github.com/silenter1100/campus-backend/pkg/redis"
	"github.com/silenter1100/campus-backend/pkg/response"
)

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token。
// rdb 非 nil 时额外检查 Token 黑名单（登出后的 Token 拒绝访问）。
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "Token 类型无效")
			c.Abort()
			return
		}

		if rdb != nil {
			blacklisted, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && blacklisted {
				response.Unauthorized(c, 10002, "Token 已失效")
				c.Abort()
				return
			}
			// Redis 出错时降级放行，避免缓存故障放大为全站不可用
		}

		// 将用户信息注入上下文
		c.Set("user_id", claims.UserID)
		c.Set("student_no", claims.StudentNo)

		c.Next()
	}
}
