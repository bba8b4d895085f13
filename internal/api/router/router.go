package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/silenter1100/campus-backend/config"
	"github.com/silenter1100/campus-backend/internal/api/handler"
	"github.com/silenter1100/campus-backend/internal/api/middleware"
	"github.com/silenter1100/campus-backend/pkg/jwt"
	"github.com/silenter1100/campus-backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 学期与课程目录（公开只读）
		v1.GET("/semesters", h.Course.ListSemesters)
		v1.GET("/semesters/current", h.Course.GetCurrentSemester)
		v1.GET("/courses", h.Course.ListCourses)

		// 个人课表（需要认证）
		schedule := v1.Group("/schedule")
		schedule.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			schedule.GET("", h.Schedule.GetSchedule)
			schedule.POST("", h.Schedule.AddItems)
			schedule.PATCH("/items/:id", h.Schedule.UpdateItem)
			schedule.DELETE("/items/:id", h.Schedule.DeleteItem)
			// 导入要发起外部 HTTP 拉取，单独限流
			schedule.POST("/import",
				middleware.RateLimit(rdb, 5, time.Minute),
				h.Schedule.ImportICS)
			schedule.GET("/export", h.Schedule.ExportTimetable)
		}
	}

	return r
}
