package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/OmPrakashMadasi/restaurant-reservation/config"
	"github.com/OmPrakashMadasi/restaurant-reservation/internal/api/handler"
	"github.com/OmPrakashMadasi/restaurant-reservation/internal/api/middleware"
	"github.com/OmPrakashMadasi/restaurant-reservation/internal/dto"
	"github.com/OmPrakashMadasi/restaurant-reservation/internal/model"
	"github.com/OmPrakashMadasi/restaurant-reservation/internal/repository"
	"github.com/OmPrakashMadasi/restaurant-reservation/pkg/jwt"
	"github.com/OmPrakashMadasi/restaurant-reservation/pkg/redis"
	"github.com/OmPrakashMadasi/restaurant-reservation/pkg/response"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil：此时不校验 Token 黑名单，也不限流
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, repo *repository.Repository, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidators(v); err != nil {
			logger.Fatal("注册自定义校验器失败", zap.Error(err))
		}
	}

	// nil 指针不能直接赋给接口
	var (
		checker middleware.TokenChecker
		limiter middleware.RateLimiter
	)
	if rdb != nil {
		checker = rdb
		limiter = rdb
	}
	rateLimit := middleware.RateLimit(limiter, cfg.Booking.RateLimit.Limit, cfg.Booking.RateLimit.Window)

	r := gin.New()
	cors := middleware.NewCORS(cfg.Server.CORS.AllowOrigins)

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.Handler())
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	api := r.Group("/api")

	// ── 健康检查 ──
	api.GET("/health", func(c *gin.Context) {
		if err := repo.Ping(c.Request.Context()); err != nil {
			logger.Warn("健康检查失败", zap.Error(err))
			response.StorageUnavailable(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 认证模块（无需认证）
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", rateLimit, h.Auth.Login)
	}

	// 需要认证的路由
	authorized := api.Group("")
	authorized.Use(middleware.JWTAuth(jwtMgr, checker))
	{
		authorized.POST("/auth/logout", h.Auth.Logout)
		authorized.GET("/auth/me", h.Auth.Me)

		// 顾客预订
		reservations := authorized.Group("/reservations")
		{
			reservations.GET("/tables", h.Table.ListBookable)
			reservations.POST("", rateLimit, h.Reservation.Create)
			reservations.GET("/my", h.Reservation.ListMine)
			reservations.GET("/my/calendar", h.Export.ExportCalendar)
			reservations.DELETE("/:id", h.Reservation.Delete)
			reservations.POST("/:id/cancel", h.Reservation.Cancel)
		}

		// 管理端
		admin := authorized.Group("/admin")
		admin.Use(middleware.RoleAuth(model.RoleAdmin))
		{
			adminResv := admin.Group("/reservations")
			{
				adminResv.GET("", h.Admin.List)
				adminResv.GET("/export", h.Export.ExportDailySheet)
				adminResv.PATCH("/:id", h.Admin.Patch)
				adminResv.PUT("/:id/status", h.Admin.SetStatus)
				adminResv.DELETE("/:id", h.Admin.Delete)
			}

			tables := admin.Group("/tables")
			{
				tables.GET("", h.Table.ListAll)
				tables.POST("", h.Table.Create)
				tables.PATCH("/:id", h.Table.Update)
				tables.DELETE("/:id", h.Table.Delete)
				tables.PUT("/:id/availability", h.Table.SetAvailability)
			}
		}
	}

	cors.AllowRoutes(r.Routes())
	return r
}
